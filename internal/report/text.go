package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/unbound-force/zentest/internal/taxonomy"
)

// WriteText writes the analysis result as human-readable styled text
// to the writer. Output uses lipgloss for color and formatting when
// the output is a TTY; degrades gracefully for pipes and CI.
func WriteText(w io.Writer, result *taxonomy.Result) error {
	s := DefaultStyles()

	if len(result.Coverage) > 0 {
		fmt.Fprintln(w, s.Header.Render("=== Coverage ==="))
		fmt.Fprintln(w, coverageTable(result.Coverage, s))
		fmt.Fprintln(w)
	}

	if len(result.FoundClasses) > 0 || len(result.FoundTestClasses) > 0 {
		fmt.Fprintln(w, s.SubHeader.Render("Classes:      "+strings.Join(result.FoundClasses, ", ")))
		fmt.Fprintln(w, s.SubHeader.Render("Test classes: "+strings.Join(result.FoundTestClasses, ", ")))
		fmt.Fprintln(w)
	}

	if len(result.Stubs) == 0 {
		fmt.Fprintln(w, s.Muted.Render("No missing methods detected."))
	} else {
		fmt.Fprintln(w, s.Header.Render("=== Missing ==="))
		fmt.Fprintln(w, missingTable(result.Stubs, s))
	}

	warnings := 0
	for _, d := range result.Diagnostics {
		if taxonomy.SeverityOf(d.Kind) != taxonomy.SeverityDebug {
			warnings++
		}
	}
	if warnings > 0 {
		fmt.Fprintln(w, s.Muted.Render(fmt.Sprintf("%d warning(s); run with --debug for details", warnings)))
	}

	status := s.Pass
	if result.Errors > 0 {
		status = s.Fail
	}
	fmt.Fprintf(w, "\n%s\n", status.Render(fmt.Sprintf(
		"%d missing method(s) in %d class(es), %d error(s) detected",
		result.MissingCount(), len(result.Stubs), result.Errors)))

	return nil
}

func coverageTable(rows []taxonomy.CoverageRow, s Styles) *table.Table {
	cells := make([][]string, 0, len(rows))
	for _, r := range rows {
		cells = append(cells, []string{
			r.Class,
			strconv.Itoa(r.Assertions),
			strconv.Itoa(r.Methods),
			formatRatio(r.Ratio),
		})
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 3 && row >= 0 && row < len(rows) {
				return s.RatioStyle(rows[row].Ratio)
			}
			return s.TableCell
		}).
		Headers("CLASS", "ASSERTS", "METHODS", "RATIO").
		Rows(cells...)
}

func missingTable(stubs []taxonomy.StubSpec, s Styles) *table.Table {
	var cells [][]string
	for _, spec := range stubs {
		for _, m := range spec.ClassMethods {
			cells = append(cells, []string{spec.FullName, "class", m})
		}
		for _, m := range spec.InstanceMethods {
			cells = append(cells, []string{spec.FullName, "instance", m})
		}
	}

	return table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(s.Border).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.TableHeader
			}
			if col == 1 && row >= 0 && row < len(cells) && cells[row][1] == "class" {
				return s.ClassLevel
			}
			return s.TableCell
		}).
		Headers("CLASS", "LEVEL", "METHOD").
		Rows(cells...)
}

func formatRatio(r float64) string {
	return strconv.FormatFloat(r, 'f', 2, 64) + "%"
}
