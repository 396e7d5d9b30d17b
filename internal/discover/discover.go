// Package discover expands command-line path arguments into the
// ordered list of source files an analysis run scans.
package discover

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/unbound-force/zentest/internal/config"
	"github.com/unbound-force/zentest/internal/loader"
)

// Expand returns the source paths for args. Plain files and the
// standard-input token are kept in argument order; each directory is
// replaced by the files under it whose extension is listed in
// scan.Extensions and that pass Filter, sorted by path.
//
// Hidden directories (such as .git) are never descended into.
func Expand(args []string, scan config.ScanConfig) ([]string, error) {
	if len(scan.Extensions) == 0 {
		scan.Extensions = config.DefaultConfig().Scan.Extensions
	}

	var paths []string
	for _, arg := range args {
		if arg == loader.StdinPath {
			paths = append(paths, arg)
			continue
		}

		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("stat %q: %w", arg, err)
		}
		if !info.IsDir() {
			paths = append(paths, arg)
			continue
		}

		found, err := walkDir(arg, scan)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}

func walkDir(root string, scan config.ScanConfig) ([]string, error) {
	var found []string

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		if d.IsDir() {
			base := d.Name()
			if strings.HasPrefix(base, ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !hasExtension(d.Name(), scan.Extensions) {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			return relErr
		}
		if !Filter(rel, scan) {
			return nil
		}

		found = append(found, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %q: %w", root, err)
	}

	sort.Strings(found)
	return found, nil
}
