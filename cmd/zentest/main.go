package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	charmlog "github.com/charmbracelet/log"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/unbound-force/zentest/internal/config"
	"github.com/unbound-force/zentest/internal/discover"
	"github.com/unbound-force/zentest/internal/engine"
	"github.com/unbound-force/zentest/internal/loader"
	"github.com/unbound-force/zentest/internal/report"
	"github.com/unbound-force/zentest/internal/rubysym"
	"github.com/unbound-force/zentest/internal/scaffold"
	"github.com/unbound-force/zentest/internal/symtab"
	"github.com/unbound-force/zentest/internal/taxonomy"
)

// logger is the application-wide structured logger (writes to stderr).
var logger = charmlog.NewWithOptions(os.Stderr, charmlog.Options{
	ReportTimestamp: false,
})

// Set by build flags.
var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "zentest",
		Short: "ZenTest: find the methods and tests your Ruby code is missing",
		Long: `ZenTest scans Ruby sources, pairs every class with its test class
by naming convention, and reports the methods without tests and the
tests without methods. Missing pieces are emitted as ready-to-fill
Ruby stubs.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(newAnalyzeCmd())
	root.AddCommand(newSymbolsCmd())
	root.AddCommand(newScaffoldCmd())
	root.AddCommand(newSchemaCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// flagOverrides holds the flags that override configuration file
// values. A nil field was not given on the command line.
type flagOverrides struct {
	reverse *bool
	debug   *bool
	verbose *bool
	symbols *string
}

// loadConfig reads the configuration file at path (or the default
// file) and applies the command-line overrides.
func loadConfig(path string, o flagOverrides) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if o.reverse != nil {
		cfg.Reverse = *o.reverse
	}
	if o.debug != nil {
		cfg.Debug = *o.debug
	}
	if o.verbose != nil {
		cfg.Verbose = *o.verbose
	}
	if o.symbols != nil {
		cfg.Symbols = *o.symbols
	}
	return cfg, nil
}

// overridesFrom collects the override flags the user actually set.
func overridesFrom(cmd *cobra.Command, reverse, debug, verbose *bool, symbols *string) flagOverrides {
	var o flagOverrides
	if cmd.Flags().Changed("reverse") {
		o.reverse = reverse
	}
	if cmd.Flags().Changed("debug") {
		o.debug = debug
	}
	if cmd.Flags().Changed("verbose") {
		o.verbose = verbose
	}
	if cmd.Flags().Changed("symbols") {
		o.symbols = symbols
	}
	return o
}

// analysisInput names what a run analyzes: source paths or, for
// direct class analysis, class names.
type analysisInput struct {
	paths   []string
	classes []string
	stdin   io.Reader
}

// runEngine loads the sources (or resolves the classes) in in and runs
// one analysis. The returned introspector answers KindOf for
// rendering.
func runEngine(ctx context.Context, in analysisInput, cfg *config.Config) (*taxonomy.Result, *symtab.Introspector, error) {
	if len(in.paths) == 0 && len(in.classes) == 0 {
		return nil, nil, errors.New("nothing to analyze: give source paths or --class")
	}
	if len(in.paths) > 0 && len(in.classes) > 0 {
		return nil, nil, errors.New("--class cannot be combined with source paths")
	}

	if cfg.Debug {
		logger.SetLevel(charmlog.DebugLevel)
	}

	intro, err := engine.NewIntrospector(*cfg)
	if err != nil {
		return nil, nil, err
	}
	opts := engine.Options{
		Config:       *cfg,
		Introspector: intro,
		Logger:       logger,
		Version:      version,
	}

	if len(in.classes) > 0 {
		logger.Info("analyzing classes", "classes", in.classes)
		res, err := engine.AnalyzeClasses(ctx, in.classes, opts)
		return res, intro, err
	}

	sources, err := loadSources(in.paths, cfg.Scan, in.stdin)
	if err != nil {
		return nil, nil, err
	}
	logger.Info("analyzing sources", "files", len(sources))
	res, err := engine.Fix(ctx, sources, opts)
	return res, intro, err
}

// loadSources expands directory arguments and reads every source.
func loadSources(args []string, scan config.ScanConfig, stdin io.Reader) ([]loader.Source, error) {
	paths, err := discover.Expand(args, scan)
	if err != nil {
		return nil, err
	}
	for _, p := range paths {
		if p == loader.StdinPath && isTerminal(stdin) {
			logger.Info("reading Ruby source from standard input; end with Ctrl-D")
			break
		}
	}
	return loader.LoadAll(paths, stdin)
}

// isTerminal reports whether v is an *os.File attached to a terminal.
func isTerminal(v any) bool {
	f, ok := v.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// analyzeParams holds the parsed flags for the analyze command.
type analyzeParams struct {
	ctx         context.Context
	input       analysisInput
	format      string
	configPath  string
	overrides   flagOverrides
	interactive bool
	fail        bool
	stdout      io.Writer
}

// runAnalyze is the extracted, testable body of the analyze command.
func runAnalyze(p analyzeParams) error {
	if p.format != "ruby" && p.format != "text" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'ruby', 'text', or 'json'", p.format)
	}
	if p.ctx == nil {
		p.ctx = context.Background()
	}

	cfg, err := loadConfig(p.configPath, p.overrides)
	if err != nil {
		return err
	}

	res, intro, err := runEngine(p.ctx, p.input, cfg)
	if err != nil {
		return err
	}

	logger.Info("analysis complete",
		"classes", len(res.Stubs),
		"missing", res.MissingCount(),
		"errors", res.Errors)

	if p.interactive {
		if !isTerminal(p.stdout) {
			return errors.New("--interactive requires a terminal")
		}
		if err := runInteractiveAnalyze(res); err != nil {
			return err
		}
		return checkErrors(res, p.fail)
	}

	switch p.format {
	case "json":
		err = report.WriteJSON(p.stdout, res)
	case "text":
		err = report.WriteText(p.stdout, res)
	default:
		err = report.WriteRuby(p.stdout, res, report.RubyOptions{
			Version: version,
			KindOf:  intro.KindOf,
			Verbose: cfg.Verbose,
		})
	}
	if err != nil {
		return err
	}

	return checkErrors(res, p.fail)
}

// checkErrors returns an error when fail is set and gaps were found.
func checkErrors(res *taxonomy.Result, fail bool) error {
	if fail && res.Errors > 0 {
		return fmt.Errorf("%d errors detected", res.Errors)
	}
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	var (
		classes     []string
		format      string
		configPath  string
		reverse     bool
		debug       bool
		verbose     bool
		symbols     string
		interactive bool
		fail        bool
	)

	cmd := &cobra.Command{
		Use:   "analyze [paths...|-]",
		Short: "Report missing methods and tests",
		Long: `Scan Ruby sources (files, directories, or "-" for standard input),
pair each class with its test class, and report the methods that
have no test and the tests that have no method.

With --class, the named classes are analyzed from the symbol table
alone and no source is scanned.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(analyzeParams{
				ctx: cmd.Context(),
				input: analysisInput{
					paths:   args,
					classes: classes,
					stdin:   os.Stdin,
				},
				format:      format,
				configPath:  configPath,
				overrides:   overridesFrom(cmd, &reverse, &debug, &verbose, &symbols),
				interactive: interactive,
				fail:        fail,
				stdout:      os.Stdout,
			})
		},
	}

	cmd.Flags().StringArrayVar(&classes, "class", nil,
		"analyze a class by name instead of scanning sources (repeatable)")
	cmd.Flags().StringVar(&format, "format", "ruby",
		"output format: ruby, text, or json")
	addConfigFlags(cmd, &configPath, &reverse, &debug, &verbose, &symbols)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false,
		"launch interactive TUI for browsing results")
	cmd.Flags().BoolVar(&fail, "fail", true,
		"exit nonzero when any gap is detected")

	return cmd
}

func addConfigFlags(cmd *cobra.Command, configPath *string, reverse, debug, verbose *bool, symbols *string) {
	cmd.Flags().StringVar(configPath, "config", "",
		"configuration file (default: "+config.DefaultFile+" if present)")
	cmd.Flags().BoolVar(reverse, "reverse", false,
		"test classes use a suffix (FooTest) instead of a prefix (TestFoo)")
	cmd.Flags().BoolVar(debug, "debug", false,
		"log discovery and skipped-method details")
	cmd.Flags().BoolVarP(verbose, "verbose", "v", false,
		"list discovered classes in the report")
	cmd.Flags().StringVar(symbols, "symbols", "",
		"precomputed symbol table file (YAML or JSON)")
}

// symbolsParams holds the parsed flags for the symbols command.
type symbolsParams struct {
	ctx        context.Context
	paths      []string
	format     string
	configPath string
	stdin      io.Reader
	stdout     io.Writer
}

// runSymbols is the extracted, testable body of the symbols command.
// It writes the classes declared in the sources as a symbol file.
func runSymbols(p symbolsParams) error {
	if p.format != "yaml" && p.format != "json" {
		return fmt.Errorf("invalid format %q: must be 'yaml' or 'json'", p.format)
	}
	if len(p.paths) == 0 {
		return errors.New("no source paths given")
	}
	if p.ctx == nil {
		p.ctx = context.Background()
	}

	cfg, err := config.Load(p.configPath)
	if err != nil {
		return err
	}
	sources, err := loadSources(p.paths, cfg.Scan, p.stdin)
	if err != nil {
		return err
	}

	table := symtab.New()
	parser := rubysym.NewParser()
	for _, src := range sources {
		classes, err := parser.Extract(p.ctx, src)
		if err != nil {
			return fmt.Errorf("extracting %s: %w", src.Path, err)
		}
		table.AddAll(classes)
	}
	logger.Info("extracted symbols", "files", len(sources), "classes", table.Len())

	if p.format == "json" {
		return symtab.WriteJSON(p.stdout, table)
	}
	return symtab.WriteYAML(p.stdout, table)
}

func newSymbolsCmd() *cobra.Command {
	var (
		format     string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "symbols [paths...|-]",
		Short: "Dump the symbol table extracted from Ruby sources",
		Long: `Extract the classes, modules, and public methods declared in Ruby
sources and print them as a symbol file. The output can be passed
back with --symbols to analyze classes whose sources are not
scanned.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSymbols(symbolsParams{
				ctx:        cmd.Context(),
				paths:      args,
				format:     format,
				configPath: configPath,
				stdin:      os.Stdin,
				stdout:     os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&format, "format", "yaml",
		"output format: yaml or json")
	cmd.Flags().StringVar(&configPath, "config", "",
		"configuration file (default: "+config.DefaultFile+" if present)")

	return cmd
}

// scaffoldParams holds the parsed flags for the scaffold command.
type scaffoldParams struct {
	ctx        context.Context
	input      analysisInput
	dir        string
	force      bool
	configPath string
	overrides  flagOverrides
	stdout     io.Writer
}

// runScaffold is the extracted, testable body of the scaffold command.
func runScaffold(p scaffoldParams) error {
	if p.ctx == nil {
		p.ctx = context.Background()
	}

	cfg, err := loadConfig(p.configPath, p.overrides)
	if err != nil {
		return err
	}
	res, intro, err := runEngine(p.ctx, p.input, cfg)
	if err != nil {
		return err
	}

	_, err = scaffold.Run(res, scaffold.Options{
		TargetDir: p.dir,
		Force:     p.force,
		Version:   version,
		KindOf:    intro.KindOf,
		Stdout:    p.stdout,
	})
	return err
}

func newScaffoldCmd() *cobra.Command {
	var (
		dir        string
		force      bool
		configPath string
		reverse    bool
		debug      bool
		verbose    bool
		symbols    string
	)

	cmd := &cobra.Command{
		Use:   "scaffold [paths...|-]",
		Short: "Write missing stubs to one Ruby file per class",
		Long: `Analyze Ruby sources and write each class with missing methods to
its own file under --dir, named after the class in snake_case
(Foo::BarBaz becomes foo/bar_baz.rb).

Existing files are skipped unless --force is given.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScaffold(scaffoldParams{
				ctx: cmd.Context(),
				input: analysisInput{
					paths: args,
					stdin: os.Stdin,
				},
				dir:        dir,
				force:      force,
				configPath: configPath,
				overrides:  overridesFrom(cmd, &reverse, &debug, &verbose, &symbols),
				stdout:     os.Stdout,
			})
		},
	}

	cmd.Flags().StringVar(&dir, "dir", "",
		"directory to write stub files into (default: current directory)")
	cmd.Flags().BoolVar(&force, "force", false,
		"overwrite existing files")
	addConfigFlags(cmd, &configPath, &reverse, &debug, &verbose, &symbols)

	return cmd
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for zentest analysis output",
		Long: `Print the JSON Schema (Draft 2020-12) that documents the
structure of zentest analyze --format=json output. Useful for
validating output or generating client types.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), report.Schema)
			return err
		},
	}
}
