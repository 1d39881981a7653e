package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fenilsonani/devclean/internal/cleaner"
	"github.com/fenilsonani/devclean/internal/config"
	"github.com/fenilsonani/devclean/internal/filter"
	"github.com/fenilsonani/devclean/internal/project"
	"github.com/fenilsonani/devclean/internal/reporter"
	"github.com/fenilsonani/devclean/internal/scanner"
	"github.com/fenilsonani/devclean/internal/ui"
	"github.com/fenilsonani/devclean/pkg/utils"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	verbose    bool

	rustOnly   bool
	nodeOnly   bool
	pythonOnly bool
	goOnly     bool

	keepSize string
	keepDays int
	sortKey  string
	reverse  bool

	threads int
	skip    []string
	ignore  []string

	dryRun          bool
	yes             bool
	interactive     bool
	keepExecutables bool

	outputFmt  string
	outputFile string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devclean [dir]",
	Short: "Clean build artifacts from development projects",
	Long: `devclean recursively finds Rust, Node.js, Python, and Go projects under a
directory and removes their build artifacts and dependency caches
(target/, node_modules/, __pycache__/, vendor/, ...) to reclaim disk space.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Display current configuration",
	Long:  `Shows the config file location and creates a default one if missing.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfgPath, err := config.EnsureConfigExists()
		if err != nil {
			return err
		}

		fmt.Printf("Config file: %s\n", cfgPath)

		data, err := os.ReadFile(cfgPath)
		if err != nil {
			return err
		}
		fmt.Println()
		os.Stdout.Write(data)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "verbose output")

	rootCmd.Flags().BoolVar(&rustOnly, "rust-only", false, "only clean Rust projects")
	rootCmd.Flags().BoolVar(&nodeOnly, "node-only", false, "only clean Node.js projects")
	rootCmd.Flags().BoolVar(&pythonOnly, "python-only", false, "only clean Python projects")
	rootCmd.Flags().BoolVar(&goOnly, "go-only", false, "only clean Go projects")

	rootCmd.Flags().StringVarP(&keepSize, "keep-size", "s", "", "ignore projects with artifacts smaller than this size (e.g. 100MB, 2GiB)")
	rootCmd.Flags().IntVarP(&keepDays, "keep-days", "d", 0, "ignore projects built within the last N days")
	rootCmd.Flags().StringVar(&sortKey, "sort", "", "sort projects by size, name, type, or age")
	rootCmd.Flags().BoolVar(&reverse, "reverse", false, "reverse the sort order")

	rootCmd.Flags().IntVarP(&threads, "threads", "t", 0, "number of parallel workers (0 = one per CPU)")
	rootCmd.Flags().StringSliceVar(&skip, "skip", nil, "directory names or paths to skip while scanning")
	rootCmd.Flags().StringSliceVar(&ignore, "ignore", nil, "path prefixes to exclude from results")

	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without deleting")
	rootCmd.Flags().BoolVarP(&yes, "yes", "y", false, "delete without prompting")
	rootCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "pick projects to clean interactively")
	rootCmd.Flags().BoolVar(&keepExecutables, "keep-executables", false, "copy built binaries to <project>/bin before deleting")

	rootCmd.Flags().StringVarP(&outputFmt, "output", "o", "", "output format (summary, table, json, yaml)")
	rootCmd.Flags().StringVar(&outputFile, "file", "", "save the report to a file")

	rootCmd.AddCommand(configCmd)
}

func run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyFlags(cmd, cfg)

	dir := cfg.Dir
	if len(args) > 0 {
		dir = args[0]
	}

	kind, kindSet, err := resolveKind(cfg)
	if err != nil {
		return err
	}

	minSize, err := resolveKeepSize(cfg)
	if err != nil {
		return err
	}

	if sortKey == "" {
		sortKey = cfg.Filtering.Sort
	}
	if !project.ValidSortCriterion(sortKey) {
		return fmt.Errorf("invalid sort criterion %q (want size, name, type, or age)", sortKey)
	}

	if outputFmt == "" {
		outputFmt = string(reporter.FormatSummary)
	}
	if !reporter.ValidFormat(outputFmt) {
		return fmt.Errorf("invalid output format %q (want summary, table, json, or yaml)", outputFmt)
	}
	format := reporter.OutputFormat(outputFmt)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Scan
	fmt.Printf("Scanning %s...\n", dir)
	scnr := scanner.New(scanner.ScanOptions{
		Threads:     cfg.Scanning.Threads,
		SkipDirs:    cfg.Scanning.Skip,
		IgnorePaths: cfg.Scanning.Ignore,
	}, kind, kindSet)

	result, err := scnr.Scan(ctx, dir)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	if err := scnr.ComputeSizes(ctx, result); err != nil {
		return fmt.Errorf("size calculation failed: %w", err)
	}

	if cfg.Scanning.Verbose {
		for _, scanErr := range result.Errors {
			fmt.Fprintf(os.Stderr, "warning: %v\n", scanErr)
		}
	}

	// Filter and sort
	projects := filter.Apply(result.Projects, filter.Criteria{
		Kind:       kind,
		KindSet:    kindSet,
		MinSize:    minSize,
		MaxAgeDays: cfg.Filtering.KeepDays,
	})
	projects.SortBy(project.SortCriterion(sortKey), cfg.Filtering.Reverse)

	if len(projects) == 0 {
		fmt.Println("\n✨ No projects with cleanable artifacts found.")
		return nil
	}

	// Report
	rptr := reporter.New(os.Stdout, format)
	if err := rptr.Report(projects); err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}
	if outputFile != "" {
		if err := reporter.SaveToFile(projects, outputFile, format); err != nil {
			return fmt.Errorf("failed to save report: %w", err)
		}
		fmt.Printf("Report saved to: %s\n", outputFile)
	}

	// Select
	selected, err := selectProjects(cfg, projects)
	if err != nil {
		return err
	}
	if len(selected) == 0 {
		fmt.Println("Cleanup cancelled")
		return nil
	}

	// Clean
	if cfg.Execution.DryRun {
		fmt.Println("\n[DRY RUN MODE] No directories will be deleted.")
	} else {
		fmt.Println("\nCleaning...")
	}

	clnr := cleaner.New(cleaner.Options{
		DryRun:          cfg.Execution.DryRun,
		KeepExecutables: cfg.Execution.KeepExecutables,
		Threads:         cfg.Scanning.Threads,
	})
	cleanResult, err := clnr.Clean(ctx, selected)
	if err != nil {
		return fmt.Errorf("clean failed: %w", err)
	}

	printCleanResult(cleanResult)
	return nil
}

// selectProjects decides which of the filtered projects get cleaned, either
// via the interactive picker or a y/N prompt. Dry-run and -y skip both.
func selectProjects(cfg *config.Config, projects project.Projects) (project.Projects, error) {
	if cfg.Execution.DryRun || cfg.Execution.Yes {
		return projects, nil
	}

	if cfg.Execution.Interactive {
		if !isatty.IsTerminal(os.Stdout.Fd()) && !isatty.IsCygwinTerminal(os.Stdout.Fd()) {
			return nil, fmt.Errorf("interactive mode requires a terminal")
		}
		selected, ok, err := ui.RunSelect(projects)
		if err != nil {
			return nil, fmt.Errorf("interactive selection failed: %w", err)
		}
		if !ok {
			return nil, nil
		}
		return selected, nil
	}

	fmt.Printf("\nDelete artifacts of %d projects (%s)? (y/N): ",
		len(projects), utils.FormatBytes(projects.TotalSize()))
	var response string
	fmt.Scanln(&response)
	if response != "y" && response != "Y" {
		return nil, nil
	}
	return projects, nil
}

func printCleanResult(result *cleaner.CleanResult) {
	if result.DryRun {
		fmt.Println()
		fmt.Println(ui.BoldStyle.Render(fmt.Sprintf("📊 Would delete %d artifact directories, freeing %s",
			len(result.CleanedProjects), utils.FormatBytes(result.FreedSize))))
		return
	}

	fmt.Println()
	fmt.Println(ui.SuccessStyle.Render(fmt.Sprintf("✅ Deleted %d artifact directories, freed %s",
		len(result.CleanedProjects), utils.FormatBytes(result.FreedSize))))

	if len(result.SkippedProjects) > 0 {
		fmt.Println(ui.WarningStyle.Render(fmt.Sprintf("⚠️  Skipped %d already-removed directories",
			len(result.SkippedProjects))))
	}

	if len(result.Errors) > 0 {
		fmt.Println(ui.ErrorStyle.Render(fmt.Sprintf("❌ %d directories could not be removed:", len(result.Errors))))
		for _, delErr := range result.Errors {
			fmt.Printf("   %v\n", delErr)
		}
	}
}

// applyFlags overlays flag values onto the loaded config. Only flags the
// user actually set override file values.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("keep-size") {
		cfg.Filtering.KeepSize = keepSize
	}
	if flags.Changed("keep-days") {
		cfg.Filtering.KeepDays = keepDays
	}
	if flags.Changed("reverse") {
		cfg.Filtering.Reverse = reverse
	}
	if flags.Changed("threads") {
		cfg.Scanning.Threads = threads
	}
	if flags.Changed("verbose") {
		cfg.Scanning.Verbose = verbose
	}
	if flags.Changed("skip") {
		cfg.Scanning.Skip = skip
	}
	if flags.Changed("ignore") {
		cfg.Scanning.Ignore = ignore
	}
	if flags.Changed("dry-run") {
		cfg.Execution.DryRun = dryRun
	}
	if flags.Changed("yes") {
		cfg.Execution.Yes = yes
	}
	if flags.Changed("interactive") {
		cfg.Execution.Interactive = interactive
	}
	if flags.Changed("keep-executables") {
		cfg.Execution.KeepExecutables = keepExecutables
	}
}

func resolveKind(cfg *config.Config) (project.Type, bool, error) {
	set := 0
	var name string
	if rustOnly {
		set++
		name = "rust"
	}
	if nodeOnly {
		set++
		name = "node"
	}
	if pythonOnly {
		set++
		name = "python"
	}
	if goOnly {
		set++
		name = "go"
	}
	if set > 1 {
		return 0, false, fmt.Errorf("at most one of --rust-only, --node-only, --python-only, --go-only may be given")
	}
	if set == 0 {
		name = cfg.ProjectType
	}
	return project.ParseType(name)
}

func resolveKeepSize(cfg *config.Config) (int64, error) {
	s := cfg.Filtering.KeepSize
	if s == "" {
		return 0, nil
	}
	minSize, err := utils.ParseSize(s)
	if err != nil {
		return 0, fmt.Errorf("invalid --keep-size: %w", err)
	}
	return minSize, nil
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}

	cfgPath, err := config.GetConfigPath()
	if err != nil {
		return nil, err
	}

	return config.Load(cfgPath)
}
