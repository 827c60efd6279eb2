package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/oezg/StaticCodeAnalyzer/internal/cache"
	"github.com/oezg/StaticCodeAnalyzer/internal/fileproc"
	"github.com/oezg/StaticCodeAnalyzer/internal/output"
	"github.com/oezg/StaticCodeAnalyzer/internal/progress"
	"github.com/oezg/StaticCodeAnalyzer/internal/scanner"
	"github.com/oezg/StaticCodeAnalyzer/pkg/analyzer/style"
	"github.com/oezg/StaticCodeAnalyzer/pkg/config"
)

var version = "dev"

func newApp() *cli.App {
	return &cli.App{
		Name:    "pystyle",
		Usage:   "Python style checker",
		Version: version,
		Description: `Pystyle checks Python sources against the S001-S012 style rules:
line length, indentation, semicolons, comment spacing, TODO markers,
blank lines, def/class spacing, and CamelCase/snake_case naming.

Files that fail to parse still get the text-level checks.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to config file (TOML, YAML, or JSON)",
				EnvVars: []string{"PYSTYLE_CONFIG"},
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "text",
				Usage:   "Output format: text, json, markdown",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "Write output to file",
			},
			&cli.IntFlag{
				Name:  "workers",
				Usage: "Worker count for parallel analysis (0 = auto)",
			},
			&cli.BoolFlag{
				Name:  "no-cache",
				Usage: "Disable result caching",
			},
			&cli.BoolFlag{
				Name:  "no-color",
				Usage: "Disable colored output",
			},
			&cli.BoolFlag{
				Name:  "summary",
				Usage: "Print a per-code issue count table",
			},
		},
		Commands: []*cli.Command{
			checkCmd(),
			cacheCmd(),
		},
		// Bare "pystyle <paths>" behaves like "pystyle check <paths>".
		Action:    runCheckCmd,
		ArgsUsage: "[path...]",
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		if msg := err.Error(); msg != "" {
			color.Red("Error: %v", err)
		}
		os.Exit(1)
	}
}

func checkCmd() *cli.Command {
	return &cli.Command{
		Name:      "check",
		Usage:     "Check Python files and directories for style issues",
		ArgsUsage: "[path...]",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "max-line-length",
				Usage: "Maximum line length (default from config, 79)",
			},
			&cli.IntFlag{
				Name:  "indent-size",
				Usage: "Required indentation multiple (default 4)",
			},
			&cli.IntFlag{
				Name:  "max-blank-lines",
				Usage: "Maximum consecutive blank lines (default 2)",
			},
		},
		Action: runCheckCmd,
	}
}

func runCheckCmd(c *cli.Context) error {
	cfg := loadConfig(c)

	formatter, err := output.NewFormatter(
		output.ParseFormat(c.String("format")),
		c.String("output"),
		colorEnabled(c, cfg),
	)
	if err != nil {
		return err
	}
	defer formatter.Close()

	paths := c.Args().Slice()
	if len(paths) == 0 {
		paths = []string{"."}
	}

	files, err := collectFiles(cfg, paths)
	if err != nil {
		return err
	}
	files, skipped := scanner.FilterBySize(files, cfg.Exclude.MaxFileSize)
	if skipped > 0 {
		formatter.Warning("Skipped %d file(s) over %d bytes", skipped, cfg.Exclude.MaxFileSize)
	}
	if len(files) == 0 {
		formatter.Warning("No Python files found")
		return nil
	}
	sort.Strings(files)

	resultCache, err := openCache(c, cfg)
	if err != nil {
		return fmt.Errorf("failed to open cache: %w", err)
	}

	opts := []style.Option{
		style.WithMaxLineLength(intOr(c, "max-line-length", cfg.Rules.MaxLineLength)),
		style.WithIndentSize(intOr(c, "indent-size", cfg.Rules.IndentSize)),
		style.WithMaxBlankLines(intOr(c, "max-blank-lines", cfg.Rules.MaxBlankLines)),
		style.WithWorkers(intOr(c, "workers", cfg.Workers)),
	}
	if resultCache != nil {
		opts = append(opts, style.WithCache(resultCache))
	}

	styleAnalyzer := style.New(opts...)
	defer styleAnalyzer.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var analysis *style.Analysis
	if useProgress(formatter) {
		tracker := progress.NewTracker("Checking files...", len(files))
		analysis, err = styleAnalyzer.AnalyzeWithProgress(ctx, files, tracker.Tick)
		tracker.FinishSuccess()
	} else {
		analysis, err = styleAnalyzer.Analyze(ctx, files)
	}
	if err != nil {
		// Report files stay free of warnings; this goes to stderr.
		if formatter.Colored() {
			color.New(color.FgYellow).Fprintf(os.Stderr, "some files could not be processed: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "WARNING: some files could not be processed: %v\n", err)
		}
	}

	showSummary := c.Bool("summary") || cfg.Output.Summary
	if err := formatter.Output(output.NewReport(analysis, showSummary)); err != nil {
		return err
	}

	if !analysis.Clean() {
		return cli.Exit("", 1)
	}
	return nil
}

func cacheCmd() *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Manage the result cache",
		Subcommands: []*cli.Command{
			{
				Name:  "clear",
				Usage: "Remove all cached results",
				Action: func(c *cli.Context) error {
					cfg := loadConfig(c)
					formatter, err := output.NewFormatter(output.FormatText, "", colorEnabled(c, cfg))
					if err != nil {
						return err
					}
					resultCache, err := cache.New(cacheDir(cfg), cfg.Cache.TTL, true)
					if err != nil {
						return err
					}
					if err := resultCache.Clear(); err != nil {
						return fmt.Errorf("failed to clear cache: %w", err)
					}
					formatter.Success("Cache cleared")
					return nil
				},
			},
			{
				Name:      "invalidate",
				Usage:     "Drop cached results for the given files",
				ArgsUsage: "<path...>",
				Action: func(c *cli.Context) error {
					paths := c.Args().Slice()
					if len(paths) == 0 {
						return fmt.Errorf("no paths given")
					}
					cfg := loadConfig(c)
					formatter, err := output.NewFormatter(output.FormatText, "", colorEnabled(c, cfg))
					if err != nil {
						return err
					}
					resultCache, err := cache.New(cacheDir(cfg), cfg.Cache.TTL, true)
					if err != nil {
						return err
					}
					_, errs := fileproc.ForEachFile(c.Context, paths, func(path string) (struct{}, error) {
						return struct{}{}, resultCache.Invalidate(path)
					})
					if errs != nil {
						formatter.Error("failed to invalidate some entries: %v", errs)
						return cli.Exit("", 1)
					}
					formatter.Success("Invalidated %d cache entries", len(paths))
					return nil
				},
			},
			{
				Name:  "stats",
				Usage: "Show cache statistics",
				Action: func(c *cli.Context) error {
					cfg := loadConfig(c)
					formatter, err := output.NewFormatter(
						output.ParseFormat(c.String("format")),
						c.String("output"),
						colorEnabled(c, cfg),
					)
					if err != nil {
						return err
					}
					defer formatter.Close()

					resultCache, err := cache.New(cacheDir(cfg), cfg.Cache.TTL, true)
					if err != nil {
						return err
					}
					stats, err := resultCache.GetStats()
					if err != nil {
						return fmt.Errorf("failed to read cache stats: %w", err)
					}

					rows := [][]string{
						{"Entries", fmt.Sprintf("%d", stats.Entries)},
						{"Total size", fmt.Sprintf("%d bytes", stats.TotalSize)},
					}
					if stats.Entries > 0 {
						rows = append(rows,
							[]string{"Oldest", stats.OldestAge.Round(time.Second).String() + " ago"},
							[]string{"Newest", stats.NewestAge.Round(time.Second).String() + " ago"},
						)
					}
					return formatter.Output(&output.Table{
						Title:   "Cache",
						Headers: []string{"Metric", "Value"},
						Rows:    rows,
						Data:    stats,
					})
				},
			},
		},
	}
}

// collectFiles expands each argument: directories are scanned
// recursively, files go through the same Python source check the
// scanner applies during walks.
func collectFiles(cfg *config.Config, paths []string) ([]string, error) {
	scan := scanner.New(cfg)

	var files []string
	for _, path := range paths {
		info, err := os.Stat(path)
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s does not exist", path)
		}
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}

		if info.IsDir() {
			found, err := scan.ScanDir(path)
			if err != nil {
				return nil, fmt.Errorf("failed to scan directory %s: %w", path, err)
			}
			files = append(files, found...)
			continue
		}

		ok, err := scan.ShouldAnalyze(path)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", path, err)
		}
		if !ok {
			return nil, fmt.Errorf("%s is not an analyzable Python file", path)
		}
		files = append(files, path)
	}
	return files, nil
}

func loadConfig(c *cli.Context) *config.Config {
	if path := c.String("config"); path != "" {
		cfg, err := config.Load(path)
		if err != nil {
			color.Yellow("Failed to load config %s: %v (using defaults)", path, err)
			return config.DefaultConfig()
		}
		return cfg
	}
	return config.LoadOrDefault()
}

func openCache(c *cli.Context, cfg *config.Config) (*cache.Cache, error) {
	enabled := cfg.Cache.Enabled && !c.Bool("no-cache")
	if !enabled {
		return nil, nil
	}
	return cache.New(cacheDir(cfg), cfg.Cache.TTL, true)
}

func cacheDir(cfg *config.Config) string {
	if cfg.Cache.Dir != "" {
		return cfg.Cache.Dir
	}
	return cache.DefaultDir()
}

// intOr prefers an explicitly set flag over the config value.
func intOr(c *cli.Context, name string, fallback int) int {
	if c.IsSet(name) {
		return c.Int(name)
	}
	return fallback
}

// useProgress draws the bar only for interactive text runs going to
// stdout on a terminal; JSON and file output stay clean.
func useProgress(f *output.Formatter) bool {
	if f.Format() != output.FormatText || f.Writer() != os.Stdout {
		return false
	}
	info, err := os.Stderr.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

func colorEnabled(c *cli.Context, cfg *config.Config) bool {
	if c.Bool("no-color") {
		return false
	}
	return cfg.Output.Color
}
