package cli

import (
	"context"
	"encoding/json"
	stdErrors "errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"sync"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/loader"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/output"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/telemetry"
)

type ValidateCmd struct {
	File FileOrStdin `help:"Batch JSON filename (use '-' for stdin, or omit for stdin)." arg:"" optional:""`

	Report         string   `help:"Write the full JSON report to this file." type:"path"`
	Tolerance      string   `help:"Absolute tolerance for amount comparisons." default:"0.01"`
	DateRangeYears int      `help:"Years around today considered a reasonable invoice date." default:"2"`
	Currencies     []string `help:"Allowed currency codes (overrides the default set)."`
	Workers        int      `help:"Number of records validated concurrently (0 = number of CPUs)."`
	Watch          bool     `help:"Re-run validation whenever the batch file changes." short:"w"`
}

func (cmd *ValidateCmd) Run(ctx *kong.Context, globals *Globals) error {
	if err := cmd.File.EnsureContents(); err != nil {
		return err
	}

	runCtx := context.Background()

	var collector telemetry.Collector
	var validateTimer telemetry.Timer
	var once sync.Once

	reportTelemetry := func() {
		once.Do(func() {
			if collector != nil {
				validateTimer.End()
				_, _ = fmt.Fprintln(ctx.Stderr)
				collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
			}
		})
	}

	if globals.Telemetry {
		collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		validateTimer = collector.Start(fmt.Sprintf("validate %s", filepath.Base(cmd.File.Filename)))

		defer reportTelemetry()
	}

	eng, err := cmd.buildEngine()
	if err != nil {
		printError(ctx.Stderr, err.Error())
		reportTelemetry()
		return NewCommandError(2)
	}

	ldr := loader.New()

	if cmd.Watch {
		if cmd.File.IsStdin() {
			printError(ctx.Stderr, "--watch requires a batch file, not stdin")
			reportTelemetry()
			return NewCommandError(2)
		}
		err := cmd.watch(ctx, runCtx, eng, ldr)
		reportTelemetry()
		return err
	}

	if err := cmd.runOnce(ctx, runCtx, eng, ldr); err != nil {
		reportTelemetry()
		return err
	}

	return nil
}

// runOnce performs a single load-validate-render pass. Load and batch
// failures map to exit code 2, invalid invoices to exit code 1.
func (cmd *ValidateCmd) runOnce(ctx *kong.Context, runCtx context.Context, eng *engine.Engine, ldr *loader.Loader) error {
	records, err := cmd.File.LoadRecords(runCtx, ldr)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(2)
	}

	report, err := eng.Validate(runCtx, records)
	if err != nil {
		var batchErr *engine.BatchError
		if stdErrors.As(err, &batchErr) {
			printError(ctx.Stderr, batchErr.Error())
			return NewCommandError(2)
		}
		return err
	}

	renderReport(ctx.Stdout, report)

	if cmd.Report != "" {
		if err := writeReportFile(cmd.Report, report); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stdout, "Report saved to %s", pathStyle.Render(cmd.Report))
	}

	if report.Summary.InvalidCount > 0 {
		return NewCommandError(1)
	}

	return nil
}

// watch validates once, then re-runs on every change to the batch file
// until interrupted. A failing run keeps the watch alive.
func (cmd *ValidateCmd) watch(ctx *kong.Context, runCtx context.Context, eng *engine.Engine, ldr *loader.Loader) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	file := cmd.File.GetAbsoluteFilename()
	if err := watcher.Add(file); err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(2)
	}

	sigCtx, stop := signal.NotifyContext(runCtx, os.Interrupt)
	defer stop()

	run := func() {
		if err := cmd.runOnce(ctx, runCtx, eng, ldr); err != nil {
			var cmdErr *CommandError
			if !stdErrors.As(err, &cmdErr) {
				printError(ctx.Stderr, err.Error())
			}
		}
		_, _ = fmt.Fprintln(ctx.Stdout)
		printInfof(ctx.Stdout, "Watching %s for changes", pathStyle.Render(file))
	}

	run()

	// Debounce timer - editors often write files in multiple steps
	const debounceDelay = 100 * time.Millisecond
	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	runs := make(chan struct{}, 1)

	for {
		select {
		case <-sigCtx.Done():
			return nil

		case <-runs:
			run()
			// Re-add the file, atomic saves replace the watched inode
			if err := watcher.Add(file); err != nil {
				printWarning(ctx.Stderr, fmt.Sprintf("failed to watch %s: %v", file, err))
			}

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(debounceDelay, func() {
				select {
				case runs <- struct{}{}:
				default:
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			printWarning(ctx.Stderr, err.Error())
		}
	}
}

// buildEngine translates the command flags into an engine configuration.
func (cmd *ValidateCmd) buildEngine() (*engine.Engine, error) {
	cfg := engine.NewConfig()

	tolerance, err := decimal.NewFromString(cmd.Tolerance)
	if err != nil {
		return nil, fmt.Errorf("invalid tolerance %q: %w", cmd.Tolerance, err)
	}
	cfg.Tolerance = tolerance
	cfg.DateRangeYears = cmd.DateRangeYears
	if len(cmd.Currencies) > 0 {
		cfg.AllowedCurrencies = cmd.Currencies
	}

	var opts []engine.Option
	if cmd.Workers > 0 {
		opts = append(opts, engine.WithWorkers(cmd.Workers))
	}

	return engine.New(cfg, opts...)
}

// writeReportFile serializes the report with indentation, matching what
// the web API returns.
func writeReportFile(path string, report *engine.Report) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize report: %w", err)
	}
	data = append(data, '\n')

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
