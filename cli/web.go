package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/shopspring/decimal"

	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/engine"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/output"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/telemetry"
	"github.com/Praneeth1-O-1/invoice-extraction-validation-system/web"
)

type WebCmd struct {
	File string `help:"Batch JSON file to serve and watch (optional, API-only without it)." arg:"" optional:""`
	Port int    `help:"Port to listen on." default:"8080"`

	Create  bool `help:"Automatically create the batch file if it doesn't exist (no confirmation prompt)." short:"c"`
	NoWatch bool `help:"Disable revalidation on batch file changes."`

	Tolerance      string   `help:"Absolute tolerance for amount comparisons." default:"0.01"`
	DateRangeYears int      `help:"Years around today considered a reasonable invoice date." default:"2"`
	Currencies     []string `help:"Allowed currency codes (overrides the default set)."`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx := context.Background()

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	cfg := engine.NewConfig()
	tolerance, err := decimal.NewFromString(cmd.Tolerance)
	if err != nil {
		printError(ctx.Stderr, fmt.Sprintf("invalid tolerance %q", cmd.Tolerance))
		return NewCommandError(2)
	}
	cfg.Tolerance = tolerance
	cfg.DateRangeYears = cmd.DateRangeYears
	if len(cmd.Currencies) > 0 {
		cfg.AllowedCurrencies = cmd.Currencies
	}

	eng, err := engine.New(cfg)
	if err != nil {
		printError(ctx.Stderr, err.Error())
		return NewCommandError(2)
	}

	batchFile := ""
	if cmd.File != "" {
		batchFile, err = filepath.Abs(cmd.File)
		if err != nil {
			return fmt.Errorf("failed to resolve absolute path: %w", err)
		}

		if _, err := os.Stat(batchFile); err != nil {
			if os.IsNotExist(err) {
				shouldCreate := cmd.Create

				if !shouldCreate {
					confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q does not exist. Create it?", batchFile))
					if err != nil {
						return fmt.Errorf("failed to read confirmation: %w", err)
					}
					shouldCreate = confirmed
				}

				if !shouldCreate {
					return fmt.Errorf("file does not exist: %s", batchFile)
				}

				parentDir := filepath.Dir(batchFile)
				if err := os.MkdirAll(parentDir, 0755); err != nil {
					return fmt.Errorf("failed to create parent directory: %w", err)
				}

				if err := os.WriteFile(batchFile, []byte("[]\n"), 0600); err != nil {
					return fmt.Errorf("failed to create file: %w", err)
				}

				printInfof(ctx.Stdout, "Created empty batch file: %s", pathStyle.Render(batchFile))
			} else {
				return fmt.Errorf("failed to access file: %w", err)
			}
		}
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, eng, batchFile, version, commitSHA)
	server.WatchEnabled = batchFile != "" && !cmd.NoWatch

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	if batchFile != "" {
		printInfof(ctx.Stdout, "Serving batch: %s", pathStyle.Render(batchFile))
	}

	return server.Start(runCtx)
}
