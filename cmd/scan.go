package cmd

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dylanstetts/getTeamsRecordings/internal/app"
	"github.com/dylanstetts/getTeamsRecordings/internal/config"
	"github.com/dylanstetts/getTeamsRecordings/internal/recordings"
	"github.com/dylanstetts/getTeamsRecordings/internal/runlock"
	"github.com/dylanstetts/getTeamsRecordings/internal/ui"
)

// scanCmd handles 'scan'.
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Report call recordings from the last N days",
	Long: `Scans every user's chats, then every team's channels, for call recording
events modified within the last N days and prints each recording once.

When --days is omitted the number of days is asked for interactively.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := ui.ParseScanFlags(cmd)
		if err != nil {
			return err
		}
		if !opts.DaysSet {
			days, err := ui.PromptDays(cmd.InOrStdin(), opts.PromptWriter(cmd.OutOrStdout(), cmd.ErrOrStderr()))
			if err != nil {
				return err
			}
			opts.Days = days
		}

		dir, err := config.Dir()
		if err != nil {
			return err
		}
		lock, err := runlock.Acquire(dir)
		if err != nil {
			return err
		}
		defer lock.Release()

		a, err := app.NewApp(cmd)
		if err != nil {
			return fmt.Errorf("initializing app for 'scan': %w", err)
		}
		since := recordings.Cutoff(time.Now(), opts.Days)
		return scanLogic(cmd.Context(), a, opts, since, cmd.OutOrStdout(), cmd.ErrOrStderr())
	},
}

// scanLogic runs one scan and writes the report to out. Progress and the
// summary go to errOut so the report can be piped. A --workers flag overrides
// the configured worker count.
func scanLogic(ctx context.Context, a *app.App, opts ui.ScanOptions, since time.Time, out, errOut io.Writer) error {
	sink, err := ui.NewSink(opts.Output, out)
	if err != nil {
		return err
	}

	workers := a.Config.Workers
	if opts.WorkersSet {
		workers = config.ClampWorkers(opts.Workers)
	}

	scanOpts := []recordings.Option{
		recordings.WithWorkers(workers),
		recordings.WithLogger(a.Logger),
	}
	if !opts.NoProgress {
		scanOpts = append(scanOpts, recordings.WithProgress(ui.NewProgressBars(errOut)))
	}

	start := time.Now()
	stats, err := recordings.NewScanner(a.SDK, sink, scanOpts...).Run(ctx, since)
	if err != nil {
		return fmt.Errorf("scan %s aborted after %d recordings: %w", a.RunID, stats.Reported, err)
	}

	a.Logger.Info("scan finished",
		"reported", stats.Reported,
		"duplicates", stats.Duplicates,
		"skipped", stats.Skipped,
		"elapsed", time.Since(start).Round(time.Millisecond).String())
	if !opts.NoSummary {
		ui.DisplaySummary(errOut, stats, since)
	}
	return nil
}

func init() {
	ui.AddScanFlags(scanCmd)
	rootCmd.AddCommand(scanCmd)
}
