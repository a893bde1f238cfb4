package ui

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

const (
	OutputText = "text"
	OutputJSON = "json"
)

// ScanOptions are the per-run settings taken from the command line.
type ScanOptions struct {
	Days       int
	DaysSet    bool
	Workers    int
	WorkersSet bool
	Output     string
	NoProgress bool
	NoSummary  bool
}

// PromptWriter returns where interactive prompts go: stderr when the report
// on stdout is JSON lines, stdout otherwise.
func (o ScanOptions) PromptWriter(stdout, stderr io.Writer) io.Writer {
	if o.Output == OutputJSON {
		return stderr
	}
	return stdout
}

// AddScanFlags adds the standard scan flags to a command.
func AddScanFlags(cmd *cobra.Command) {
	cmd.Flags().Int("days", 0, "Number of days to search back (prompted for when omitted)")
	cmd.Flags().Int("workers", 1, "Number of users or teams scanned concurrently")
	cmd.Flags().StringP("output", "o", OutputText, "Output format: text or json")
	cmd.Flags().Bool("no-progress", false, "Do not draw progress bars")
	cmd.Flags().Bool("no-summary", false, "Do not print the closing scan summary")
}

// ParseScanFlags extracts scan settings from command flags.
func ParseScanFlags(cmd *cobra.Command) (ScanOptions, error) {
	days, err := cmd.Flags().GetInt("days")
	if err != nil {
		return ScanOptions{}, fmt.Errorf("error parsing days flag: %w", err)
	}

	workers, err := cmd.Flags().GetInt("workers")
	if err != nil {
		return ScanOptions{}, fmt.Errorf("error parsing workers flag: %w", err)
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return ScanOptions{}, fmt.Errorf("error parsing output flag: %w", err)
	}
	if output != OutputText && output != OutputJSON {
		return ScanOptions{}, fmt.Errorf("unknown output format %q (want %s or %s)", output, OutputText, OutputJSON)
	}

	noProgress, err := cmd.Flags().GetBool("no-progress")
	if err != nil {
		return ScanOptions{}, fmt.Errorf("error parsing no-progress flag: %w", err)
	}

	noSummary, err := cmd.Flags().GetBool("no-summary")
	if err != nil {
		return ScanOptions{}, fmt.Errorf("error parsing no-summary flag: %w", err)
	}

	daysSet := cmd.Flags().Changed("days")
	if daysSet && days < 0 {
		return ScanOptions{}, fmt.Errorf("%w: %d", ErrInvalidDays, days)
	}

	return ScanOptions{
		Days:       days,
		DaysSet:    daysSet,
		Workers:    workers,
		WorkersSet: cmd.Flags().Changed("workers"),
		Output:     output,
		NoProgress: noProgress,
		NoSummary:  noSummary,
	}, nil
}
