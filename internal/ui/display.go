// Package ui (display.go) formats scan results for the console: the
// human-readable recording report, a JSON-lines variant, the lookback prompt,
// progress bars and the closing summary.
package ui

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/schollz/progressbar/v3"

	"github.com/dylanstetts/getTeamsRecordings/internal/recordings"
)

const separatorWidth = 50

// DaysPrompt is shown when no lookback was given on the command line.
const DaysPrompt = "Enter the number of days to search for recordings: "

// ErrInvalidDays is returned for a lookback that is not a non-negative integer.
var ErrInvalidDays = errors.New("number of days must be a non-negative integer")

// PrintError prints an error to standard error.
func PrintError(err error) {
	fmt.Fprintln(os.Stderr, "Error:", err)
}

// TextSink writes each recording as a block of labelled lines.
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Emit implements recordings.Sink.
func (s *TextSink) Emit(rec recordings.Recording) error {
	var b strings.Builder
	b.WriteString("Recording found:\n")
	switch rec.Source {
	case recordings.SourceChannel:
		fmt.Fprintf(&b, "  Team ID: %s\n", rec.TeamID)
		fmt.Fprintf(&b, "  Channel ID: %s\n", rec.ChannelID)
	default:
		fmt.Fprintf(&b, "  Chat ID: %s\n", rec.ChatID)
	}
	fmt.Fprintf(&b, "  Initiated by: %s (%s)\n", orNA(rec.InitiatorName), orNA(rec.InitiatorEmail))
	fmt.Fprintf(&b, "  Job Title: %s\n", orNA(rec.JobTitle))
	fmt.Fprintf(&b, "  Department: %s\n", orNA(rec.Department))
	fmt.Fprintf(&b, "  Recording URL: %s\n", rec.URL)
	b.WriteString(strings.Repeat("-", separatorWidth))
	b.WriteString("\n")

	_, err := io.WriteString(s.w, b.String())
	return err
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// JSONSink writes one JSON object per recording.
type JSONSink struct {
	enc *json.Encoder
}

// NewJSONSink creates a JSONSink writing to w.
func NewJSONSink(w io.Writer) *JSONSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONSink{enc: enc}
}

// Emit implements recordings.Sink.
func (s *JSONSink) Emit(rec recordings.Recording) error {
	return s.enc.Encode(rec)
}

// NewSink returns the sink for an output format.
func NewSink(format string, w io.Writer) (recordings.Sink, error) {
	switch format {
	case OutputText, "":
		return NewTextSink(w), nil
	case OutputJSON:
		return NewJSONSink(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want %s or %s)", format, OutputText, OutputJSON)
	}
}

// PromptDays asks for the lookback window in days and reads one line from in.
func PromptDays(in io.Reader, out io.Writer) (int, error) {
	fmt.Fprint(out, DaysPrompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return 0, fmt.Errorf("reading number of days: %w", err)
	}
	return ParseDays(strings.TrimSpace(line))
}

// ParseDays validates a lookback value.
func ParseDays(s string) (int, error) {
	days, err := strconv.Atoi(s)
	if err != nil || days < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDays, s)
	}
	return days, nil
}

// newProgressBar creates a progress bar counting items.
func newProgressBar(w io.Writer, total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(
		total,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetWidth(40),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)
}

// ProgressBars shows one bar per scan phase. It implements recordings.Progress.
type ProgressBars struct {
	w   io.Writer
	mu  sync.Mutex
	bar *progressbar.ProgressBar
}

// NewProgressBars creates progress bars drawn on w.
func NewProgressBars(w io.Writer) *ProgressBars {
	return &ProgressBars{w: w}
}

// Start begins a bar for phase. Empty phases draw nothing.
func (p *ProgressBars) Start(phase string, total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.bar = nil
	if total > 0 {
		p.bar = newProgressBar(p.w, total, "Scanning "+phase)
	}
}

// Step advances the current bar by one.
func (p *ProgressBars) Step() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Add(1)
	}
}

// Finish completes the current bar.
func (p *ProgressBars) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.bar != nil {
		_ = p.bar.Finish()
		p.bar = nil
	}
}

// DisplaySummary prints scan totals.
func DisplaySummary(w io.Writer, stats recordings.Stats, since time.Time) {
	fmt.Fprintf(w, "Scan summary (since %s):\n", since.Local().Format(time.RFC1123))
	fmt.Fprintf(w, "  %-22s %d\n", "Users:", stats.Users)
	fmt.Fprintf(w, "  %-22s %d\n", "Chats:", stats.Chats)
	fmt.Fprintf(w, "  %-22s %d\n", "Teams:", stats.Teams)
	fmt.Fprintf(w, "  %-22s %d\n", "Channels:", stats.Channels)
	fmt.Fprintf(w, "  %-22s %d\n", "Event messages:", stats.Events)
	fmt.Fprintf(w, "  %-22s %d\n", "Recording events:", stats.Recordings)
	fmt.Fprintf(w, "  %-22s %d\n", "Recordings reported:", stats.Reported)
	fmt.Fprintf(w, "  %-22s %d\n", "Duplicates skipped:", stats.Duplicates)
	fmt.Fprintf(w, "  %-22s %d\n", "Unresolved skipped:", stats.Skipped)
}
