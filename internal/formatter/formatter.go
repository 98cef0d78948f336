// package formatter renders sync run reports as plain text, Markdown, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
)

// Format names a report encoding.
type Format string

const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
)

// FormatForPath picks a format from the file extension, defaulting to text.
func FormatForPath(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return FormatMarkdown
	case ".csv":
		return FormatCSV
	case ".json":
		return FormatJSON
	default:
		return FormatText
	}
}

// Render encodes report in format.
func Render(report *tasks.Report, format Format) ([]byte, error) {
	switch format {
	case FormatText:
		return ReportToText(report), nil
	case FormatMarkdown:
		return ReportToMarkdown(report), nil
	case FormatCSV:
		return ReportToCSV(report)
	case FormatJSON:
		return json.MarshalIndent(report, "", "  ")
	default:
		return nil, fmt.Errorf("%w: unknown report format %q", shared.ErrInvalidArgument, format)
	}
}

// WriteReport renders report in the format implied by path and writes it there.
func WriteReport(report *tasks.Report, path string) (Format, error) {
	format := FormatForPath(path)
	data, err := Render(report, format)
	if err != nil {
		return format, fmt.Errorf("failed to render report: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return format, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return format, fmt.Errorf("failed to write report: %w", err)
	}
	return format, nil
}

// ReportToCSV writes one row per track. Playlists without tracks get a single row with empty track columns.
func ReportToCSV(report *tasks.Report) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Playlist", "Outcome", "Created", "Track", "Action", "VideoID", "Error"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, pl := range report.Playlists {
		base := []string{pl.Name, pl.Outcome.String(), strconv.FormatBool(pl.Created)}
		if len(pl.Tracks) == 0 {
			if err := writer.Write(append(base, "", "", "", pl.Error)); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
			continue
		}
		for _, tr := range pl.Tracks {
			record := append(append([]string{}, base...), tr.Track.String(), string(tr.Action), tr.VideoID, tr.Error)
			if err := writer.Write(record); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

// ReportToMarkdown renders a summary followed by one section per playlist.
func ReportToMarkdown(report *tasks.Report) []byte {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# Sync run %s\n\n", report.RunID)
	fmt.Fprintf(&buf, "**Started**: %s\n", report.StartedAt.Format(time.RFC3339))
	fmt.Fprintf(&buf, "**Duration**: %s\n", duration(report))
	fmt.Fprintf(&buf, "**Playlists**: %d (%d created)\n", len(report.Playlists), report.Created())
	fmt.Fprintf(&buf, "**Videos added**: %d\n", report.Added())
	fmt.Fprintf(&buf, "**Quota used**: %d\n", report.QuotaUsed)
	if report.Aborted {
		fmt.Fprintf(&buf, "\n> Aborted: %s\n", report.AbortReason)
	}

	for _, pl := range report.Playlists {
		fmt.Fprintf(&buf, "\n## %s (%s)\n\n", pl.Name, pl.Outcome)
		if pl.Error != "" {
			fmt.Fprintf(&buf, "Error: %s\n\n", pl.Error)
		}
		for i, tr := range pl.Tracks {
			if tr.VideoID != "" {
				fmt.Fprintf(&buf, "%d. %s: [%s](https://www.youtube.com/watch?v=%s)\n", i+1, tr.Track, tr.Action, tr.VideoID)
			} else {
				fmt.Fprintf(&buf, "%d. %s: %s\n", i+1, tr.Track, tr.Action)
			}
		}
	}
	return buf.Bytes()
}

// ReportToText renders a compact summary for the terminal.
func ReportToText(report *tasks.Report) []byte {
	var buf bytes.Buffer

	for _, pl := range report.Playlists {
		fmt.Fprintf(&buf, "%-8s %s", pl.Outcome, pl.Name)
		if pl.Outcome == tasks.OutcomeSynced {
			fmt.Fprintf(&buf, " (added %d, present %d, unmatched %d",
				pl.Count(tasks.ActionAdded), pl.Count(tasks.ActionAlreadyPresent), pl.Count(tasks.ActionUnmatched))
			if n := pl.Count(tasks.ActionAddFailed); n > 0 {
				fmt.Fprintf(&buf, ", failed %d", n)
			}
			buf.WriteString(")")
		}
		if pl.Error != "" {
			fmt.Fprintf(&buf, ": %s", pl.Error)
		}
		buf.WriteString("\n")
	}

	fmt.Fprintf(&buf, "\nAdded %d videos to %d playlists (%d created) in %s\n",
		report.Added(), len(report.Playlists), report.Created(), duration(report))
	fmt.Fprintf(&buf, "Quota used: %d\n", report.QuotaUsed)
	if report.Aborted {
		fmt.Fprintf(&buf, "Aborted: %s\n", report.AbortReason)
	}
	return buf.Bytes()
}

func duration(report *tasks.Report) time.Duration {
	if report.FinishedAt.Before(report.StartedAt) {
		return 0
	}
	return report.FinishedAt.Sub(report.StartedAt).Round(time.Millisecond)
}
