package formatter

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/desertthunder/ytsync/internal/tasks"
	th "github.com/desertthunder/ytsync/internal/testing"
)

func sampleReport() *tasks.Report {
	start := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	return &tasks.Report{
		RunID:      "run-1",
		StartedAt:  start,
		FinishedAt: start.Add(1500 * time.Millisecond),
		QuotaUsed:  302,
		Playlists: []tasks.PlaylistReport{
			{
				Name:          "Workout",
				SourceID:      "sp1",
				DestinationID: "PL1",
				Created:       true,
				Outcome:       tasks.OutcomeSynced,
				Tracks: []tasks.TrackReport{
					{Track: models.Track("Daft Punk: One More Time"), VideoID: "vid1", Action: tasks.ActionAdded},
					{Track: models.Track("Air: Kelly Watch the Stars"), Action: tasks.ActionUnmatched, Error: "no match"},
				},
			},
			{Name: "Empty", SourceID: "sp2", Outcome: tasks.OutcomeSkipped},
			{Name: "Broken", SourceID: "sp3", Outcome: tasks.OutcomeFailed, Error: "create failed"},
		},
	}
}

func TestFormatForPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
	}{
		{"report.md", FormatMarkdown},
		{"out/REPORT.MD", FormatMarkdown},
		{"report.csv", FormatCSV},
		{"report.json", FormatJSON},
		{"report.txt", FormatText},
		{"report", FormatText},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := FormatForPath(tt.path); got != tt.want {
				t.Errorf("FormatForPath(%q) = %s, want %s", tt.path, got, tt.want)
			}
		})
	}
}

func TestRenderers(t *testing.T) {
	report := sampleReport()

	t.Run("ReportToText", func(t *testing.T) {
		out := string(ReportToText(report))
		for _, want := range []string{
			"synced   Workout (added 1, present 0, unmatched 1)",
			"skipped  Empty",
			"failed   Broken: create failed",
			"Added 1 videos to 3 playlists (1 created) in 1.5s",
			"Quota used: 302",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("text output missing %q:\n%s", want, out)
			}
		}
		if strings.Contains(out, "Aborted") {
			t.Errorf("unexpected abort line:\n%s", out)
		}
	})

	t.Run("ReportToMarkdown", func(t *testing.T) {
		aborted := sampleReport()
		aborted.Aborted = true
		aborted.AbortReason = "quota exceeded"

		out := string(ReportToMarkdown(aborted))
		for _, want := range []string{
			"# Sync run run-1",
			"**Videos added**: 1",
			"> Aborted: quota exceeded",
			"## Workout (synced)",
			"1. Daft Punk: One More Time: [added](https://www.youtube.com/watch?v=vid1)",
			"2. Air: Kelly Watch the Stars: unmatched",
			"Error: create failed",
		} {
			if !strings.Contains(out, want) {
				t.Errorf("markdown output missing %q:\n%s", want, out)
			}
		}
	})

	t.Run("ReportToCSV", func(t *testing.T) {
		data, err := ReportToCSV(report)
		if err != nil {
			t.Fatalf("ReportToCSV failed: %v", err)
		}

		rows, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
		if err != nil {
			t.Fatalf("invalid CSV: %v", err)
		}
		if len(rows) != 5 {
			t.Fatalf("expected header + 4 rows, got %d", len(rows))
		}
		if strings.Join(rows[0], ",") != "Playlist,Outcome,Created,Track,Action,VideoID,Error" {
			t.Errorf("unexpected header %v", rows[0])
		}
		if rows[1][3] != "Daft Punk: One More Time" || rows[1][4] != "added" || rows[1][5] != "vid1" {
			t.Errorf("unexpected track row %v", rows[1])
		}
		if rows[4][0] != "Broken" || rows[4][6] != "create failed" {
			t.Errorf("unexpected failed row %v", rows[4])
		}
	})

	t.Run("JSON", func(t *testing.T) {
		data, err := Render(report, FormatJSON)
		if err != nil {
			t.Fatalf("Render failed: %v", err)
		}

		var decoded struct {
			RunID     string `json:"run_id"`
			Playlists []struct {
				Outcome string `json:"outcome"`
			} `json:"playlists"`
		}
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.RunID != "run-1" || decoded.Playlists[2].Outcome != "failed" {
			t.Errorf("unexpected JSON %s", data)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := Render(report, Format("xml")); !errors.Is(err, shared.ErrInvalidArgument) {
			t.Errorf("expected ErrInvalidArgument, got %v", err)
		}
	})
}

func TestWriteReport(t *testing.T) {
	dir := t.TempDir()

	t.Run("writes format chosen by extension", func(t *testing.T) {
		path := filepath.Join(dir, "reports", "run.md")
		format, err := WriteReport(sampleReport(), path)
		if err != nil {
			t.Fatalf("WriteReport failed: %v", err)
		}
		if format != FormatMarkdown {
			t.Errorf("expected markdown, got %s", format)
		}
		th.AssertFileExists(t, path)
		if content := th.MustReadFile(t, path); !strings.HasPrefix(content, "# Sync run run-1") {
			t.Errorf("unexpected content:\n%s", content)
		}
	})

	t.Run("unwritable path", func(t *testing.T) {
		blocker := filepath.Join(dir, "file")
		if _, err := WriteReport(sampleReport(), blocker); err != nil {
			t.Fatalf("setup failed: %v", err)
		}
		if _, err := WriteReport(sampleReport(), filepath.Join(blocker, "nested.txt")); err == nil {
			t.Error("expected error writing beneath a file")
		}
	})
}
