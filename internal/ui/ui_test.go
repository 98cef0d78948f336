package ui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
)

var statuses = []models.PlaylistStatus{
	{Playlist: models.SourcePlaylist{ID: "sp1", Name: "Workout"}},
	{Playlist: models.SourcePlaylist{ID: "sp2", Name: "Focus"}, Exists: true},
	{Playlist: models.SourcePlaylist{ID: "sp3", Name: "Roadtrip"}},
}

func loaded(t *testing.T) *Picker {
	t.Helper()
	m := NewPicker(context.Background(), func(context.Context) ([]models.PlaylistStatus, error) {
		return statuses, nil
	})
	m.Update(m.Init()())
	return m
}

func press(m *Picker, keys ...string) {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m.Update(msg)
	}
}

func names(pls []models.SourcePlaylist) []string {
	out := make([]string, len(pls))
	for i, p := range pls {
		out[i] = p.Name
	}
	return out
}

func TestPicker(t *testing.T) {
	t.Run("loads playlists with destination flag", func(t *testing.T) {
		m := loaded(t)
		if len(m.list.Items()) != 3 {
			t.Fatalf("expected 3 items, got %d", len(m.list.Items()))
		}
		focus := m.list.Items()[1].(playlistItem)
		if !strings.Contains(focus.Description(), "exists on YouTube") {
			t.Errorf("expected exists marker, got %q", focus.Description())
		}
		if !strings.Contains(m.View(), "0 selected") {
			t.Errorf("expected selection count in view")
		}
	})

	t.Run("toggle then confirm", func(t *testing.T) {
		m := loaded(t)
		press(m, "x", "j", "j", "x", "enter")

		got, err := m.Result()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Join(names(got), ",") != "Workout,Roadtrip" {
			t.Errorf("unexpected selection %v", names(got))
		}
	})

	t.Run("toggle twice deselects", func(t *testing.T) {
		m := loaded(t)
		press(m, "x", "x")
		if len(m.Selection()) != 0 {
			t.Errorf("expected empty selection, got %v", names(m.Selection()))
		}
	})

	t.Run("enter without selection takes highlighted playlist", func(t *testing.T) {
		m := loaded(t)
		press(m, "j", "enter")

		got, err := m.Result()
		if err != nil || len(got) != 1 || got[0].Name != "Focus" {
			t.Errorf("expected Focus, got %v, %v", names(got), err)
		}
	})

	t.Run("select all and clear", func(t *testing.T) {
		m := loaded(t)
		press(m, "a")
		if len(m.Selection()) != 3 {
			t.Errorf("expected all selected, got %v", names(m.Selection()))
		}
		press(m, "a")
		if len(m.Selection()) != 0 {
			t.Errorf("expected none selected, got %v", names(m.Selection()))
		}
	})

	t.Run("quit aborts", func(t *testing.T) {
		m := loaded(t)
		press(m, "x", "q")

		if _, err := m.Result(); !errors.Is(err, shared.ErrUserAborted) {
			t.Errorf("expected ErrUserAborted, got %v", err)
		}
	})

	t.Run("loader error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		m := NewPicker(context.Background(), func(context.Context) ([]models.PlaylistStatus, error) {
			return nil, boom
		})
		m.Update(m.Init()())

		if _, err := m.Result(); !errors.Is(err, boom) {
			t.Errorf("expected loader error, got %v", err)
		}
		if !strings.Contains(m.View(), "boom") {
			t.Errorf("expected error in view, got %q", m.View())
		}
	})

	t.Run("keys ignored until loaded", func(t *testing.T) {
		m := NewPicker(context.Background(), func(context.Context) ([]models.PlaylistStatus, error) {
			return statuses, nil
		})
		press(m, "enter")
		if m.done {
			t.Error("expected enter to be ignored before load")
		}
		if !strings.Contains(m.View(), "Loading") {
			t.Errorf("expected loading view, got %q", m.View())
		}
	})
}
