package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/ytsync/internal/models"
	"github.com/desertthunder/ytsync/internal/shared"
	"github.com/samber/lo"
)

// Loader fetches the playlists to offer, typically [tasks.Engine.PlaylistStatuses].
type Loader func(ctx context.Context) ([]models.PlaylistStatus, error)

// Picker is the bubbletea model for choosing playlists to sync.
type Picker struct {
	ctx     context.Context
	load    Loader
	list    list.Model
	help    help.Model
	keys    keyMap
	loaded  bool
	done    bool
	aborted bool
	err     error
}

func NewPicker(ctx context.Context, load Loader) *Picker {
	l := list.New(nil, list.NewDefaultDelegate(), 80, 20)
	l.Title = "Spotify playlists"
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	return &Picker{
		ctx:  ctx,
		load: load,
		list: l,
		help: help.New(),
		keys: newKeyMap(),
	}
}

func (m *Picker) Init() tea.Cmd {
	return func() tea.Msg {
		statuses, err := m.load(m.ctx)
		return statusesLoadedMsg{statuses: statuses, err: err}
	}
}

func (m *Picker) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.list.SetSize(msg.Width-2, msg.Height-4)
		return m, nil

	case statusesLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		m.loaded = true
		return m, m.list.SetItems(toItems(msg.statuses))

	case tea.KeyMsg:
		if m.list.FilterState() == list.Filtering {
			break
		}
		switch {
		case key.Matches(msg, m.keys.quit):
			m.aborted = true
			return m, tea.Quit
		case !m.loaded:
			return m, nil
		case key.Matches(msg, m.keys.toggle):
			return m, m.toggle(m.list.GlobalIndex())
		case key.Matches(msg, m.keys.all):
			return m, m.toggleAll()
		case key.Matches(msg, m.keys.enter):
			if len(m.Selection()) == 0 {
				m.toggle(m.list.GlobalIndex())
			}
			m.done = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m *Picker) toggle(index int) tea.Cmd {
	item, ok := m.list.SelectedItem().(playlistItem)
	if !ok {
		return nil
	}
	item.selected = !item.selected
	return m.list.SetItem(index, item)
}

// toggleAll selects every playlist, or clears the selection when all are already selected.
func (m *Picker) toggleAll() tea.Cmd {
	items := m.list.Items()
	target := len(m.Selection()) != len(items)
	updated := lo.Map(items, func(it list.Item, _ int) list.Item {
		p := it.(playlistItem)
		p.selected = target
		return p
	})
	return m.list.SetItems(updated)
}

func (m *Picker) View() string {
	switch {
	case m.err != nil:
		return styles.err.Render(fmt.Sprintf("Error: %v", m.err))
	case !m.loaded:
		return styles.title.Render("Loading playlists...")
	}
	count := styles.help.Render(fmt.Sprintf("%d selected", len(m.Selection())))
	return fmt.Sprintf("%s\n%s\n%s", m.list.View(), count, m.help.ShortHelpView(m.keys.ShortHelp()))
}

// Selection returns the selected playlists in list order.
func (m *Picker) Selection() []models.SourcePlaylist {
	return lo.FilterMap(m.list.Items(), func(it list.Item, _ int) (models.SourcePlaylist, bool) {
		p := it.(playlistItem)
		return p.status.Playlist, p.selected
	})
}

// Result reports the outcome once the program has exited.
func (m *Picker) Result() ([]models.SourcePlaylist, error) {
	switch {
	case m.err != nil:
		return nil, m.err
	case m.aborted || !m.done:
		return nil, shared.ErrUserAborted
	}
	return m.Selection(), nil
}

// Pick runs the picker on the terminal and returns the chosen playlists.
func Pick(ctx context.Context, load Loader, opts ...tea.ProgramOption) ([]models.SourcePlaylist, error) {
	m := NewPicker(ctx, load)
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	if _, err := tea.NewProgram(m, opts...).Run(); err != nil {
		return nil, fmt.Errorf("picker failed: %w", err)
	}
	return m.Result()
}
