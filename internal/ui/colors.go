package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#FF0000", "#1DB954", "#FF5F5F", "#FFA500", "#626262")

// Palette is the picker's stylesheet.
type Palette struct {
	title    lipgloss.Style
	exists   lipgloss.Style
	err      lipgloss.Style
	selected lipgloss.Style
	help     lipgloss.Style
}

func NewPalette(title, exists, errColor, selected, help string) *Palette {
	return &Palette{
		title:    NewBold(title).MarginBottom(1),
		exists:   NewStyle(exists),
		err:      NewBold(errColor),
		selected: NewBold(selected),
		help:     NewEm(help),
	}
}

func NewStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func NewBold(fg string) lipgloss.Style {
	return NewStyle(fg).Bold(true)
}

func NewEm(fg string) lipgloss.Style {
	return NewStyle(fg).Italic(true)
}
