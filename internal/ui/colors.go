package ui

import (
	"github.com/charmbracelet/lipgloss"
)

var styles = NewPalette("#1DB954", "#FFFFFF", "#FF5F5F", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title  lipgloss.Style
	track  lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	frame  lipgloss.Style
	accent lipgloss.Style
}

func NewPalette(accent, text, e, w, h string) *Palette {
	return &Palette{
		title:  NewBold(accent).MarginBottom(1),
		track:  NewBold(text),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		frame:  lipgloss.NewStyle().Padding(1, 2),
		accent: NewStyle(accent),
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
