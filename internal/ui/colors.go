package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/desertthunder/folio/internal/reader"
)

var styles = NewPalette("#7D56F4", "#04B575", "#FF0000", "#FFA500", "#626262")

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	title lipgloss.Style
	ok    lipgloss.Style
	err   lipgloss.Style
	warn  lipgloss.Style
	help  lipgloss.Style
}

func NewPalette(t, s, e, w, h string) *Palette {
	return &Palette{
		title: NewBold(t).MarginBottom(1),
		ok:    NewBold(s),
		err:   NewBold(e),
		warn:  NewStyle(w),
		help:  NewEm(h),
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

// pageStyle builds the [lipgloss.Style] for page text from the managed rule
// the reading session applied to the page.
func pageStyle(rule reader.StyleRule) lipgloss.Style {
	style := lipgloss.NewStyle()
	if rule.Foreground != "" {
		style = style.Foreground(lipgloss.Color(rule.Foreground))
	}
	if rule.Background != "" {
		style = style.Background(lipgloss.Color(rule.Background))
	}
	return style
}
