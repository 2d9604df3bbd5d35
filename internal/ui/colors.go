package ui

import (
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/lipgloss"
	"github.com/desertthunder/hokage/internal/models"
)

var (
	darkPalette  = NewPalette("#FF7A18", "#04B575", "#FF4D4D", "#FFA500", "#8A8F98", "#F5F5F5")
	lightPalette = NewPalette("#C2410C", "#047857", "#B91C1C", "#B45309", "#6B7280", "#111827")
)

// struct Palette is a simple stylesheet built with named [lipgloss.Style] fields
type Palette struct {
	accent lipgloss.Color
	title  lipgloss.Style
	tab    lipgloss.Style
	active lipgloss.Style
	ok     lipgloss.Style
	err    lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
	text   lipgloss.Style
}

func NewPalette(t, s, e, w, h, fg string) *Palette {
	return &Palette{
		accent: lipgloss.Color(t),
		title:  NewBold(t).MarginBottom(1),
		tab:    NewStyle(h).Padding(0, 1),
		active: NewBold(t).Padding(0, 1).Underline(true),
		ok:     NewBold(s),
		err:    NewBold(e),
		warn:   NewStyle(w),
		help:   NewEm(h),
		text:   NewStyle(fg),
	}
}

// PaletteFor returns the palette for theme.
func PaletteFor(theme models.Theme) *Palette {
	if theme == models.ThemeLight {
		return lightPalette
	}
	return darkPalette
}

// Delegate returns a list delegate whose selection colors follow the palette.
func (p *Palette) Delegate() list.DefaultDelegate {
	d := list.NewDefaultDelegate()
	d.Styles.SelectedTitle = d.Styles.SelectedTitle.Foreground(p.accent).BorderLeftForeground(p.accent)
	d.Styles.SelectedDesc = d.Styles.SelectedDesc.Foreground(p.accent).BorderLeftForeground(p.accent)
	return d
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
