// Package tui provides the interactive restore selection view.
package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/kakehashi-inc/app-backup-restore/pkg/snapshot"
)

// Palette shared by every style; adaptive so light terminals stay readable.
var (
	ColorPrimary = lipgloss.AdaptiveColor{Light: "#5B21B6", Dark: "#A78BFA"}
	ColorAccent  = lipgloss.AdaptiveColor{Light: "#0E7490", Dark: "#22D3EE"}
	ColorOK      = lipgloss.AdaptiveColor{Light: "#047857", Dark: "#34D399"}
	ColorWarn    = lipgloss.AdaptiveColor{Light: "#B45309", Dark: "#FBBF24"}
	ColorFail    = lipgloss.AdaptiveColor{Light: "#B91C1C", Dark: "#F87171"}
	ColorMuted   = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#9CA3AF"}
	ColorText    = lipgloss.AdaptiveColor{Light: "#111827", Dark: "#F9FAFB"}
	ColorBar     = lipgloss.AdaptiveColor{Light: "#E5E7EB", Dark: "#374151"}
	ColorBg      = lipgloss.AdaptiveColor{Light: "#F3F4F6", Dark: "#111827"}
)

// Styles groups the rendering styles of the selection view.
type Styles struct {
	Header, Footer lipgloss.Style

	TabActive, TabInactive, TabSeparator lipgloss.Style

	Description      lipgloss.Style
	ListItem         lipgloss.Style
	ListItemSelected lipgloss.Style
	ItemName         lipgloss.Style
	ItemVersion      lipgloss.Style

	Success, Error lipgloss.Style

	Dialog, DialogTitle, DialogButton lipgloss.Style
}

func fg(c lipgloss.TerminalColor) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(c)
}

// DefaultStyles builds the styles from the palette.
func DefaultStyles() *Styles {
	tab := lipgloss.NewStyle().Padding(0, 2)

	return &Styles{
		Header: fg(ColorText).Background(ColorBar).Bold(true).Padding(0, 1),
		Footer: fg(ColorMuted).Padding(0, 1),

		TabActive:    tab.Foreground(ColorPrimary).Bold(true).Underline(true),
		TabInactive:  tab.Foreground(ColorMuted),
		TabSeparator: fg(ColorMuted).SetString("|"),

		Description:      fg(ColorMuted),
		ListItem:         lipgloss.NewStyle().PaddingLeft(2),
		ListItemSelected: fg(ColorPrimary).Bold(true).SetString("> "),
		ItemName:         fg(ColorText).Bold(true),
		ItemVersion:      fg(ColorOK),

		Success: fg(ColorOK).Bold(true),
		Error:   fg(ColorFail).Bold(true),

		Dialog: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorPrimary).
			Padding(1, 2).
			Width(60),
		DialogTitle:  fg(ColorText).Bold(true).MarginBottom(1),
		DialogButton: fg(ColorBg).Background(ColorPrimary).Padding(0, 2),
	}
}

// provenanceStyle colors the marker of a merged item.
func provenanceStyle(p snapshot.Provenance) lipgloss.Style {
	switch p {
	case snapshot.ProvenanceInstalled:
		return fg(ColorOK)
	case snapshot.ProvenanceBackupOnly:
		return fg(ColorWarn).Bold(true)
	}
	return fg(ColorAccent)
}
