package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles holds the lipgloss styles used in text mode.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Key     lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Title   lipgloss.Style
	Summary lipgloss.Style
}

// NewStyles builds the styles. Without a terminal every style is plain.
func NewStyles(r *lipgloss.Renderer, isTTY bool) Styles {
	if !isTTY {
		plain := r.NewStyle()
		return Styles{
			Header1: plain, Header2: plain, Bold: plain, Key: plain, Muted: plain,
			Success: plain, Warning: plain, Error: plain, Title: plain, Summary: plain,
		}
	}

	return Styles{
		Header1: r.NewStyle().Bold(true).Foreground(lipgloss.Color("12")),
		Header2: r.NewStyle().Bold(true).Foreground(lipgloss.Color("14")),
		Bold:    r.NewStyle().Bold(true),
		Key:     r.NewStyle().Foreground(lipgloss.Color("8")),
		Muted:   r.NewStyle().Faint(true),
		Success: r.NewStyle().Foreground(lipgloss.Color("10")),
		Warning: r.NewStyle().Foreground(lipgloss.Color("11")),
		Error:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("9")),
		Title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("13")),
		Summary: r.NewStyle().Italic(true).PaddingLeft(2).BorderLeft(true).
			BorderStyle(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("13")),
	}
}
