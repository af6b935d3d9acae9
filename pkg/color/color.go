// Package color is the restricted palette used for terminal status output.
package color

import (
	"github.com/charmbracelet/lipgloss"

	"edgedrill/pkg/fault"
)

// Color is one entry of a small palette whose colors each carry a distinct
// meaning in status output.
type Color byte

const (
	White Color = iota
	Black
	Gray
	Red
	Green
	Blue
	Magenta
	Cyan
	Orange
)

var Palette = []lipgloss.Color{
	"#ffffff", // White
	"#000000", // Black
	"#7f7f7f", // Gray
	"#ff0000", // Red
	"#00cc00", // Green
	"#3f6fff", // Blue
	"#cc00cc", // Magenta
	"#00bbdd", // Cyan
	"#ffaa00", // Orange
}

// Terminal returns the lipgloss color for c. Unknown values map to white.
func (c Color) Terminal() lipgloss.Color {
	if int(c) >= len(Palette) {
		return Palette[White]
	}
	return Palette[c]
}

// Styles are the status styles of the CLI.
type Styles struct {
	OK      lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style
	Muted   lipgloss.Style
	Heading lipgloss.Style
}

// NewStyles returns colored styles, or plain ones when enabled is false.
func NewStyles(enabled bool) Styles {
	if !enabled {
		plain := lipgloss.NewStyle()
		return Styles{OK: plain, Warning: plain, Error: plain, Info: plain, Muted: plain, Heading: plain}
	}
	fg := func(c Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(c.Terminal())
	}
	return Styles{
		OK:      fg(Green).Bold(true),
		Warning: fg(Orange),
		Error:   fg(Red).Bold(true),
		Info:    fg(Cyan),
		Muted:   fg(Gray),
		Heading: lipgloss.NewStyle().Bold(true).Underline(true),
	}
}

func (s Styles) Severity(sev fault.Severity) lipgloss.Style {
	switch sev {
	case fault.SeverityError:
		return s.Error
	case fault.SeverityWarning:
		return s.Warning
	case fault.SeverityInfo:
		return s.Info
	default:
		return s.Muted
	}
}
