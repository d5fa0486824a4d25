// Package pretty renders compiled reports as Lipgloss-styled terminal tables.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/valreport/pkg/config"
)

// Styles contains all styled renderers for CLI output.
type Styles struct {
	// Severity styles
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	// Validity
	Valid   lipgloss.Style
	Invalid lipgloss.Style

	// Table styles
	TableHeader    lipgloss.Style
	TableSeparator lipgloss.Style
	TableTitle     lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// NewStyles creates a new Styles with the given color mode.
func NewStyles(colorEnabled bool) *Styles {
	if !colorEnabled {
		return newNoColorStyles()
	}
	return newColorStyles()
}

func newColorStyles() *Styles {
	return &Styles{
		Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
		Warning: lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		Info:    lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true),

		Valid:   lipgloss.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
		Invalid: lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),

		TableHeader:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7")),
		TableSeparator: lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		TableTitle:     lipgloss.NewStyle().Bold(true).Underline(true),

		Dim:  lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Bold: lipgloss.NewStyle().Bold(true),
	}
}

func newNoColorStyles() *Styles {
	plain := lipgloss.NewStyle()
	return &Styles{
		Error:          plain,
		Warning:        plain,
		Info:           plain,
		Valid:          plain,
		Invalid:        plain,
		TableHeader:    plain,
		TableSeparator: plain,
		TableTitle:     plain,
		Dim:            plain,
		Bold:           plain,
	}
}

// Severity returns the style for a severity level.
func (s *Styles) Severity(level config.Severity) lipgloss.Style {
	switch level {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return lipgloss.NewStyle()
	}
}

// IsColorEnabled determines if color should be enabled based on mode and writer.
// Mode values: "auto" (default), "always", "never".
// In auto mode, color is enabled only if the writer is a TTY and NO_COLOR is not set.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case "always":
		return true
	case "never":
		return false
	default:
		if os.Getenv("NO_COLOR") != "" {
			return false
		}
		if f, ok := writer.(*os.File); ok {
			return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
		}
		return false
	}
}
