package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/yaklabco/valreport/internal/ui/pretty"
)

// helpStyles are the Lipgloss styles used by the command help templates.
type helpStyles struct {
	command    lipgloss.Style
	heading    lipgloss.Style
	subcommand lipgloss.Style
	flag       lipgloss.Style
	example    lipgloss.Style
	dim        lipgloss.Style
}

func newHelpStyles(colorEnabled bool) helpStyles {
	if !colorEnabled {
		plain := lipgloss.NewStyle()
		return helpStyles{plain, plain, plain, plain, plain, plain}
	}
	return helpStyles{
		command:    lipgloss.NewStyle().Foreground(lipgloss.Color("14")).Bold(true),
		heading:    lipgloss.NewStyle().Foreground(lipgloss.Color("11")).Bold(true),
		subcommand: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		flag:       lipgloss.NewStyle().Foreground(lipgloss.Color("12")),
		example:    lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		dim:        lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
	}
}

// HelpFormatter renders styled help and usage output for Cobra commands.
type HelpFormatter struct {
	styles helpStyles
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	return &HelpFormatter{styles: newHelpStyles(pretty.IsColorEnabled(colorMode, writer))}
}

const usageTemplate = `{{ heading "Usage:" }}
  {{if .Runnable}}{{ command .UseLine }}{{end}}
  {{if .HasAvailableSubCommands}}{{ command .CommandPath }} [command]{{end}}

{{- if .HasExample}}

{{ heading "Examples:" }}
{{ example .Example }}
{{- end}}

{{- if .HasAvailableSubCommands}}

{{ heading "Available Commands:" }}{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{ subcommand (rpad .Name .NamePadding) }} {{ .Short }}{{end}}{{end}}
{{- end}}

{{- if .HasAvailableLocalFlags}}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end}}

{{- if .HasAvailableInheritedFlags}}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end}}

{{- if .HasAvailableSubCommands}}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end}}
`

const helpTemplate = `{{if or .Runnable .HasSubCommands}}{{ command .CommandPath }}{{if .Version}} {{ dim .Version }}{{end}}

{{end}}{{with (or .Long .Short)}}{{ . | trimTrailingWhitespaces }}

{{end}}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"command":                 h.styles.command.Render,
		"heading":                 h.styles.heading.Render,
		"subcommand":              h.styles.subcommand.Render,
		"example":                 h.styles.example.Render,
		"dim":                     h.styles.dim.Render,
		"flags":                   h.flagUsages,
		"rpad":                    rpad,
		"trimTrailingWhitespaces": trimTrailingWhitespaces,
	}
}

// flagUsages styles pflag's usage block: flag names in color, value types dimmed.
func (h *HelpFormatter) flagUsages(flags interface{ FlagUsages() string }) string {
	usages := strings.TrimSuffix(flags.FlagUsages(), "\n")
	if usages == "" {
		return ""
	}

	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		lines[i] = h.flagLine(line)
	}
	return strings.Join(lines, "\n")
}

func (h *HelpFormatter) flagLine(line string) string {
	trimmed := strings.TrimLeft(line, " ")
	indent := line[:len(line)-len(trimmed)]

	// pflag separates the flag column from its description by at least two spaces.
	idx := strings.Index(trimmed, "  ")
	if trimmed == "" || idx < 0 {
		return line
	}
	definition := trimmed[:idx]
	description := strings.TrimLeft(trimmed[idx:], " ")

	tokens := strings.Fields(definition)
	for i, token := range tokens {
		if !strings.HasPrefix(token, "-") {
			tokens[i] = h.styles.dim.Render(token)
			continue
		}
		name, comma := strings.CutSuffix(token, ",")
		tokens[i] = h.styles.flag.Render(name)
		if comma {
			tokens[i] += ","
		}
	}

	return indent + strings.Join(tokens, " ") + "   " + description
}

// ApplyToCommand installs the styled templates on cmd; subcommands inherit them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	funcs := h.funcs()

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		tmpl, err := template.New("usage").Funcs(funcs).Parse(usageTemplate)
		if err != nil {
			return fmt.Errorf("parse usage template: %w", err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	})

	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		tmpl, err := template.New("help").Funcs(funcs).Parse(helpTemplate)
		if err != nil {
			command.PrintErrln(err)
			return
		}
		if err := tmpl.Execute(command.OutOrStdout(), command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(str string, padding int) string {
	if len(str) >= padding {
		return str
	}
	return str + strings.Repeat(" ", padding-len(str))
}

func trimTrailingWhitespaces(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
