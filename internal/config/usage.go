package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/stigoleg/keep-active/internal/rules"
	"github.com/stigoleg/keep-active/internal/ui"
)

// AppName is the binary name used in help output.
const AppName = "keepactive"

// Usage renders the argument help.
func Usage(version string) string {
	var b strings.Builder

	b.WriteString(ui.Current.Title.Render(fmt.Sprintf("%s %s", AppName, version)))
	b.WriteString("\n\n")
	b.WriteString("Moves the pointer a few pixels at a time while you are idle,\n")
	b.WriteString("but only inside the time windows listed in the rules file.\n\n")
	b.WriteString("Usage:\n")
	b.WriteString(fmt.Sprintf("  %s [key=value ...]\n\n", AppName))
	b.WriteString("Arguments:\n")

	for _, a := range Args {
		left := fmt.Sprintf("  %s=%s", a.Key, a.Value)
		line := fmt.Sprintf("%-26s %s", left, a.Desc)
		if a.Default != "" {
			line += ui.Current.Help.Render(fmt.Sprintf("(default %s)", a.Default))
		}
		b.WriteString(line + "\n")
	}

	b.WriteString("\n")
	b.WriteString(RulesHelp(""))
	return b.String()
}

// RulesHelp describes the expected rules file format.
func RulesHelp(file string) string {
	var b strings.Builder
	if file == "" {
		b.WriteString("The following format is expected in the rules file:\n")
	} else {
		b.WriteString(fmt.Sprintf("The following format is expected in %s:\n", file))
	}
	b.WriteString("  " + rules.Format + "\n")
	b.WriteString("  Example: " + rules.Example + "\n")
	b.WriteString(ui.Current.Help.Render("Days: full English names or mo, tu, we, th, fr, sa, su. Lines starting with # are ignored."))
	b.WriteString("\n")
	return b.String()
}

// FormatError renders err for the terminal. Errors carrying format help
// after a blank line are shown in a bordered box.
func FormatError(err error) string {
	msg := err.Error()

	var perr *rules.ParseError
	if errors.As(err, &perr) && perr.Err != nil {
		msg = perr.Err.Error()
		if perr.Line > 0 {
			msg = fmt.Sprintf("Line %d %q: %s", perr.Line, perr.Text, msg)
		}
	}

	parts := strings.SplitN(msg, "\n\n", 2)
	if len(parts) == 2 {
		errorBox := ui.Current.Help.
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#FF4040"))

		header := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF4040")).
			Render(parts[0])

		details := lipgloss.NewStyle().
			Foreground(lipgloss.Color("#999999")).
			Render(parts[1])

		return errorBox.Render(fmt.Sprintf("%s\n\n%s", header, details))
	}
	return ui.Current.Error.Render(msg)
}
