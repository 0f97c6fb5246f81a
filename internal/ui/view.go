package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/stigoleg/keep-active/internal/keepalive"
	"github.com/stigoleg/keep-active/internal/simulator"
)

// View renders the current state of the model to a string.
func View(m Model) string {
	switch m.Screen {
	case screenHelp:
		return helpView(m)
	default:
		return statusView(m)
	}
}

func statusView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Keep Active"))
	b.WriteString("\n\n")
	b.WriteString(statusLine(m))
	b.WriteString("\n\n")

	st := m.Status
	rows := [][2]string{
		{"Today", todayLine(m)},
		{"Idle countdown", formatDuration(st.IdleRemaining)},
		{"Next check", formatDuration(st.NextDelay)},
		{"Pointer", st.Position.String()},
		{"Moves", fmt.Sprintf("%d of %d ticks", st.Moves, st.Ticks)},
		{"Health", healthLine(st.Health)},
	}
	if !st.LastTick.IsZero() {
		rows = append(rows, [2]string{"Last tick", st.LastTick.Format("15:04:05")})
	}

	lines := make([]string, 0, len(rows))
	for _, r := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			Current.Label.Render(r[0]),
			Current.Value.Render(r[1]),
		))
	}
	b.WriteString(Current.Panel.Render(strings.Join(lines, "\n")))

	if st.LastError != "" {
		b.WriteString("\n\n" + Current.Error.Render("Last error: "+st.LastError))
	}
	if m.ErrorMessage != "" {
		b.WriteString("\n\n" + Current.Error.Render(m.ErrorMessage))
	}

	b.WriteString("\n\n" + m.help.View(m.keys.ForScreen(m.Screen)))
	return b.String()
}

func statusLine(m Model) string {
	if m.Paused || !m.Status.Running {
		return Current.InactiveStatus.Render("Paused")
	}
	switch m.Status.State {
	case simulator.StateActivelyJiggling:
		return Current.ActiveStatus.Render("Jiggling")
	case simulator.StateWaitingIdleThreshold, simulator.StateUserActive:
		return Current.WaitingStatus.Render("Waiting for idle") +
			Current.Countdown.Render(formatDuration(m.Status.IdleRemaining))
	case simulator.StateOutOfWindow:
		return Current.InactiveStatus.Render("Outside permitted hours")
	default:
		return Current.InactiveStatus.Render("Starting")
	}
}

func healthLine(h keepalive.SimulationHealth) string {
	if h == keepalive.SimulationHealthFailed {
		return Current.Error.UnsetPadding().Render(h.String())
	}
	return h.String()
}

func todayLine(m Model) string {
	windows := m.TodayWindows()
	if len(windows) == 0 {
		return m.Now.Weekday().String() + ": no windows"
	}
	parts := make([]string, len(windows))
	for i, w := range windows {
		parts[i] = w.String()
	}
	return m.Now.Weekday().String() + ": " + strings.Join(parts, ", ")
}

func formatDuration(d time.Duration) string {
	if d <= 0 {
		return "0:00"
	}
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	d = d.Round(time.Second)
	minutes := int(d / time.Minute)
	seconds := int(d/time.Second) % 60
	return fmt.Sprintf("%d:%02d", minutes, seconds)
}

func helpView(m Model) string {
	var b strings.Builder

	b.WriteString(Current.Title.Render("Keep Active Help"))
	b.WriteString("\n\n")

	text := `While inside a permitted window and once the pointer has been still
for the idle threshold, small pointer movements are issued until you
move the pointer yourself.

Rules file: ` + m.RulesFile + `
Days configured: ` + configuredDays(m)

	b.WriteString(Current.Help.Render(text))
	b.WriteString("\n\n" + m.help.View(m.keys.ForScreen(m.Screen)))
	return b.String()
}

func configuredDays(m Model) string {
	if m.Rules == nil {
		return "none"
	}
	days := m.Rules.Days()
	if len(days) == 0 {
		return "none"
	}
	names := make([]string, len(days))
	for i, d := range days {
		names[i] = d.String()[:3]
	}
	return strings.Join(names, " ")
}
