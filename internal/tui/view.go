package tui

import (
	"fmt"
	"strings"
	"time"

	"lol-runesync/internal/poller"

	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Width(12)
	valueStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	helpStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))

	lockedStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true) // green
	idleStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))            // yellow
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))            // dim
	errorStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))            // red
)

func stateStyleFor(s poller.State) lipgloss.Style {
	switch s {
	case poller.ChampionLocked:
		return lockedStyle
	case poller.Idle:
		return idleStyle
	default:
		return disconnectedStyle
	}
}

func (m Model) View() string {
	st := m.status
	var b strings.Builder

	b.WriteString(headerStyle.Render("runesync"))
	b.WriteString(helpStyle.Render("  " + m.mode))
	b.WriteString("\n\n")

	row(&b, "state", stateStyleFor(st.State).Render(stateLabel(st)))
	row(&b, "summoner", orDash(st.Summoner))
	row(&b, "session", orDash(st.ConnectionID))
	row(&b, "last page", orDash(st.LastPage))
	row(&b, "published", since(st.LastPublishedAt))
	row(&b, "last poll", since(st.LastPollAt))
	if st.LastError != "" {
		row(&b, "error", errorStyle.Render(truncate(st.LastError, m.width-14)))
	}

	b.WriteString("\n")
	status := "r refresh  q quit"
	if m.polling {
		status = "polling…  " + status
	}
	b.WriteString(helpStyle.Render(status))
	b.WriteString("\n")
	return b.String()
}

func stateLabel(st poller.Status) string {
	switch st.State {
	case poller.ChampionLocked:
		name := st.ChampionName
		if name == "" {
			name = fmt.Sprintf("#%d", st.ChampionID)
		}
		return "locked " + name
	case poller.Idle:
		return "in champ select"
	default:
		return "waiting for client"
	}
}

func row(b *strings.Builder, label, value string) {
	b.WriteString(labelStyle.Render(label))
	b.WriteString(valueStyle.Render(value))
	b.WriteString("\n")
}

func since(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return humanize.Time(t)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, width int) string {
	if width <= 0 || len(s) <= width {
		return s
	}
	if width <= 1 {
		return s[:width]
	}
	return s[:width-1] + "…"
}
