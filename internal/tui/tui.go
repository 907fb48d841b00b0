// Package tui is the terminal status view. It also drives the poller: each
// frame tick schedules one poll and the next tick is only scheduled once that
// poll has reported back, so polls never overlap.
package tui

import (
	"context"
	"time"

	"lol-runesync/internal/constants"
	"lol-runesync/internal/poller"

	tea "github.com/charmbracelet/bubbletea"
)

// Driver is the part of the poller the view needs.
type Driver interface {
	Tick(ctx context.Context, now time.Time) bool
	Poll(ctx context.Context)
	Status() poller.Status
}

// -- messages --

type tickMsg time.Time

type statusMsg poller.Status

// -- model --

type Model struct {
	ctx    context.Context
	driver Driver
	mode   string

	status      poller.Status
	polling     bool
	tickPending bool

	width int
}

func New(ctx context.Context, driver Driver, mode string) Model {
	return Model{
		ctx:     ctx,
		driver:  driver,
		mode:    mode,
		status:  driver.Status(),
		polling: true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.forcePollCmd()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if m.polling {
				return m, nil
			}
			m.polling = true
			return m, m.forcePollCmd()
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tickMsg:
		m.tickPending = false
		if m.polling {
			// the in-flight poll schedules the next tick
			return m, nil
		}
		m.polling = true
		return m, m.pollCmd(time.Time(msg))
	case statusMsg:
		m.status = poller.Status(msg)
		m.polling = false
		if m.tickPending {
			return m, nil
		}
		m.tickPending = true
		return m, tickCmd()
	}
	return m, nil
}

// -- commands --

func tickCmd() tea.Cmd {
	return tea.Tick(constants.AutoDetectInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) pollCmd(now time.Time) tea.Cmd {
	return func() tea.Msg {
		m.driver.Tick(m.ctx, now)
		return statusMsg(m.driver.Status())
	}
}

func (m Model) forcePollCmd() tea.Cmd {
	return func() tea.Msg {
		m.driver.Poll(m.ctx)
		return statusMsg(m.driver.Status())
	}
}
