package tui

import (
	"context"
	"testing"
	"time"

	"lol-runesync/internal/poller"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDriver struct {
	ticks  int
	polls  int
	status poller.Status
}

func (d *fakeDriver) Tick(context.Context, time.Time) bool {
	d.ticks++
	return true
}

func (d *fakeDriver) Poll(context.Context) { d.polls++ }

func (d *fakeDriver) Status() poller.Status { return d.status }

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestInitPollsImmediately(t *testing.T) {
	d := &fakeDriver{status: poller.Status{State: poller.Idle}}
	m := New(context.Background(), d, "Ranked")

	msg := m.Init()()
	assert.Equal(t, 1, d.polls)
	assert.Equal(t, statusMsg(poller.Status{State: poller.Idle}), msg)
}

func TestStatusSchedulesSingleTick(t *testing.T) {
	d := &fakeDriver{}
	var model tea.Model = New(context.Background(), d, "Ranked")

	model, cmd := model.Update(statusMsg(poller.Status{State: poller.ChampionLocked, ChampionID: 103, ChampionName: "Ahri"}))
	require.NotNil(t, cmd)
	m := model.(Model)
	assert.False(t, m.polling)
	assert.True(t, m.tickPending)

	// a forced refresh while a tick is pending must not start a second tick chain
	model, cmd = m.Update(key("r"))
	require.NotNil(t, cmd)
	model, cmd = model.Update(cmd())
	assert.Nil(t, cmd)
	assert.Equal(t, 1, d.polls)

	model, cmd = model.Update(tickMsg(time.Now()))
	require.NotNil(t, cmd)
	assert.True(t, model.(Model).polling)
	_, _ = model.Update(cmd())
	assert.Equal(t, 1, d.ticks)
}

func TestRefreshIgnoredWhilePolling(t *testing.T) {
	d := &fakeDriver{}
	m := New(context.Background(), d, "Ranked")

	_, cmd := m.Update(key("r"))
	assert.Nil(t, cmd)
}

func TestTickWhilePollingWaits(t *testing.T) {
	d := &fakeDriver{}
	m := New(context.Background(), d, "Ranked")

	_, cmd := m.Update(tickMsg(time.Now()))
	assert.Nil(t, cmd)
	assert.Zero(t, d.ticks)
}

func TestQuit(t *testing.T) {
	m := New(context.Background(), &fakeDriver{}, "Ranked")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestView(t *testing.T) {
	d := &fakeDriver{}
	var model tea.Model = New(context.Background(), d, "ARAM")
	model, _ = model.Update(statusMsg(poller.Status{
		State:           poller.ChampionLocked,
		ChampionID:      103,
		ChampionName:    "Ahri",
		Summoner:        "Faker#KR1",
		LastPage:        "runesync: Ahri, ARAM",
		LastPublishedAt: time.Now().Add(-3 * time.Minute),
		LastError:       "",
	}))

	out := model.View()
	assert.Contains(t, out, "ARAM")
	assert.Contains(t, out, "locked Ahri")
	assert.Contains(t, out, "Faker#KR1")
	assert.Contains(t, out, "runesync: Ahri, ARAM")
	assert.Contains(t, out, "3 minutes ago")
	assert.NotContains(t, out, "error")
}

func TestView_Disconnected(t *testing.T) {
	m := New(context.Background(), &fakeDriver{status: poller.Status{LastError: "lockfile discovery: lockfile not found"}}, "Ranked")

	out := m.View()
	assert.Contains(t, out, "waiting for client")
	assert.Contains(t, out, "lockfile not found")
	assert.Contains(t, out, "polling")
}
