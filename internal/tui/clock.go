// Package tui renders the site's effects in a terminal with bubbletea.
package tui

import (
	"time"

	"github.com/Zachkp/syscry/internal/effects"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// ClockInterval matches the 10ms refresh of the site's clocks.
const ClockInterval = 10 * time.Millisecond

type clockTickMsg time.Time

// ClockModel shows the elapsed clock and the countdown side by side.
type ClockModel struct {
	since time.Time
	until time.Time
	now   time.Time
	width int
}

// NewClockModel counts up from since and down to until.
func NewClockModel(since, until time.Time) ClockModel {
	return ClockModel{since: since, until: until, now: time.Now()}
}

func clockTick() tea.Cmd {
	return tea.Tick(ClockInterval, func(t time.Time) tea.Msg { return clockTickMsg(t) })
}

func (m ClockModel) Init() tea.Cmd {
	return clockTick()
}

func (m ClockModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clockTickMsg:
		m.now = time.Time(msg)
		return m, clockTick()
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m ClockModel) View() string {
	elapsed := ClockStyle.Render(effects.Elapsed(m.since, m.now))

	countdown, expired := effects.Countdown(m.until, m.now)
	if expired {
		countdown = ExpiredStyle.Render(countdown)
	} else {
		countdown = ClockStyle.Render(countdown)
	}

	body := lipgloss.JoinVertical(lipgloss.Left,
		LabelStyle.Render("after")+elapsed,
		LabelStyle.Render("before")+countdown,
	)
	view := lipgloss.JoinVertical(lipgloss.Left, FrameStyle.Render(body), HelpStyle.Render("q to quit"))
	if m.width > 0 {
		return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, view)
	}
	return view
}
