package tui

import (
	"math/rand/v2"
	"time"

	"github.com/Zachkp/syscry/internal/effects"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// waveFrame paces the hover wave like requestAnimationFrame.
const waveFrame = time.Second / 60

type revealMsg struct{}

type typeMsg struct{}

// Hover animations carry the generation they were started in so ticks
// from a previous hover are dropped.
type (
	waveMsg      struct{ gen int }
	settleMsg    struct{ gen int }
	hoverTypeMsg struct{ gen int }
)

// BannerModel plays the logo reveal, then types its strings underneath.
// Once typing is done, h toggles the hover state: the logo scrambles in a
// wave and the line retypes into the hover text, and back again.
type BannerModel struct {
	scr    *effects.Scrambler
	frames []effects.Frame
	frame  int
	tw     *effects.Typewriter
	line   string
	cursor string
	done   bool

	hoverText string
	typed     string
	hovering  bool
	gen       int
	phase     float64
	logo      string
	settle    []effects.Frame
	settleAt  int
	retype    []string
	retypeAt  int
}

// NewBannerModel builds a banner that types cfg.Strings after revealing
// the logo. hoverText, when set, is typed in while hovering.
func NewBannerModel(cfg effects.TypewriterConfig, hoverText string, rnd *rand.Rand) BannerModel {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	scr := effects.NewScrambler(effects.LogoText, rnd)
	cursor := cfg.Cursor
	if cursor == "" {
		cursor = "|"
	}
	return BannerModel{
		scr:       scr,
		frames:    scr.Reveal(),
		tw:        effects.NewTypewriter(cfg, rnd.Float64),
		cursor:    cursor,
		hoverText: hoverText,
	}
}

func after(d time.Duration, msg tea.Msg) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return msg })
}

func (m BannerModel) Init() tea.Cmd {
	if len(m.frames) == 0 {
		return after(0, typeMsg{})
	}
	return after(m.frames[0].Delay, revealMsg{})
}

func (m BannerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case revealMsg:
		m.frame++
		if m.frame < len(m.frames) {
			return m, after(m.frames[m.frame].Delay, revealMsg{})
		}
		return m.typeNext()
	case typeMsg:
		return m.typeNext()
	case waveMsg:
		if msg.gen != m.gen || !m.hovering {
			return m, nil
		}
		m.phase += effects.WavePhaseStep
		m.logo = m.scr.Wave(m.phase)
		return m, after(waveFrame, waveMsg{m.gen})
	case settleMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.settleAt++
		if m.settleAt >= len(m.settle) {
			return m, nil
		}
		m.logo = m.settle[m.settleAt].Text
		if m.settleAt == len(m.settle)-1 {
			return m, nil
		}
		return m, after(m.settle[m.settleAt].Delay, settleMsg{m.gen})
	case hoverTypeMsg:
		if msg.gen != m.gen {
			return m, nil
		}
		m.retypeAt++
		if m.retypeAt >= len(m.retype) {
			return m, nil
		}
		m.line = m.retype[m.retypeAt]
		if m.retypeAt == len(m.retype)-1 {
			return m, nil
		}
		return m, after(effects.HoverInterval, hoverTypeMsg{m.gen})
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "h":
			return m.toggleHover()
		}
	}
	return m, nil
}

func (m BannerModel) typeNext() (tea.Model, tea.Cmd) {
	text, delay, ok := m.tw.Next()
	m.line = text
	if !ok {
		m.done = true
		m.typed = text
		return m, nil
	}
	return m, after(delay, typeMsg{})
}

// toggleHover starts or stops the hover animations. Nothing happens until
// the reveal and typing have finished.
func (m BannerModel) toggleHover() (tea.Model, tea.Cmd) {
	if !m.done {
		return m, nil
	}
	m.gen++
	m.hovering = !m.hovering

	target := m.typed
	var logoCmd tea.Cmd
	if m.hovering {
		m.phase = 0
		target = m.hoverText
		logoCmd = after(waveFrame, waveMsg{m.gen})
	} else {
		m.settle = m.scr.Settle(m.Logo())
		m.settleAt = 0
		m.logo = m.settle[0].Text
		logoCmd = after(m.settle[0].Delay, settleMsg{m.gen})
	}

	if m.hoverText == "" {
		return m, logoCmd
	}
	m.retype = effects.TypeFrames(target)
	m.retypeAt = 0
	m.line = m.retype[0]
	return m, tea.Batch(logoCmd, after(effects.HoverInterval, hoverTypeMsg{m.gen}))
}

// Logo returns the logo as currently shown.
func (m BannerModel) Logo() string {
	if m.logo != "" {
		return m.logo
	}
	if len(m.frames) == 0 {
		return effects.LogoText
	}
	return m.frames[min(m.frame, len(m.frames)-1)].Text
}

// Done reports whether every line has been typed.
func (m BannerModel) Done() bool { return m.done }

// Hovering reports whether the hover animations are running.
func (m BannerModel) Hovering() bool { return m.hovering }

func (m BannerModel) View() string {
	line := TypedStyle.Render(m.line)
	if !m.done {
		line += CursorStyle.Render(m.cursor)
	}
	help := "q to quit"
	if m.done {
		help = "h to hover, q to quit"
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		LogoStyle.Render(m.Logo()),
		line,
		HelpStyle.Render(help),
	)
}
