package tui

import (
	"math/rand/v2"
	"strings"
	"testing"
	"time"

	"github.com/Zachkp/syscry/internal/effects"
	tea "github.com/charmbracelet/bubbletea"
)

func TestClockModelTick(t *testing.T) {
	since := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	until := time.Date(2001, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewClockModel(since, until)

	if m.Init() == nil {
		t.Fatal("Init() should start ticking")
	}

	updated, cmd := m.Update(clockTickMsg(since.Add(2*time.Second + 5*time.Millisecond)))
	if cmd == nil {
		t.Error("tick should schedule the next tick")
	}
	view := updated.View()
	if !strings.Contains(view, "00:000:00:00:02:005") {
		t.Errorf("view missing elapsed time:\n%s", view)
	}
	// 2000 is a leap year: 366 days is one 365-day year and a day.
	if !strings.Contains(view, "01:000:23:59:57:995") {
		t.Errorf("view missing countdown:\n%s", view)
	}
}

func TestClockModelExpired(t *testing.T) {
	since := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewClockModel(since, since.Add(time.Second))

	updated, _ := m.Update(clockTickMsg(since.Add(time.Minute)))
	if !strings.Contains(updated.View(), effects.Expired) {
		t.Errorf("expected %s in view:\n%s", effects.Expired, updated.View())
	}
}

func TestClockModelQuit(t *testing.T) {
	m := NewClockModel(effects.Since, effects.Until)
	for _, key := range []tea.KeyMsg{
		{Type: tea.KeyRunes, Runes: []rune{'q'}},
		{Type: tea.KeyCtrlC},
	} {
		_, cmd := m.Update(key)
		if cmd == nil {
			t.Fatalf("%s should quit", key)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Errorf("%s: cmd() returned %T, want tea.QuitMsg", key, cmd())
		}
	}
}

func TestBannerModelPlaysThrough(t *testing.T) {
	var m tea.Model = NewBannerModel(effects.TypewriterConfig{Strings: []string{"hi", "hello"}}, "", rand.New(rand.NewPCG(1, 1)))
	if m.(BannerModel).Init() == nil {
		t.Fatal("Init() should schedule the reveal")
	}

	steps := 0
	var msg tea.Msg = revealMsg{}
	for !m.(BannerModel).Done() {
		if steps++; steps > 500 {
			t.Fatal("banner never finished")
		}
		var cmd tea.Cmd
		m, cmd = m.Update(msg)
		if m.(BannerModel).Done() {
			if cmd != nil {
				t.Error("finished banner should stop scheduling")
			}
			break
		}
		if cmd == nil {
			t.Fatalf("step %d: expected a scheduled command", steps)
		}
		if m.(BannerModel).frame >= len(m.(BannerModel).frames) {
			msg = typeMsg{}
		}
	}

	b := m.(BannerModel)
	if b.Logo() != effects.LogoText {
		t.Errorf("Logo() = %q", b.Logo())
	}
	view := b.View()
	if !strings.Contains(view, "hello") {
		t.Errorf("view missing typed text:\n%s", view)
	}
	if strings.Contains(view, "hello"+b.cursor) {
		t.Error("cursor should be hidden once done")
	}
}

func TestBannerModelQuit(t *testing.T) {
	m := NewBannerModel(effects.TypewriterConfig{Strings: []string{"x"}}, "", nil)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	if cmd == nil {
		t.Fatal("esc should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Errorf("cmd() returned %T, want tea.QuitMsg", cmd())
	}
}

// finish plays the reveal and typewriter to the end.
func finish(t *testing.T, m BannerModel) BannerModel {
	t.Helper()
	var model tea.Model = m
	for i := 0; i < 500 && !model.(BannerModel).Done(); i++ {
		var msg tea.Msg = revealMsg{}
		if b := model.(BannerModel); b.frame >= len(b.frames) {
			msg = typeMsg{}
		}
		model, _ = model.Update(msg)
	}
	if !model.(BannerModel).Done() {
		t.Fatal("banner never finished")
	}
	return model.(BannerModel)
}

func TestBannerHoverIgnoredWhileTyping(t *testing.T) {
	m := NewBannerModel(effects.TypewriterConfig{Strings: []string{"hi"}}, "ho", nil)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}})
	if cmd != nil || updated.(BannerModel).Hovering() {
		t.Error("hover should wait for the reveal to finish")
	}
}

func TestBannerHoverWaveAndSettle(t *testing.T) {
	hoverKey := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'h'}}
	m := finish(t, NewBannerModel(effects.TypewriterConfig{Strings: []string{"hello"}}, "work", rand.New(rand.NewPCG(7, 7))))

	model, cmd := m.Update(hoverKey)
	b := model.(BannerModel)
	if !b.Hovering() || cmd == nil {
		t.Fatal("h should start hovering")
	}
	if b.line != "" {
		t.Errorf("hover text should start typing from empty, got %q", b.line)
	}

	// Hover typewriter: one more character per tick.
	for i := 1; i <= len("work"); i++ {
		model, _ = model.Update(hoverTypeMsg{b.gen})
		if got := model.(BannerModel).line; got != "work"[:i] {
			t.Fatalf("hover frame %d = %q", i, got)
		}
	}

	// Wave frames keep the logo length and reschedule themselves.
	for i := 0; i < 20; i++ {
		var next tea.Cmd
		model, next = model.Update(waveMsg{b.gen})
		if next == nil {
			t.Fatal("wave should keep ticking while hovering")
		}
		if n := len([]rune(model.(BannerModel).Logo())); n != len([]rune(effects.LogoText)) {
			t.Fatalf("wave logo length %d", n)
		}
	}
	if p := model.(BannerModel).phase; p < 20*effects.WavePhaseStep-1e-9 {
		t.Errorf("phase = %v", p)
	}

	// Leaving settles the logo back and retypes the original line.
	model, cmd = model.Update(hoverKey)
	b = model.(BannerModel)
	if b.Hovering() || cmd == nil {
		t.Fatal("second h should stop hovering")
	}
	if _, next := model.Update(waveMsg{b.gen - 1}); next != nil {
		t.Error("stale wave tick should be dropped")
	}
	for i := 0; i < len(effects.LogoText)+5; i++ {
		model, _ = model.Update(settleMsg{b.gen})
		model, _ = model.Update(hoverTypeMsg{b.gen})
	}
	b = model.(BannerModel)
	if b.Logo() != effects.LogoText {
		t.Errorf("Logo() after settle = %q", b.Logo())
	}
	if b.line != "hello" {
		t.Errorf("line after leaving = %q, want hello", b.line)
	}
}
