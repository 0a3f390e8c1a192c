package effects

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// ErrNoStrings is returned for a typewriter attribute with nothing to type.
var ErrNoStrings = errors.New("please insert some texts separated by |")

const (
	DefaultPeriod  = 1000 * time.Millisecond
	DefaultWriting = 200 * time.Millisecond
	// HoverInterval is the per-character delay of the hover typewriter.
	HoverInterval = 20 * time.Millisecond

	writingJitter = 100 * time.Millisecond
)

// TypewriterConfig is what a sys-typewriter element asks for.
type TypewriterConfig struct {
	Strings     []string
	Period      time.Duration
	Writing     time.Duration
	Cursor      string
	CursorColor string
}

// ParseTypewriter reads the element's attributes: sys-typewriter (texts
// separated by |), period and writing (milliseconds), cursor and color.
// The element's current text is typed first.
func ParseTypewriter(attrs map[string]string, initial string) (TypewriterConfig, error) {
	parts := strings.Split(attrs["sys-typewriter"], "|")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	if len(parts) == 0 || parts[0] == "" {
		return TypewriterConfig{}, ErrNoStrings
	}

	cfg := TypewriterConfig{
		Strings:     append([]string{initial}, parts...),
		Period:      millis(attrs["period"], DefaultPeriod),
		Writing:     millis(attrs["writing"], DefaultWriting),
		Cursor:      attrs["cursor"],
		CursorColor: attrs["color"],
	}
	if cfg.CursorColor == "" {
		cfg.CursorColor = "black"
	}
	return cfg, nil
}

// millis parses a leading integer the way browsers parse "200" or "200ms".
// Missing, invalid or non-positive values give def.
func millis(s string, def time.Duration) time.Duration {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[0] == '-' || s[0] == '+') {
		end++
	}
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return def
	}
	return time.Duration(n) * time.Millisecond
}

// Typewriter types a list of strings one character at a time. When a
// string is complete it pauses for the period, then grows the text into
// the next string from its current length rather than starting over.
type Typewriter struct {
	strings [][]rune
	period  time.Duration
	writing time.Duration
	rnd     func() float64

	index int
	text  []rune
	done  bool
}

// NewTypewriter returns a typewriter over cfg.Strings. rnd supplies the
// typing jitter in [0, 1); nil means no jitter.
func NewTypewriter(cfg TypewriterConfig, rnd func() float64) *Typewriter {
	t := &Typewriter{period: cfg.Period, writing: cfg.Writing, rnd: rnd}
	for _, s := range cfg.Strings {
		t.strings = append(t.strings, []rune(s))
	}
	if t.period <= 0 {
		t.period = DefaultPeriod
	}
	if t.writing <= 0 {
		t.writing = DefaultWriting
	}
	t.done = len(t.strings) == 0
	return t
}

// Next advances one character. It returns the text to show and how long
// to wait before calling Next again; ok is false once the last string is
// fully typed.
func (t *Typewriter) Next() (text string, delay time.Duration, ok bool) {
	if t.done {
		return string(t.text), 0, false
	}

	current := t.strings[t.index]
	n := min(len(t.text)+1, len(current))
	t.text = append(t.text[:0:0], current[:n]...)

	if len(t.text) < len(current) {
		jitter := 0.0
		if t.rnd != nil {
			jitter = t.rnd()
		}
		return string(t.text), t.writing - time.Duration(jitter*float64(writingJitter)), true
	}

	t.index++
	if t.index < len(t.strings) {
		return string(t.text), t.period, true
	}
	t.done = true
	return string(t.text), 0, false
}

// Text returns what is currently shown.
func (t *Typewriter) Text() string { return string(t.text) }

// TypeFrames returns every prefix of text from empty to complete, the
// frames of the hover typewriter.
func TypeFrames(text string) []string {
	runes := []rune(text)
	frames := make([]string, 0, len(runes)+1)
	for i := 0; i <= len(runes); i++ {
		frames = append(frames, string(runes[:i]))
	}
	return frames
}
