package effects

import (
	"math"
	"math/rand/v2"
	"time"
)

const (
	LogoText      = "-sys(cry)"
	ScrambleChars = "01-sys(cry)_./|<>[]{}*@#$%&"

	// WavePhaseStep is how far the hover wave advances per frame.
	WavePhaseStep = 0.15

	scramblesPerLetter = 5
	scrambleDelay      = 40 * time.Millisecond
	letterDelay        = 100 * time.Millisecond
	settleDelay        = 30 * time.Millisecond
)

// Frame is one step of an animation: the text to show, then how long to
// hold it.
type Frame struct {
	Text  string
	Delay time.Duration
}

// Scrambler produces the logo's matrix-style animations.
type Scrambler struct {
	text  []rune
	chars []rune
	rnd   *rand.Rand
}

// NewScrambler animates text using ScrambleChars as noise.
func NewScrambler(text string, rnd *rand.Rand) *Scrambler {
	if rnd == nil {
		rnd = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	return &Scrambler{text: []rune(text), chars: []rune(ScrambleChars), rnd: rnd}
}

func (s *Scrambler) noise() rune {
	return s.chars[s.rnd.IntN(len(s.chars))]
}

// Reveal is the page-load animation: each letter is preceded by a few
// frames of random noise in its position.
func (s *Scrambler) Reveal() []Frame {
	frames := make([]Frame, 0, len(s.text)*(scramblesPerLetter+1))
	for i := range s.text {
		prefix := string(s.text[:i])
		for range scramblesPerLetter {
			frames = append(frames, Frame{Text: prefix + string(s.noise()), Delay: scrambleDelay})
		}
		frames = append(frames, Frame{Text: string(s.text[:i+1]), Delay: letterDelay})
	}
	return frames
}

// Wave renders one hover frame. Each character is replaced by noise with
// a probability that moves along the text as phase grows.
func (s *Scrambler) Wave(phase float64) string {
	out := make([]rune, len(s.text))
	for i, r := range s.text {
		chance := 0.3 + math.Sin(phase+float64(i)*0.5)*0.3
		if s.rnd.Float64() < chance {
			out[i] = s.noise()
		} else {
			out[i] = r
		}
	}
	return string(out)
}

// Settle returns the frames that resolve current back to the text when
// the hover ends, one more correct character per frame from the left.
func (s *Scrambler) Settle(current string) []Frame {
	cur := []rune(current)
	frames := make([]Frame, 0, len(s.text)+1)
	for step := range s.text {
		out := make([]rune, len(s.text))
		for i, r := range s.text {
			switch {
			case i <= step:
				out[i] = r
			case s.rnd.Float64() > 0.5:
				out[i] = s.noise()
			case i < len(cur):
				out[i] = cur[i]
			default:
				out[i] = r
			}
		}
		frames = append(frames, Frame{Text: string(out), Delay: settleDelay})
	}
	return append(frames, Frame{Text: string(s.text)})
}
