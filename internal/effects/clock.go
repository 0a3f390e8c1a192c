// Package effects holds the timing and text logic behind the site's visual
// effects, independent of how they are rendered.
package effects

import (
	"fmt"
	"time"
)

// Expired replaces the countdown once the target has passed.
const Expired = "EXPIRED"

const (
	msPerSecond = 1000
	msPerMinute = 60 * msPerSecond
	msPerHour   = 60 * msPerMinute
	msPerDay    = 24 * msPerHour
	msPerYear   = 365 * msPerDay
)

var (
	// Since is where the elapsed clock counts up from.
	Since = time.Date(1989, time.January, 28, 0, 0, 0, 0, time.Local)
	// Until is where the countdown clock counts down to.
	Until = time.Date(2100, time.January, 28, 23, 59, 59, 0, time.Local)
)

// Span is a duration split into calendar-ish parts. Years are 365 days;
// leap days are not accounted for.
type Span struct {
	Years   int64
	Days    int64
	Hours   int64
	Minutes int64
	Seconds int64
	Millis  int64
}

// Split breaks d down into a Span. Negative durations are treated as zero.
func Split(d time.Duration) Span {
	ms := d.Milliseconds()
	if ms < 0 {
		ms = 0
	}
	return Span{
		Years:   ms / msPerYear,
		Days:    ms % msPerYear / msPerDay,
		Hours:   ms % msPerDay / msPerHour,
		Minutes: ms % msPerHour / msPerMinute,
		Seconds: ms % msPerMinute / msPerSecond,
		Millis:  ms % msPerSecond,
	}
}

// String formats the span as YY:DDD:HH:MM:SS:mmm.
func (s Span) String() string {
	return fmt.Sprintf("%02d:%03d:%02d:%02d:%02d:%03d",
		s.Years, s.Days, s.Hours, s.Minutes, s.Seconds, s.Millis)
}

// Elapsed formats the time passed between since and now.
func Elapsed(since, now time.Time) string {
	return Split(now.Sub(since)).String()
}

// Countdown formats the time left until target, or Expired once it has
// passed. The bool reports expiry so callers can stop ticking.
func Countdown(target, now time.Time) (string, bool) {
	left := target.Sub(now)
	if left < 0 {
		return Expired, true
	}
	return Split(left).String(), false
}
