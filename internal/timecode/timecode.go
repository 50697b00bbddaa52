// Package timecode converts subtitle wall-clock timestamps into frame counts
// for a caller-supplied rational frame rate.
package timecode

import "fmt"

// Rate is a rational frames-per-second value (e.g. 30000/1001 for 29.97).
type Rate struct {
	Num int64
	Den int64
}

// Validate reports whether the rate is usable.
func (r Rate) Validate() error {
	if r.Num <= 0 || r.Den <= 0 {
		return fmt.Errorf("frame rate %d/%d: numerator and denominator must be positive", r.Num, r.Den)
	}
	return nil
}

func (r Rate) String() string {
	if r.Den == 1 {
		return fmt.Sprintf("%d", r.Num)
	}
	return fmt.Sprintf("%d/%d", r.Num, r.Den)
}

// FPS returns the rate as a float for display purposes only; all frame math
// stays on integers.
func (r Rate) FPS() float64 {
	return float64(r.Num) / float64(r.Den)
}

// Span is a frame-accurate interval.
type Span struct {
	In  int64
	Out int64
}

// Frames returns the span duration in frame units.
func (s Span) Frames() int64 {
	return s.Out - s.In
}

// minimum span enforced when rounding collapses a cue to zero or one frames.
const minSpanFrames = 2

// Frame converts a millisecond timestamp to the nearest frame index,
// rounding half away from zero on exact rational arithmetic.
func Frame(ms int64, rate Rate) int64 {
	// frame = round(ms * num / (1000 * den))
	num := ms * rate.Num
	den := 1000 * rate.Den
	return (2*num + den) / (2 * den)
}

// ToSpan converts a cue's start/end milliseconds into a frame span, enforcing
// a 2-frame minimum duration so sub-frame cues stay visible.
func ToSpan(startMS, endMS int64, rate Rate) Span {
	in := Frame(startMS, rate)
	out := Frame(endMS, rate)
	if out <= in {
		out = in + minSpanFrames
	}
	return Span{In: in, Out: out}
}
