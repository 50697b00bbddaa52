// Package srt parses SubRip subtitle text into frame-accurate, ordered cues.
package srt

import (
	"fmt"

	"captionscript/internal/timecode"
)

// MaxLines is the number of text lines a cue may carry. The styling rules
// only support one- and two-line captions.
const MaxLines = 2

// Cue is one timed subtitle entry. Immutable after parsing.
type Cue struct {
	Index   int
	StartMS int64
	EndMS   int64
	Span    timecode.Span
	Lines   []string
}

// DurationMS returns the cue duration in milliseconds.
func (c Cue) DurationMS() int64 {
	return c.EndMS - c.StartMS
}

// MalformedSubtitleError reports an SRT block that lacks a valid index,
// timestamp pair, or text, with the offending source line.
type MalformedSubtitleError struct {
	Line   int
	Reason string
}

func (e *MalformedSubtitleError) Error() string {
	return fmt.Sprintf("malformed subtitle at line %d: %s", e.Line, e.Reason)
}

// TooManyLinesError reports a block whose text exceeds the two-line limit.
type TooManyLinesError struct {
	Block int
	Lines int
}

func (e *TooManyLinesError) Error() string {
	return fmt.Sprintf("subtitle block %d has %d text lines; captions support at most %d", e.Block, e.Lines, MaxLines)
}
