// Package segment splits cue text into styling units: a base-styled leading
// span and at most one accent-colored span per caption.
package segment

import (
	"strings"

	"captionscript/internal/srt"
)

// Line is one rendered caption line split into styling units. Base holds the
// leading uncolored words, Accent the colorable trailing span. Either may be
// empty; both empty means the line had no text after trimming.
type Line struct {
	Base   string
	Accent string
}

// Text reassembles the full line.
func (l Line) Text() string {
	switch {
	case l.Base == "":
		return l.Accent
	case l.Accent == "":
		return l.Base
	default:
		return l.Base + " " + l.Accent
	}
}

// Caption is a cue with its styling units and, once the sequential color
// pass has run, the assigned accent palette index (-1 beforehand and for
// captions with nothing to color).
type Caption struct {
	Cue         srt.Cue
	Lines       []Line
	AccentIndex int
}

// HasAccent reports whether any line carries a colorable unit.
func (c Caption) HasAccent() bool {
	for _, line := range c.Lines {
		if line.Accent != "" {
			return true
		}
	}
	return false
}

// ColoredWords returns the number of words in the caption's accent span.
func (c Caption) ColoredWords() int {
	for _, line := range c.Lines {
		if line.Accent != "" {
			return len(strings.Fields(line.Accent))
		}
	}
	return 0
}

// Build derives styling units from a cue.
//
// Two-line cues keep the first line base-styled and make the entire second
// line the colorable unit. Single-line cues color the trailing ⌈N/2⌉ words.
// A line that is empty after trimming produces no colorable unit.
func Build(cue srt.Cue) Caption {
	caption := Caption{Cue: cue, AccentIndex: -1}

	if len(cue.Lines) == 2 {
		first := strings.TrimSpace(cue.Lines[0])
		second := strings.TrimSpace(cue.Lines[1])
		caption.Lines = []Line{
			{Base: first},
			{Accent: second},
		}
		return caption
	}

	text := ""
	if len(cue.Lines) == 1 {
		text = strings.TrimSpace(cue.Lines[0])
	}
	if text == "" {
		caption.Lines = []Line{{}}
		return caption
	}

	words := strings.Fields(text)
	colored := (len(words) + 1) / 2
	split := len(words) - colored
	caption.Lines = []Line{{
		Base:   strings.Join(words[:split], " "),
		Accent: strings.Join(words[split:], " "),
	}}
	return caption
}

// BuildAll derives styling units for every cue, preserving order.
func BuildAll(cues []srt.Cue) []Caption {
	captions := make([]Caption, len(cues))
	for i, cue := range cues {
		captions[i] = Build(cue)
	}
	return captions
}
