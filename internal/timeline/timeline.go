// Package timeline emits frame-accurate editing-timeline descriptors that
// align rendered caption assets with the source footage in a video editor.
package timeline

import (
	"fmt"

	"captionscript/internal/srt"
	"captionscript/internal/timecode"
)

// Format selects the descriptor dialect.
type Format string

const (
	// FormatFCPXML targets Final Cut Pro X and Premiere Pro (FCPXML 1.6).
	FormatFCPXML Format = "fcpxml"
	// FormatXMEML targets Premiere Pro via legacy FCP 7 sequence XML.
	FormatXMEML Format = "xmeml"
)

// FileName returns the descriptor file name for the format.
func (f Format) FileName() string {
	if f == FormatXMEML {
		return "captions.xml"
	}
	return "captions.fcpxml"
}

// Valid reports whether the format is a known dialect.
func (f Format) Valid() bool {
	return f == FormatFCPXML || f == FormatXMEML
}

// Asset is one rendered caption referenced by the descriptor.
type Asset struct {
	Index int    // source cue index
	File  string // file name relative to the descriptor
	Span  timecode.Span
}

// Descriptor is the frame-accurate clip list for one render job. Clips sit
// on a single overlay track, ordered by start frame, never overlapping.
type Descriptor struct {
	Rate       timecode.Rate
	Width      int
	Height     int
	TrackIndex int
	Assets     []Asset
}

// Duration returns the timeline end in frame units.
func (d Descriptor) Duration() int64 {
	if len(d.Assets) == 0 {
		return 0
	}
	return d.Assets[len(d.Assets)-1].Span.Out
}

// Validate checks the strict-ordering invariant over the clip entries.
func (d Descriptor) Validate() error {
	for i := 1; i < len(d.Assets); i++ {
		prev, cur := d.Assets[i-1], d.Assets[i]
		if cur.Span.In < prev.Span.Out {
			return &OverlappingCueError{Previous: prev.Index, Cue: cur.Index}
		}
	}
	return nil
}

// OverlappingCueError reports two cues whose intervals intersect.
type OverlappingCueError struct {
	Previous int
	Cue      int
}

func (e *OverlappingCueError) Error() string {
	return fmt.Sprintf("cue %d starts before cue %d ends", e.Cue, e.Previous)
}

// ValidateCues rejects overlapping cue intervals before any rendering work
// begins. Cues are checked in input order against their frame spans.
func ValidateCues(cues []srt.Cue) error {
	for i := 1; i < len(cues); i++ {
		prev, cur := cues[i-1], cues[i]
		if cur.Span.In < prev.Span.Out {
			return &OverlappingCueError{Previous: prev.Index, Cue: cur.Index}
		}
	}
	return nil
}
