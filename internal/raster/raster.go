// Package raster renders styled caption text into transparent frame-sized
// images: uppercased text with a colored fill, black stroke outline, and a
// soft drop shadow, placed in the bottom safe area of the frame.
package raster

import (
	"fmt"
	"image/color"
)

// Shadow describes the drop shadow treatment.
type Shadow struct {
	OffsetX int
	OffsetY int
	Color   color.NRGBA
	Opacity int // 0-100
	Blur    int // blur radius in pixels
}

// Style carries the typography settings for one render job. Constructed once
// from configuration and never mutated during the job.
type Style struct {
	FontPath       string
	Size           float64
	LetterSpacing  int
	LineHeight     int    // 0 selects ascent+descent plus default leading
	Capitalization string // upper|as-is|lower|title

	Base        color.NRGBA
	StrokeColor color.NRGBA
	StrokeWidth int
	Shadow      Shadow

	OffsetX    int
	OffsetY    int // negative values raise the caption from the bottom edge
	SafeMargin int
}

// FontLoadError reports a font file that could not be opened or parsed.
type FontLoadError struct {
	Path string
	Err  error
}

func (e *FontLoadError) Error() string {
	return fmt.Sprintf("load font %s: %v", e.Path, e.Err)
}

func (e *FontLoadError) Unwrap() error { return e.Err }

// RasterizationError reports caption text wider than the frame's safe width.
// The overflow is reported rather than silently clipped.
type RasterizationError struct {
	Cue       int
	Line      string
	Width     int
	SafeWidth int
}

func (e *RasterizationError) Error() string {
	return fmt.Sprintf("cue %d: line %q is %dpx wide, exceeding the %dpx safe width", e.Cue, e.Line, e.Width, e.SafeWidth)
}
