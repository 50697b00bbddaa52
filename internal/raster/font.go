package raster

import (
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// loadFace opens and parses the configured font file at the given pixel
// size. The font file is expected to be the bold cut; captions are never
// rendered italic regardless of the source styling.
func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}
	parsed, err := opentype.Parse(data)
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, &FontLoadError{Path: path, Err: err}
	}
	return face, nil
}
