// Package accent owns the accent color palette and the deterministic color
// cycling state used to pick one accent per colorable styling unit.
package accent

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// PaletteSize is the fixed number of accent colors a render job cycles over.
const PaletteSize = 4

// ParseColor parses a #RRGGBB or #RRGGBBAA hex string into an NRGBA color.
func ParseColor(value string) (color.NRGBA, error) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, "#") {
		return color.NRGBA{}, fmt.Errorf("color %q: missing leading '#'", value)
	}
	hex := trimmed[1:]
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("color %q: expected 6 or 8 hex digits", value)
	}
	parsed, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("color %q: %w", value, err)
	}
	c := color.NRGBA{A: 0xFF}
	if len(hex) == 8 {
		c.A = uint8(parsed & 0xFF)
		parsed >>= 8
	}
	c.B = uint8(parsed & 0xFF)
	c.G = uint8((parsed >> 8) & 0xFF)
	c.R = uint8((parsed >> 16) & 0xFF)
	return c, nil
}

// Palette is the fixed set of accent colors for one render job.
type Palette [PaletteSize]color.NRGBA

// NewPalette parses exactly four hex color values.
func NewPalette(values []string) (Palette, error) {
	var palette Palette
	if len(values) != PaletteSize {
		return palette, fmt.Errorf("palette requires exactly %d accent colors, got %d", PaletteSize, len(values))
	}
	for i, value := range values {
		c, err := ParseColor(value)
		if err != nil {
			return palette, fmt.Errorf("accent %d: %w", i, err)
		}
		palette[i] = c
	}
	return palette, nil
}
