package accent

import (
	"image/color"
	"math/rand"
)

// DefaultSeed is used when the caller does not supply a seed, so repeated
// runs over the same input stay reproducible.
const DefaultSeed int64 = 47

// Cycler assigns accent colors to styling units in cue order. It is scoped to
// a single render job and must be driven from one sequential pass: the
// no-immediate-repeat rule depends on strict ordering. Not safe for
// concurrent use.
type Cycler struct {
	palette Palette
	rng     *rand.Rand
	last    int
}

// NewCycler constructs a job-scoped cycler seeded with the given value.
// A zero seed selects DefaultSeed.
func NewCycler(palette Palette, seed int64) *Cycler {
	c := &Cycler{palette: palette}
	c.Reset(seed)
	return c
}

// Reset reinitializes the sequence from the supplied seed. Identical seed and
// identical cue sequence reproduce identical assignments.
func (c *Cycler) Reset(seed int64) {
	if seed == 0 {
		seed = DefaultSeed
	}
	c.rng = rand.New(rand.NewSource(seed))
	c.last = -1
}

// Next returns the accent color for the next colorable unit. A draw matching
// the previous assignment is rejected and redrawn once from the remaining
// colors, so consecutive units never share an accent.
func (c *Cycler) Next() color.NRGBA {
	idx := c.NextIndex()
	return c.palette[idx]
}

// NextIndex is Next returning the palette index instead of the color.
func (c *Cycler) NextIndex() int {
	idx := c.rng.Intn(PaletteSize)
	if idx == c.last {
		// Redraw over the other three; shift to skip the rejected slot.
		idx = c.rng.Intn(PaletteSize - 1)
		if idx >= c.last {
			idx++
		}
	}
	c.last = idx
	return idx
}

// Color returns the palette entry at idx.
func (c *Cycler) Color(idx int) color.NRGBA {
	return c.palette[idx]
}
