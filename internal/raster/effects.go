package raster

import (
	"image"
	"image/color"
	"image/draw"
)

// applyShadow composites a blurred, tinted copy of the text layer's alpha
// under the text itself, offset by the configured shadow displacement.
func applyShadow(textLayer *image.NRGBA, shadow Shadow) *image.NRGBA {
	bounds := textLayer.Bounds()
	mask := extractAlpha(textLayer)
	if shadow.Blur > 0 {
		mask = boxBlur(mask, shadow.Blur)
		mask = boxBlur(mask, shadow.Blur)
	}

	opacity := shadow.Opacity
	if opacity > 100 {
		opacity = 100
	}

	result := image.NewNRGBA(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			a := mask.AlphaAt(x, y).A
			if a == 0 {
				continue
			}
			scaled := uint8(int(a) * opacity / 100)
			if scaled == 0 {
				continue
			}
			sx := x + shadow.OffsetX
			sy := y + shadow.OffsetY
			if sx < bounds.Min.X || sx >= bounds.Max.X || sy < bounds.Min.Y || sy >= bounds.Max.Y {
				continue
			}
			tinted := shadow.Color
			tinted.A = uint8(int(scaled) * int(shadow.Color.A) / 255)
			result.SetNRGBA(sx, sy, tinted)
		}
	}

	draw.Draw(result, bounds, textLayer, bounds.Min, draw.Over)
	return result
}

func extractAlpha(img *image.NRGBA) *image.Alpha {
	bounds := img.Bounds()
	mask := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			mask.SetAlpha(x, y, color.Alpha{A: img.NRGBAAt(x, y).A})
		}
	}
	return mask
}

// boxBlur runs one separable box-blur pass over an alpha mask. Two passes
// approximate a gaussian closely enough for a soft shadow.
func boxBlur(mask *image.Alpha, radius int) *image.Alpha {
	if radius <= 0 {
		return mask
	}
	bounds := mask.Bounds()
	window := 2*radius + 1

	horizontal := image.NewAlpha(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		sum := 0
		for x := bounds.Min.X - radius; x < bounds.Min.X+radius; x++ {
			sum += alphaAtClamped(mask, x, y)
		}
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			sum += alphaAtClamped(mask, x+radius, y)
			horizontal.SetAlpha(x, y, color.Alpha{A: uint8(sum / window)})
			sum -= alphaAtClamped(mask, x-radius, y)
		}
	}

	vertical := image.NewAlpha(bounds)
	for x := bounds.Min.X; x < bounds.Max.X; x++ {
		sum := 0
		for y := bounds.Min.Y - radius; y < bounds.Min.Y+radius; y++ {
			sum += alphaAtClamped(horizontal, x, y)
		}
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			sum += alphaAtClamped(horizontal, x, y+radius)
			vertical.SetAlpha(x, y, color.Alpha{A: uint8(sum / window)})
			sum -= alphaAtClamped(horizontal, x, y-radius)
		}
	}
	return vertical
}

func alphaAtClamped(mask *image.Alpha, x, y int) int {
	bounds := mask.Bounds()
	if x < bounds.Min.X || x >= bounds.Max.X || y < bounds.Min.Y || y >= bounds.Max.Y {
		return 0
	}
	return int(mask.AlphaAt(x, y).A)
}

// TrimAndPad crops an image to its opaque bounding box and pads it with a
// transparent margin. A fully transparent input yields a margin-sized blank.
func TrimAndPad(img *image.NRGBA, margin int) *image.NRGBA {
	bbox, ok := opaqueBounds(img)
	if !ok {
		size := 2*margin + 1
		return image.NewNRGBA(image.Rect(0, 0, size, size))
	}
	out := image.NewNRGBA(image.Rect(0, 0, bbox.Dx()+2*margin, bbox.Dy()+2*margin))
	target := image.Rect(margin, margin, margin+bbox.Dx(), margin+bbox.Dy())
	draw.Draw(out, target, img, bbox.Min, draw.Src)
	return out
}

func opaqueBounds(img *image.NRGBA) (image.Rectangle, bool) {
	bounds := img.Bounds()
	minX, minY := bounds.Max.X, bounds.Max.Y
	maxX, maxY := bounds.Min.X-1, bounds.Min.Y-1
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if img.NRGBAAt(x, y).A == 0 {
				continue
			}
			if x < minX {
				minX = x
			}
			if x > maxX {
				maxX = x
			}
			if y < minY {
				minY = y
			}
			if y > maxY {
				maxY = y
			}
		}
	}
	if maxX < minX {
		return image.Rectangle{}, false
	}
	return image.Rect(minX, minY, maxX+1, maxY+1), true
}
