package raster

import (
	"image"
	"image/color"
	"image/draw"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"captionscript/internal/segment"
)

// defaultLeading is the extra vertical space added between stacked lines
// when no explicit line height is configured.
const defaultLeading = 10

// Renderer rasterizes captions onto transparent frame-sized images. A
// renderer is job-scoped; Render may be called from multiple goroutines
// since it only reads the face and style.
type Renderer struct {
	style  Style
	face   font.Face
	frame  image.Point
	titler cases.Caser
}

// NewRenderer loads the configured font and prepares a renderer for the
// given frame size. Frames 3840px and wider double the configured font size.
func NewRenderer(style Style, frame image.Point) (*Renderer, error) {
	size := style.Size
	if frame.X >= 3840 {
		size *= 2
	}
	face, err := loadFace(style.FontPath, size)
	if err != nil {
		return nil, err
	}
	return NewRendererWithFace(style, frame, face), nil
}

// NewRendererWithFace constructs a renderer around an already-built face.
// Used by tests to avoid depending on font files on disk.
func NewRendererWithFace(style Style, frame image.Point, face font.Face) *Renderer {
	return &Renderer{
		style:  style,
		face:   face,
		frame:  frame,
		titler: cases.Title(language.English),
	}
}

// Frame returns the target frame dimensions.
func (r *Renderer) Frame() image.Point { return r.frame }

// Style returns the renderer's style settings.
func (r *Renderer) Style() Style { return r.style }

type token struct {
	text string
	fill color.NRGBA
}

// Render rasterizes one caption with its assigned accent color and returns a
// transparent frame-sized image. Lines are stacked, centered horizontally,
// and anchored to the bottom safe area.
func (r *Renderer) Render(caption segment.Caption, accent color.NRGBA) (*image.NRGBA, error) {
	metrics := r.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	lineHeight := r.style.LineHeight
	if lineHeight <= 0 {
		lineHeight = ascent + descent + defaultLeading
	}

	type measuredLine struct {
		images []*image.NRGBA
		width  int
	}

	spaceWidth := font.MeasureString(r.face, " ").Ceil()
	advance := spaceWidth + r.style.LetterSpacing
	safeWidth := r.frame.X - 2*r.style.SafeMargin

	lines := make([]measuredLine, 0, len(caption.Lines))
	for _, line := range caption.Lines {
		tokens := r.lineTokens(line, accent)
		measured := measuredLine{}
		for _, tok := range tokens {
			img := r.renderToken(tok.text, tok.fill)
			measured.images = append(measured.images, img)
			measured.width += img.Bounds().Dx()
		}
		if n := len(measured.images); n > 1 {
			measured.width += advance * (n - 1)
		}
		if measured.width > safeWidth {
			return nil, &RasterizationError{
				Cue:       caption.Cue.Index,
				Line:      line.Text(),
				Width:     measured.width,
				SafeWidth: safeWidth,
			}
		}
		lines = append(lines, measured)
	}

	textLayer := image.NewNRGBA(image.Rect(0, 0, r.frame.X, r.frame.Y))
	totalHeight := lineHeight * len(lines)
	yStart := r.frame.Y + r.style.OffsetY - totalHeight

	for i, line := range lines {
		x := (r.frame.X-line.width)/2 + r.style.OffsetX
		y := yStart + i*lineHeight
		for _, img := range line.images {
			bounds := img.Bounds()
			target := image.Rect(x, y, x+bounds.Dx(), y+bounds.Dy())
			draw.Draw(textLayer, target, img, bounds.Min, draw.Over)
			x += bounds.Dx() + advance
		}
	}

	if r.style.Shadow.Opacity > 0 {
		return applyShadow(textLayer, r.style.Shadow), nil
	}
	return textLayer, nil
}

// lineTokens splits a styled line into per-word draw tokens, applying the
// configured capitalization.
func (r *Renderer) lineTokens(line segment.Line, accent color.NRGBA) []token {
	tokens := make([]token, 0, 8)
	for _, word := range strings.Fields(r.capitalize(line.Base)) {
		tokens = append(tokens, token{text: word, fill: r.style.Base})
	}
	for _, word := range strings.Fields(r.capitalize(line.Accent)) {
		tokens = append(tokens, token{text: word, fill: accent})
	}
	return tokens
}

func (r *Renderer) capitalize(text string) string {
	switch r.style.Capitalization {
	case "as-is":
		return text
	case "lower":
		return strings.ToLower(text)
	case "title":
		return r.titler.String(strings.ToLower(text))
	default:
		return strings.ToUpper(text)
	}
}

// renderToken draws a single word with its stroke outline: one pass per
// stroke offset, then the fill on top.
func (r *Renderer) renderToken(text string, fill color.NRGBA) *image.NRGBA {
	metrics := r.face.Metrics()
	ascent := metrics.Ascent.Ceil()
	descent := metrics.Descent.Ceil()

	bounds, _ := font.BoundString(r.face, text)
	width := (bounds.Max.X - bounds.Min.X).Ceil()
	height := ascent + descent
	sw := r.style.StrokeWidth

	img := image.NewNRGBA(image.Rect(0, 0, width+2*sw, height+2*sw))
	drawer := font.Drawer{Dst: img, Face: r.face}
	x0 := fixed.I(sw) - bounds.Min.X
	y0 := fixed.I(ascent + sw)

	if sw > 0 {
		drawer.Src = image.NewUniform(r.style.StrokeColor)
		for dx := -sw; dx <= sw; dx++ {
			for dy := -sw; dy <= sw; dy++ {
				drawer.Dot = fixed.Point26_6{X: x0 + fixed.I(dx), Y: y0 + fixed.I(dy)}
				drawer.DrawString(text)
			}
		}
	}

	drawer.Src = image.NewUniform(fill)
	drawer.Dot = fixed.Point26_6{X: x0, Y: y0}
	drawer.DrawString(text)
	return img
}
