package render

import (
	"captionscript/internal/accent"
	"captionscript/internal/config"
	"captionscript/internal/raster"
)

// buildStyle maps validated configuration onto the rasterizer's style.
func buildStyle(cfg *config.Config) (raster.Style, error) {
	base, err := accent.ParseColor(cfg.Colors.Base)
	if err != nil {
		return raster.Style{}, err
	}
	stroke, err := accent.ParseColor(cfg.Stroke.Color)
	if err != nil {
		return raster.Style{}, err
	}
	shadow, err := accent.ParseColor(cfg.Shadow.Color)
	if err != nil {
		return raster.Style{}, err
	}
	return raster.Style{
		FontPath:       cfg.Text.FontPath,
		Size:           cfg.Text.Size,
		LetterSpacing:  cfg.Text.LetterSpacing,
		LineHeight:     cfg.Text.LineHeight,
		Capitalization: cfg.Text.Capitalization,
		Base:           base,
		StrokeColor:    stroke,
		StrokeWidth:    cfg.Stroke.Width,
		Shadow: raster.Shadow{
			OffsetX: cfg.Shadow.OffsetX,
			OffsetY: cfg.Shadow.OffsetY,
			Color:   shadow,
			Opacity: cfg.Shadow.Opacity,
			Blur:    cfg.Shadow.Blur,
		},
		OffsetX:    cfg.Position.OffsetX,
		OffsetY:    cfg.Position.OffsetY,
		SafeMargin: cfg.Render.SafeMargin,
	}, nil
}
