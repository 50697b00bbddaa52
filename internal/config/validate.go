package config

import (
	"fmt"
	"strings"

	"captionscript/internal/accent"
	"captionscript/internal/timecode"
	"captionscript/internal/timeline"
)

// ValidationError aggregates all configuration problems found in one pass.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s", strings.Join(e.Problems, "; "))
}

var capitalizationModes = map[string]bool{
	"":      true,
	"upper": true,
	"lower": true,
	"title": true,
	"as-is": true,
}

// Validate checks the configuration for consistency. It collects every
// problem instead of stopping at the first one.
func (c *Config) Validate() error {
	var problems []string
	add := func(format string, args ...any) {
		problems = append(problems, fmt.Sprintf(format, args...))
	}

	if c.Text.Size <= 0 {
		add("text.size must be positive, got %v", c.Text.Size)
	}
	if c.Text.LineHeight < 0 {
		add("text.line_height must not be negative, got %d", c.Text.LineHeight)
	}
	if !capitalizationModes[c.Text.Capitalization] {
		add("text.capitalization must be one of upper, lower, title, as-is, got %q", c.Text.Capitalization)
	}
	if c.Text.SplitLongLines && c.Text.MaxLineLength < 1 {
		add("text.max_line_length must be positive when splitting is enabled, got %d", c.Text.MaxLineLength)
	}

	if _, err := accent.ParseColor(c.Colors.Base); err != nil {
		add("colors.base: %v", err)
	}
	if _, err := accent.NewPalette(c.Colors.Accents); err != nil {
		add("colors.accents: %v", err)
	}
	if _, err := accent.ParseColor(c.Stroke.Color); err != nil {
		add("stroke.color: %v", err)
	}
	if c.Stroke.Width < 0 {
		add("stroke.width must not be negative, got %d", c.Stroke.Width)
	}
	if _, err := accent.ParseColor(c.Shadow.Color); err != nil {
		add("shadow.color: %v", err)
	}
	if c.Shadow.Opacity < 0 || c.Shadow.Opacity > 100 {
		add("shadow.opacity must be between 0 and 100, got %d", c.Shadow.Opacity)
	}
	if c.Shadow.Blur < 0 {
		add("shadow.blur must not be negative, got %d", c.Shadow.Blur)
	}

	switch c.Render.Mode {
	case ModeVideo, ModeImagesXML:
	default:
		add("render.mode must be %q or %q, got %q", ModeVideo, ModeImagesXML, c.Render.Mode)
	}
	rate := timecode.Rate{Num: c.Render.FPSNum, Den: c.Render.FPSDen}
	if err := rate.Validate(); err != nil {
		add("render frame rate: %v", err)
	}
	if c.Render.Width < 16 || c.Render.Height < 16 {
		add("render.width and render.height must be at least 16, got %dx%d", c.Render.Width, c.Render.Height)
	}
	if c.Render.SafeMargin < 0 {
		add("render.safe_margin must not be negative, got %d", c.Render.SafeMargin)
	}
	if c.Render.SafeMargin*2 >= c.Render.Width && c.Render.Width >= 16 {
		add("render.safe_margin %d leaves no drawable width at %d", c.Render.SafeMargin, c.Render.Width)
	}
	if c.Render.TranscodeTimeout < 0 {
		add("render.transcode_timeout must not be negative, got %d", c.Render.TranscodeTimeout)
	}
	if c.Render.StagingDir == "" {
		add("render.staging_dir is required")
	}

	if c.Output.TrackIndex < 1 {
		add("output.track_index must be at least 1, got %d", c.Output.TrackIndex)
	}
	if !timeline.Format(c.Output.TimelineFormat).Valid() {
		add("output.timeline_format must be %q or %q, got %q",
			timeline.FormatFCPXML, timeline.FormatXMEML, c.Output.TimelineFormat)
	}

	switch c.Logging.Format {
	case "console", "json":
	default:
		add("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		add("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}

	if len(problems) > 0 {
		return &ValidationError{Problems: problems}
	}
	return nil
}

// Rate returns the configured frame rate.
func (c *Config) Rate() timecode.Rate {
	return timecode.Rate{Num: c.Render.FPSNum, Den: c.Render.FPSDen}
}

// Palette returns the parsed accent palette. Validate must have passed.
func (c *Config) Palette() (accent.Palette, error) {
	return accent.NewPalette(c.Colors.Accents)
}
