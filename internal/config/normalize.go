package config

import (
	"runtime"
	"strings"
)

// normalize expands filesystem paths and canonicalizes enum-like fields so
// validation and the pipeline see one spelling.
func (c *Config) normalize() error {
	var err error

	if c.Text.FontPath != "" {
		if c.Text.FontPath, err = expandPath(c.Text.FontPath); err != nil {
			return err
		}
	}
	if c.Render.StagingDir, err = expandPath(c.Render.StagingDir); err != nil {
		return err
	}

	c.Text.Capitalization = strings.ToLower(strings.TrimSpace(c.Text.Capitalization))
	c.Render.Mode = strings.ToLower(strings.TrimSpace(c.Render.Mode))
	c.Output.TimelineFormat = strings.ToLower(strings.TrimSpace(c.Output.TimelineFormat))
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))

	if c.Render.Workers < 1 {
		c.Render.Workers = runtime.NumCPU()
	}

	return nil
}
