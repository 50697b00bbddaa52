package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Text contains typography settings.
type Text struct {
	FontPath       string  `toml:"font_path"`
	Size           float64 `toml:"size"`
	LetterSpacing  int     `toml:"letter_spacing"`
	LineHeight     int     `toml:"line_height"`
	Capitalization string  `toml:"capitalization"`
	SplitLongLines bool    `toml:"split_long_lines"`
	MaxLineLength  int     `toml:"max_line_length"`
}

// Colors contains the base fill and the four cycling accent colors.
type Colors struct {
	Base    string   `toml:"base"`
	Accents []string `toml:"accents"`
}

// Stroke contains the text outline settings.
type Stroke struct {
	Color string `toml:"color"`
	Width int    `toml:"width"`
}

// Shadow contains the drop shadow settings.
type Shadow struct {
	OffsetX int    `toml:"offset_x"`
	OffsetY int    `toml:"offset_y"`
	Color   string `toml:"color"`
	Opacity int    `toml:"opacity"`
	Blur    int    `toml:"blur"`
}

// Position contains caption placement offsets relative to the bottom-center
// anchor.
type Position struct {
	OffsetX int `toml:"offset_x"`
	OffsetY int `toml:"offset_y"`
}

// Render contains frame geometry, determinism, and transcoder settings.
type Render struct {
	Mode             string `toml:"mode"`
	FPSNum           int64  `toml:"fps_num"`
	FPSDen           int64  `toml:"fps_den"`
	Width            int    `toml:"width"`
	Height           int    `toml:"height"`
	Seed             int64  `toml:"seed"`
	SafeMargin       int    `toml:"safe_margin"`
	Workers          int    `toml:"workers"`
	StagingDir       string `toml:"staging_dir"`
	FFmpegBinary     string `toml:"ffmpeg_binary"`
	FFprobeBinary    string `toml:"ffprobe_binary"`
	TranscodeTimeout int    `toml:"transcode_timeout"`
	VideoCodec       string `toml:"video_codec"`
	VideoBitrate     string `toml:"video_bitrate"`
	Preset           string `toml:"preset"`
	AudioCodec       string `toml:"audio_codec"`
	AudioBitrate     string `toml:"audio_bitrate"`
}

// Output contains timeline descriptor settings.
type Output struct {
	TrackIndex     int    `toml:"track_index"`
	TimelineFormat string `toml:"timeline_format"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for captionscript.
type Config struct {
	Text     Text     `toml:"text"`
	Colors   Colors   `toml:"colors"`
	Stroke   Stroke   `toml:"stroke"`
	Shadow   Shadow   `toml:"shadow"`
	Position Position `toml:"position"`
	Render   Render   `toml:"render"`
	Output   Output   `toml:"output"`
	Logging  Logging  `toml:"logging"`
}

// Render modes accepted by render.mode.
const (
	ModeVideo     = "video"
	ModeImagesXML = "images-xml"
)

// DefaultConfigPath returns the absolute path to the default configuration
// file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/captionscript/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("captionscript.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
