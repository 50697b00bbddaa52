package config

import "runtime"

// Default returns the built-in configuration. Values mirror the embedded
// sample file.
func Default() Config {
	return Config{
		Text: Text{
			Size:           72,
			LetterSpacing:  0,
			LineHeight:     0,
			Capitalization: "upper",
			SplitLongLines: true,
			MaxLineLength:  38,
		},
		Colors: Colors{
			Base: "#FFFFFF",
			Accents: []string{
				"#FFD230",
				"#FF4B3E",
				"#3EC6FF",
				"#7CFF5E",
			},
		},
		Stroke: Stroke{
			Color: "#000000",
			Width: 4,
		},
		Shadow: Shadow{
			OffsetX: 0,
			OffsetY: 10,
			Color:   "#000000",
			Opacity: 60,
			Blur:    12,
		},
		Position: Position{
			OffsetX: 0,
			OffsetY: -120,
		},
		Render: Render{
			Mode:             ModeImagesXML,
			FPSNum:           30,
			FPSDen:           1,
			Width:            1920,
			Height:           1080,
			Seed:             0,
			SafeMargin:       96,
			Workers:          runtime.NumCPU(),
			StagingDir:       "~/.local/share/captionscript/staging",
			FFmpegBinary:     "ffmpeg",
			FFprobeBinary:    "ffprobe",
			TranscodeTimeout: 1800,
			VideoCodec:       "libx264",
			VideoBitrate:     "25M",
			Preset:           "medium",
			AudioCodec:       "aac",
			AudioBitrate:     "192k",
		},
		Output: Output{
			TrackIndex:     1,
			TimelineFormat: "fcpxml",
		},
		Logging: Logging{
			Format: "console",
			Level:  "info",
		},
	}
}
