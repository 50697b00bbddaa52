// Package ffmpeg wraps the external ffmpeg/ffprobe binaries behind a
// capability interface so the render pipeline stays testable without a real
// transcoder installed.
package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"captionscript/internal/timecode"
)

var commandContext = exec.CommandContext

// ProbeInfo describes the first video stream of a source file.
type ProbeInfo struct {
	Rate   timecode.Rate
	Width  int
	Height int
}

// CompositeRequest describes a single overlay transcode: the caption frame
// sequence is drawn over the source video in one ffmpeg invocation.
type CompositeRequest struct {
	VideoPath   string
	SequenceDir string // holds %06d.png overlay frames starting at 0
	Rate        timecode.Rate
	OutputPath  string

	// Encoder settings; zero values select the defaults below.
	VideoCodec   string
	VideoBitrate string
	Preset       string
	AudioCodec   string
	AudioBitrate string
}

const (
	defaultVideoCodec   = "libx264"
	defaultVideoBitrate = "25M"
	defaultPreset       = "medium"
	defaultAudioCodec   = "aac"
	defaultAudioBitrate = "192k"
)

// Client defines the transcoder capability consumed by the dispatcher.
type Client interface {
	Composite(ctx context.Context, req CompositeRequest) error
	Probe(ctx context.Context, videoPath string) (ProbeInfo, error)
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default ffmpeg binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithProbeBinary overrides the default ffprobe binary name.
func WithProbeBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.probeBinary = binary
		}
	}
}

// CLI invokes the ffmpeg command-line tools.
type CLI struct {
	binary      string
	probeBinary string
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", probeBinary: "ffprobe"}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// LookPath verifies the ffmpeg binary is installed.
func (c *CLI) LookPath() error {
	if _, err := exec.LookPath(c.binary); err != nil {
		return fmt.Errorf("transcoder %q not found: %w", c.binary, err)
	}
	return nil
}

// Composite overlays the caption frame sequence onto the source video. The
// caller bounds the call with a context deadline; a deadline hit surfaces as
// TranscodeTimeoutError and the subprocess is killed.
func (c *CLI) Composite(ctx context.Context, req CompositeRequest) error {
	if req.VideoPath == "" {
		return errors.New("video path required")
	}
	if req.SequenceDir == "" {
		return errors.New("overlay sequence directory required")
	}
	if req.OutputPath == "" {
		return errors.New("output path required")
	}
	if err := req.Rate.Validate(); err != nil {
		return err
	}

	args := buildCompositeArgs(req)
	cmd := commandContext(ctx, c.binary, args...) //nolint:gosec
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return &TranscodeTimeoutError{Cause: ctx.Err()}
	}
	return &TranscodeError{Output: tail(stderr.String(), 4096), Err: err}
}

func buildCompositeArgs(req CompositeRequest) []string {
	pick := func(value, fallback string) string {
		if strings.TrimSpace(value) != "" {
			return value
		}
		return fallback
	}
	return []string{
		"-y",
		"-i", req.VideoPath,
		"-framerate", req.Rate.String(),
		"-start_number", "0",
		"-i", filepath.Join(req.SequenceDir, "%06d.png"),
		"-filter_complex", "[0:v][1:v]overlay=0:0[v]",
		"-map", "[v]",
		"-map", "0:a?",
		"-c:v", pick(req.VideoCodec, defaultVideoCodec),
		"-b:v", pick(req.VideoBitrate, defaultVideoBitrate),
		"-preset", pick(req.Preset, defaultPreset),
		"-pix_fmt", "yuv420p",
		"-c:a", pick(req.AudioCodec, defaultAudioCodec),
		"-b:a", pick(req.AudioBitrate, defaultAudioBitrate),
		req.OutputPath,
	}
}

// Probe reads the frame rate and dimensions of the first video stream.
func (c *CLI) Probe(ctx context.Context, videoPath string) (ProbeInfo, error) {
	if videoPath == "" {
		return ProbeInfo{}, errors.New("video path required")
	}
	args := []string{
		"-v", "error",
		"-select_streams", "v:0",
		"-show_entries", "stream=width,height,r_frame_rate",
		"-of", "csv=p=0",
		videoPath,
	}
	cmd := commandContext(ctx, c.probeBinary, args...) //nolint:gosec
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return ProbeInfo{}, &TranscodeTimeoutError{Cause: ctx.Err()}
		}
		return ProbeInfo{}, fmt.Errorf("ffprobe failed: %w: %s", err, tail(stderr.String(), 512))
	}
	return parseProbeOutput(stdout.String())
}

// parseProbeOutput parses "width,height,num/den" csv from ffprobe.
func parseProbeOutput(out string) (ProbeInfo, error) {
	fields := strings.Split(strings.TrimSpace(out), ",")
	if len(fields) < 3 {
		return ProbeInfo{}, fmt.Errorf("unexpected ffprobe output %q", out)
	}
	width, err := strconv.Atoi(strings.TrimSpace(fields[0]))
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("parse width from %q: %w", out, err)
	}
	height, err := strconv.Atoi(strings.TrimSpace(fields[1]))
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("parse height from %q: %w", out, err)
	}
	rateParts := strings.Split(strings.TrimSpace(fields[2]), "/")
	num, err := strconv.ParseInt(rateParts[0], 10, 64)
	if err != nil {
		return ProbeInfo{}, fmt.Errorf("parse frame rate from %q: %w", out, err)
	}
	den := int64(1)
	if len(rateParts) == 2 {
		den, err = strconv.ParseInt(rateParts[1], 10, 64)
		if err != nil {
			return ProbeInfo{}, fmt.Errorf("parse frame rate from %q: %w", out, err)
		}
	}
	info := ProbeInfo{Rate: timecode.Rate{Num: num, Den: den}, Width: width, Height: height}
	if err := info.Rate.Validate(); err != nil {
		return ProbeInfo{}, err
	}
	return info, nil
}

func tail(s string, n int) string {
	s = strings.TrimSpace(s)
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// TranscodeError reports a failed ffmpeg run with its diagnostic output.
type TranscodeError struct {
	Output string
	Err    error
}

func (e *TranscodeError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("transcode failed: %v", e.Err)
	}
	return fmt.Sprintf("transcode failed: %v: %s", e.Err, e.Output)
}

func (e *TranscodeError) Unwrap() error { return e.Err }

// TranscodeTimeoutError reports a transcode cancelled by its deadline.
type TranscodeTimeoutError struct {
	Cause error
}

func (e *TranscodeTimeoutError) Error() string {
	return fmt.Sprintf("transcode timed out: %v", e.Cause)
}

func (e *TranscodeTimeoutError) Unwrap() error { return e.Cause }

// Timeout reports whether the wrapped cause was a deadline expiry rather
// than caller cancellation.
func (e *TranscodeTimeoutError) Timeout() bool {
	return errors.Is(e.Cause, context.DeadlineExceeded)
}

var _ Client = (*CLI)(nil)
