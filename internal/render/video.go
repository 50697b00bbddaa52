package render

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"captionscript/internal/logging"
	"captionscript/internal/segment"
	"captionscript/internal/services"
	"captionscript/internal/services/ffmpeg"
	"captionscript/internal/timeline"
)

const blankFrameName = "blank.png"

// compositeVideo builds the per-frame overlay sequence in staging and feeds
// it to a single ffmpeg invocation. The staging tree is removed afterwards;
// a failed or timed-out transcode also removes the partial output file.
func (p *Pipeline) compositeVideo(ctx context.Context, log *slog.Logger, jobID string, opts Options, captions []segment.Caption, images []*image.NRGBA, result *Result) error {
	p.probeSource(ctx, log, opts.VideoPath)

	staging := filepath.Join(p.cfg.Render.StagingDir, jobID)
	seqDir := filepath.Join(staging, "seq")
	if err := os.MkdirAll(seqDir, 0o755); err != nil {
		return services.Wrap(services.ErrResource, "render", "create staging", staging, err)
	}
	defer os.RemoveAll(staging)

	totalFrames, err := buildFrameSequence(seqDir, p.frameSize(), captions, images)
	if err != nil {
		return services.Wrap(services.ErrProcessing, "render", "build overlay sequence", seqDir, err)
	}
	if totalFrames == 0 {
		return services.Wrap(services.ErrInput, "render", "build overlay sequence", "no captions to composite", nil)
	}
	log.Info("overlay sequence staged",
		logging.Int64("frames", totalFrames),
		logging.String("dir", seqDir))

	if timeout := p.cfg.Render.TranscodeTimeout; timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(timeout)*time.Second)
		defer cancel()
	}

	req := ffmpeg.CompositeRequest{
		VideoPath:    opts.VideoPath,
		SequenceDir:  seqDir,
		Rate:         p.cfg.Rate(),
		OutputPath:   opts.OutputPath,
		VideoCodec:   p.cfg.Render.VideoCodec,
		VideoBitrate: p.cfg.Render.VideoBitrate,
		Preset:       p.cfg.Render.Preset,
		AudioCodec:   p.cfg.Render.AudioCodec,
		AudioBitrate: p.cfg.Render.AudioBitrate,
	}
	if err := p.transcoder.Composite(ctx, req); err != nil {
		// Never leave a truncated file where the output was expected.
		os.Remove(opts.OutputPath)
		var timeoutErr *ffmpeg.TranscodeTimeoutError
		if errors.As(err, &timeoutErr) {
			return services.Wrap(services.ErrTimeout, "render", "composite", opts.VideoPath, err)
		}
		return services.Wrap(services.ErrProcessing, "render", "composite", opts.VideoPath, err)
	}

	result.OutputPath = opts.OutputPath
	result.Frames = totalFrames
	for _, caption := range captions {
		if captionEmpty(caption) {
			continue
		}
		result.Assets = append(result.Assets, timeline.Asset{
			Index: caption.Cue.Index,
			File:  assetFileName(caption.Cue.Index, caption.Cue.Span.In),
			Span:  caption.Cue.Span,
		})
	}
	return nil
}

// probeSource cross-checks the source clip against the configured geometry.
// Probe failures are logged and ignored so the composite still proceeds.
func (p *Pipeline) probeSource(ctx context.Context, log *slog.Logger, videoPath string) {
	info, err := p.transcoder.Probe(ctx, videoPath)
	if err != nil {
		log.Debug("source probe unavailable", logging.Error(err))
		return
	}
	if info.Width != p.cfg.Render.Width || info.Height != p.cfg.Render.Height {
		log.Warn("source dimensions differ from configured frame",
			logging.String("source", fmt.Sprintf("%dx%d", info.Width, info.Height)),
			logging.String("configured", fmt.Sprintf("%dx%d", p.cfg.Render.Width, p.cfg.Render.Height)))
	}
	if info.Rate != p.cfg.Rate() {
		log.Warn("source frame rate differs from configured rate",
			logging.String("source", info.Rate.String()),
			logging.String("configured", p.cfg.Rate().String()))
	}
}

func (p *Pipeline) frameSize() image.Point {
	return image.Point{X: p.cfg.Render.Width, Y: p.cfg.Render.Height}
}

// buildFrameSequence writes each caption's frame-sized overlay once, plus one
// blank filler frame, then links %06d.png entries for every timeline frame.
// Links keep the sequence cheap: a two-minute clip needs thousands of frames
// but only a handful of distinct images.
func buildFrameSequence(seqDir string, frame image.Point, captions []segment.Caption, images []*image.NRGBA) (int64, error) {
	blank := image.NewNRGBA(image.Rect(0, 0, frame.X, frame.Y))
	if err := writePNG(filepath.Join(seqDir, blankFrameName), blank); err != nil {
		return 0, err
	}

	type window struct {
		in, out int64
		file    string
	}
	windows := make([]window, 0, len(captions))
	var totalFrames int64
	for i, caption := range captions {
		if images[i] == nil {
			continue
		}
		name := assetFileName(caption.Cue.Index, caption.Cue.Span.In)
		if err := writePNG(filepath.Join(seqDir, name), images[i]); err != nil {
			return 0, err
		}
		windows = append(windows, window{in: caption.Cue.Span.In, out: caption.Cue.Span.Out, file: name})
		if caption.Cue.Span.Out > totalFrames {
			totalFrames = caption.Cue.Span.Out
		}
	}
	if len(windows) == 0 {
		return 0, nil
	}

	next := 0
	for f := int64(0); f < totalFrames; f++ {
		for next < len(windows) && f >= windows[next].out {
			next++
		}
		target := blankFrameName
		if next < len(windows) && f >= windows[next].in {
			target = windows[next].file
		}
		link := filepath.Join(seqDir, fmt.Sprintf("%06d.png", f))
		if err := os.Symlink(target, link); err != nil {
			return 0, err
		}
	}
	return totalFrames, nil
}
