package render

import (
	"context"
	"fmt"
	"image"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/google/uuid"

	"captionscript/internal/accent"
	"captionscript/internal/config"
	"captionscript/internal/logging"
	"captionscript/internal/raster"
	"captionscript/internal/segment"
	"captionscript/internal/services"
	"captionscript/internal/services/ffmpeg"
	"captionscript/internal/srt"
	"captionscript/internal/timeline"
)

const lockFileName = ".captionscript.lock"

// Options are the per-invocation inputs to a render job. Zero-value fields
// fall back to the configuration.
type Options struct {
	SubtitlePath string
	VideoPath    string // source clip, required in video mode
	OutputDir    string // asset directory, images-xml mode
	OutputPath   string // composited file, video mode
	Mode         string // overrides render.mode when set
	Seed         int64  // overrides render.seed when nonzero
}

// Result summarizes a completed render job.
type Result struct {
	JobID          string
	Mode           string
	Cues           int
	Accented       int
	Frames         int64
	Assets         []timeline.Asset
	DescriptorPath string
	ManifestPath   string
	OutputPath     string
	Elapsed        time.Duration
}

// Pipeline runs render jobs. Construct one per process; each Run call is an
// independent job.
type Pipeline struct {
	cfg        *config.Config
	logger     *slog.Logger
	transcoder ffmpeg.Client

	// rendererFor is swapped by tests to inject a bitmap font face.
	rendererFor func(style raster.Style, frame image.Point) (*raster.Renderer, error)
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithTranscoder overrides the ffmpeg client, used by tests.
func WithTranscoder(client ffmpeg.Client) Option {
	return func(p *Pipeline) {
		if client != nil {
			p.transcoder = client
		}
	}
}

// New constructs a pipeline bound to a validated configuration.
func New(cfg *config.Config, logger *slog.Logger, opts ...Option) *Pipeline {
	p := &Pipeline{
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "render"),
		transcoder: ffmpeg.NewCLI(
			ffmpeg.WithBinary(cfg.Render.FFmpegBinary),
			ffmpeg.WithProbeBinary(cfg.Render.FFprobeBinary),
		),
		rendererFor: raster.NewRenderer,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one render job and returns its summary. Errors are tagged
// with a services category sentinel for exit-code classification.
func (p *Pipeline) Run(ctx context.Context, opts Options) (*Result, error) {
	started := time.Now()
	jobID := uuid.NewString()
	log := p.logger.With(logging.String(logging.FieldJobID, jobID))

	mode := opts.Mode
	if mode == "" {
		mode = p.cfg.Render.Mode
	}
	if err := validateOptions(mode, opts); err != nil {
		return nil, err
	}

	cues, err := p.loadCues(opts.SubtitlePath)
	if err != nil {
		return nil, err
	}
	if err := timeline.ValidateCues(cues); err != nil {
		return nil, services.Wrap(services.ErrInput, "render", "validate cues", opts.SubtitlePath, err)
	}

	captions := segment.BuildAll(cues)
	seed := opts.Seed
	if seed == 0 {
		seed = p.cfg.Render.Seed
	}
	palette, err := p.cfg.Palette()
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "render", "parse palette", "", err)
	}
	accented := assignAccents(captions, palette, seed)

	log.Info("render job starting",
		logging.String("mode", mode),
		logging.Int("cues", len(cues)),
		logging.Int("accented", accented),
		logging.Int64("seed", seed))

	style, err := buildStyle(p.cfg)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "render", "build style", "", err)
	}
	frame := image.Point{X: p.cfg.Render.Width, Y: p.cfg.Render.Height}
	renderer, err := p.rendererFor(style, frame)
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "render", "load font", style.FontPath, err)
	}

	lockDir := opts.OutputDir
	if mode == config.ModeVideo {
		lockDir = filepath.Dir(opts.OutputPath)
	}
	unlock, err := acquireLock(lockDir)
	if err != nil {
		return nil, err
	}
	defer unlock()

	images, err := p.rasterizeAll(ctx, renderer, captions, palette)
	if err != nil {
		return nil, services.Wrap(services.ErrProcessing, "render", "rasterize", "", err)
	}

	result := &Result{
		JobID:    jobID,
		Mode:     mode,
		Cues:     len(cues),
		Accented: accented,
	}

	switch mode {
	case config.ModeImagesXML:
		err = p.writeImagesXML(log, opts.OutputDir, captions, images, result)
	case config.ModeVideo:
		err = p.compositeVideo(ctx, log, jobID, opts, captions, images, result)
	default:
		err = services.Wrap(services.ErrInput, "render", "dispatch", fmt.Sprintf("unknown mode %q", mode), nil)
	}
	if err != nil {
		return nil, err
	}

	result.Elapsed = time.Since(started)
	log.Info("render job finished",
		logging.Int("assets", len(result.Assets)),
		logging.Int64("frames", result.Frames),
		logging.Duration("elapsed", result.Elapsed))
	return result, nil
}

func validateOptions(mode string, opts Options) error {
	if opts.SubtitlePath == "" {
		return services.Wrap(services.ErrInput, "render", "options", "subtitle path is required", nil)
	}
	switch mode {
	case config.ModeImagesXML:
		if opts.OutputDir == "" {
			return services.Wrap(services.ErrInput, "render", "options", "output directory is required in images-xml mode", nil)
		}
	case config.ModeVideo:
		if opts.VideoPath == "" {
			return services.Wrap(services.ErrInput, "render", "options", "source video is required in video mode", nil)
		}
		if opts.OutputPath == "" {
			return services.Wrap(services.ErrInput, "render", "options", "output path is required in video mode", nil)
		}
	default:
		return services.Wrap(services.ErrInput, "render", "options",
			fmt.Sprintf("mode must be %q or %q, got %q", config.ModeVideo, config.ModeImagesXML, mode), nil)
	}
	return nil
}

func (p *Pipeline) loadCues(path string) ([]srt.Cue, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "render", "read subtitles", path, err)
	}
	cues, err := srt.Parse(data, p.cfg.Rate())
	if err != nil {
		return nil, services.Wrap(services.ErrInput, "render", "parse subtitles", path, err)
	}
	if p.cfg.Text.SplitLongLines {
		cues = srt.SplitLongLines(cues, p.cfg.Text.MaxLineLength)
	}
	return cues, nil
}

// assignAccents runs the sequential color pass. It must stay single-threaded:
// the no-immediate-repeat rule depends on cue order.
func assignAccents(captions []segment.Caption, palette accent.Palette, seed int64) int {
	cycler := accent.NewCycler(palette, seed)
	accented := 0
	for i := range captions {
		if captions[i].HasAccent() {
			captions[i].AccentIndex = cycler.NextIndex()
			accented++
		}
	}
	return accented
}

func acquireLock(dir string) (func(), error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrResource, "render", "create output directory", dir, err)
	}
	lock := flock.New(filepath.Join(dir, lockFileName))
	locked, err := lock.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrResource, "render", "lock output directory", dir, err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrResource, "render", "lock output directory",
			fmt.Sprintf("another job is writing to %s", dir), nil)
	}
	return func() { _ = lock.Unlock() }, nil
}

// assetFileName encodes the cue index and start frame so the sequence sorts
// chronologically on disk.
func assetFileName(cueIndex int, startFrame int64) string {
	return fmt.Sprintf("cap_%04d_%06d.png", cueIndex, startFrame)
}

// captionEmpty reports whether a caption carries no drawable text.
func captionEmpty(c segment.Caption) bool {
	for _, line := range c.Lines {
		if line.Text() != "" {
			return false
		}
	}
	return true
}
