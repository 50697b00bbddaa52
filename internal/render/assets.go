package render

import (
	"encoding/csv"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"captionscript/internal/logging"
	"captionscript/internal/raster"
	"captionscript/internal/segment"
	"captionscript/internal/services"
	"captionscript/internal/timeline"
)

const manifestFileName = "captions_manifest.csv"

// AssetWriteError reports a failed PNG write. Committed lists the assets
// already on disk when the job aborted, so the caller can clean up or resume.
type AssetWriteError struct {
	File      string
	Committed []string
	Err       error
}

func (e *AssetWriteError) Error() string {
	return fmt.Sprintf("write asset %s after %d committed: %v", e.File, len(e.Committed), e.Err)
}

func (e *AssetWriteError) Unwrap() error { return e.Err }

// writeImagesXML writes one trimmed PNG per caption, the manifest CSV, and
// finally the timeline descriptor. The descriptor is written last and
// atomically: its presence means the asset set is complete.
func (p *Pipeline) writeImagesXML(log *slog.Logger, outputDir string, captions []segment.Caption, images []*image.NRGBA, result *Result) error {
	descriptor := timeline.Descriptor{
		Rate:       p.cfg.Rate(),
		Width:      p.cfg.Render.Width,
		Height:     p.cfg.Render.Height,
		TrackIndex: p.cfg.Output.TrackIndex,
	}

	committed := make([]string, 0, len(captions))
	for i, caption := range captions {
		if images[i] == nil {
			continue
		}
		name := assetFileName(caption.Cue.Index, caption.Cue.Span.In)
		trimmed := raster.TrimAndPad(images[i], p.cfg.Render.SafeMargin)
		if err := writePNG(filepath.Join(outputDir, name), trimmed); err != nil {
			werr := &AssetWriteError{File: name, Committed: committed, Err: err}
			return services.Wrap(services.ErrProcessing, "render", "write assets", outputDir, werr)
		}
		committed = append(committed, name)
		descriptor.Assets = append(descriptor.Assets, timeline.Asset{
			Index: caption.Cue.Index,
			File:  name,
			Span:  caption.Cue.Span,
		})
	}

	manifestPath := filepath.Join(outputDir, manifestFileName)
	if err := writeManifest(manifestPath, captions, images); err != nil {
		return services.Wrap(services.ErrProcessing, "render", "write manifest", manifestPath, err)
	}

	format := timeline.Format(p.cfg.Output.TimelineFormat)
	descriptorPath := filepath.Join(outputDir, format.FileName())
	if err := writeDescriptor(descriptorPath, descriptor, format, outputDir); err != nil {
		return services.Wrap(services.ErrProcessing, "render", "write descriptor", descriptorPath, err)
	}

	log.Info("asset sequence written",
		logging.Int("assets", len(descriptor.Assets)),
		logging.String("descriptor", descriptorPath))

	result.Assets = descriptor.Assets
	result.Frames = descriptor.Duration()
	result.DescriptorPath = descriptorPath
	result.ManifestPath = manifestPath
	return nil
}

func writePNG(path string, img *image.NRGBA) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(file, img); err != nil {
		file.Close()
		os.Remove(path)
		return err
	}
	return file.Close()
}

func writeManifest(path string, captions []segment.Caption, images []*image.NRGBA) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	w := csv.NewWriter(file)
	header := []string{"index", "file", "start_ms", "end_ms", "in_frame", "out_frame", "accent_index", "colored_words"}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, caption := range captions {
		if images[i] == nil {
			continue
		}
		record := []string{
			strconv.Itoa(caption.Cue.Index),
			assetFileName(caption.Cue.Index, caption.Cue.Span.In),
			strconv.FormatInt(caption.Cue.StartMS, 10),
			strconv.FormatInt(caption.Cue.EndMS, 10),
			strconv.FormatInt(caption.Cue.Span.In, 10),
			strconv.FormatInt(caption.Cue.Span.Out, 10),
			strconv.Itoa(caption.AccentIndex),
			strconv.Itoa(caption.ColoredWords()),
		}
		if err := w.Write(record); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// writeDescriptor stages the document next to its target and renames it into
// place so readers never observe a partial descriptor.
func writeDescriptor(path string, d timeline.Descriptor, format timeline.Format, baseDir string) error {
	tmp := path + ".tmp"
	file, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := timeline.Write(file, d, format, baseDir); err != nil {
		file.Close()
		os.Remove(tmp)
		return err
	}
	if err := file.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
