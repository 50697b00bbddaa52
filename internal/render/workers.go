package render

import (
	"context"
	"image"
	"sync"

	"captionscript/internal/accent"
	"captionscript/internal/raster"
	"captionscript/internal/segment"
)

// rasterizeAll renders every caption on a bounded worker pool and re-joins
// the results in cue order. Captions without drawable text yield a nil image.
// The first failure cancels the remaining work.
func (p *Pipeline) rasterizeAll(ctx context.Context, renderer *raster.Renderer, captions []segment.Caption, palette accent.Palette) ([]*image.NRGBA, error) {
	images := make([]*image.NRGBA, len(captions))

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	workers := p.cfg.Render.Workers
	if workers > len(captions) {
		workers = len(captions)
	}
	if workers < 1 {
		workers = 1
	}

	jobs := make(chan int)
	var wg sync.WaitGroup
	var mu sync.Mutex
	var firstErr error

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
			cancel()
		}
		mu.Unlock()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				caption := captions[i]
				if captionEmpty(caption) {
					continue
				}
				fill := renderer.Style().Base
				if caption.AccentIndex >= 0 {
					fill = palette[caption.AccentIndex]
				}
				img, err := renderer.Render(caption, fill)
				if err != nil {
					fail(err)
					continue
				}
				images[i] = img
			}
		}()
	}

feed:
	for i := range captions {
		select {
		case <-ctx.Done():
			break feed
		case jobs <- i:
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return images, nil
}
