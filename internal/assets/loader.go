package assets

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io/fs"
	"log/slog"
	"os"
	"sync"

	"github.com/disintegration/imaging"
	"golang.org/x/sync/singleflight"

	"github.com/youruser/cardforge/internal/frame"
)

// Loader reads and decodes catalog entries. Successful results are kept for
// the life of the Loader; concurrent requests for the same path share one
// read. Failures are returned to every waiting caller and never cached, so
// a later call retries.
type Loader struct {
	fsys fs.FS
	log  *slog.Logger

	group singleflight.Group

	mu      sync.RWMutex
	images  map[string]image.Image
	sources map[string][]byte
}

func New(fsys fs.FS, log *slog.Logger) *Loader {
	if log == nil {
		log = slog.Default()
	}
	return &Loader{
		fsys:    fsys,
		log:     log,
		images:  make(map[string]image.Image),
		sources: make(map[string][]byte),
	}
}

// NewDir returns a Loader rooted at a directory on disk.
func NewDir(dir string, log *slog.Logger) *Loader {
	return New(os.DirFS(dir), log)
}

// Image returns the decoded raster at p.
func (l *Loader) Image(ctx context.Context, p string) (image.Image, error) {
	l.mu.RLock()
	img, ok := l.images[p]
	l.mu.RUnlock()
	if ok {
		return img, nil
	}

	v, err := l.do(ctx, "image:"+p, func() (any, error) {
		l.mu.RLock()
		img, ok := l.images[p]
		l.mu.RUnlock()
		if ok {
			return img, nil
		}
		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return nil, &Error{Path: p, Err: err}
		}
		img, err = imaging.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, &Error{Path: p, Err: fmt.Errorf("decode: %w", err)}
		}
		l.mu.Lock()
		l.images[p] = img
		l.mu.Unlock()
		l.log.Debug("asset decoded", "path", p, "size", img.Bounds().Size())
		return img, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(image.Image), nil
}

// Source returns the raw bytes at p, for assets such as SVG glyphs that
// are transformed before they are rasterized.
func (l *Loader) Source(ctx context.Context, p string) ([]byte, error) {
	l.mu.RLock()
	data, ok := l.sources[p]
	l.mu.RUnlock()
	if ok {
		return data, nil
	}

	v, err := l.do(ctx, "source:"+p, func() (any, error) {
		l.mu.RLock()
		data, ok := l.sources[p]
		l.mu.RUnlock()
		if ok {
			return data, nil
		}
		data, err := fs.ReadFile(l.fsys, p)
		if err != nil {
			return nil, &Error{Path: p, Err: err}
		}
		l.mu.Lock()
		l.sources[p] = data
		l.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]byte), nil
}

// do runs fn once per key across concurrent callers. A caller whose context
// ends stops waiting; the shared load still completes and fills the cache.
func (l *Loader) do(ctx context.Context, key string, fn func() (any, error)) (any, error) {
	ch := l.group.DoChan(key, fn)
	select {
	case res := <-ch:
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Frame returns the raster for a mono frame key.
func (l *Loader) Frame(ctx context.Context, k frame.Key) (image.Image, error) {
	p, ok := FramePath(k)
	if !ok {
		return nil, &Error{Path: string(k), Err: fmt.Errorf("no raster for frame %q", k)}
	}
	return l.Image(ctx, p)
}

func (l *Loader) PT(ctx context.Context, k frame.Key) (image.Image, error) {
	return l.Image(ctx, PTPath(k))
}

func (l *Loader) Mask(ctx context.Context, name string) (image.Image, error) {
	return l.Image(ctx, MaskPath(name))
}

func (l *Loader) Glyph(ctx context.Context, key string) ([]byte, error) {
	return l.Source(ctx, GlyphPath(key))
}

// PreloadFrames decodes every mono frame so the first render does not pay
// for them. Missing frames are logged and skipped.
func (l *Loader) PreloadFrames(ctx context.Context) {
	var wg sync.WaitGroup
	for _, k := range MonoFrames {
		wg.Add(1)
		go func(k frame.Key) {
			defer wg.Done()
			if _, err := l.Frame(ctx, k); err != nil {
				l.log.Debug("frame preload skipped", "frame", k, "error", err)
			}
		}(k)
	}
	wg.Wait()
}
