// Package media downloads product images and normalizes them to JPEG.
package media

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/go-resty/resty/v2"

	// imaging registers the common decoders; WebP needs its own.
	_ "golang.org/x/image/webp"

	"github.com/woograb/woograb/internal/logger"
)

// Config holds converter settings.
type Config struct {
	Quality   int           // JPEG quality (default 90)
	Timeout   time.Duration // per-download timeout (default 20s)
	UserAgent string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Quality:   90,
		Timeout:   20 * time.Second,
		UserAgent: "Mozilla/5.0",
	}
}

// Converter downloads images and re-encodes them as JPEG files.
type Converter struct {
	client  *resty.Client
	quality int
}

// New creates a converter with its own HTTP client.
func New(cfg Config) *Converter {
	if cfg.Quality == 0 {
		cfg.Quality = DefaultConfig().Quality
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetHeader("User-Agent", cfg.UserAgent)

	return &Converter{
		client:  client,
		quality: cfg.Quality,
	}
}

// DownloadAll fetches each URL, converts it to JPEG and saves it into
// outDir. The returned slice is positionally aligned with urls; a failed
// download or decode leaves an empty string at that position and never
// aborts the batch. Only an unwritable output directory is an error.
func (c *Converter) DownloadAll(ctx context.Context, urls []string, outDir string) ([]string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %s: %w", outDir, err)
	}

	alloc := NewNameAllocator()
	saved := make([]string, 0, len(urls))

	for _, u := range urls {
		name, err := c.downloadOne(ctx, u, outDir, alloc)
		if err != nil {
			logger.Warn("image skipped", "url", u, "error", err)
			saved = append(saved, "")
			continue
		}
		saved = append(saved, name)
	}

	return saved, nil
}

func (c *Converter) downloadOne(ctx context.Context, imgURL, outDir string, alloc *NameAllocator) (string, error) {
	resp, err := c.client.R().SetContext(ctx).Get(imgURL)
	if err != nil {
		return "", fmt.Errorf("download failed: %w", err)
	}
	if !resp.IsSuccess() {
		return "", fmt.Errorf("download failed: status %d", resp.StatusCode())
	}

	jpg, err := ToJPEG(resp.Body(), c.quality)
	if err != nil {
		return "", err
	}

	name := alloc.Reserve(baseName(imgURL), ".jpg")
	dest := filepath.Join(outDir, name)
	if err := os.WriteFile(dest, jpg, 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", dest, err)
	}

	logger.Info("image converted", "url", imgURL, "file", name, "size", humanize.Bytes(uint64(len(jpg))))
	return name, nil
}

// ToJPEG decodes raw image bytes and re-encodes them as JPEG at the given
// quality. Transparency is composited onto an opaque white background,
// which also covers the plain RGB conversion for opaque sources.
func ToJPEG(data []byte, quality int) ([]byte, error) {
	img, err := imaging.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unreadable image: %w", err)
	}

	bounds := img.Bounds()
	flat := imaging.New(bounds.Dx(), bounds.Dy(), color.White)
	flat = imaging.Overlay(flat, img, image.Pt(0, 0), 1.0)

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, flat, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		return nil, fmt.Errorf("jpeg encode failed: %w", err)
	}
	return buf.Bytes(), nil
}

// baseName derives the filename base for a source URL: last path segment,
// extension stripped, trailing numeric suffix stripped.
func baseName(imgURL string) string {
	base := "image"
	if u, err := url.Parse(imgURL); err == nil {
		if b := path.Base(u.Path); b != "." && b != "/" && b != "" {
			base = b
		}
	}
	base = base[:len(base)-len(path.Ext(base))]
	base = StripTrailingNumber(base)
	if base == "" {
		return "image"
	}
	return base
}
