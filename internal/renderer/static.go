package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"

	"github.com/woograb/woograb/internal/logger"
)

// StaticRenderer fetches raw HTML over plain HTTP using Colly. It cannot
// execute JavaScript, so lazy-loaded galleries only work to the extent the
// markup carries data-src/srcset attributes server-side.
type StaticRenderer struct {
	config Config
}

// NewStatic creates a static renderer.
func NewStatic(cfg Config) *StaticRenderer {
	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}
	return &StaticRenderer{config: cfg}
}

// Render fetches the page HTML. WaitSelector and ScrollPasses are ignored.
func (r *StaticRenderer) Render(ctx context.Context, targetURL string, opts Options) (Page, error) {
	logger.Debug("static render starting", "url", targetURL)

	result := Page{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	c := colly.NewCollector(
		colly.UserAgent(r.config.UserAgent),
	)

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = r.config.Timeout
	}
	c.SetRequestTimeout(timeout)

	var fetchErr error

	c.OnResponse(func(resp *colly.Response) {
		result.HTML = string(resp.Body)
		logger.Debug("static render response received",
			"status", resp.StatusCode,
			"body_size", len(resp.Body))
	})

	c.OnError(func(resp *colly.Response, err error) {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		fetchErr = fmt.Errorf("fetch error (status %d): %w", status, err)
	})

	if err := c.Visit(targetURL); err != nil {
		return result, fmt.Errorf("failed to visit URL: %w", err)
	}
	if fetchErr != nil {
		return result, fetchErr
	}

	logger.Debug("static render complete", "url", targetURL, "html_size", len(result.HTML))
	return result, nil
}

// Close is a no-op for the static renderer.
func (r *StaticRenderer) Close() error {
	return nil
}

// Type returns the renderer type.
func (r *StaticRenderer) Type() string {
	return "static"
}
