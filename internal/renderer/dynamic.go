package renderer

import (
	"context"
	"fmt"
	"time"

	"github.com/chromedp/chromedp"

	"github.com/woograb/woograb/internal/logger"
)

const (
	waitSelectorTimeout = 15 * time.Second
	scrollPause         = 750 * time.Millisecond
)

// DynamicRenderer uses chromedp to render JavaScript-heavy product pages.
type DynamicRenderer struct {
	config    Config
	allocCtx  context.Context
	cancelCtx context.CancelFunc
}

// NewDynamic creates a dynamic renderer backed by a headless browser.
func NewDynamic(cfg Config) (*DynamicRenderer, error) {
	logger.Debug("creating dynamic renderer")

	if cfg.UserAgent == "" {
		cfg.UserAgent = DefaultConfig().UserAgent
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultConfig().Timeout
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", cfg.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-notifications", true),
		chromedp.UserAgent(cfg.UserAgent),
		chromedp.WindowSize(1920, 1080),
	)

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)

	logger.Debug("dynamic renderer browser allocator created",
		"user_agent", cfg.UserAgent,
		"headless", cfg.Headless,
		"timeout", cfg.Timeout)

	return &DynamicRenderer{
		config:    cfg,
		allocCtx:  allocCtx,
		cancelCtx: cancelAlloc,
	}, nil
}

// Render navigates to the URL, waits for content, runs scroll passes to
// trigger lazy-loaded galleries, and snapshots the resulting DOM.
func (r *DynamicRenderer) Render(ctx context.Context, targetURL string, opts Options) (Page, error) {
	logger.Debug("dynamic render starting", "url", targetURL)

	result := Page{
		URL:       targetURL,
		FetchedAt: time.Now(),
	}

	browserCtx, cancelBrowser := chromedp.NewContext(r.allocCtx)
	defer cancelBrowser()

	timeout := opts.Timeout
	if timeout == 0 {
		timeout = r.config.Timeout
	}

	timeoutCtx, cancelTimeout := context.WithTimeout(browserCtx, timeout)
	defer cancelTimeout()

	if err := chromedp.Run(timeoutCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitVisible("body"),
	); err != nil {
		return result, fmt.Errorf("browser navigation failed: %w", err)
	}

	// The wait selector is best-effort: a gallery that never appears should
	// not abort the whole run.
	if opts.WaitSelector != "" {
		waitCtx, cancelWait := context.WithTimeout(browserCtx, waitSelectorTimeout)
		if err := chromedp.Run(waitCtx, chromedp.WaitVisible(opts.WaitSelector)); err != nil {
			logger.Warn("wait selector never appeared, continuing",
				"selector", opts.WaitSelector, "error", err)
		}
		cancelWait()
	}

	r.scroll(timeoutCtx, opts.ScrollPasses)

	var html, title string
	if err := chromedp.Run(timeoutCtx,
		chromedp.OuterHTML("html", &html),
		chromedp.Title(&title),
	); err != nil {
		return result, fmt.Errorf("browser snapshot failed: %w", err)
	}

	result.HTML = html
	result.Title = title

	logger.Debug("dynamic render complete",
		"url", targetURL,
		"html_size", len(html),
		"title", title)
	return result, nil
}

// scroll repeatedly scrolls to the bottom of the page, stopping early once
// the document height stops growing.
func (r *DynamicRenderer) scroll(ctx context.Context, passes int) {
	var lastHeight float64
	for i := 0; i < passes; i++ {
		var height float64
		err := chromedp.Run(ctx,
			chromedp.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`, nil),
			chromedp.Sleep(scrollPause),
			chromedp.Evaluate(`document.body.scrollHeight`, &height),
		)
		if err != nil {
			logger.Debug("scroll pass failed", "pass", i, "error", err)
			return
		}
		if height <= lastHeight {
			logger.Debug("page height stable, stopping scroll", "passes", i+1)
			return
		}
		lastHeight = height
	}
}

// Close releases browser resources.
func (r *DynamicRenderer) Close() error {
	if r.cancelCtx != nil {
		r.cancelCtx()
	}
	return nil
}

// Type returns the renderer type.
func (r *DynamicRenderer) Type() string {
	return "dynamic"
}
