// Package renderer handles loading product pages and snapshotting their DOM.
package renderer

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Page is a rendered page snapshot.
type Page struct {
	URL       string
	HTML      string
	Title     string // document.title (dynamic renderer only)
	FetchedAt time.Time
}

// Document parses the snapshot into a goquery document.
func (p Page) Document() (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.HTML))
	if err != nil {
		return nil, fmt.Errorf("failed to parse page HTML: %w", err)
	}
	return doc, nil
}

// Origin returns the scheme://host base of the page URL, used to resolve
// relative image URLs.
func (p Page) Origin() string {
	u, err := url.Parse(p.URL)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("%s://%s", u.Scheme, u.Host)
}

// Options controls a single render.
type Options struct {
	WaitSelector string        // CSS selector to wait for before collecting (optional)
	ScrollPasses int           // max full-page scroll passes to trigger lazy loading
	Timeout      time.Duration // page load timeout
}

// Renderer abstracts page loading strategies.
type Renderer interface {
	// Render loads a URL and returns a DOM snapshot.
	Render(ctx context.Context, url string, opts Options) (Page, error)

	// Close releases any resources (browser instances, etc.).
	Close() error

	// Type returns "dynamic" or "static".
	Type() string
}

// Config holds common renderer configuration.
type Config struct {
	UserAgent string
	Headless  bool
	Timeout   time.Duration
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
		Headless:  true,
		Timeout:   30 * time.Second,
	}
}
