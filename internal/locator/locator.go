// Package locator finds candidate product image URLs in a rendered page.
package locator

import (
	"net/url"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/woograb/woograb/internal/logger"
)

// Image is one candidate product image found on the page.
type Image struct {
	URL      string // resolved absolute URL
	Alt      string // alt text, if any
	Basename string // last path segment of the URL
}

// Lazy-load attribute priority for <img> elements.
var lazyAttrs = []string{"data-src", "data-lazy", "data-original", "src"}

var backgroundImageRe = regexp.MustCompile(`(?i)background-image\s*:\s*url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// Extract collects image URLs from all elements matching the CSS selector,
// deduplicated by exact resolved URL in first-seen order. Elements that
// yield no URL are skipped; an empty result is not an error.
func Extract(doc *goquery.Document, selector string, pageURL string) []Image {
	// Relative URLs resolve against the page origin, not the page path.
	var base *url.URL
	if u, err := url.Parse(pageURL); err == nil {
		base = &url.URL{Scheme: u.Scheme, Host: u.Host}
	} else {
		logger.Warn("invalid page URL, relative images left as-is", "url", pageURL, "error", err)
	}

	seen := make(map[string]bool)
	var images []Image

	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		imgSel := sel
		if goquery.NodeName(sel) != "img" {
			if descendant := sel.Find("img").First(); descendant.Length() > 0 {
				imgSel = descendant
			}
		}

		imgURL := extractURL(imgSel, base)
		if imgURL == "" || seen[imgURL] {
			return
		}
		seen[imgURL] = true

		images = append(images, Image{
			URL:      imgURL,
			Alt:      strings.TrimSpace(imgSel.AttrOr("alt", "")),
			Basename: basename(imgURL),
		})
	})

	logger.Debug("image extraction complete", "selector", selector, "count", len(images))
	return images
}

// extractURL resolves the best image URL for one element. Priority:
// srcset/data-srcset (largest width), lazy-load attributes (img only),
// inline background-image, then srcset on <source>.
func extractURL(sel *goquery.Selection, base *url.URL) string {
	tag := goquery.NodeName(sel)

	for _, attr := range []string{"srcset", "data-srcset"} {
		if val := strings.TrimSpace(sel.AttrOr(attr, "")); val != "" {
			if best := BestFromSrcset(val); best != "" {
				return resolve(base, best)
			}
		}
	}

	if tag == "img" {
		for _, attr := range lazyAttrs {
			if val := strings.TrimSpace(sel.AttrOr(attr, "")); val != "" {
				return resolve(base, val)
			}
		}
	}

	if style := sel.AttrOr("style", ""); strings.Contains(style, "background-image") {
		if m := backgroundImageRe.FindStringSubmatch(style); m != nil {
			return resolve(base, strings.TrimSpace(m[1]))
		}
	}

	if tag == "source" {
		if val := strings.TrimSpace(sel.AttrOr("srcset", "")); val != "" {
			if best := BestFromSrcset(val); best != "" {
				return resolve(base, best)
			}
		}
	}

	return ""
}

// BestFromSrcset picks the widest candidate from a srcset descriptor list
// ("url [Nw], ..."). Entries without a width hint count as width 0, so a
// list with no widths selects the last entry.
func BestFromSrcset(srcset string) string {
	var bestURL string
	bestWidth := -1

	for _, part := range strings.Split(srcset, ",") {
		tokens := strings.Fields(strings.TrimSpace(part))
		if len(tokens) == 0 {
			continue
		}
		width := 0
		if len(tokens) >= 2 && strings.HasSuffix(tokens[1], "w") {
			if n, err := strconv.Atoi(strings.TrimSuffix(tokens[1], "w")); err == nil {
				width = n
			}
		}
		// >= so that on equal widths the later entry wins
		if width >= bestWidth {
			bestURL = tokens[0]
			bestWidth = width
		}
	}

	return bestURL
}

// resolve makes ref absolute against the page origin.
func resolve(base *url.URL, ref string) string {
	refURL, err := url.Parse(ref)
	if err != nil {
		return ""
	}
	if refURL.IsAbs() || base == nil {
		return refURL.String()
	}
	return base.ResolveReference(refURL).String()
}

// basename extracts the last path segment of an image URL.
func basename(imgURL string) string {
	u, err := url.Parse(imgURL)
	if err != nil {
		return ""
	}
	b := path.Base(u.Path)
	if b == "." || b == "/" {
		return ""
	}
	return b
}
