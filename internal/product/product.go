// Package product derives the product title and URL/filesystem-safe slugs.
package product

import (
	"net/url"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// FallbackName is used whenever no usable title or slug can be derived.
const FallbackName = "produit"

// Meta tags tried first, in order.
var metaSelectors = []string{
	"meta[property='og:title']",
	"meta[name='og:title']",
	"meta[name='twitter:title']",
}

// Common product-title selectors across shop themes.
var headingSelectors = []string{
	"h1",
	".product-title",
	".product__title",
	"[data-product-title]",
	".product-name",
	".ProductMeta__Title",
	".product-single__title",
}

var (
	nonAlnumRe   = regexp.MustCompile(`[^a-z0-9]+`)
	unsafePathRe = regexp.MustCompile(`[\\/:*?"<>|]+`)
)

// DetectTitle finds the product title: og:title/twitter:title meta tags
// first, then common heading selectors, else a title derived from the URL.
func DetectTitle(doc *goquery.Document, pageURL string) string {
	for _, sel := range metaSelectors {
		if content := strings.TrimSpace(doc.Find(sel).First().AttrOr("content", "")); content != "" {
			return content
		}
	}
	for _, sel := range headingSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return TitleFromURL(pageURL)
}

// TitleFromURL derives a readable title from the last URL path segment.
func TitleFromURL(pageURL string) string {
	segment := FallbackName
	if u, err := url.Parse(pageURL); err == nil {
		if b := path.Base(strings.TrimRight(u.Path, "/")); b != "" && b != "." && b != "/" {
			segment = b
		}
	}
	segment = strings.NewReplacer("-", " ", "_", " ").Replace(segment)
	return cases.Title(language.Und).String(segment)
}

// Slugify lowercases, strips diacritics, collapses runs of non-alphanumeric
// characters to single hyphens and trims them. An empty result becomes
// "produit".
func Slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// NFKD + combining-mark removal turns "é" into "e".
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))
	if stripped, _, err := transform.String(t, s); err == nil {
		s = stripped
	}

	s = nonAlnumRe.ReplaceAllString(s, "-")
	s = strings.Trim(s, "-")
	if s == "" {
		return FallbackName
	}
	return s
}

// SafeDirName turns a product title into a directory name, replacing
// filesystem-unsafe characters with underscores.
func SafeDirName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return FallbackName
	}
	name = unsafePathRe.ReplaceAllString(name, "_")
	name = strings.Trim(name, " .")
	if name == "" {
		return FallbackName
	}
	return name
}
