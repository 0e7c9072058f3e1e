// Package variants groups product images into recognized color variants.
package variants

import (
	"path"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/woograb/woograb/internal/locator"
	"github.com/woograb/woograb/internal/media"
	"github.com/woograb/woograb/internal/product"
)

// Color is one recognized color variant of a product.
type Color struct {
	Slug     string
	Label    string
	ImageURL string // first image seen for this color (original URL)
}

var (
	numericTokenRe = regexp.MustCompile(`^\d+(cm)?$`)
	fonceRe        = regexp.MustCompile(`\bfonce\b`)
)

// Classifier detects color variants from filenames and alt text against a
// closed vocabulary.
type Classifier struct {
	vocab *Vocabulary
	title cases.Caser
}

// NewClassifier creates a classifier. A nil vocabulary uses the built-in
// default.
func NewClassifier(vocab *Vocabulary) *Classifier {
	if vocab == nil {
		vocab = DefaultVocabulary()
	}
	return &Classifier{
		vocab: vocab,
		title: cases.Title(language.Und),
	}
}

// Classify returns the recognized colors in first-seen order. The first
// image of each color becomes its representative; later images of the same
// color are ignored here but stay in the gallery.
func (c *Classifier) Classify(images []locator.Image, productSlug string) []Color {
	seen := make(map[string]bool)
	var colors []Color

	for _, img := range images {
		slug, label, ok := c.colorFor(img, productSlug)
		if !ok || seen[slug] {
			continue
		}
		seen[slug] = true
		colors = append(colors, Color{
			Slug:     slug,
			Label:    label,
			ImageURL: img.URL,
		})
	}

	return colors
}

// colorFor tries the filename first, then the alt text. Candidates outside
// the recognized vocabulary are discarded to avoid noisy false grouping.
func (c *Classifier) colorFor(img locator.Image, productSlug string) (string, string, bool) {
	base := img.Basename
	base = base[:len(base)-len(path.Ext(base))]

	if slug := c.colorFromFilename(base, productSlug); slug != "" && c.vocab.IsColor(slug) {
		return slug, c.PrettyLabel(slug), true
	}

	if slug := c.colorFromAlt(img.Alt, productSlug); slug != "" && c.vocab.IsColor(slug) {
		return slug, c.PrettyLabel(slug), true
	}

	return "", "", false
}

// colorFromFilename extracts the candidate color slug from a filename base
// shaped like "<product-slug>-<color...>-<size/number...>". The scan stops
// at the first size token or numeric token.
func (c *Classifier) colorFromFilename(base, productSlug string) string {
	base = media.StripTrailingNumber(base)
	if !strings.HasPrefix(base, productSlug+"-") {
		return ""
	}

	rest := base[len(productSlug)+1:]
	var colorTokens []string
	for _, tok := range strings.Split(rest, "-") {
		if c.vocab.IsSize(tok) || numericTokenRe.MatchString(tok) {
			break
		}
		colorTokens = append(colorTokens, tok)
	}

	return strings.Join(colorTokens, "-")
}

// colorFromAlt slugifies the alt text with the product name and generic
// stopwords removed.
func (c *Classifier) colorFromAlt(alt, productSlug string) string {
	if alt == "" {
		return ""
	}

	cleaned := strings.ToLower(alt)
	cleaned = strings.ReplaceAll(cleaned, strings.ReplaceAll(productSlug, "-", " "), "")
	cleaned = strings.Trim(cleaned, " -–—_:()[]")
	cleaned = strings.Join(strings.Fields(cleaned), " ")
	if cleaned == "" {
		return ""
	}

	var parts []string
	for _, p := range strings.Split(product.Slugify(cleaned), "-") {
		if p != "" && !c.vocab.IsStopword(p) {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// PrettyLabel turns a color slug into a display label: hyphens become
// spaces, "fonce" gets its accent back, words are capitalized.
func (c *Classifier) PrettyLabel(slug string) string {
	label := strings.ToLower(strings.TrimSpace(strings.ReplaceAll(slug, "-", " ")))
	label = fonceRe.ReplaceAllString(label, "foncé")
	return c.title.String(label)
}
