// Package catalog builds WooCommerce product rows and merges them into the
// persistent master CSV.
package catalog

import (
	"strings"

	"github.com/woograb/woograb/internal/variants"
)

// Header is the canonical WooCommerce product-import header. Every row is
// padded or truncated to exactly this width before comparison or write.
var Header = []string{
	"ID", "Type", "SKU", "Name", "Published", "Visibility in catalog",
	"Tax status", "In stock?", "Images", "Parent", "Regular price",
	"Sale price", "Attribute 1 name", "Attribute 1 value(s)",
	"Attribute 1 visible", "Attribute 1 global",
}

// Fallback SKU column position when the header lookup fails.
const defaultSKUColumn = 2

// Row is one catalog record.
type Row []string

// URLTransform maps an original image URL to the URL written into the
// Images column.
type URLTransform func(string) string

// BuildRows builds the catalog rows for one product. Fewer than two
// recognized colors yields a single "simple" row; otherwise one "variable"
// parent row plus one "variation" row per color, linked by the parent slug.
func BuildRows(title, slug string, galleryURLs []string, colors []variants.Color, transform URLTransform) []Row {
	if transform == nil {
		transform = func(u string) string { return u }
	}

	var gallery []string
	for _, u := range galleryURLs {
		if t := transform(u); t != "" {
			gallery = append(gallery, t)
		}
	}
	images := strings.Join(gallery, ", ")

	if len(colors) < 2 {
		return []Row{{
			"", "simple", slug, title, "1", "visible", "taxable", "1",
			images, "", "", "", "", "", "", "",
		}}
	}

	labels := make([]string, len(colors))
	for i, c := range colors {
		labels[i] = c.Label
	}

	rows := []Row{{
		"", "variable", slug, title, "1", "visible", "taxable", "1",
		images, "", "", "", "couleur", strings.Join(labels, ", "), "1", "1",
	}}

	for _, c := range colors {
		rows = append(rows, Row{
			"", "variation", slug + "-" + c.Slug, title + " - " + c.Label,
			"1", "visible", "taxable", "1",
			transform(c.ImageURL), slug, "", "", "couleur", c.Label, "1", "1",
		})
	}

	return rows
}

// fit pads or truncates a row to width columns.
func fit(row Row, width int) Row {
	if len(row) == width {
		return row
	}
	if len(row) > width {
		return row[:width]
	}
	padded := make(Row, width)
	copy(padded, row)
	return padded
}
