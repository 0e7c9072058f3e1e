// Package publish chooses the catalog-facing URL for each converted image.
package publish

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// Backend resolves original image URLs to the URLs written into the
// catalog. originals and filenames are positionally aligned; an empty
// filename marks a failed conversion and resolves to an empty URL.
type Backend interface {
	Resolve(ctx context.Context, originals []string, filenames []string, dir string) (map[string]string, error)
	Name() string
}

// LocalBackend keeps the original scraped URLs. The converted JPEGs stay
// on disk for reference but the catalog never points at them.
type LocalBackend struct{}

// NewLocal creates a pass-through backend.
func NewLocal() *LocalBackend {
	return &LocalBackend{}
}

func (b *LocalBackend) Resolve(_ context.Context, originals []string, _ []string, _ string) (map[string]string, error) {
	urls := make(map[string]string, len(originals))
	for _, u := range originals {
		urls[u] = u
	}
	return urls, nil
}

func (b *LocalBackend) Name() string { return "source" }

// PrefixBackend builds site URLs from converted filenames without any
// network call: base + optional /YYYY/MM + /filename.
type PrefixBackend struct {
	base   string
	suffix string
}

// NewPrefix creates a prefix backend. year and month are optional but must
// be given together; month is zero-padded to two digits.
func NewPrefix(base, year, month string) (*PrefixBackend, error) {
	b := &PrefixBackend{
		base: strings.TrimSuffix(base, "/"),
	}
	if year != "" && month != "" {
		m, err := strconv.Atoi(month)
		if err != nil || m < 1 || m > 12 {
			return nil, fmt.Errorf("invalid month %q", month)
		}
		b.suffix = fmt.Sprintf("/%s/%02d", year, m)
	}
	return b, nil
}

// URLFor returns the prefixed URL for one converted filename.
func (b *PrefixBackend) URLFor(filename string) string {
	if filename == "" {
		return ""
	}
	return b.base + b.suffix + "/" + filename
}

func (b *PrefixBackend) Resolve(_ context.Context, originals []string, filenames []string, _ string) (map[string]string, error) {
	urls := make(map[string]string, len(originals))
	for i, u := range originals {
		if i < len(filenames) {
			urls[u] = b.URLFor(filenames[i])
		} else {
			urls[u] = ""
		}
	}
	return urls, nil
}

func (b *PrefixBackend) Name() string { return "wp-prefix" }
