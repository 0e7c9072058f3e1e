package locator

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
)

func parseDoc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		t.Fatalf("failed to parse test HTML: %v", err)
	}
	return doc
}

// --- BestFromSrcset Tests ---

func TestBestFromSrcset_PicksLargestWidth(t *testing.T) {
	got := BestFromSrcset("a.jpg 200w, b.jpg 800w, c.jpg 400w")
	if got != "b.jpg" {
		t.Errorf("expected b.jpg, got %q", got)
	}
}

func TestBestFromSrcset_NoWidths_PicksLast(t *testing.T) {
	got := BestFromSrcset("a.jpg, b.jpg, c.jpg")
	if got != "c.jpg" {
		t.Errorf("expected c.jpg, got %q", got)
	}
}

func TestBestFromSrcset_DensityDescriptorsIgnored(t *testing.T) {
	// 2x is not a width hint; all entries count as width 0, last wins
	got := BestFromSrcset("a.jpg 1x, b.jpg 2x")
	if got != "b.jpg" {
		t.Errorf("expected b.jpg, got %q", got)
	}
}

func TestBestFromSrcset_Empty(t *testing.T) {
	if got := BestFromSrcset(""); got != "" {
		t.Errorf("expected empty result, got %q", got)
	}
}

// --- Extract Tests ---

func TestExtract_SrcsetBeatsLazyAttrs(t *testing.T) {
	doc := parseDoc(t, `<div class="g">
		<img srcset="/small.jpg 100w, /big.jpg 900w" data-src="/lazy.jpg" src="/src.jpg">
	</div>`)

	images := Extract(doc, ".g img", "https://example.com/product")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/big.jpg" {
		t.Errorf("expected srcset winner, got %q", images[0].URL)
	}
}

func TestExtract_LazyAttrPriority(t *testing.T) {
	doc := parseDoc(t, `<img data-lazy="/lazy.jpg" src="/src.jpg">`)

	images := Extract(doc, "img", "https://example.com/")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/lazy.jpg" {
		t.Errorf("data-lazy should beat src, got %q", images[0].URL)
	}
}

func TestExtract_BackgroundImage(t *testing.T) {
	doc := parseDoc(t, `<div class="hero" style="background-image: url('/bg/photo.png');"></div>`)

	images := Extract(doc, ".hero", "https://example.com/p")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/bg/photo.png" {
		t.Errorf("expected background-image URL, got %q", images[0].URL)
	}
	if images[0].Basename != "photo.png" {
		t.Errorf("expected basename photo.png, got %q", images[0].Basename)
	}
}

func TestExtract_SourceElementSrcset(t *testing.T) {
	doc := parseDoc(t, `<picture><source srcset="/a.webp 200w, /b.webp 600w"></picture>`)

	images := Extract(doc, "source", "https://example.com/")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/b.webp" {
		t.Errorf("expected widest source entry, got %q", images[0].URL)
	}
}

func TestExtract_DescendantImg(t *testing.T) {
	doc := parseDoc(t, `<li class="slide"><a href="#"><img src="/nested.jpg" alt="Bob noir"></a></li>`)

	images := Extract(doc, ".slide", "https://example.com/")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/nested.jpg" {
		t.Errorf("expected descendant img URL, got %q", images[0].URL)
	}
	if images[0].Alt != "Bob noir" {
		t.Errorf("expected alt from descendant img, got %q", images[0].Alt)
	}
}

func TestExtract_DedupePreservesFirstSeenOrder(t *testing.T) {
	doc := parseDoc(t, `<div class="g">
		<img src="/one.jpg">
		<img src="/two.jpg">
		<img src="/one.jpg">
		<img src="/three.jpg">
	</div>`)

	images := Extract(doc, ".g img", "https://example.com/")
	if len(images) != 3 {
		t.Fatalf("expected 3 images after dedupe, got %d", len(images))
	}
	want := []string{
		"https://example.com/one.jpg",
		"https://example.com/two.jpg",
		"https://example.com/three.jpg",
	}
	for i, w := range want {
		if images[i].URL != w {
			t.Errorf("position %d: expected %q, got %q", i, w, images[i].URL)
		}
	}
}

func TestExtract_AbsoluteURLsUntouched(t *testing.T) {
	doc := parseDoc(t, `<img src="https://cdn.example.net/img/bob.jpg">`)

	images := Extract(doc, "img", "https://example.com/")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://cdn.example.net/img/bob.jpg" {
		t.Errorf("absolute URL should not be rewritten, got %q", images[0].URL)
	}
}

func TestExtract_NoMatches_NotAnError(t *testing.T) {
	doc := parseDoc(t, `<p>nothing here</p>`)

	images := Extract(doc, ".gallery img", "https://example.com/")
	if len(images) != 0 {
		t.Errorf("expected no images, got %d", len(images))
	}
}

func TestExtract_ElementWithoutURL_Skipped(t *testing.T) {
	doc := parseDoc(t, `<div class="g"><span class="placeholder"></span><img src="/ok.jpg"></div>`)

	images := Extract(doc, ".g *", "https://example.com/")
	if len(images) != 1 {
		t.Fatalf("expected 1 image, got %d", len(images))
	}
	if images[0].URL != "https://example.com/ok.jpg" {
		t.Errorf("expected the img element only, got %q", images[0].URL)
	}
}
