package product

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

// --- DetectTitle Tests ---

func TestDetectTitle_OGTitleWins(t *testing.T) {
	doc := parseDoc(t, `<head>
		<meta property="og:title" content="Bob Noir Premium">
		<meta name="twitter:title" content="Other Title">
	</head><body><h1>Heading Title</h1></body>`)

	got := DetectTitle(doc, "https://example.com/p/bob")
	if got != "Bob Noir Premium" {
		t.Errorf("expected og:title, got %q", got)
	}
}

func TestDetectTitle_TwitterFallback(t *testing.T) {
	doc := parseDoc(t, `<head><meta name="twitter:title" content="Bob Twitter"></head>`)

	got := DetectTitle(doc, "https://example.com/p/bob")
	if got != "Bob Twitter" {
		t.Errorf("expected twitter:title, got %q", got)
	}
}

func TestDetectTitle_HeadingFallback(t *testing.T) {
	doc := parseDoc(t, `<body><div class="product-title">  Bob Chapeau  </div></body>`)

	got := DetectTitle(doc, "https://example.com/p/bob")
	if got != "Bob Chapeau" {
		t.Errorf("expected trimmed heading text, got %q", got)
	}
}

func TestDetectTitle_URLFallback(t *testing.T) {
	doc := parseDoc(t, `<body></body>`)

	got := DetectTitle(doc, "https://example.com/products/bob-hat-noir/")
	if got != "Bob Hat Noir" {
		t.Errorf("expected title from URL segment, got %q", got)
	}
}

func TestTitleFromURL_Underscores(t *testing.T) {
	got := TitleFromURL("https://example.com/p/summer_hat_2024")
	if got != "Summer Hat 2024" {
		t.Errorf("expected underscores as spaces, got %q", got)
	}
}

func TestTitleFromURL_EmptyPath(t *testing.T) {
	got := TitleFromURL("https://example.com/")
	if got != "Produit" {
		t.Errorf("expected fallback title, got %q", got)
	}
}

// --- Slugify Tests ---

func TestSlugify_Diacritics(t *testing.T) {
	got := Slugify("Chapeau Été Doré")
	if got != "chapeau-ete-dore" {
		t.Errorf("expected diacritics stripped, got %q", got)
	}
}

func TestSlugify_CollapsesNonAlnum(t *testing.T) {
	got := Slugify("Bob -- (Noir) !! 2024")
	if got != "bob-noir-2024" {
		t.Errorf("expected collapsed hyphens, got %q", got)
	}
}

func TestSlugify_TrimsHyphens(t *testing.T) {
	got := Slugify("--bob--")
	if got != "bob" {
		t.Errorf("expected trimmed hyphens, got %q", got)
	}
}

func TestSlugify_EmptyFallsBack(t *testing.T) {
	if got := Slugify("!!!"); got != "produit" {
		t.Errorf("expected fallback slug, got %q", got)
	}
	if got := Slugify(""); got != "produit" {
		t.Errorf("expected fallback slug for empty input, got %q", got)
	}
}

// --- SafeDirName Tests ---

func TestSafeDirName_ReplacesUnsafeChars(t *testing.T) {
	got := SafeDirName(`Bob "L'original" : été/hiver?`)
	if strings.ContainsAny(got, `\/:*?"<>|`) {
		t.Errorf("unsafe characters remain in %q", got)
	}
}

func TestSafeDirName_TrimsDotsAndSpaces(t *testing.T) {
	got := SafeDirName("  Bob Noir. ")
	if got != "Bob Noir" {
		t.Errorf("expected trimmed name, got %q", got)
	}
}

func TestSafeDirName_EmptyFallsBack(t *testing.T) {
	if got := SafeDirName("   "); got != "produit" {
		t.Errorf("expected fallback dir name, got %q", got)
	}
}
