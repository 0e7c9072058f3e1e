package variants

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Built-in French vocabulary, tuned for the catalogs this tool feeds.
var (
	defaultColors = []string{
		"noir", "blanc", "beige", "gris", "jaune", "rouge", "rose",
		"bleu", "bleu-fonce", "bleu-clair", "bleu-marine", "marine",
		"vert", "kaki", "camel", "marron", "violet", "orange",
		"bordeaux", "ecru", "taupe", "dore", "argent", "imprime", "multicolore",
	}
	defaultStopwords = []string{
		"bob", "chapeau", "casquette", "bonnet", "taille", "unique", "standard",
	}
	defaultSizes = []string{"s", "m", "l", "xl", "xs", "xxl"}
)

// Vocabulary holds the closed sets driving color detection: recognized
// color slugs, generic stopwords filtered from alt text, and size tokens
// that end the color scan in filenames.
type Vocabulary struct {
	colors    map[string]bool
	stopwords map[string]bool
	sizes     map[string]bool
}

// vocabularyFile is the on-disk YAML shape.
type vocabularyFile struct {
	Colors    []string `yaml:"colors"`
	Stopwords []string `yaml:"stopwords"`
	Sizes     []string `yaml:"sizes"`
}

// DefaultVocabulary returns the built-in French sets.
func DefaultVocabulary() *Vocabulary {
	return newVocabulary(defaultColors, defaultStopwords, defaultSizes)
}

// VocabularyFromFile loads a vocabulary from a YAML file. A section left
// empty in the file falls back to the built-in set, so a file may override
// just the colors.
func VocabularyFromFile(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}

	var f vocabularyFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file %s: %w", path, err)
	}

	if len(f.Colors) == 0 {
		f.Colors = defaultColors
	}
	if len(f.Stopwords) == 0 {
		f.Stopwords = defaultStopwords
	}
	if len(f.Sizes) == 0 {
		f.Sizes = defaultSizes
	}

	return newVocabulary(f.Colors, f.Stopwords, f.Sizes), nil
}

func newVocabulary(colors, stopwords, sizes []string) *Vocabulary {
	return &Vocabulary{
		colors:    toSet(colors),
		stopwords: toSet(stopwords),
		sizes:     toSet(sizes),
	}
}

func toSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, item := range items {
		set[item] = true
	}
	return set
}

// IsColor reports whether slug is a recognized color.
func (v *Vocabulary) IsColor(slug string) bool { return v.colors[slug] }

// IsStopword reports whether word is a generic product word.
func (v *Vocabulary) IsStopword(word string) bool { return v.stopwords[word] }

// IsSize reports whether token is a size token.
func (v *Vocabulary) IsSize(token string) bool { return v.sizes[token] }
