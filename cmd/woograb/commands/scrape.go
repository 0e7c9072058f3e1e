package commands

import (
	"context"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/woograb/woograb/internal/catalog"
	"github.com/woograb/woograb/internal/locator"
	"github.com/woograb/woograb/internal/logger"
	"github.com/woograb/woograb/internal/media"
	"github.com/woograb/woograb/internal/product"
	"github.com/woograb/woograb/internal/publish"
	"github.com/woograb/woograb/internal/renderer"
	"github.com/woograb/woograb/internal/variants"
)

// runConfig is the validated configuration of one scrape invocation.
type runConfig struct {
	URL          string `validate:"required,url"`
	CSS          string `validate:"required"`
	WaitCSS      string
	ScrollPasses int    `validate:"min=0"`
	Headless     bool
	FetchMode    string `validate:"oneof=dynamic static"`
	OutDir       string `validate:"required"`
	CSVPath      string `validate:"required"`
	ImagesMode   string `validate:"oneof=source wp-upload wp-prefix"`
	Site         string
	User         string
	AppPass      string
	PrefixURL    string
	Year         string
	Month        string
	Quality      int `validate:"min=1,max=100"`
	Vocabulary   string
	CachePath    string `validate:"required"`
	Timeout      time.Duration
}

var scrapeCmd = &cobra.Command{
	Use:   "scrape",
	Short: "Scrape a product page into images and a catalog row",
	Long: `Scrape renders a product page, extracts every gallery image matching
the CSS selector, converts them to JPEG, detects color variants from
filenames and alt text, and upserts the product (by SKU) into the
master WooCommerce CSV.

Image modes for the CSV "Images" column:
  source     keep the original scraped URLs (may be .webp/.png)
  wp-upload  upload the JPEGs to the WordPress media library
  wp-prefix  build site URLs from the converted filenames, no upload`,
	RunE: runScrape,
}

func init() {
	rootCmd.AddCommand(scrapeCmd)

	flags := scrapeCmd.Flags()

	flags.StringP("url", "u", "", "product page URL (required)")
	flags.String("css", "", `CSS selector for gallery images, e.g. ".product-gallery__media-list img" (required)`)
	flags.String("wait-css", "", "CSS selector to wait for before collecting (optional)")
	flags.Int("scroll", 10, "max full-page scroll passes")
	flags.Bool("no-headless", false, "show the browser window (disables headless)")
	flags.String("fetch-mode", "dynamic", "fetch mode: dynamic (headless browser), static (plain HTTP)")
	flags.StringP("out", "o", "images", "root directory for converted images")
	flags.String("csv", filepath.Join("exports", "FICHE PRODUIT PLANETE BOB.csv"), "master catalog CSV path")
	flags.String("images-mode", "source", "images mode: source, wp-upload, wp-prefix")
	flags.String("wp-site", "https://www.planetebob.fr", "WordPress site base URL")
	flags.String("wp-user", "", "WordPress user (holding an application password)")
	flags.String("wp-app-pass", "", "WordPress application password")
	flags.String("wp-prefix-url", "https://www.planetebob.fr/wp-content/uploads", "image URL prefix for wp-prefix mode")
	flags.String("wp-year", "", "year segment for wp-prefix URLs (optional)")
	flags.String("wp-month", "", "month segment (1..12) for wp-prefix URLs (optional)")
	flags.Int("jpg-quality", 90, "JPEG quality")
	flags.String("vocabulary", "", "YAML file overriding the color/size vocabulary (optional)")
	flags.String("upload-cache", filepath.Join("exports", "wp_upload_cache.json"), "upload cache file")
	flags.Duration("timeout", 30*time.Second, "page load timeout")

	_ = scrapeCmd.MarkFlagRequired("url")
	_ = scrapeCmd.MarkFlagRequired("css")

	_ = viper.BindPFlag("wp_site", flags.Lookup("wp-site"))
	_ = viper.BindPFlag("wp_user", flags.Lookup("wp-user"))
	_ = viper.BindPFlag("wp_app_pass", flags.Lookup("wp-app-pass"))
}

func runScrape(cmd *cobra.Command, args []string) error {
	logger.Init(logger.Options{
		Debug: viper.GetBool("debug"),
		Quiet: viper.GetBool("quiet"),
	})

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := configFromFlags(cmd)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	// Render the page and snapshot its DOM.
	r, err := newRenderer(cfg)
	if err != nil {
		logger.Error("failed to create renderer", "error", err)
		return err
	}
	defer func() { _ = r.Close() }()

	logger.Info("rendering page", "url", cfg.URL, "mode", r.Type())
	page, err := r.Render(ctx, cfg.URL, renderer.Options{
		WaitSelector: cfg.WaitCSS,
		ScrollPasses: cfg.ScrollPasses,
		Timeout:      cfg.Timeout,
	})
	if err != nil {
		logger.Error("failed to render page", "url", cfg.URL, "error", err)
		return err
	}

	doc, err := page.Document()
	if err != nil {
		logger.Error("failed to parse page", "error", err)
		return err
	}

	title := product.DetectTitle(doc, cfg.URL)
	slug := product.Slugify(title)
	logger.Info("product detected", "title", title, "slug", slug)

	images := locator.Extract(doc, cfg.CSS, cfg.URL)
	if len(images) == 0 {
		logger.Info("no images found", "selector", cfg.CSS)
		return nil
	}
	logger.Info("images detected", "count", len(images))

	urls := make([]string, len(images))
	for i, img := range images {
		urls[i] = img.URL
	}

	// Download and convert to JPEG.
	productDir := filepath.Join(cfg.OutDir, product.SafeDirName(title))
	converter := media.New(media.Config{Quality: cfg.Quality})
	names, err := converter.DownloadAll(ctx, urls, productDir)
	if err != nil {
		logger.Error("conversion failed", "dir", productDir, "error", err)
		return err
	}

	// Resolve catalog-facing URLs.
	backend, err := newBackend(cfg, title)
	if err != nil {
		logger.Error("failed to create publish backend", "error", err)
		return err
	}
	logger.Info("publishing images", "mode", backend.Name())
	urlMap, err := backend.Resolve(ctx, urls, names, productDir)
	if err != nil {
		logger.Error("publish failed", "error", err)
		return err
	}

	// Classify color variants.
	vocab, err := loadVocabulary(cfg.Vocabulary)
	if err != nil {
		logger.Error("failed to load vocabulary", "path", cfg.Vocabulary, "error", err)
		return err
	}
	colors := variants.NewClassifier(vocab).Classify(images, slug)
	for _, c := range colors {
		logger.Debug("color variant detected", "slug", c.Slug, "label", c.Label)
	}

	// Build rows and merge into the master catalog.
	rows := catalog.BuildRows(title, slug, urls, colors, func(u string) string {
		if mapped, ok := urlMap[u]; ok {
			return mapped
		}
		return u
	})
	res, err := catalog.Upsert(cfg.CSVPath, rows)
	if err != nil {
		logger.Error("catalog merge failed", "path", cfg.CSVPath, "error", err)
		return err
	}

	logger.Info("catalog updated",
		"path", cfg.CSVPath,
		"rows_updated", res.Updated,
		"rows_added", res.Added,
		"colors", len(colors))
	return nil
}

// configFromFlags assembles and validates the run configuration.
func configFromFlags(cmd *cobra.Command) (runConfig, error) {
	flags := cmd.Flags()

	cfg := runConfig{}
	cfg.URL, _ = flags.GetString("url")
	cfg.CSS, _ = flags.GetString("css")
	cfg.WaitCSS, _ = flags.GetString("wait-css")
	cfg.ScrollPasses, _ = flags.GetInt("scroll")
	cfg.FetchMode, _ = flags.GetString("fetch-mode")
	cfg.OutDir, _ = flags.GetString("out")
	cfg.CSVPath, _ = flags.GetString("csv")
	cfg.ImagesMode, _ = flags.GetString("images-mode")
	cfg.PrefixURL, _ = flags.GetString("wp-prefix-url")
	cfg.Year, _ = flags.GetString("wp-year")
	cfg.Month, _ = flags.GetString("wp-month")
	cfg.Quality, _ = flags.GetInt("jpg-quality")
	cfg.Vocabulary, _ = flags.GetString("vocabulary")
	cfg.CachePath, _ = flags.GetString("upload-cache")
	cfg.Timeout, _ = flags.GetDuration("timeout")

	noHeadless, _ := flags.GetBool("no-headless")
	cfg.Headless = !noHeadless

	cfg.Site = viper.GetString("wp_site")
	cfg.User = viper.GetString("wp_user")
	cfg.AppPass = viper.GetString("wp_app_pass")

	cfg.URL = strings.TrimSpace(cfg.URL)
	cfg.CSS = strings.TrimSpace(cfg.CSS)
	if cfg.URL != "" && !strings.Contains(cfg.URL, "://") {
		cfg.URL = "https://" + cfg.URL
	}

	if err := validator.New().Struct(cfg); err != nil {
		return runConfig{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// newRenderer picks the renderer for the configured fetch mode.
func newRenderer(cfg runConfig) (renderer.Renderer, error) {
	rcfg := renderer.DefaultConfig()
	rcfg.Headless = cfg.Headless
	rcfg.Timeout = cfg.Timeout

	switch cfg.FetchMode {
	case "static":
		return renderer.NewStatic(rcfg), nil
	default:
		return renderer.NewDynamic(rcfg)
	}
}

// newBackend picks the publish backend for the configured images mode.
// Missing upload credentials degrade wp-upload to source behavior.
func newBackend(cfg runConfig, title string) (publish.Backend, error) {
	switch cfg.ImagesMode {
	case "wp-upload":
		if cfg.User == "" || cfg.AppPass == "" {
			logger.Warn("no WordPress credentials provided, falling back to source URLs")
			return publish.NewLocal(), nil
		}
		store := publish.OpenStore(cfg.CachePath)
		return publish.NewUpload(publish.UploadConfig{
			Site:         cfg.Site,
			User:         cfg.User,
			AppPassword:  cfg.AppPass,
			ProductTitle: title,
		}, store), nil
	case "wp-prefix":
		return publish.NewPrefix(cfg.PrefixURL, cfg.Year, cfg.Month)
	default:
		return publish.NewLocal(), nil
	}
}

// loadVocabulary loads the YAML vocabulary override, or nil for the
// built-in default.
func loadVocabulary(path string) (*variants.Vocabulary, error) {
	if path == "" {
		return nil, nil
	}
	return variants.VocabularyFromFile(path)
}
