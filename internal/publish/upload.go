package publish

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/woograb/woograb/internal/logger"
)

// UploadConfig holds the WordPress media-library credentials.
type UploadConfig struct {
	Site         string // site base URL, e.g. https://www.example.com
	User         string
	AppPassword  string // WordPress application password
	ProductTitle string // used for best-effort title/alt metadata
	Timeout      time.Duration
}

// UploadBackend publishes converted JPEGs to the WordPress media endpoint,
// consulting the content-addressed cache before every network call.
type UploadBackend struct {
	client   *resty.Client
	endpoint string
	store    *Store
	title    string
}

// mediaResponse is the subset of the wp/v2/media response we need.
type mediaResponse struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
}

// NewUpload creates an upload backend against cfg.Site using HTTP Basic
// auth with the application password.
func NewUpload(cfg UploadConfig, store *Store) *UploadBackend {
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}

	site := cfg.Site
	if site != "" && site[len(site)-1] != '/' {
		site += "/"
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetBasicAuth(cfg.User, cfg.AppPassword)

	return &UploadBackend{
		client:   client,
		endpoint: site + "wp-json/wp/v2/media",
		store:    store,
		title:    cfg.ProductTitle,
	}
}

// Resolve uploads each converted file from dir, reusing cached URLs for
// content already published. A failed upload yields an empty URL and is
// not cached, so the next run retries it. Only a cache write failure is
// fatal.
func (b *UploadBackend) Resolve(ctx context.Context, originals []string, filenames []string, dir string) (map[string]string, error) {
	urls := make(map[string]string, len(originals))

	for i, orig := range originals {
		urls[orig] = ""
		if i >= len(filenames) || filenames[i] == "" {
			continue
		}
		fname := filenames[i]

		data, err := os.ReadFile(filepath.Join(dir, fname))
		if err != nil {
			logger.Warn("converted file missing, skipping upload", "file", fname, "error", err)
			continue
		}

		hash := HashBytes(data)
		if entry, ok := b.store.Get(hash); ok {
			logger.Info("already uploaded (cache)", "file", fname, "url", entry.URL)
			urls[orig] = entry.URL
			continue
		}

		remoteURL, err := b.uploadOne(ctx, fname, data, hash)
		if err != nil {
			return nil, err
		}
		urls[orig] = remoteURL
	}

	return urls, nil
}

// uploadOne POSTs one file to the media endpoint. Upload failures are
// logged and return an empty URL; the returned error is reserved for cache
// persistence problems.
func (b *UploadBackend) uploadOne(ctx context.Context, fname string, data []byte, hash string) (string, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fname)).
		SetHeader("Content-Type", "image/jpeg").
		SetBody(data).
		Post(b.endpoint)
	if err != nil {
		logger.Warn("upload failed", "file", fname, "error", err)
		return "", nil
	}
	if resp.StatusCode() != 200 && resp.StatusCode() != 201 {
		logger.Warn("upload rejected", "file", fname, "status", resp.StatusCode())
		return "", nil
	}

	var media mediaResponse
	if err := json.Unmarshal(resp.Body(), &media); err != nil {
		logger.Warn("upload response unreadable", "file", fname, "error", err)
		return "", nil
	}

	b.setMetadata(ctx, media.ID)

	entry := Entry{
		URL:      media.SourceURL,
		Filename: fname,
	}
	if media.ID != 0 {
		entry.ID = strconv.FormatInt(media.ID, 10)
	}
	if err := b.store.Put(hash, entry); err != nil {
		return "", err
	}

	logger.Info("uploaded", "file", fname, "url", media.SourceURL)
	return media.SourceURL, nil
}

// setMetadata sets title and alt text on the uploaded attachment. Failures
// are ignored.
func (b *UploadBackend) setMetadata(ctx context.Context, mediaID int64) {
	if mediaID == 0 || b.title == "" {
		return
	}
	_, err := b.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(map[string]string{"title": b.title, "alt_text": b.title}).
		Post(fmt.Sprintf("%s/%d", b.endpoint, mediaID))
	if err != nil {
		logger.Debug("attachment metadata update failed", "media_id", mediaID, "error", err)
	}
}

func (b *UploadBackend) Name() string { return "wp-upload" }
