package enrich

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	imageutil "stacklist_backend/pkg/image"
)

// Uploader is the slice of the storage client the relocator needs.
type Uploader interface {
	Upload(ctx context.Context, key, contentType string, body []byte) (string, error)
}

// Relocator copies discovered favicons and preview images into our own
// bucket. Each asset is best-effort; a failure leaves that field empty and
// never affects the other asset.
type Relocator struct {
	store  Uploader
	client *http.Client
}

func NewRelocator(store Uploader) *Relocator {
	return &Relocator{
		store:  store,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Relocate returns the stored logo and preview image URLs. Either may be
// empty.
func (r *Relocator) Relocate(ctx context.Context, meta Metadata) (logoURL, imageURL string) {
	if meta.FaviconURL != "" {
		logoURL = r.relocateOne(ctx, meta.FaviconURL, "logos")
	}
	if meta.ImageURL != "" {
		imageURL = r.relocateOne(ctx, meta.ImageURL, "screenshots")
	}
	return logoURL, imageURL
}

func (r *Relocator) relocateOne(ctx context.Context, assetURL, prefix string) string {
	if r.store == nil {
		return ""
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, assetURL, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", extractorUserAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		log.Printf("Could not download asset %s: %v", assetURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Asset download %s returned status %d", assetURL, resp.StatusCode)
		return ""
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, imageutil.MaxAssetSize+1))
	if err != nil || len(data) == 0 {
		return ""
	}

	contentType := resp.Header.Get("Content-Type")
	if idx := strings.Index(contentType, ";"); idx >= 0 {
		contentType = contentType[:idx]
	}
	contentType = strings.TrimSpace(contentType)

	encoded, finalType, err := imageutil.ReEncode(data, contentType)
	if err != nil {
		log.Printf("Could not process asset %s: %v", assetURL, err)
		return ""
	}

	key := fmt.Sprintf("%s/%d-%s%s", prefix, time.Now().Unix(), uuid.New().String(), extensionFor(finalType, assetURL))

	url, err := r.store.Upload(ctx, key, finalType, encoded)
	if err != nil {
		log.Printf("Could not upload asset %s: %v", assetURL, err)
		return ""
	}

	return url
}

func extensionFor(contentType, assetURL string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/gif":
		return ".gif"
	case "image/svg+xml":
		return ".svg"
	case "image/x-icon", "image/vnd.microsoft.icon":
		return ".ico"
	}

	if exts, err := mime.ExtensionsByType(contentType); err == nil && len(exts) > 0 {
		return exts[0]
	}

	// fall back to whatever the source URL carried
	if idx := strings.LastIndex(assetURL, "."); idx >= 0 {
		ext := assetURL[idx:]
		if len(ext) <= 5 && !strings.ContainsAny(ext, "/?") {
			return ext
		}
	}
	return ".png"
}
