package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stacklist_backend/pkg/config"
)

type fakeLookup struct {
	title  string
	status string
	found  bool
}

func (f *fakeLookup) FindByURL(url string) (string, string, bool, error) {
	return f.title, f.status, f.found, nil
}

type fakeUploader struct {
	mu      sync.Mutex
	uploads map[string][]byte
}

func newFakeUploader() *fakeUploader {
	return &fakeUploader{uploads: make(map[string][]byte)}
}

func (f *fakeUploader) Upload(ctx context.Context, key, contentType string, body []byte) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads[key] = body
	return "https://assets.test/" + key, nil
}

func newTestOrchestrator(lookup SubmissionLookup, store Uploader) *Orchestrator {
	return NewOrchestrator(
		lookup,
		NewExtractor(),
		NewAIClient(config.AIConfig{}), // no key: fallback path
		NewRelocator(store),
	)
}

func TestPreviewRejectsMalformedURL(t *testing.T) {
	orch := newTestOrchestrator(&fakeLookup{}, newFakeUploader())

	_, err := orch.Preview(context.Background(), "ftp://example.com")

	var invalid *ValidationError
	require.ErrorAs(t, err, &invalid)
}

func TestPreviewDuplicateCarriesTitleAndStatus(t *testing.T) {
	lookup := &fakeLookup{title: "Existing Tool", status: "approved", found: true}
	orch := newTestOrchestrator(lookup, newFakeUploader())

	_, err := orch.Preview(context.Background(), "https://example.com")

	var dup *DuplicateError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "Existing Tool", dup.Title)
	assert.Equal(t, "approved", dup.Status)
}

// End to end: a page with only a title tag, no completion key, favicon 404.
func TestPreviewDegradesGracefully(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/" {
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Example</title></head><body></body></html>`))
			return
		}
		http.NotFound(w, r) // /favicon.ico included
	}))
	defer srv.Close()

	store := newFakeUploader()
	orch := newTestOrchestrator(&fakeLookup{}, store)

	preview, err := orch.Preview(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.Equal(t, "Example", preview.Title)
	assert.Equal(t, "No description available", preview.Description)
	assert.Equal(t, "Software", preview.Category)
	assert.Empty(t, preview.Tags)
	assert.Empty(t, preview.LogoURL, "404 favicon must yield an empty logo")
	assert.Empty(t, preview.ImageURL)
	assert.Empty(t, store.uploads)
}

func TestPreviewRelocatesFavicon(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nnot-really-a-png")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			w.Header().Set("Content-Type", "text/html")
			w.Write([]byte(`<html><head><title>Iconic</title><link rel="icon" type="image/png" href="/icon.png"></head></html>`))
		case "/icon.png":
			w.Header().Set("Content-Type", "image/png")
			w.Write(png)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	store := newFakeUploader()
	orch := newTestOrchestrator(&fakeLookup{}, store)

	preview, err := orch.Preview(context.Background(), srv.URL)
	require.NoError(t, err)

	assert.NotEmpty(t, preview.LogoURL)
	assert.Len(t, store.uploads, 1)
	for key := range store.uploads {
		assert.Contains(t, key, "logos/")
		assert.Contains(t, preview.LogoURL, key)
	}
}

func TestPreviewURLIsNormalized(t *testing.T) {
	srv := servePage(t, `<html><head><title>Normalized</title></head></html>`)
	defer srv.Close()

	orch := newTestOrchestrator(&fakeLookup{}, newFakeUploader())

	preview, err := orch.Preview(context.Background(), srv.URL+"/deep/path?q=1")
	require.NoError(t, err)
	assert.Equal(t, srv.URL, preview.URL)
}
