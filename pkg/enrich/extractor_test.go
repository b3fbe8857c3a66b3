package enrich

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func servePage(t *testing.T, html string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(html))
	}))
}

func TestFetchTitleOnly(t *testing.T) {
	srv := servePage(t, `<html><head><title>Example</title></head><body></body></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)

	assert.Equal(t, "Example", meta.Title)
	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.ImageURL)
}

func TestFetchOpenGraphWinsOverTitleTag(t *testing.T) {
	srv := servePage(t, `<html><head>
		<title>Boring Tab Title</title>
		<meta property="og:title" content="Shiny Product" />
		<meta name="description" content="meta description" />
		<meta property="og:description" content="og description" />
		<meta property="og:image" content="https://cdn.example.com/og.png" />
	</head></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)

	assert.Equal(t, "Shiny Product", meta.Title)
	assert.Equal(t, "og description", meta.Description)
	assert.Equal(t, "https://cdn.example.com/og.png", meta.ImageURL)
}

func TestFetchMetaNameDescriptionFallback(t *testing.T) {
	srv := servePage(t, `<html><head>
		<meta name="description" content="plain meta description">
	</head></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	assert.Equal(t, "plain meta description", meta.Description)
}

func TestFetchFaviconPrefersPNG(t *testing.T) {
	srv := servePage(t, `<html><head>
		<link rel="icon" href="/fav.ico">
		<link rel="icon" type="image/png" href="/fav.png">
	</head></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	assert.Equal(t, srv.URL+"/fav.png", meta.FaviconURL)
}

func TestFetchFaviconAnyIconFallback(t *testing.T) {
	srv := servePage(t, `<html><head>
		<link rel="shortcut icon" href="/legacy.ico">
	</head></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	assert.Equal(t, srv.URL+"/legacy.ico", meta.FaviconURL)
}

func TestFetchFaviconDefaultsToOriginIco(t *testing.T) {
	srv := servePage(t, `<html><head><title>No Icons</title></head></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	assert.Equal(t, srv.URL+"/favicon.ico", meta.FaviconURL)
}

func TestFetchSocialLinksDeduplicated(t *testing.T) {
	srv := servePage(t, `<html><body>
		<a href="https://github.com/acme">GitHub</a>
		<a href="https://github.com/acme/">GitHub again</a>
		<a href="https://twitter.com/acme">Twitter</a>
		<a href="https://x.com/acme">X</a>
		<a href="https://linkedin.com/company/acme">LinkedIn</a>
		<a href="https://example.com/not-social">Other</a>
	</body></html>`)
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)

	assert.Contains(t, meta.SocialLinks, "https://github.com/acme")
	assert.Contains(t, meta.SocialLinks, "https://twitter.com/acme")
	assert.Contains(t, meta.SocialLinks, "https://x.com/acme")
	assert.Contains(t, meta.SocialLinks, "https://linkedin.com/company/acme")

	github := 0
	for _, link := range meta.SocialLinks {
		assert.NotContains(t, link, "example.com")
		if link == "https://github.com/acme" {
			github++
		}
	}
	assert.Equal(t, 1, github, "duplicate github links should collapse")
}

func TestFetchNon2xxReturnsEmptyMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusGone)
	}))
	defer srv.Close()

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	assert.Equal(t, Metadata{}, meta)
}

func TestFetchUnreachableHostReturnsEmptyMetadata(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	meta := NewExtractor().Fetch(context.Background(), srv.URL)
	require.Equal(t, Metadata{}, meta)
}
