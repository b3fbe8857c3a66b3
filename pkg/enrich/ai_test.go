package enrich

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"stacklist_backend/pkg/config"
)

func TestEnrichWithoutAPIKeyFallsBack(t *testing.T) {
	client := NewAIClient(config.AIConfig{APIKey: ""})

	meta := Metadata{Title: "Example", Description: ""}
	enriched := client.Enrich(context.Background(), "https://example.com", meta)

	assert.Equal(t, "Example", enriched.Title)
	assert.Equal(t, "No description available", enriched.Description)
	assert.Equal(t, "Software", enriched.Category)
	assert.Empty(t, enriched.Tags)
}

func TestEnrichFallbackDefaultsWhenMetadataEmpty(t *testing.T) {
	client := NewAIClient(config.AIConfig{APIKey: ""})

	enriched := client.Enrich(context.Background(), "https://example.com", Metadata{})

	assert.Equal(t, "Untitled", enriched.Title)
	assert.Equal(t, "No description available", enriched.Description)
	assert.Equal(t, "Software", enriched.Category)
	assert.Empty(t, enriched.Tags)
}

func fakeCompletionServer(t *testing.T, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"choices":[{"message":{"content":%q}}]}`, content)
	}))
}

func TestEnrichParsesModelResponse(t *testing.T) {
	srv := fakeCompletionServer(t, `{"title":"Acme","description":"A build tool for teams that ship native apps from one codebase across platforms.","category":"Developer Tools","tags":["build","ci","tooling"]}`)
	defer srv.Close()

	client := NewAIClient(config.AIConfig{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"})
	enriched := client.Enrich(context.Background(), "https://acme.dev", Metadata{Title: "raw"})

	assert.Equal(t, "Acme", enriched.Title)
	assert.Equal(t, "Developer Tools", enriched.Category)
	assert.Equal(t, []string{"build", "ci", "tooling"}, enriched.Tags)
}

func TestEnrichToleratesCodeFences(t *testing.T) {
	srv := fakeCompletionServer(t, "```json\n{\"title\":\"Fenced\",\"description\":\"desc\",\"category\":\"AI\",\"tags\":[\"ml\"]}\n```")
	defer srv.Close()

	client := NewAIClient(config.AIConfig{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"})
	enriched := client.Enrich(context.Background(), "https://fenced.dev", Metadata{})

	assert.Equal(t, "Fenced", enriched.Title)
	assert.Equal(t, "AI", enriched.Category)
}

func TestEnrichUnknownCategoryCoercedToSoftware(t *testing.T) {
	srv := fakeCompletionServer(t, `{"title":"Odd","description":"desc","category":"Quantum Gardening","tags":["odd"]}`)
	defer srv.Close()

	client := NewAIClient(config.AIConfig{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"})
	enriched := client.Enrich(context.Background(), "https://odd.dev", Metadata{})

	assert.Equal(t, "Software", enriched.Category)
}

func TestEnrichInvalidJSONFallsBack(t *testing.T) {
	srv := fakeCompletionServer(t, "sorry, I can only answer questions about the weather")
	defer srv.Close()

	client := NewAIClient(config.AIConfig{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"})
	enriched := client.Enrich(context.Background(), "https://broken.dev", Metadata{Title: "Scraped Title"})

	assert.Equal(t, "Scraped Title", enriched.Title)
	assert.Equal(t, "Software", enriched.Category)
	assert.Empty(t, enriched.Tags)
}

func TestEnrichAPIErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewAIClient(config.AIConfig{APIKey: "test-key", Endpoint: srv.URL, Model: "test-model"})
	enriched := client.Enrich(context.Background(), "https://limited.dev", Metadata{Title: "Scraped"})

	assert.Equal(t, "Scraped", enriched.Title)
	assert.Equal(t, "Software", enriched.Category)
}

func TestStripCodeFence(t *testing.T) {
	assert.Equal(t, `{"a":1}`, stripCodeFence("```json\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence("```\n{\"a\":1}\n```"))
	assert.Equal(t, `{"a":1}`, stripCodeFence(`{"a":1}`))
}
