package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"stacklist_backend/internal/model"
	"stacklist_backend/pkg/config"
)

const (
	fallbackTitle       = "Untitled"
	fallbackDescription = "No description available"
)

// Enriched is the normalized record produced by the completion model, or
// the documented fallback when the model is unavailable.
type Enriched struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
}

// AIClient normalizes scraped metadata through a chat-completions endpoint.
// Every failure mode degrades to the extractor's raw values.
type AIClient struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewAIClient(cfg config.AIConfig) *AIClient {
	return &AIClient{
		apiKey:   cfg.APIKey,
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Enrich asks the model for a normalized listing record. It never returns
// an error; callers always get usable fields.
func (a *AIClient) Enrich(ctx context.Context, pageURL string, meta Metadata) Enriched {
	if a.apiKey == "" {
		return fallback(meta)
	}

	payload := chatRequest{
		Model: a.model,
		Messages: []chatMessage{
			{Role: "system", Content: "You are a software directory curator. Respond with raw JSON only, no markdown."},
			{Role: "user", Content: buildPrompt(pageURL, meta)},
		},
		Temperature: 0.3,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fallback(meta)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewBuffer(body))
	if err != nil {
		return fallback(meta)
	}
	req.Header.Set("Authorization", "Bearer "+a.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		log.Printf("Enrichment request failed for %s: %v", pageURL, err)
		return fallback(meta)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil || resp.StatusCode != http.StatusOK {
		log.Printf("Enrichment API returned status %d for %s", resp.StatusCode, pageURL)
		return fallback(meta)
	}

	var completion chatResponse
	if err := json.Unmarshal(respBody, &completion); err != nil || len(completion.Choices) == 0 {
		log.Printf("Could not decode enrichment response for %s: %v", pageURL, err)
		return fallback(meta)
	}

	var enriched Enriched
	content := stripCodeFence(completion.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), &enriched); err != nil {
		log.Printf("Enrichment model returned invalid JSON for %s: %v", pageURL, err)
		return fallback(meta)
	}

	return sanitize(enriched, meta)
}

func buildPrompt(pageURL string, meta Metadata) string {
	categories := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		categories[i] = string(c)
	}

	return fmt.Sprintf(`Summarize this software product for a directory listing.

URL: %s
Scraped title: %s
Scraped description: %s

Return a JSON object with exactly these keys:
- "title": product name, max 60 characters
- "description": 100-150 characters, plain prose
- "category": one of [%s]
- "tags": 3-5 lowercase single-word tags

Respond with the raw JSON object only.`,
		pageURL, meta.Title, meta.Description, strings.Join(categories, ", "))
}

// stripCodeFence tolerates ```json fenced responses from models that ignore
// the raw-JSON instruction.
func stripCodeFence(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, "```") {
		return trimmed
	}

	trimmed = strings.TrimPrefix(trimmed, "```json")
	trimmed = strings.TrimPrefix(trimmed, "```")
	if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
		trimmed = trimmed[:idx]
	}
	return strings.TrimSpace(trimmed)
}

func sanitize(enriched Enriched, meta Metadata) Enriched {
	fb := fallback(meta)

	if strings.TrimSpace(enriched.Title) == "" {
		enriched.Title = fb.Title
	}
	if strings.TrimSpace(enriched.Description) == "" {
		enriched.Description = fb.Description
	}
	if !model.IsValidCategory(model.Category(enriched.Category)) {
		enriched.Category = string(model.CategorySoftware)
	}

	tags := make([]string, 0, len(enriched.Tags))
	for _, tag := range enriched.Tags {
		if t := strings.ToLower(strings.TrimSpace(tag)); t != "" {
			tags = append(tags, t)
		}
	}
	enriched.Tags = tags

	return enriched
}

func fallback(meta Metadata) Enriched {
	title := strings.TrimSpace(meta.Title)
	if title == "" {
		title = fallbackTitle
	}
	description := strings.TrimSpace(meta.Description)
	if description == "" {
		description = fallbackDescription
	}

	return Enriched{
		Title:       title,
		Description: description,
		Category:    string(model.CategorySoftware),
		Tags:        []string{},
	}
}
