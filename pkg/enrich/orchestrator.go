package enrich

import (
	"context"
	"fmt"
)

// DuplicateError reports that a submission for the URL already exists. It
// carries the existing listing's title and review status for the 409 body.
type DuplicateError struct {
	Title  string
	Status string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("already submitted: %q (%s)", e.Title, e.Status)
}

// ValidationError marks caller-recoverable input problems (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// SubmissionLookup finds an existing listing by its normalized URL. A nil
// result means the URL is free.
type SubmissionLookup interface {
	FindByURL(url string) (title, status string, found bool, err error)
}

// Preview is the assembled record returned to the submitter before the
// listing row is created.
type Preview struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Tags        []string `json:"tags"`
	LogoURL     string   `json:"logo_url"`
	ImageURL    string   `json:"image_url"`
	SocialLinks []string `json:"social_links"`
}

// Orchestrator sequences duplicate check, scrape, AI normalization and
// asset relocation. The steps run in order because each consumes the
// previous step's output; nothing here retries.
type Orchestrator struct {
	lookup    SubmissionLookup
	extractor *Extractor
	ai        *AIClient
	assets    *Relocator
}

func NewOrchestrator(lookup SubmissionLookup, extractor *Extractor, ai *AIClient, assets *Relocator) *Orchestrator {
	return &Orchestrator{
		lookup:    lookup,
		extractor: extractor,
		ai:        ai,
		assets:    assets,
	}
}

func (o *Orchestrator) Preview(ctx context.Context, rawURL string) (*Preview, error) {
	normalized, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, &ValidationError{Message: err.Error()}
	}

	title, status, found, err := o.lookup.FindByURL(normalized)
	if err != nil {
		return nil, err
	}
	if found {
		return nil, &DuplicateError{Title: title, Status: status}
	}

	meta := o.extractor.Fetch(ctx, normalized)
	enriched := o.ai.Enrich(ctx, normalized, meta)
	logoURL, imageURL := o.assets.Relocate(ctx, meta)

	return &Preview{
		URL:         normalized,
		Title:       enriched.Title,
		Description: enriched.Description,
		Category:    enriched.Category,
		Tags:        enriched.Tags,
		LogoURL:     logoURL,
		ImageURL:    imageURL,
		SocialLinks: meta.SocialLinks,
	}, nil
}
