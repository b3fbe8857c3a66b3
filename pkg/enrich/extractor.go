package enrich

import (
	"context"
	"io"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"
)

const (
	extractorUserAgent = "Mozilla/5.0 (compatible; StackListBot/1.0; +https://stacklist.dev)"
	maxPageBytes       = 2 * 1024 * 1024
)

// Metadata is the ephemeral result of scraping a page. It lives only for
// the duration of one submission request.
type Metadata struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ImageURL    string   `json:"image_url"`
	FaviconURL  string   `json:"favicon_url"`
	SocialLinks []string `json:"social_links"`
}

var (
	titleRe   = regexp.MustCompile(`(?is)<title[^>]*>(.*?)</title>`)
	metaTagRe = regexp.MustCompile(`(?is)<meta\s[^>]*>`)
	linkTagRe = regexp.MustCompile(`(?is)<link\s[^>]*>`)

	attrRes = map[string]*regexp.Regexp{
		"property": regexp.MustCompile(`(?i)property\s*=\s*["']([^"']*)["']`),
		"name":     regexp.MustCompile(`(?i)name\s*=\s*["']([^"']*)["']`),
		"content":  regexp.MustCompile(`(?i)content\s*=\s*["']([^"']*)["']`),
		"rel":      regexp.MustCompile(`(?i)rel\s*=\s*["']([^"']*)["']`),
		"href":     regexp.MustCompile(`(?i)href\s*=\s*["']([^"']*)["']`),
		"type":     regexp.MustCompile(`(?i)type\s*=\s*["']([^"']*)["']`),
	}

	socialRes = []*regexp.Regexp{
		regexp.MustCompile(`https?://(?:www\.)?(?:twitter|x)\.com/[A-Za-z0-9_]+`),
		regexp.MustCompile(`https?://(?:www\.)?github\.com/[A-Za-z0-9_.-]+`),
		regexp.MustCompile(`https?://(?:www\.)?linkedin\.com/(?:company|in)/[A-Za-z0-9_-]+`),
		regexp.MustCompile(`https?://(?:www\.)?facebook\.com/[A-Za-z0-9_.-]+`),
		regexp.MustCompile(`https?://(?:www\.)?discord\.(?:gg|com/invite)/[A-Za-z0-9-]+`),
		regexp.MustCompile(`https?://(?:www\.)?youtube\.com/(?:@|c/|channel/)[A-Za-z0-9_-]+`),
		regexp.MustCompile(`https?://(?:www\.)?instagram\.com/[A-Za-z0-9_.]+`),
	}
)

// Extractor scrapes a page for title, description, images and social links.
type Extractor struct {
	client *http.Client
}

func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

// Fetch retrieves the page and pattern-extracts metadata. Network failures
// and non-2xx responses yield an empty Metadata, never an error.
func (e *Extractor) Fetch(ctx context.Context, pageURL string) Metadata {
	var meta Metadata

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return meta
	}
	req.Header.Set("User-Agent", extractorUserAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		log.Printf("Metadata fetch failed for %s: %v", pageURL, err)
		return meta
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Printf("Metadata fetch for %s returned status %d", pageURL, resp.StatusCode)
		return meta
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return meta
	}

	html := string(body)

	meta.Title = extractTitle(html)
	meta.Description = extractDescription(html)
	meta.ImageURL = resolveURL(pageURL, metaContent(html, "og:image"))
	meta.FaviconURL = extractFavicon(pageURL, html)
	meta.SocialLinks = extractSocialLinks(html)

	return meta
}

func extractTitle(html string) string {
	if og := metaContent(html, "og:title"); og != "" {
		return og
	}
	if m := titleRe.FindStringSubmatch(html); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func extractDescription(html string) string {
	if og := metaContent(html, "og:description"); og != "" {
		return og
	}
	return metaContent(html, "description")
}

// metaContent returns the content attribute of the first meta tag whose
// property or name attribute matches key.
func metaContent(html, key string) string {
	for _, tag := range metaTagRe.FindAllString(html, -1) {
		if attr(tag, "property") != key && attr(tag, "name") != key {
			continue
		}
		if content := attr(tag, "content"); content != "" {
			return strings.TrimSpace(content)
		}
	}
	return ""
}

// Favicon preference order: PNG-typed icon link, any icon link, then
// /favicon.ico at the origin.
func extractFavicon(pageURL, html string) string {
	var anyIcon string

	for _, tag := range linkTagRe.FindAllString(html, -1) {
		rel := strings.ToLower(attr(tag, "rel"))
		if !strings.Contains(rel, "icon") || strings.Contains(rel, "mask-icon") {
			continue
		}
		href := attr(tag, "href")
		if href == "" {
			continue
		}
		if strings.EqualFold(attr(tag, "type"), "image/png") {
			return resolveURL(pageURL, href)
		}
		if anyIcon == "" {
			anyIcon = href
		}
	}

	if anyIcon != "" {
		return resolveURL(pageURL, anyIcon)
	}
	return resolveURL(pageURL, "/favicon.ico")
}

func extractSocialLinks(html string) []string {
	seen := make(map[string]bool)
	var links []string

	for _, re := range socialRes {
		for _, match := range re.FindAllString(html, -1) {
			normalized := strings.TrimRight(strings.ToLower(match), "/")
			if seen[normalized] {
				continue
			}
			seen[normalized] = true
			links = append(links, normalized)
		}
	}

	return links
}

func attr(tag, name string) string {
	re, ok := attrRes[name]
	if !ok {
		return ""
	}
	if m := re.FindStringSubmatch(tag); m != nil {
		return m[1]
	}
	return ""
}

// resolveURL makes href absolute against the page origin.
func resolveURL(pageURL, href string) string {
	if href == "" {
		return ""
	}
	if strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}

	base, err := NormalizeURL(pageURL)
	if err != nil {
		return ""
	}
	if strings.HasPrefix(href, "//") {
		return "https:" + href
	}
	if !strings.HasPrefix(href, "/") {
		href = "/" + href
	}
	return base + href
}
