package enrich

import (
	"fmt"
	"net/url"
	"strings"
)

// NormalizeURL reduces a submitted URL to scheme://host, lower-cased.
// Normalizing twice yields the same string.
func NormalizeURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("url is required")
	}

	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", fmt.Errorf("invalid url: %v", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return "", fmt.Errorf("unsupported url scheme: %s", parsed.Scheme)
	}

	host := strings.ToLower(parsed.Host)
	if host == "" {
		return "", fmt.Errorf("url has no host")
	}

	return scheme + "://" + host, nil
}
