package enrich

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain https", "https://example.com", "https://example.com"},
		{"strips path", "https://example.com/pricing?ref=x#top", "https://example.com"},
		{"lowercases host and scheme", "HTTPS://Example.COM/About", "https://example.com"},
		{"adds scheme when missing", "example.com/docs", "https://example.com"},
		{"keeps http", "http://example.com", "http://example.com"},
		{"keeps port", "https://example.com:8443/x", "https://example.com:8443"},
		{"trims whitespace", "  https://example.com  ", "https://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeURL(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeURLIdempotent(t *testing.T) {
	inputs := []string{
		"https://example.com/some/path",
		"Example.com",
		"http://sub.domain.example.com:8080/a?b=c",
	}

	for _, input := range inputs {
		once, err := NormalizeURL(input)
		require.NoError(t, err)

		twice, err := NormalizeURL(once)
		require.NoError(t, err)
		assert.Equal(t, once, twice)
	}
}

func TestNormalizeURLRejectsBadInput(t *testing.T) {
	bad := []string{
		"",
		"   ",
		"ftp://example.com",
		"javascript:alert(1)",
		"https://",
	}

	for _, input := range bad {
		_, err := NormalizeURL(input)
		assert.Error(t, err, "input %q should be rejected", input)
	}
}
