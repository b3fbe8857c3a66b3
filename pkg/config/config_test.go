package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAdminEmail(t *testing.T) {
	cfg := &Config{Site: SiteConfig{AdminEmails: []string{"admin@stacklist.dev", "ops@stacklist.dev"}}}

	assert.True(t, cfg.IsAdminEmail("admin@stacklist.dev"))
	assert.True(t, cfg.IsAdminEmail("ADMIN@stacklist.dev"), "allow-list match is case-insensitive")
	assert.False(t, cfg.IsAdminEmail("intruder@stacklist.dev"))
	assert.False(t, cfg.IsAdminEmail(""))
}

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a@x.com", "b@x.com"}, splitList("a@x.com, b@x.com"))
	assert.Equal(t, []string{"a@x.com"}, splitList(" a@x.com ,, "))
}
