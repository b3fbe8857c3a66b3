package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidCategory(t *testing.T) {
	for _, c := range Categories {
		assert.True(t, IsValidCategory(c))
	}

	assert.False(t, IsValidCategory("software"), "category match is case-sensitive")
	assert.False(t, IsValidCategory("Gardening"))
	assert.False(t, IsValidCategory(""))
}
