package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewID_PrefixAndShape(t *testing.T) {
	// Act
	id := NewID("note")

	// Assert
	assert.True(t, strings.HasPrefix(id, "note-"))
	assert.Equal(t, strings.ToLower(id), id)
	assert.Greater(t, len(id), len("note-"))
}

func TestNewID_Unique(t *testing.T) {
	// Arrange
	seen := map[string]struct{}{}

	// Act & Assert
	for i := 0; i < 1000; i++ {
		id := NewID("strategy")
		_, dup := seen[id]
		assert.False(t, dup, "duplicate id %s", id)
		seen[id] = struct{}{}
	}
}
