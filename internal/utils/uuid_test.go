package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUUIDGenerator_Generate(t *testing.T) {
	g := NewUUIDGenerator()

	a, b := g.Generate(), g.Generate()
	assert.True(t, IsValid(a))
	assert.True(t, IsValid(b))
	assert.NotEqual(t, a, b)
	// v7 ids sort by creation time
	assert.Less(t, a, b)
}

func TestIsValid(t *testing.T) {
	assert.False(t, IsValid(""))
	assert.False(t, IsValid("not-a-uuid"))
}
