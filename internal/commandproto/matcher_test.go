package commandproto

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMatchEcho_ExactMatch(t *testing.T) {
	value, ok := matchEcho("system access full", "system access")
	assert.True(t, ok)
	assert.Equal(t, " full", value)
}

func TestMatchEcho_ExtraSpaceRunsTolerated(t *testing.T) {
	value, ok := matchEcho("system   access  full", "system access")
	assert.True(t, ok)
	assert.Equal(t, "  full", value)
}

func TestMatchEcho_LeadingZeroRunTolerated(t *testing.T) {
	value, ok := matchEcho("system access 007", "system access 7")
	assert.True(t, ok)
	assert.Equal(t, "", value)
}

func TestMatchEcho_LeadingZeroRunOtherDirection(t *testing.T) {
	value, ok := matchEcho("system access 7", "system access 007")
	assert.True(t, ok)
	assert.Equal(t, "", value)
}

func TestMatchEcho_Mismatch(t *testing.T) {
	_, ok := matchEcho("system access 8", "system access 7")
	assert.False(t, ok)
}

func TestMatchEcho_ResponseShorterThanParam(t *testing.T) {
	_, ok := matchEcho("system", "system access")
	assert.False(t, ok)
}

func TestMatchEcho_EmptyParam(t *testing.T) {
	value, ok := matchEcho("full", "")
	assert.True(t, ok)
	assert.Equal(t, "full", value)
}

func TestIsDigit(t *testing.T) {
	assert.True(t, isDigit('0'))
	assert.True(t, isDigit('9'))
	assert.False(t, isDigit('a'))
	assert.False(t, isDigit(' '))
}
