package allowlist

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckerContains(t *testing.T) {
	c := NewChecker([]string{"@Friend@example.social", "local_pal", ""}, nil)

	assert.True(t, c.Contains("friend@example.social"))
	assert.True(t, c.Contains("@FRIEND@example.social"))
	assert.True(t, c.Contains("local_pal"))
	assert.False(t, c.Contains("stranger@example.social"))
}

func TestCheckerEmpty(t *testing.T) {
	c := NewChecker(nil, nil)
	assert.False(t, c.Contains("anyone@example.social"))
}
