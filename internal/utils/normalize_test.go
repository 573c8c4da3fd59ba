package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHashtag(t *testing.T) {
	assert.Equal(t, "catstodon", NormalizeHashtag(" #Catstodon "))
	assert.Equal(t, "mastoart", NormalizeHashtag("MastoArt"))
	assert.Equal(t, "", NormalizeHashtag("#"))
}

func TestNormalizeAcct(t *testing.T) {
	assert.Equal(t, "someone@example.social", NormalizeAcct("@Someone@example.social"))
	assert.Equal(t, "local_user", NormalizeAcct("local_user"))
}
