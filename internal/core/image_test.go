package core

import (
	"bytes"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeImageResizesToModelInput(t *testing.T) {
	avatar, err := NormalizeImage(bytes.NewReader(pngBytes(t)))
	require.NoError(t, err)
	require.False(t, avatar.Unavailable)

	img, err := png.Decode(bytes.NewReader(avatar.Bytes))
	require.NoError(t, err)
	assert.Equal(t, 224, img.Bounds().Dx())
	assert.Equal(t, 224, img.Bounds().Dy())
}

func TestNormalizeImageRejectsGarbage(t *testing.T) {
	_, err := NormalizeImage(strings.NewReader("not an image"))
	assert.Error(t, err)
}
