package core

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"golang.org/x/image/draw"

	_ "image/gif"
	_ "image/jpeg"
	_ "golang.org/x/image/webp"
)

// classifierImageSize is the square edge length every avatar is scaled to
// before classification.
const classifierImageSize = 224

// NormalizeImage decodes an avatar and scales it to the fixed size and color
// model the classifier expects, re-encoded as PNG.
func NormalizeImage(r io.Reader) (*Avatar, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode avatar image: %w", err)
	}

	dst := image.NewRGBA(image.Rect(0, 0, classifierImageSize, classifierImageSize))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var buf bytes.Buffer
	if err := png.Encode(&buf, dst); err != nil {
		return nil, fmt.Errorf("failed to encode normalized avatar: %w", err)
	}

	return &Avatar{Bytes: buf.Bytes()}, nil
}
