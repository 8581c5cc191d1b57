package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"github.com/disintegration/gift"
)

const (
	MaxImageWidth      = 4000
	MaxImageHeight     = 4000
	MaxUploadDimension = 2000
	JPEGQuality        = 90
)

// NormalizeJPEG decodes captured photo bytes, downscales anything above the
// upload bound and re-encodes as JPEG. Phone cameras hand us arbitrary sizes;
// the analyze function only needs label text to stay legible.
func NormalizeJPEG(data []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %v", err)
	}

	bounds := img.Bounds()
	if bounds.Dx() > MaxImageWidth || bounds.Dy() > MaxImageHeight {
		return nil, fmt.Errorf("image too large (max %dx%d)", MaxImageWidth, MaxImageHeight)
	}

	if bounds.Dx() > MaxUploadDimension || bounds.Dy() > MaxUploadDimension {
		g := gift.New(gift.ResizeToFit(MaxUploadDimension, MaxUploadDimension, gift.LanczosResampling))
		dst := image.NewRGBA(g.Bounds(img.Bounds()))
		g.Draw(dst, img)
		img = dst
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("failed to encode image: %v", err)
	}

	return buf.Bytes(), nil
}
