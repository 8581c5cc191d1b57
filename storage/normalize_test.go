package storage

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"testing"
)

func encodeTestImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, nil); err != nil {
		t.Fatalf("encoding test image: %v", err)
	}
	return buf.Bytes()
}

func TestNormalizeJPEGKeepsSmallImages(t *testing.T) {
	out, err := NormalizeJPEG(encodeTestImage(t, 320, 240))
	if err != nil {
		t.Fatalf("NormalizeJPEG() error = %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("format = %q, want jpeg", format)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Errorf("bounds = %v, want 320x240", img.Bounds())
	}
}

func TestNormalizeJPEGDownscalesLargeImages(t *testing.T) {
	out, err := NormalizeJPEG(encodeTestImage(t, 3000, 40))
	if err != nil {
		t.Fatalf("NormalizeJPEG() error = %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding output: %v", err)
	}
	if img.Bounds().Dx() > MaxUploadDimension || img.Bounds().Dy() > MaxUploadDimension {
		t.Errorf("bounds = %v, want both dimensions <= %d", img.Bounds(), MaxUploadDimension)
	}
}

func TestNormalizeJPEGRejectsOversizedImages(t *testing.T) {
	if _, err := NormalizeJPEG(encodeTestImage(t, MaxImageWidth+100, 40)); err == nil {
		t.Fatal("NormalizeJPEG() accepted an image above the size limit")
	}
}

func TestNormalizeJPEGRejectsGarbage(t *testing.T) {
	if _, err := NormalizeJPEG([]byte("not an image at all")); err == nil {
		t.Fatal("NormalizeJPEG() accepted non-image bytes")
	}
}
