package imaging

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"
)

func testImage(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func createTestJPEG(w, h int) []byte {
	var buf bytes.Buffer
	jpeg.Encode(&buf, testImage(w, h, color.RGBA{255, 0, 0, 255}), &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	var buf bytes.Buffer
	png.Encode(&buf, testImage(w, h, color.RGBA{0, 0, 255, 255}))
	return buf.Bytes()
}

func createTestGIF(w, h int) []byte {
	var buf bytes.Buffer
	gif.Encode(&buf, testImage(w, h, color.RGBA{0, 255, 0, 255}), nil)
	return buf.Bytes()
}

func TestIngestJPEG(t *testing.T) {
	p := NewProcessor(4)
	out, err := p.Ingest(context.Background(), createTestJPEG(100, 100))
	if err != nil {
		t.Fatalf("Ingest JPEG: %v", err)
	}
	if len(out) == 0 {
		t.Error("expected non-empty canonical blob")
	}
}

func TestIngestPNGAndGIFConvertToJPEG(t *testing.T) {
	p := NewProcessor(4)
	for name, data := range map[string][]byte{
		"png": createTestPNG(80, 60),
		"gif": createTestGIF(80, 60),
	} {
		out, err := p.Ingest(context.Background(), data)
		if err != nil {
			t.Fatalf("Ingest %s: %v", name, err)
		}
		// Canonical blobs must decode as JPEG.
		_, format, err := image.Decode(bytes.NewReader(out))
		if err != nil {
			t.Fatalf("decoding %s result: %v", name, err)
		}
		if format != "jpeg" {
			t.Errorf("%s: expected jpeg canonical format, got %s", name, format)
		}
	}
}

func TestIngestDownscalesWithinBounds(t *testing.T) {
	p := NewProcessor(4)
	out, err := p.Ingest(context.Background(), createTestJPEG(2400, 1600))
	if err != nil {
		t.Fatalf("Ingest large image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() > MaxDimension || bounds.Dy() > MaxDimension {
		t.Errorf("expected max %dx%d, got %dx%d", MaxDimension, MaxDimension, bounds.Dx(), bounds.Dy())
	}
	// Aspect ratio 3:2 should survive the downscale.
	if bounds.Dx() != 1200 || bounds.Dy() != 800 {
		t.Errorf("expected 1200x800, got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestIngestNeverUpscales(t *testing.T) {
	p := NewProcessor(4)
	out, err := p.Ingest(context.Background(), createTestJPEG(50, 50))
	if err != nil {
		t.Fatalf("Ingest small image: %v", err)
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	bounds := img.Bounds()
	if bounds.Dx() != 50 || bounds.Dy() != 50 {
		t.Errorf("small image should not be resized: got %dx%d", bounds.Dx(), bounds.Dy())
	}
}

func TestIngestTooLarge(t *testing.T) {
	p := NewProcessor(4)
	// 6 MiB of not-even-image data: the size gate must fire before the
	// format gate ever looks at the bytes.
	raw := make([]byte, 6<<20)
	_, err := p.Ingest(context.Background(), raw)
	if !errors.Is(err, ErrTooLarge) {
		t.Errorf("expected ErrTooLarge, got %v", err)
	}
}

func TestIngestRejectedFormat(t *testing.T) {
	p := NewProcessor(4)
	_, err := p.Ingest(context.Background(), []byte("<svg>not a raster</svg>"))
	if !errors.Is(err, ErrRejectedFormat) {
		t.Errorf("expected ErrRejectedFormat, got %v", err)
	}

	// BMP sniffs as image/bmp, which is off the allow-list.
	_, err = p.Ingest(context.Background(), []byte("BM\x00\x00\x00\x00"))
	if !errors.Is(err, ErrRejectedFormat) {
		t.Errorf("expected ErrRejectedFormat for BMP, got %v", err)
	}
}

func TestIngestCorruptData(t *testing.T) {
	p := NewProcessor(4)
	// Valid PNG magic, garbage body: passes the format gate, fails decode.
	raw := append([]byte("\x89PNG\r\n\x1a\n"), bytes.Repeat([]byte{0xAB}, 64)...)
	_, err := p.Ingest(context.Background(), raw)
	if !errors.Is(err, ErrCorruptData) {
		t.Errorf("expected ErrCorruptData, got %v", err)
	}

	// Truncated JPEG.
	full := createTestJPEG(100, 100)
	_, err = p.Ingest(context.Background(), full[:len(full)/2])
	if !errors.Is(err, ErrCorruptData) {
		t.Errorf("expected ErrCorruptData for truncated JPEG, got %v", err)
	}
}

func TestThumbnailFromStoredBlob(t *testing.T) {
	p := NewProcessor(4)
	stored, err := p.Ingest(context.Background(), createTestPNG(1000, 500))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	thumb, err := Thumbnail(stored)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}

	img, format, err := image.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decoding thumbnail: %v", err)
	}
	if format != "jpeg" {
		t.Errorf("expected jpeg thumbnail, got %s", format)
	}
	bounds := img.Bounds()
	if bounds.Dx() > ThumbDimension || bounds.Dy() > ThumbDimension {
		t.Errorf("expected max %dx%d, got %dx%d", ThumbDimension, ThumbDimension, bounds.Dx(), bounds.Dy())
	}
}

func TestThumbnailIsRepeatable(t *testing.T) {
	p := NewProcessor(4)
	stored, err := p.Ingest(context.Background(), createTestJPEG(600, 600))
	if err != nil {
		t.Fatalf("Ingest: %v", err)
	}

	a, err := Thumbnail(stored)
	if err != nil {
		t.Fatalf("first Thumbnail: %v", err)
	}
	b, err := Thumbnail(stored)
	if err != nil {
		t.Fatalf("second Thumbnail: %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("thumbnailing the same stored blob should be deterministic")
	}
}
