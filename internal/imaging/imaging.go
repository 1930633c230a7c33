// Package imaging validates and normalizes uploaded pictures into a
// single canonical storage format. Ingest is a pure function of the
// input bytes; the only shared state is a semaphore bounding how many
// decodes run at once.
package imaging

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"net/http"

	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/semaphore"
)

// MaxUploadSize is the raw upload cap, checked before any decoding so
// oversized or decompression-bomb inputs cost nothing.
const MaxUploadSize = 5 << 20

// MaxDimension is the maximum width or height for stored images.
const MaxDimension = 1200

// ThumbDimension is the maximum width or height for thumbnails.
const ThumbDimension = 300

// JPEGQuality is the compression quality for canonical JPEG output.
const JPEGQuality = 85

// ThumbQuality is the compression quality for thumbnails.
const ThumbQuality = 80

// Ingest failure kinds. Each gate fails with its own error so callers
// can report the specific reason.
var (
	ErrTooLarge       = errors.New("image exceeds maximum upload size")
	ErrRejectedFormat = errors.New("unsupported image format")
	ErrCorruptData    = errors.New("corrupt or truncated image data")
)

// allowedMIME lists the accepted input types, keyed by sniffed content
// type. The caller-declared MIME type is never trusted.
var allowedMIME = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

// Processor runs the ingest pipeline. The semaphore caps concurrent
// decodes process-wide so many simultaneous large uploads cannot
// exhaust memory.
type Processor struct {
	decodes *semaphore.Weighted
}

// NewProcessor creates a Processor allowing up to maxConcurrent
// simultaneous decodes.
func NewProcessor(maxConcurrent int64) *Processor {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	return &Processor{decodes: semaphore.NewWeighted(maxConcurrent)}
}

// Ingest validates raw upload bytes and produces the canonical storage
// blob: a JPEG no larger than MaxDimension on either side, re-encoded
// at fixed quality so any metadata in the original is dropped.
//
// Gates run in order and short-circuit: size, sniffed format, decode.
// Downscaling preserves aspect ratio and never upscales.
func (p *Processor) Ingest(ctx context.Context, raw []byte) ([]byte, error) {
	if len(raw) > MaxUploadSize {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, len(raw), MaxUploadSize)
	}

	// Sniff actual content type from bytes (not trusting client headers).
	detected := http.DetectContentType(raw)
	if !allowedMIME[detected] {
		return nil, fmt.Errorf("%w: %s (JPEG, PNG, WEBP, or GIF required)", ErrRejectedFormat, detected)
	}

	if err := p.decodes.Acquire(ctx, 1); err != nil {
		return nil, fmt.Errorf("waiting for decode slot: %w", err)
	}
	defer p.decodes.Release(1)

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorruptData, err)
	}

	img = downscale(img, MaxDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}

	return buf.Bytes(), nil
}

// Thumbnail produces a JPEG bounded to ThumbDimension from a stored
// canonical blob. It is a pure function of the stored blob, never of
// the original upload, so thumbnails can always be regenerated.
func Thumbnail(stored []byte) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(stored))
	if err != nil {
		return nil, fmt.Errorf("decoding stored image: %w", err)
	}

	img = downscale(img, ThumbDimension)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: ThumbQuality}); err != nil {
		return nil, fmt.Errorf("encoding thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Uses high-quality Catmull-Rom interpolation.
// Returns the original image if already within bounds.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}

func init() {
	// Register decoders explicitly (webp registers itself via import).
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
	image.RegisterFormat("gif", "GIF8?a", gif.Decode, gif.DecodeConfig)
}
