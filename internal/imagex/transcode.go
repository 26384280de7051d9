// Package imagex converts photo blobs between the forms the sync path needs:
// a compressed, size-bounded JPEG for upload, and base64 text for the wire.
package imagex

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"

	"golang.org/x/image/draw"
)

// Compress decodes blob, downscales it so neither side exceeds maxDim pixels,
// and re-encodes it as JPEG with the given quality (1..100). Inputs already
// within bounds are still re-encoded, which keeps the output deterministic
// for identical inputs. The reduction is best effort, not a byte ceiling.
func Compress(blob []byte, maxDim int, quality int) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(blob))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	if maxDim > 0 {
		img = scaleDown(img, maxDim)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, fmt.Errorf("failed to encode jpeg: %w", err)
	}
	return buf.Bytes(), nil
}

func scaleDown(img image.Image, maxDim int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= maxDim && h <= maxDim {
		return img
	}

	// Preserve aspect ratio, longest side pinned to maxDim.
	nw, nh := maxDim, maxDim
	if w > h {
		nh = h * maxDim / w
	} else {
		nw = w * maxDim / h
	}
	if nw < 1 {
		nw = 1
	}
	if nh < 1 {
		nh = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}

// ToBase64 encodes a blob as standard base64 text.
func ToBase64(blob []byte) string {
	return base64.StdEncoding.EncodeToString(blob)
}

// FromBase64 decodes base64 text back to the original bytes. The round trip
// through ToBase64 is byte-identical.
func FromBase64(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64: %w", err)
	}
	return b, nil
}
