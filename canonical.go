package galleria

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"  // GIF decoder
	_ "image/jpeg" // JPEG decoder
	_ "image/png"  // PNG decoder

	_ "golang.org/x/image/bmp" // BMP decoder
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // WebP decoder
)

// Canonicalize decodes an image and re-encodes it as a metadata-free PNG
// with 8-bit non-premultiplied RGBA pixels (colour type 6, even when every
// pixel is opaque), at the highest compression level.
//
// The output is a pure function of the input bytes. Two encodings of the
// same picture (a JPEG and a PNG of it, say) generally do not canonicalize
// to the same bytes.
//
// Decoders keep no EXIF, ICC or text chunks and the encoder writes none,
// so nothing but pixels survives. GIF input yields its first frame.
func Canonicalize(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("canonicalize: %w: %s", ErrInvalidImage, err)
	}

	b := src.Bounds()
	dst := image.NewNRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(dst, dst.Bounds(), src, b.Min, draw.Src)

	var buf bytes.Buffer
	if err := encodeRGBA(&buf, dst); err != nil {
		return nil, fmt.Errorf("canonicalize: encode png: %w", err)
	}

	return buf.Bytes(), nil
}
