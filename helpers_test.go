package galleria_test

import (
	"bytes"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/image/bmp"
)

// gradient returns a w x h image with distinct, fully opaque pixels.
func gradient(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, color.NRGBA{R: uint8(x * 16), G: uint8(y * 16), B: 128, A: 255})
		}
	}
	return img
}

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func encodeJPEG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

func encodeGIF(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, gif.Encode(&buf, img, nil))
	return buf.Bytes()
}

func encodeBMP(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, bmp.Encode(&buf, img))
	return buf.Bytes()
}

// withTextChunk inserts a tEXt chunk right after the IHDR chunk of a PNG.
func withTextChunk(t *testing.T, pngData []byte, key, value string) []byte {
	t.Helper()

	// 8 byte signature + IHDR (4 length + 4 type + 13 data + 4 crc)
	const ihdrEnd = 8 + 4 + 4 + 13 + 4
	require.Greater(t, len(pngData), ihdrEnd)

	payload := append([]byte(key), 0)
	payload = append(payload, value...)

	var chunk bytes.Buffer
	_ = binary.Write(&chunk, binary.BigEndian, uint32(len(payload)))
	typed := append([]byte("tEXt"), payload...)
	chunk.Write(typed)
	_ = binary.Write(&chunk, binary.BigEndian, crc32.ChecksumIEEE(typed))

	out := make([]byte, 0, len(pngData)+chunk.Len())
	out = append(out, pngData[:ihdrEnd]...)
	out = append(out, chunk.Bytes()...)
	out = append(out, pngData[ihdrEnd:]...)
	return out
}
