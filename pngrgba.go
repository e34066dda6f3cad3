package galleria

import (
	"bytes"
	"compress/zlib"
	"encoding/binary"
	"hash/crc32"
	"image"
	"io"
)

var pngSignature = []byte("\x89PNG\r\n\x1a\n")

// PNG filter types, one byte at the start of every scanline.
const (
	filterNone = iota
	filterSub
	filterUp
	filterAverage
	filterPaeth
)

// rgbaBytesPerPixel is also the filter distance for 8-bit RGBA.
const rgbaBytesPerPixel = 4

// encodeRGBA writes img as a non-interlaced 8-bit RGBA PNG (colour type 6)
// with no ancillary chunks. Opaque images keep their alpha channel.
// img must have its origin at 0,0.
func encodeRGBA(w io.Writer, img *image.NRGBA) error {
	width, height := img.Rect.Dx(), img.Rect.Dy()

	ihdr := make([]byte, 13)
	binary.BigEndian.PutUint32(ihdr[0:4], uint32(width))
	binary.BigEndian.PutUint32(ihdr[4:8], uint32(height))
	ihdr[8] = 8 // bit depth
	ihdr[9] = 6 // colour type: truecolour with alpha
	// compression, filter and interlace method are all 0

	idat, err := compressScanlines(img)
	if err != nil {
		return err
	}

	if _, err := w.Write(pngSignature); err != nil {
		return err
	}
	for _, c := range []struct {
		typ  string
		data []byte
	}{
		{"IHDR", ihdr},
		{"IDAT", idat},
		{"IEND", nil},
	} {
		if err := writeChunk(w, c.typ, c.data); err != nil {
			return err
		}
	}
	return nil
}

func writeChunk(w io.Writer, typ string, data []byte) error {
	var header [8]byte
	binary.BigEndian.PutUint32(header[0:4], uint32(len(data)))
	copy(header[4:], typ)

	crc := crc32.NewIEEE()
	_, _ = crc.Write(header[4:])
	_, _ = crc.Write(data)

	var footer [4]byte
	binary.BigEndian.PutUint32(footer[:], crc.Sum32())

	for _, b := range [][]byte{header[:], data, footer[:]} {
		if _, err := w.Write(b); err != nil {
			return err
		}
	}
	return nil
}

// compressScanlines filters each row with whichever filter gives the
// smallest sum of absolute differences, then deflates the result.
func compressScanlines(img *image.NRGBA) ([]byte, error) {
	width, height := img.Rect.Dx(), img.Rect.Dy()
	rowLen := width * rgbaBytesPerPixel

	var buf bytes.Buffer
	zw, err := zlib.NewWriterLevel(&buf, zlib.BestCompression)
	if err != nil {
		return nil, err
	}

	prev := make([]byte, rowLen)
	var candidates [5][]byte
	for i := range candidates {
		candidates[i] = make([]byte, 1+rowLen)
		candidates[i][0] = byte(i)
	}

	for y := range height {
		cur := img.Pix[y*img.Stride : y*img.Stride+rowLen]

		best, bestScore := filterNone, -1
		for ft := range candidates {
			score := applyFilter(candidates[ft][1:], cur, prev, ft)
			if bestScore < 0 || score < bestScore {
				best, bestScore = ft, score
			}
		}

		if _, err := zw.Write(candidates[best]); err != nil {
			return nil, err
		}
		prev = cur
	}

	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// applyFilter writes the filtered row into dst and returns its score.
func applyFilter(dst, cur, prev []byte, ft int) int {
	score := 0
	for i, x := range cur {
		var a, b, c byte
		if i >= rgbaBytesPerPixel {
			a = cur[i-rgbaBytesPerPixel]
			c = prev[i-rgbaBytesPerPixel]
		}
		b = prev[i]

		var v byte
		switch ft {
		case filterNone:
			v = x
		case filterSub:
			v = x - a
		case filterUp:
			v = x - b
		case filterAverage:
			v = x - byte((int(a)+int(b))/2)
		case filterPaeth:
			v = x - paeth(a, b, c)
		}

		dst[i] = v
		score += absInt8(v)
	}
	return score
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := absInt(p-int(a)), absInt(p-int(b)), absInt(p-int(c))
	switch {
	case pa <= pb && pa <= pc:
		return a
	case pb <= pc:
		return b
	default:
		return c
	}
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func absInt8(v byte) int {
	return absInt(int(int8(v)))
}
