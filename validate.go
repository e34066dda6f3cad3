package galleria

import (
	"bytes"
	"fmt"
	"image"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// DefaultMaxPixels bounds width*height of an accepted upload.
const DefaultMaxPixels = 50_000_000

var (
	// DefaultExtensions is the set of upload file extensions accepted by default.
	DefaultExtensions = []string{"png", "jpg", "jpeg", "gif", "webp", "bmp"}
	// DefaultMIMETypes is the set of image MIME types accepted by default.
	DefaultMIMETypes = []string{"image/png", "image/jpeg", "image/gif", "image/webp", "image/bmp"}
)

// mimeByExtension maps a lowercase extension to its MIME type. It is fixed
// rather than read from the host's mime.types so validation does not depend
// on the machine the server runs on.
var mimeByExtension = map[string]string{
	"png":  "image/png",
	"apng": "image/apng",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"jpe":  "image/jpeg",
	"gif":  "image/gif",
	"webp": "image/webp",
	"bmp":  "image/bmp",
	"tif":  "image/tiff",
	"tiff": "image/tiff",
	"ico":  "image/vnd.microsoft.icon",
	"svg":  "image/svg+xml",
	"avif": "image/avif",
	"heic": "image/heic",
}

// ValidatorConfig holds the allow-lists used by Validator.
// Zero values fall back to the package defaults.
type ValidatorConfig struct {
	Extensions []string
	MIMETypes  []string
	MaxPixels  int
}

// Validator rejects uploads that are not acceptable images before any
// pixel data is decoded.
type Validator struct {
	extensions []string
	mimeTypes  []string
	maxPixels  int
}

func NewValidator(cfg ValidatorConfig) *Validator {
	v := &Validator{
		extensions: cfg.Extensions,
		mimeTypes:  cfg.MIMETypes,
		maxPixels:  cfg.MaxPixels,
	}
	if len(v.extensions) == 0 {
		v.extensions = DefaultExtensions
	}
	if len(v.mimeTypes) == 0 {
		v.mimeTypes = DefaultMIMETypes
	}
	if v.maxPixels <= 0 {
		v.maxPixels = DefaultMaxPixels
	}
	return v
}

// Validate checks an upload in three steps and stops at the first failure:
//  1. the filename extension is allowed (ErrExtensionNotAllowed)
//  2. the MIME type guessed from the extension is allowed (ErrUnsupportedMIME)
//  3. the bytes are a structurally valid image of an allowed type (ErrInvalidImage)
//
// The third step sniffs the content and reads only the image header, so it
// is cheap compared to decoding. It returns the format found in the header.
func (v *Validator) Validate(filename string, data []byte) (Format, error) {
	ext, ok := extension(filename)
	if !ok || !slices.Contains(v.extensions, ext) {
		return "", fmt.Errorf("validate %q: %w", filename, ErrExtensionNotAllowed)
	}

	if guessed := mimeByExtension[ext]; !slices.Contains(v.mimeTypes, guessed) {
		return "", fmt.Errorf("validate %q: %w", filename, ErrUnsupportedMIME)
	}

	format, err := v.verify(data)
	if err != nil {
		return "", fmt.Errorf("validate %q: %w: %s", filename, ErrInvalidImage, err)
	}

	return format, nil
}

func (v *Validator) verify(data []byte) (Format, error) {
	if len(data) == 0 {
		return "", fmt.Errorf("empty file")
	}

	detected := mimetype.Detect(data)
	if !v.sniffAllowed(detected) {
		return "", fmt.Errorf("content looks like %s", detected.String())
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return "", err
	}

	if cfg.Width <= 0 || cfg.Height <= 0 {
		return "", fmt.Errorf("bad dimensions %dx%d", cfg.Width, cfg.Height)
	}

	if int64(cfg.Width)*int64(cfg.Height) > int64(v.maxPixels) {
		return "", fmt.Errorf("%dx%d exceeds %d pixels", cfg.Width, cfg.Height, v.maxPixels)
	}

	return Format(format), nil
}

// sniffAllowed walks up the detected type's parents so that specialisations
// such as APNG count as their base format.
func (v *Validator) sniffAllowed(m *mimetype.MIME) bool {
	for ; m != nil; m = m.Parent() {
		for _, allowed := range v.mimeTypes {
			if m.Is(allowed) {
				return true
			}
		}
	}
	return false
}

// extension returns the lowercase text after the last dot of the file name.
func extension(filename string) (string, bool) {
	base := path.Base(strings.ReplaceAll(filename, `\`, "/"))
	i := strings.LastIndexByte(base, '.')
	if i < 0 {
		return "", false
	}
	return strings.ToLower(base[i+1:]), true
}
