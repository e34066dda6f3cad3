package galleria

import (
	"crypto/subtle"
	"fmt"

	"github.com/google/uuid"
)

const (
	// CanonicalExt is the extension of every stored image.
	CanonicalExt = ".png"
	// CanonicalContentType is the content type every stored image is served with.
	CanonicalContentType = "image/png"
)

// Credentials is the single username/password pair allowed to use the gallery.
type Credentials struct {
	Username string
	Password string
}

// Equal reports whether c and other hold the same pair. The comparison
// takes the same time regardless of where the first difference is.
func (c Credentials) Equal(other Credentials) bool {
	userOK := subtle.ConstantTimeCompare([]byte(c.Username), []byte(other.Username))
	passOK := subtle.ConstantTimeCompare([]byte(c.Password), []byte(other.Password))
	return userOK&passOK == 1
}

// Format is the image format detected in an upload, as reported by the
// registered image decoders ("png", "jpeg", "gif", "webp", "bmp").
type Format string

type SaveResult struct {
	BytesWritten int64
	Replaced     bool
}

// IngestResult describes a stored upload.
type IngestResult struct {
	ID       uuid.UUID
	Format   Format
	Size     int64
	Replaced bool
}

// FileName returns the store file name for a content id.
func FileName(id uuid.UUID) string {
	return id.String() + CanonicalExt
}

// Digest selects the hash used to derive content ids.
type Digest string

const (
	DigestMD5     Digest = "md5"
	DigestBLAKE2b Digest = "blake2b"
)

func (d Digest) IsValid() bool {
	switch d {
	case DigestMD5, DigestBLAKE2b:
		return true
	default:
		return false
	}
}

func ParseDigest(s string) (Digest, error) {
	d := Digest(s)
	if !d.IsValid() {
		return "", fmt.Errorf("invalid digest: %s (valid digests: md5, blake2b)", s)
	}
	return d, nil
}
