package galleria

import (
	"crypto/md5" //nolint:gosec // content addressing, not a security boundary
	"hash"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"
)

// ContentID derives the id of canonical image bytes. The 16-byte digest is
// reinterpreted as a UUID unchanged, so version and variant bits carry no
// meaning.
func (d Digest) ContentID(canonical []byte) uuid.UUID {
	h := d.newHash()
	_, _ = h.Write(canonical)

	var id uuid.UUID
	copy(id[:], h.Sum(nil))
	return id
}

func (d Digest) newHash() hash.Hash {
	if d == DigestBLAKE2b {
		// Only fails for sizes outside 1..64 or oversized keys.
		h, err := blake2b.New(16, nil)
		if err != nil {
			panic(err)
		}
		return h
	}
	return md5.New() //nolint:gosec // see import
}
