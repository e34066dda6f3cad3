package galleria

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// SanitizeID makes a requested identifier safe to use as a file name stem.
//
// The input is NFKD-normalised and reduced to ASCII, path separators and
// whitespace runs become underscores, every character outside [A-Za-z0-9_.-]
// is dropped, and leading or trailing dots and underscores are trimmed.
// The result never contains a path separator and may be empty.
//
//	SanitizeID("../../etc/passwd") == "etc_passwd"
func SanitizeID(raw string) string {
	decomposed := norm.NFKD.String(raw)

	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}

	s := strings.ReplaceAll(b.String(), "/", " ")
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeFilenameChars.ReplaceAllString(s, "")

	return strings.Trim(s, "._")
}

// ParseID parses the canonical 36 character textual form of a content id.
// Other forms accepted by uuid.Parse (urn:uuid:, braces, bare hex) are refused.
func ParseID(s string) (uuid.UUID, bool) {
	if len(s) != 36 {
		return uuid.UUID{}, false
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.UUID{}, false
	}
	return id, true
}

// idFromFileName strips the canonical extension from a store file name.
func idFromFileName(name string) (string, bool) {
	id, ok := strings.CutSuffix(name, CanonicalExt)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}
