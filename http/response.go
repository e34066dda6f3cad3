package http

import (
	"bytes"
	"errors"
	"log/slog"
	"math/rand/v2"
	"net/http"

	"github.com/sagarc03/galleria"
)

// DefaultDecoys are the unrelated public sites unknown paths redirect to.
var DefaultDecoys = []string{
	"https://example.com",
	"https://github.com",
	"https://google.com",
}

// HandleError writes appropriate error response based on error type
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	if reason, ok := galleria.RejectionReason(err); ok {
		writeErrorPage(w, http.StatusBadRequest, reason)
		return
	}

	if errors.Is(err, galleria.ErrInvalidInput) {
		writeErrorPage(w, http.StatusBadRequest, "Invalid input")
		return
	}

	// Default internal error
	writeErrorPage(w, http.StatusInternalServerError, "Internal server error")
}

// WriteDecoy redirects to a random decoy site without sending a referrer.
// It is the answer for anything that does not exist, so a client cannot
// tell an unknown image id from an unknown path.
func WriteDecoy(w http.ResponseWriter, r *http.Request, decoys []string) {
	if len(decoys) == 0 {
		decoys = DefaultDecoys
	}
	target := decoys[rand.IntN(len(decoys))] //nolint:gosec // not security sensitive

	w.Header().Set("Referrer-Policy", "no-referrer")
	http.Redirect(w, r, target, http.StatusFound)
}

// render buffers a view so a template error can still become a 500.
func render(w http.ResponseWriter, status int, fn func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := fn(&buf); err != nil {
		HandleError(w, err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
