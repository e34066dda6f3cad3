package http

import (
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
)

// Notice categories.
const (
	NoticeSuccess = "success"
	NoticeWarning = "warning"
)

// Notice is a one-shot message shown on the next gallery render.
type Notice struct {
	Category string `json:"category"`
	Message  string `json:"message"`
}

// flashCookie carries notices across a redirect in a short-lived cookie.
type flashCookie struct {
	name string
}

func newFlashCookie(sessionCookie string) flashCookie {
	return flashCookie{name: sessionCookie + "_flash"}
}

// Add queues n after any notices already pending on the request.
func (f flashCookie) Add(w http.ResponseWriter, r *http.Request, n Notice) {
	notices := append(f.read(r), n)

	data, err := json.Marshal(notices)
	if err != nil {
		slog.Error("failed to encode flash notices", "err", err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     f.name,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Consume returns the pending notices and clears them.
func (f flashCookie) Consume(w http.ResponseWriter, r *http.Request) []Notice {
	notices := f.read(r)
	if len(notices) == 0 {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     f.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return notices
}

func (f flashCookie) read(r *http.Request) []Notice {
	c, err := r.Cookie(f.name)
	if err != nil || c.Value == "" {
		return nil
	}

	data, err := base64.RawURLEncoding.DecodeString(c.Value)
	if err != nil {
		return nil
	}

	var notices []Notice
	if err := json.Unmarshal(data, &notices); err != nil {
		return nil
	}
	return notices
}
