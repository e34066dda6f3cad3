package http

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"

	"github.com/sagarc03/galleria"
)

type Service interface {
	Ingest(ctx context.Context, filename string, data []byte) (galleria.IngestResult, error)
	ListPage(ctx context.Context, rawPage string) (galleria.Page, error)
	Delete(ctx context.Context, ids []string) (int, error)
	Open(ctx context.Context, id uuid.UUID) (io.ReadSeekCloser, error)
}

// TokenIssuer signs session tokens. *galleria.SessionCodec implements it.
type TokenIssuer interface {
	TokenAuthenticator
	Issue(cred galleria.Credentials) (string, error)
}

type CORSConfig struct {
	Enabled          bool     `mapstructure:"enabled" yaml:"enabled"`
	AllowedOrigins   []string `mapstructure:"allowed_origins" yaml:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods" yaml:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers" yaml:"allowed_headers"`
	ExposedHeaders   []string `mapstructure:"exposed_headers" yaml:"exposed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials" yaml:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age" yaml:"max_age"`
}

// CookieConfig controls the session cookie.
type CookieConfig struct {
	Name   string
	TTL    time.Duration
	Secure bool
}

type HandlerConfig struct {
	Credentials   galleria.Credentials
	Tokens        TokenIssuer
	Cookie        CookieConfig
	MaxUploadSize int64    // 0 means no limit
	Decoys        []string // default: DefaultDecoys
	Renderer      Renderer // default: NewTemplateRenderer()
	CORS          CORSConfig
}

// Handler provides HTTP handlers for the gallery.
type Handler struct {
	config  HandlerConfig
	service Service
	session SessionConfig
	flash   flashCookie
}

// NewHandler creates a new Handler with the given configuration and service.
func NewHandler(config *HandlerConfig, service Service) *Handler {
	cfg := *config
	if cfg.Renderer == nil {
		cfg.Renderer = NewTemplateRenderer()
	}
	if len(cfg.Decoys) == 0 {
		cfg.Decoys = DefaultDecoys
	}

	return &Handler{
		config:  cfg,
		service: service,
		session: SessionConfig{
			CookieName:  cfg.Cookie.Name,
			Credentials: cfg.Credentials,
			Tokens:      cfg.Tokens,
		},
		flash: newFlashCookie(cfg.Cookie.Name),
	}
}

// Router returns an http.Handler with all gallery routes.
// Gallery, upload and delete require a session; unmatched paths and methods
// get a decoy redirect.
func (h *Handler) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)

	if h.config.CORS.Enabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   h.config.CORS.AllowedOrigins,
			AllowedMethods:   h.config.CORS.AllowedMethods,
			AllowedHeaders:   h.config.CORS.AllowedHeaders,
			ExposedHeaders:   h.config.CORS.ExposedHeaders,
			AllowCredentials: h.config.CORS.AllowCredentials,
			MaxAge:           h.config.CORS.MaxAge,
		}))
	}

	r.Get("/", h.handleIndex)
	r.Get("/login", h.handleLoginForm)
	r.Post("/login", h.handleLogin)
	r.Get("/logout", h.handleLogout)
	r.Get("/{id}.png", h.handleImage)
	r.Head("/{id}.png", h.handleImage)

	r.Group(func(r chi.Router) {
		r.Use(SessionMiddleware(h.session))
		r.Get("/main", h.handleMain)
		r.Post("/upload", h.handleUpload)
		r.Post("/delete", h.handleDelete)
	})

	// a 405 would reveal which paths exist
	r.NotFound(h.handleDecoy)
	r.MethodNotAllowed(h.handleDecoy)

	return r
}

func (h *Handler) handleIndex(w http.ResponseWriter, r *http.Request) {
	if HasSession(r, h.session) {
		http.Redirect(w, r, "/main", http.StatusFound)
		return
	}
	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	h.renderLogin(w, http.StatusOK, LoginView{ShowMainButton: HasSession(r, h.session)})
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	given := galleria.Credentials{
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	}

	if !given.Equal(h.config.Credentials) {
		slog.Warn("login failed", "username", given.Username, "remote", r.RemoteAddr)
		h.renderLogin(w, http.StatusUnauthorized, LoginView{
			Error:          "Invalid credentials",
			ShowMainButton: HasSession(r, h.session),
		})
		return
	}

	token, err := h.config.Tokens.Issue(given)
	if err != nil {
		HandleError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     h.config.Cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.config.Cookie.TTL / time.Second),
		HttpOnly: true,
		Secure:   h.config.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/main", http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.config.Cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   h.config.Cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, "/login", http.StatusFound)
}

func (h *Handler) handleMain(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.ListPage(r.Context(), r.URL.Query().Get("page"))
	if err != nil {
		HandleError(w, err)
		return
	}

	h.renderGallery(w, http.StatusOK, GalleryView{
		Page:    page,
		Notices: h.flash.Consume(w, r),
	})
}

func (h *Handler) handleUpload(w http.ResponseWriter, r *http.Request) {
	if h.config.MaxUploadSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.config.MaxUploadSize)
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			h.rejectUpload(w, r, http.StatusRequestEntityTooLarge,
				fmt.Sprintf("File too large (limit %d bytes)", tooLarge.Limit))
			return
		}
		h.rejectUpload(w, r, http.StatusBadRequest, "File extension not allowed")
		return
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		HandleError(w, fmt.Errorf("read upload: %w", err))
		return
	}

	result, err := h.service.Ingest(r.Context(), header.Filename, data)
	if err != nil {
		if reason, ok := galleria.RejectionReason(err); ok {
			slog.Info("upload rejected", "filename", header.Filename, "reason", reason, "err", err)
			h.rejectUpload(w, r, http.StatusBadRequest, reason)
			return
		}
		HandleError(w, err)
		return
	}

	slog.Info("upload stored", "id", result.ID, "format", result.Format, "replaced", result.Replaced)
	http.Redirect(w, r, "/main", http.StatusFound)
}

// rejectUpload re-renders the first gallery page with a rejection reason.
func (h *Handler) rejectUpload(w http.ResponseWriter, r *http.Request, status int, reason string) {
	page, err := h.service.ListPage(r.Context(), "")
	if err != nil {
		HandleError(w, err)
		return
	}

	h.renderGallery(w, status, GalleryView{Page: page, Error: reason})
}

func (h *Handler) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		HandleError(w, fmt.Errorf("%w: %w", galleria.ErrInvalidInput, err))
		return
	}

	ids := r.PostForm["delete_ids"]
	if len(ids) == 0 {
		h.flash.Add(w, r, Notice{Category: NoticeWarning, Message: "No images selected for deletion."})
		http.Redirect(w, r, "/main", http.StatusFound)
		return
	}

	deleted, err := h.service.Delete(r.Context(), ids)
	if err != nil {
		HandleError(w, err)
		return
	}

	slog.Info("images deleted", "requested", len(ids), "deleted", deleted)
	h.flash.Add(w, r, Notice{Category: NoticeSuccess, Message: fmt.Sprintf("Deleted %d image(s).", deleted)})
	http.Redirect(w, r, "/main", http.StatusFound)
}

func (h *Handler) handleImage(w http.ResponseWriter, r *http.Request) {
	id, ok := galleria.ParseID(chi.URLParam(r, "id"))
	if !ok {
		h.handleDecoy(w, r)
		return
	}

	content, err := h.service.Open(r.Context(), id)
	if err != nil {
		if errors.Is(err, galleria.ErrNotFound) {
			h.handleDecoy(w, r)
			return
		}
		HandleError(w, err)
		return
	}
	defer func() { _ = content.Close() }()

	w.Header().Set("Content-Type", galleria.CanonicalContentType)
	w.Header().Set("ETag", `"`+id.String()+`"`)
	w.Header().Set("Cache-Control", "private, max-age=3600")

	http.ServeContent(w, r, galleria.FileName(id), time.Time{}, content)
}

func (h *Handler) handleDecoy(w http.ResponseWriter, r *http.Request) {
	WriteDecoy(w, r, h.config.Decoys)
}

func (h *Handler) renderLogin(w http.ResponseWriter, status int, v LoginView) {
	render(w, status, func(buf *bytes.Buffer) error { return h.config.Renderer.Login(buf, v) })
}

func (h *Handler) renderGallery(w http.ResponseWriter, status int, v GalleryView) {
	render(w, status, func(buf *bytes.Buffer) error { return h.config.Renderer.Gallery(buf, v) })
}
