package http

import (
	"embed"
	"html/template"
	"io"

	"github.com/sagarc03/galleria"
)

// LoginView is the data shown on the login page.
type LoginView struct {
	Error          string
	ShowMainButton bool
}

// GalleryView is the data shown on the gallery page.
type GalleryView struct {
	Page    galleria.Page
	Error   string
	Notices []Notice
}

// Renderer turns view data into a response body. The handler sets the status
// code and content type; implementations only write the document.
type Renderer interface {
	Login(w io.Writer, v LoginView) error
	Gallery(w io.Writer, v GalleryView) error
}

//go:embed templates/*.html
var templateFS embed.FS

// TemplateRenderer is the built-in Renderer backed by embedded html/template files.
type TemplateRenderer struct {
	login   *template.Template
	gallery *template.Template
}

// NewTemplateRenderer parses the embedded templates. It panics on a parse
// error since the templates are compiled into the binary.
func NewTemplateRenderer() *TemplateRenderer {
	funcs := template.FuncMap{
		"prev": func(n int) int { return n - 1 },
		"next": func(n int) int { return n + 1 },
	}

	return &TemplateRenderer{
		login:   template.Must(template.New("login.html").Funcs(funcs).ParseFS(templateFS, "templates/login.html")),
		gallery: template.Must(template.New("main.html").Funcs(funcs).ParseFS(templateFS, "templates/main.html")),
	}
}

func (t *TemplateRenderer) Login(w io.Writer, v LoginView) error {
	return t.login.Execute(w, v)
}

func (t *TemplateRenderer) Gallery(w io.Writer, v GalleryView) error {
	return t.gallery.Execute(w, v)
}
