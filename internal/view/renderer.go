// Package view renders the embedded HTML templates for echo.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rtnut/showcase-cms/internal/middleware"
	"github.com/rtnut/showcase-cms/internal/model"
	"github.com/rtnut/showcase-cms/internal/session"
)

//go:embed templates
var templateFS embed.FS

// Page is what every template receives. Data carries the handler's payload.
type Page struct {
	Site    model.SiteSettings
	Flashes []session.Flash
	Admin   *middleware.AdminIdentity
	Path    string
	Data    any
}

// Renderer implements echo.Renderer. Pages under templates/site use the
// public layout, pages under templates/admin the back-office layout.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every embedded page together with its layout.
func New() (*Renderer, error) {
	return newRenderer(templateFS)
}

func newRenderer(fsys fs.FS) (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template)}
	for _, section := range []string{"site", "admin"} {
		layout := path.Join("templates", "layouts", section+".html")
		pages, err := fs.Glob(fsys, path.Join("templates", section, "*.html"))
		if err != nil {
			return nil, err
		}
		for _, p := range pages {
			t, err := template.New(path.Base(layout)).Funcs(funcs).ParseFS(fsys, layout, p)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", p, err)
			}
			r.pages[section+"/"+path.Base(p)] = t
		}
	}
	return r, nil
}

// Render executes the layout for page name ("site/index.html").
func (r *Renderer) Render(w io.Writer, name string, data interface{}, c echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("template %q not found", name)
	}
	page := Page{
		Site:    middleware.CurrentSite(c),
		Flashes: session.PopFlashes(c),
		Admin:   middleware.CurrentAdmin(c),
		Path:    c.Request().URL.Path,
		Data:    data,
	}
	return t.ExecuteTemplate(w, "layout", page)
}

var funcs = template.FuncMap{
	// asset turns a stored relative path into a site-absolute URL.
	"asset": func(p string) string {
		if p == "" || strings.HasPrefix(p, "/") || strings.Contains(p, "://") {
			return p
		}
		return "/" + p
	},
	// rawHTML marks admin-authored banner markup as trusted.
	"rawHTML": func(s string) template.HTML { return template.HTML(s) },
	"date": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("2006-01-02 15:04")
	},
	"active": func(current, prefix string) bool {
		return current == prefix || strings.HasPrefix(current, prefix+"/")
	},
}
