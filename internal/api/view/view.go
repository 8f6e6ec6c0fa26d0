// Package view renders the console's HTML pages from embedded templates.
// Every page is parsed together with layout.html and executed through the
// "layout" template, which pulls in the page's "content" block.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/viriyakhulung/kosalla-new/internal/core/domain"
	"github.com/viriyakhulung/kosalla-new/internal/core/ports"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Static exposes the embedded assets rooted at static/.
func Static() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Page is the data every template receives.
type Page struct {
	Title  string
	User   *ports.Identity
	CSRF   string
	Notice string
	Error  string
	Data   any
}

type Renderer struct {
	pages map[string]*template.Template
}

var funcs = template.FuncMap{
	"hasRole": func(id *ports.Identity, role string) bool {
		return id != nil && id.User.Roles.Has(role)
	},
	"roles": func(id *ports.Identity) string {
		if id == nil {
			return ""
		}
		return strings.Join(id.User.Roles.Slice(), ", ")
	},
	"deref": func(v *int64) int64 {
		if v == nil {
			return 0
		}
		return *v
	},
	"engineerLevels":   func() []string { return domain.EngineerLevels },
	"contractStatuses": func() []string { return domain.ContractStatuses },
	"priorities":       func() []string { return domain.TicketPriorities },
}

// New parses every page under templates/pages. It panics on a broken
// template so the process fails at startup.
func New() *Renderer {
	layout := template.Must(template.New("layout").Funcs(funcs).ParseFS(templatesFS, "templates/layout.html"))

	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		t := template.Must(template.Must(layout.Clone()).ParseFS(templatesFS, f))
		r.pages[strings.TrimSuffix(path.Base(f), ".html")] = t
	}
	return r
}

// Render implements echo.Renderer. echo buffers the output, so a failing
// template never leaves a half-written page.
func (r *Renderer) Render(w io.Writer, name string, data any, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("view: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout", data)
}

// Has reports whether a page template exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}
