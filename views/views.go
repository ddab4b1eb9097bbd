// Package views renders the storefront's pages and htmx fragments.
//
// Templates live in templates/ and are embedded into the binary. Every
// exported constructor returns a templ.Component, so handlers render them
// through storefront.Context like any other component.
package views

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"math"
	"strings"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/dmitrymomot/storefront/pkg/apiclient"
	"github.com/dmitrymomot/storefront/pkg/money"
	"github.com/dmitrymomot/storefront/pkg/sanitizer"
	"github.com/dmitrymomot/storefront/pkg/toast"
)

//go:embed templates
var templateFS embed.FS

// Assets holds the files served under /static/.
//
//go:embed static
var Assets embed.FS

// Page carries what the layout needs on every full page.
type Page struct {
	User      *apiclient.User
	Toast     *toast.Toast
	Title     string
	Path      string
	CartCount int
}

// Signed reports whether the header should show the signed-in menu.
func (p Page) Signed() bool { return p.User != nil }

// Badge is the header cart counter.
func (p Page) Badge() badge { return badge{Count: p.CartCount} }

// Notice is the toast rendered with the page, if any.
func (p Page) Notice() *notice {
	if p.Toast == nil {
		return nil
	}
	return &notice{Toast: *p.Toast}
}

type badge struct {
	Count int
	OOB   bool
}

type notice struct {
	Toast toast.Toast
	OOB   bool
}

type view struct {
	Data any
	Page Page
}

var funcs = template.FuncMap{
	"money":    money.Format,
	"stars":    stars,
	"markdown": sanitizer.Markdown,
	"excerpt":  sanitizer.Excerpt,
	"plain":    sanitizer.Text,
	"date":     formatDate,
	"lower":    strings.ToLower,
	"title":    cases.Title(language.English).String,
}

var (
	base  = template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html", "templates/partials/*.html"))
	pages = mustPages()
)

func mustPages() map[string]*template.Template {
	names, err := fs.Glob(templateFS, "templates/pages/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(template.Must(base.Clone()).ParseFS(templateFS, name))
		out[strings.TrimSuffix(strings.TrimPrefix(name, "templates/pages/"), ".html")] = t
	}
	return out
}

// page renders the named page inside the layout.
func page(name string, p Page, data any) templ.Component {
	t, ok := pages[name]
	if !ok {
		panic(fmt.Sprintf("views: unknown page %q", name))
	}
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return t.ExecuteTemplate(w, "layout", view{Page: p, Data: data})
	})
}

// fragment renders a single partial template.
func fragment(name string, data any) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		return base.ExecuteTemplate(w, name, data)
	})
}

// stars renders a rating as five filled or empty stars.
func stars(rating float64) string {
	n := int(math.Round(rating))
	n = max(0, min(5, n))
	return strings.Repeat("★", n) + strings.Repeat("☆", 5-n)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("Jan 2, 2006")
}
