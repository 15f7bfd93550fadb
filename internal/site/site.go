// Package site renders the public pages and the admin view from embedded
// templates, and generates the browser script of the live channel.
package site

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"time"
)

//go:embed templates/*.html
var templates embed.FS

//go:embed assets
var assets embed.FS

// View is one rendered page.
type View struct {
	Page    string // template name: home, articles or admin
	Title   string
	Live    bool // load /live.js
	Content Content
	Data    any
}

type layoutData struct {
	View
	Body template.HTML
	Year int
}

var funcs = template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}

// Render executes the page template and wraps it in the layout.
func Render(w io.Writer, v View) error {
	contentTmplBytes, err := templates.ReadFile("templates/" + v.Page + ".html")
	if err != nil {
		return fmt.Errorf("failed to load template %s: %w", v.Page, err)
	}

	contentTmpl, err := template.New(v.Page).Funcs(funcs).Parse(string(contentTmplBytes))
	if err != nil {
		return fmt.Errorf("failed to parse template %s: %w", v.Page, err)
	}

	var contentBuf bytes.Buffer
	if err := contentTmpl.Execute(&contentBuf, v); err != nil {
		return fmt.Errorf("failed to render template %s: %w", v.Page, err)
	}

	layoutTmplBytes, err := templates.ReadFile("templates/layout.html")
	if err != nil {
		return fmt.Errorf("failed to load layout: %w", err)
	}

	layoutTmpl, err := template.New("layout").Funcs(funcs).Parse(string(layoutTmplBytes))
	if err != nil {
		return fmt.Errorf("failed to parse layout: %w", err)
	}

	data := layoutData{
		View: v,
		Body: template.HTML(contentBuf.String()),
		Year: time.Now().Year(),
	}
	if err := layoutTmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to render layout: %w", err)
	}
	return nil
}

// Assets returns the static files served under /assets/.
func Assets() fs.FS {
	sub, err := fs.Sub(assets, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
