package web

import (
	"html/template"
	"io"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"
)

var funcMap = template.FuncMap{
	// pageURL links back to the page with the given tab, selected encounter
	// and pending medication confirmation. Empty values are left out.
	"pageURL": func(tab, encounter, confirm string) string {
		return pageURL(tab, encounter, confirm, "")
	},
	"docURL": func(filename, kind string, item int, action string) string {
		return "/encounters/" + url.PathEscape(filename) + "/documents/" +
			url.PathEscape(kind) + "/" + strconv.Itoa(item) + "/" + action
	},
	"downloadURL": func(filename string) string {
		return "/download/" + url.PathEscape(filename)
	},
}

func pageURL(tab, encounter, confirm, msg string) string {
	q := url.Values{}
	if tab != "" {
		q.Set("tab", tab)
	}
	if encounter != "" {
		q.Set("encounter", encounter)
	}
	if confirm != "" {
		q.Set("confirm", confirm)
	}
	if msg != "" {
		q.Set("msg", msg)
	}
	if len(q) == 0 {
		return "/"
	}
	return "/?" + q.Encode()
}

// Renderer executes the page templates for echo. Templates are parsed once.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer() *Renderer {
	return &Renderer{
		tmpl: template.Must(template.New("page").Funcs(funcMap).Parse(tmplBase + tmplIndex)),
	}
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	return r.tmpl.ExecuteTemplate(w, name, data)
}
