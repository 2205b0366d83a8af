// Package views renders the site's HTML pages with the fiber html engine.
// Pages are embedded into the "base" layout through {{embed}}; shared pieces
// live under partials/ and are included as "partials/<name>".
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var templateFS embed.FS

// Layout wraps every page.
const Layout = "base"

// New returns an engine over the embedded templates with the default helpers
// plus funcs. funcs must provide "url" (named route reversal).
func New(funcs map[string]interface{}) *html.Engine {
	root, err := fs.Sub(templateFS, "templates")
	if err != nil {
		panic(fmt.Sprintf("views: %v", err))
	}

	engine := html.NewFileSystem(http.FS(root), ".html")
	engine.AddFunc("formatDate", formatDate)
	engine.AddFunc("media", mediaURL)
	engine.AddFunc("fieldErrors", fieldErrors)
	engine.AddFunc("hasErrors", hasErrors)
	engine.AddFunc("selected", selected)
	engine.AddFunc("linebreaks", linebreaks)
	for name, fn := range funcs {
		engine.AddFunc(name, fn)
	}
	return engine
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("02 Jan 2006, 15:04")
}

func mediaURL(rel string) string {
	if rel == "" {
		return ""
	}
	return "/media/" + strings.TrimPrefix(rel, "/")
}

func fieldErrors(errs map[string][]string, field string) []string {
	if errs == nil {
		return nil
	}
	return errs[field]
}

func hasErrors(errs map[string][]string) bool {
	return len(errs) > 0
}

// selected reports whether a <select> option value matches the current one.
func selected(current string, value uint) bool {
	return current == fmt.Sprint(value)
}

// linebreaks splits text into paragraphs on blank lines.
func linebreaks(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
