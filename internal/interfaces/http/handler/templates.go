package handler

import (
	"embed"
	"html/template"
	"strings"

	"github.com/erp/console/internal/domain/warehouse"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

// Templates parses the embedded page templates. Pages are addressed by file
// name, e.g. "products.tmpl".
func Templates() (*template.Template, error) {
	return template.New("console").Funcs(template.FuncMap{
		"categoryLabel":      warehouse.CategoryLabel,
		"categoryOptions":    categoryOptions,
		"shelfStatusOptions": shelfStatusOptions,
		"robotStatusOptions": robotStatusOptions,
		"imgsrc":             imageSource,
		"join":               strings.Join,
	}).ParseFS(templateFS, "templates/*.tmpl")
}

// option is one <option> of a select.
type option struct {
	Value    string
	Label    string
	Selected bool
}

func categoryOptions(current string) []option {
	out := make([]option, 0, len(warehouse.Categories))
	for _, c := range warehouse.Categories {
		out = append(out, option{Value: c, Label: warehouse.CategoryLabel(c), Selected: c == current})
	}
	return out
}

func shelfStatusOptions(current string) []option {
	out := make([]option, 0, len(warehouse.ShelfStatuses))
	for _, s := range warehouse.ShelfStatuses {
		out = append(out, option{Value: string(s), Label: s.Label(), Selected: string(s) == current})
	}
	return out
}

// robotStatusOptions offers the four statuses. A robot that reports the legacy
// charging spelling keeps that exact value, so saving it unchanged sends back
// what the backend gave us.
func robotStatusOptions(current string) []option {
	cur := warehouse.RobotStatus(current)
	out := make([]option, 0, len(warehouse.RobotStatuses))
	for _, s := range warehouse.RobotStatuses {
		o := option{Value: string(s), Label: s.Label(), Selected: s == cur}
		if s == warehouse.RobotStatusCharging && cur.IsCharging() {
			o.Value, o.Selected = current, true
		}
		out = append(out, o)
	}
	return out
}

// imageSource lets data:image URIs and http(s) image URLs through html/template's
// URL filter. Anything else renders as an empty src.
func imageSource(s string) template.URL {
	switch {
	case strings.HasPrefix(s, "data:image/"),
		strings.HasPrefix(s, "https://"),
		strings.HasPrefix(s, "http://"):
		return template.URL(s)
	}
	return ""
}
