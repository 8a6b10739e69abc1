// Package renderer turns inventory views into markdown documents.
//
// Every document is a text/template assembly (e.g. "dashboard.md") made of
// partials sharing its name as a prefix (e.g. "dashboard_stats.md").
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/warehouse"
)

//go:embed *.md
var templates embed.FS

var funcs = template.FuncMap{
	"cell":  cell,
	"label": label,
}

// cell escapes a value for a markdown table cell.
func cell(s string) string {
	s = strings.NewReplacer("|", `\|`, "\n", " ", "\r", " ").Replace(s)
	if s == "" {
		return "-"
	}
	return s
}

func label(d warehouse.Direction) string {
	if d == warehouse.In {
		return "입고"
	}
	return "출고"
}

// RenderDashboard renders the overview of the inventory.
func RenderDashboard(d *Dashboard) string {
	partials := map[string]string{
		"dashboard_stats":      "dashboard_stats.md",
		"dashboard_low_stock":  "dashboard_low_stock.md",
		"dashboard_categories": "dashboard_categories.md",
		"dashboard_recent":     "dashboard_recent.md",
	}
	return renderTemplate("dashboard", "dashboard.md", partials, d)
}

// RenderInventory renders the item table.
func RenderInventory(v *Inventory) string {
	return renderTemplate("inventory", "inventory.md", nil, v)
}

// RenderAssets renders the serialized units grouped by item.
func RenderAssets(v *Assets) string {
	return renderTemplate("assets", "assets.md", nil, v)
}

// RenderHistory renders ledger entries grouped by day.
func RenderHistory(v *History) string {
	return renderTemplate("history", "history.md", nil, v)
}

// RenderDaily renders the movement report of a day.
func RenderDaily(v *Daily) string {
	return renderTemplate("daily", "daily.md", nil, v)
}

// RenderPlan renders what a destructive operation is about to do.
func RenderPlan(p warehouse.Plan) string {
	return renderTemplate("plan", "plan.md", nil, p)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			var readErr error
			content, readErr = fs.ReadFile(templates, file)
			if readErr != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, readErr)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}
