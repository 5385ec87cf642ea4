package dashboard

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

//go:embed templates/*.html
var templateFS embed.FS

// pageSet maps a page name to its layout+page template
type pageSet map[string]*template.Template

var pageNames = []string{
	"login",
	"register",
	"profile",
	"roadmaps",
	"jobs",
	"dashboard",
	"job_management",
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

var templateFuncs = template.FuncMap{
	"date": func(t time.Time) string {
		if t.IsZero() {
			return "Unknown date"
		}
		return t.Format("2006-01-02")
	},
	"levelPct": func(level int) int {
		if level > 5 {
			level = 5
		}
		return level * 20
	},
	"levels": func() []int { return []int{1, 2, 3, 4, 5} },
	"decimal": func(v float64) string {
		return fmt.Sprintf("%.2f", v)
	},
}

func loadPages() (pageSet, error) {
	layout, err := template.New("layout.html").Funcs(templateFuncs).ParseFS(templateFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("parse layout: %w", err)
	}

	pages := make(pageSet, len(pageNames))
	for _, name := range pageNames {
		clone, err := layout.Clone()
		if err != nil {
			return nil, err
		}
		tmpl, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse page %s: %w", name, err)
		}
		pages[name] = tmpl
	}
	return pages, nil
}

func navFor(sess *Session, path string) []navItem {
	if sess == nil {
		return nil
	}
	var items []navItem
	if sess.IsTPO {
		items = []navItem{
			{Label: "TPO Dashboard", Href: "/dashboard"},
			{Label: "Job Management", Href: "/job-management"},
		}
	} else {
		items = []navItem{
			{Label: "My Profile", Href: "/profile"},
			{Label: "AI Roadmap", Href: "/roadmaps"},
			{Label: "Job Board", Href: "/jobs"},
		}
	}
	for i := range items {
		items[i].Active = items[i].Href == path
	}
	return items
}

// render executes page inside the layout. A pending flash message is shown once
// and then cleared.
func (h *Handler) render(c *gin.Context, status int, page string, data gin.H) {
	tmpl, found := h.pages[page]
	if !found {
		h.logger.Error().Str("page", page).Msg("Unknown dashboard page")
		c.String(http.StatusInternalServerError, "page not found")
		return
	}

	sess := currentSession(c)
	data["Session"] = sess
	data["Nav"] = navFor(sess, c.Request.URL.Path)
	if sess != nil && sess.Flash != "" {
		data["Flash"] = sess.Flash
		data["FlashError"] = sess.FlashError
		if err := h.sessions.ClearFlash(c.Request.Context(), sess.ID); err != nil {
			h.logger.Warn().Err(err).Msg("Failed to clear flash message")
		}
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		h.logger.Error().Err(err).Str("page", page).Msg("Failed to render dashboard page")
		c.String(http.StatusInternalServerError, "failed to render page")
		return
	}
	c.Data(status, "text/html; charset=utf-8", buf.Bytes())
}
