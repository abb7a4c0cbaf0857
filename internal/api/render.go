package api

import (
	"embed"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"propertyhub/server/internal/auth"
	"propertyhub/server/internal/models"
	"propertyhub/server/internal/upload"
)

//go:embed templates/*.html
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	// asset turns a stored relative path into a URL on the requesting host
	"asset": upload.AbsoluteURL,
	"join":  strings.Join,
	"date": func(t *time.Time) string {
		if t == nil {
			return ""
		}
		return t.Format(dateLayout)
	},
	"inc": func(i int) int { return i + 1 },
	"at": func(values []string, i int) string {
		if i < 0 || i >= len(values) {
			return ""
		}
		return values[i]
	},
	"caption": func(assets []models.Asset, i int) string {
		if i < 0 || i >= len(assets) {
			return ""
		}
		return assets[i].Caption
	},
}

func loadTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html")
}

func requestScheme(c *gin.Context) string {
	if proto := c.GetHeader("X-Forwarded-Proto"); proto != "" {
		return proto
	}
	if c.Request.TLS != nil {
		return "https"
	}
	return "http"
}

// render adds the values every page uses before executing the named template.
func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	data["Scheme"] = requestScheme(c)
	data["Host"] = c.Request.Host
	data["IsAdmin"] = h.gate.IsAuthorized(auth.FromContext(c))
	c.HTML(status, name, data)
}
