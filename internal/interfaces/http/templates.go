package http

import (
	"embed"
	"html/template"
	"net/url"
	"strings"
	"time"

	"github.com/garyjia/payroll-console/pkg/utils"
)

//go:embed templates/*.html
var templateFS embed.FS

func parseTemplates() (*template.Template, error) {
	return template.New("").Funcs(templateFuncs()).ParseFS(templateFS, "templates/*.html")
}

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"currency": utils.FormatCurrency,
		"percent":  utils.FormatPercent,
		"rate":     utils.FormatRate,
		"date":     formatDate,
		"month":    monthName,
		"upper":    strings.ToUpper,
		"badge":    badgeClass,
		"add":      func(a, b int) int { return a + b },
		"same":     strings.EqualFold,
		"addQuery": func(q url.Values, key, value string) string {
			out := pageQuery(q)
			out.Add(key, value)
			return "?" + out.Encode()
		},
		"setQuery": func(q url.Values, key, value string) string {
			out := pageQuery(q)
			out.Set(key, value)
			return "?" + out.Encode()
		},
	}
}

// pageQuery copies q without the one-shot flash and modal parameters
func pageQuery(q url.Values) url.Values {
	out := url.Values{}
	for k, vs := range q {
		switch k {
		case "flash", "flashKind", "modal", "id":
			continue
		}
		out[k] = append([]string(nil), vs...)
	}
	return out
}

// formatDate renders t as "Jan 2, 2006", or N/A for the zero time
func formatDate(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("Jan 2, 2006")
}

func monthName(m int) string {
	if m < 1 || m > 12 {
		return "N/A"
	}
	return time.Month(m).String()
}

// badgeClass maps a status to its badge CSS class
func badgeClass(status string) string {
	s := strings.ToLower(strings.TrimSpace(status))
	switch {
	case s == "":
		return "badge"
	case strings.Contains(s, "unpaid"):
		return "badge badge-warning"
	case strings.Contains(s, "reject"), strings.Contains(s, "cancel"):
		return "badge badge-danger"
	case strings.Contains(s, "approved"), strings.Contains(s, "paid"), strings.Contains(s, "resolved"), strings.Contains(s, "confirmed"):
		return "badge badge-success"
	case strings.Contains(s, "pending"), strings.Contains(s, "review"):
		return "badge badge-warning"
	}
	return "badge"
}
