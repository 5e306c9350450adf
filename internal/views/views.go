// Package views holds the embedded HTML templates and their helper functions.
package views

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/template/html/v2"

	"github.com/simplyzetax/selva/internal/dashboard"
)

// Layout wraps every page
const Layout = "layouts/main"

//go:embed templates
var templates embed.FS

// New returns a fiber view engine over the embedded templates. Dates are shown in loc.
func New(loc *time.Location) (*html.Engine, error) {
	sub, err := fs.Sub(templates, "templates")
	if err != nil {
		return nil, fmt.Errorf("failed to open templates: %w", err)
	}

	engine := html.NewFileSystem(http.FS(sub), ".html")
	engine.AddFunc("localtime", func(src string) string {
		return dashboard.FormatLocal(src, loc)
	})
	engine.AddFunc("numfmt", NumFmt)
	return engine, nil
}

// NumFmt formats a number with dots for thousands and a comma for decimals:
// 8837.24 becomes "8.837,24". The optional argument sets the decimals (default 0).
// Values that are not numbers are printed as-is.
func NumFmt(value any, decimals ...int) string {
	n, ok := toFloat(value)
	if !ok {
		if value == nil {
			return ""
		}
		return fmt.Sprint(value)
	}

	d := 0
	if len(decimals) > 0 && decimals[0] > 0 {
		d = decimals[0]
	}

	s := strconv.FormatFloat(n, 'f', d, 64)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	out := sign + b.String()
	if d > 0 {
		out += "," + frac
	}
	return out
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	case fmt.Stringer:
		f, err := strconv.ParseFloat(v.String(), 64)
		return f, err == nil
	default:
		return 0, false
	}
}
