package http

import (
	"bytes"
	"embed"
	"errors"
	"html/template"
	"math"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.New("index.html").Funcs(template.FuncMap{
	"show": show,
}).ParseFS(templateFS, "templates/index.html"))

type option struct {
	Value    string
	Selected bool
}

type pageData struct {
	Source     string
	LoadedAt   time.Time
	Total      int
	Error      string
	Years      []option
	Categories []option
	Wind       domain.WindRange
	MinWind    int
	MaxWind    int
	Matched    int
	Storms     []option
	Detail     *domain.StormDetail
	Warnings   []string
	MapURL     string
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	data := buildPageData(s.viewer.Page(sel))

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		s.logger.Error("render page failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(buf.Bytes()) //nolint:errcheck // client went away
}

func (s *Server) handleMapImage(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	img, _, err := s.viewer.RenderMap(r.Context(), sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Write(img) //nolint:errcheck // client went away
}

func buildPageData(p viewer.Page) pageData {
	data := pageData{Source: p.Source, LoadedAt: p.LoadedAt, Total: p.Total}
	if p.OptionsErr != nil {
		data.Error = p.OptionsErr.Error()
		if !errors.Is(p.OptionsErr, domain.ErrEmptyTable) && !errors.Is(p.OptionsErr, domain.ErrNoWindData) {
			data.Error = "Filter options are unavailable."
		}
		return data
	}

	for _, y := range p.Options.Years {
		data.Years = append(data.Years, option{strconv.Itoa(y), slices.Contains(p.Filter.Years, y)})
	}
	for _, c := range p.Options.Categories {
		data.Categories = append(data.Categories, option{c, slices.Contains(p.Filter.Categories, c)})
	}
	for _, name := range p.Storms {
		data.Storms = append(data.Storms, option{name, name == p.Storm})
	}
	data.Wind = p.Options.Wind
	data.MinWind, data.MaxWind = p.Filter.Wind.Min, p.Filter.Wind.Max
	data.Matched = len(p.Records)
	data.Detail = p.Detail

	if p.Map != nil {
		for _, w := range p.Map.Warnings {
			data.Warnings = append(data.Warnings, w.Message())
		}
		if !p.Map.Empty() {
			data.MapURL = "/map.png?" + selectionQuery(p.Filter, p.Storm).Encode()
		}
	}
	return data
}

// selectionQuery encodes a resolved filter so the map image request sees
// the same selection as the page.
func selectionQuery(f domain.Filter, storm string) url.Values {
	q := url.Values{}
	q.Add("year", "")
	for _, y := range f.Years {
		q.Add("year", strconv.Itoa(y))
	}
	q.Add("category", "")
	for _, c := range f.Categories {
		q.Add("category", c)
	}
	q.Set("min_wind", strconv.Itoa(f.Wind.Min))
	q.Set("max_wind", strconv.Itoa(f.Wind.Max))
	q.Set("storm", storm)
	return q
}

// show formats an optional value for display, or an empty string when missing.
func show(v any) string {
	switch x := v.(type) {
	case *int:
		if x != nil {
			return strconv.Itoa(*x)
		}
	case *float64:
		if x != nil {
			return strconv.FormatFloat(math.Round(*x*100)/100, 'f', -1, 64)
		}
	case *string:
		if x != nil {
			return *x
		}
	case *time.Time:
		if x != nil {
			return x.Format("2006-01-02")
		}
	case float64:
		return strconv.FormatFloat(x, 'f', 1, 64)
	case string:
		return x
	}
	return ""
}
