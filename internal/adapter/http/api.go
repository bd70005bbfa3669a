package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

type recordsResponse struct {
	Filter  domain.Filter   `json:"filter"`
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
	Storms  []string        `json:"storms"`
}

type stormsResponse struct {
	Filter domain.Filter `json:"filter"`
	Storms []string      `json:"storms"`
}

type stormResponse struct {
	domain.StormDetail
	Warnings []warning `json:"warnings"`
}

type warning struct {
	Code    domain.MapWarning `json:"code"`
	Message string            `json:"message"`
}

func (s *Server) handleOptions(w http.ResponseWriter, r *http.Request) {
	opts, err := s.viewer.Options()
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, opts)
}

func (s *Server) handleRecords(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	f, records, storms, err := s.viewer.Records(sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, recordsResponse{Filter: f, Count: len(records), Records: records, Storms: storms})
}

func (s *Server) handleStorms(w http.ResponseWriter, r *http.Request) {
	sel, ok := s.selection(w, r)
	if !ok {
		return
	}
	f, _, storms, err := s.viewer.Records(sel)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	render.JSON(w, r, stormsResponse{Filter: f, Storms: storms})
}

func (s *Server) handleStorm(w http.ResponseWriter, r *http.Request) {
	detail, mv, ok := s.storm(w, r)
	if !ok {
		return
	}
	render.JSON(w, r, stormResponse{StormDetail: detail, Warnings: warnings(mv.Warnings)})
}

func (s *Server) handleStormMap(w http.ResponseWriter, r *http.Request) {
	_, mv, ok := s.storm(w, r)
	if !ok {
		return
	}
	body, err := json.Marshal(mv.FeatureCollection())
	if err != nil {
		s.writeError(w, r, fmt.Errorf("encode geojson: %w", err))
		return
	}
	w.Header().Set("Content-Type", "application/geo+json")
	w.Write(body) //nolint:errcheck // client went away
}

func (s *Server) storm(w http.ResponseWriter, r *http.Request) (domain.StormDetail, domain.MapView, bool) {
	sel, ok := s.selection(w, r)
	if !ok {
		return domain.StormDetail{}, domain.MapView{}, false
	}
	name, err := stormName(r)
	if err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, "invalid storm name")
		return domain.StormDetail{}, domain.MapView{}, false
	}
	detail, mv, err := s.viewer.Storm(sel, name)
	if err != nil {
		s.writeError(w, r, err)
		return domain.StormDetail{}, domain.MapView{}, false
	}
	return detail, mv, true
}

// stormName returns the decoded {name} route parameter. chi routes on
// RawPath when it is set, leaving the parameter escaped; otherwise the
// parameter is already decoded.
func stormName(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

// selection parses the query string, writing a 400 response on failure.
func (s *Server) selection(w http.ResponseWriter, r *http.Request) (viewer.Selection, bool) {
	sel, err := parseSelection(r.URL.Query())
	if err != nil {
		s.writeStatus(w, r, http.StatusBadRequest, err.Error())
		return viewer.Selection{}, false
	}
	return sel, true
}

// writeError maps viewer and domain errors to HTTP statuses.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyTable), errors.Is(err, domain.ErrNoWindData):
		s.writeStatus(w, r, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, viewer.ErrUnknownStorm), errors.Is(err, viewer.ErrNothingToPlot):
		s.writeStatus(w, r, http.StatusNotFound, err.Error())
	default:
		s.logger.Error("request failed", "path", r.URL.Path, "error", err)
		s.writeStatus(w, r, http.StatusInternalServerError, "internal error")
	}
}

func (s *Server) writeStatus(w http.ResponseWriter, r *http.Request, status int, msg string) {
	render.Status(r, status)
	render.JSON(w, r, map[string]string{"error": msg})
}

func warnings(ws []domain.MapWarning) []warning {
	out := make([]warning, 0, len(ws))
	for _, w := range ws {
		out = append(out, warning{Code: w, Message: w.Message()})
	}
	return out
}
