// Package viewer turns a loaded table and a user's selection into the views
// the HTTP layer renders: filtered records, storm names, one storm's detail
// and its map.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/observability"
	"github.com/jonboulle/clockwork"
)

var (
	// ErrUnknownStorm is returned when a requested storm is not in the filtered set.
	ErrUnknownStorm = errors.New("storm not in filtered records")

	// ErrNothingToPlot is returned when a storm has no valid coordinates.
	ErrNothingToPlot = errors.New("no valid coordinates to plot")
)

// TrackRenderer draws a storm's map view as a PNG image.
type TrackRenderer interface {
	Name() string
	RenderTrack(ctx context.Context, view domain.MapView) ([]byte, error)
}

// Page is everything the HTML view shows for one selection.
type Page struct {
	Source     string
	LoadedAt   time.Time
	Total      int
	Options    domain.FilterOptions
	OptionsErr error
	Filter     domain.Filter
	Records    []domain.Record
	Storms     []string
	Storm      string
	Detail     *domain.StormDetail
	Map        *domain.MapView
}

// Viewer computes views from an immutable table. It is safe for concurrent use.
type Viewer struct {
	table      *domain.Table
	options    domain.FilterOptions
	optionsErr error
	renderers  []TrackRenderer
	clock      clockwork.Clock
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// New creates a Viewer over table. Renderers are tried in order when drawing
// a map; a later renderer is used only if the earlier ones fail. A nil clock,
// logger or metrics is replaced by the real clock, a discarding logger and
// unregistered metrics.
func New(table *domain.Table, renderers []TrackRenderer, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Viewer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	opts, err := domain.BuildOptions(table)
	if err != nil {
		logger.Warn("filter options unavailable", "error", err)
	}
	return &Viewer{
		table:      table,
		options:    opts,
		optionsErr: err,
		renderers:  renderers,
		clock:      clock,
		logger:     logger,
		metrics:    metrics,
	}
}

// CheckReadiness returns nil once a table is loaded.
func (v *Viewer) CheckReadiness(_ context.Context) error {
	if v.table == nil {
		return errors.New("dataset is not loaded")
	}
	return nil
}

// Options returns the filter choices derived from the table, or
// domain.ErrEmptyTable / domain.ErrNoWindData.
func (v *Viewer) Options() (domain.FilterOptions, error) {
	return v.options, v.optionsErr
}

// Records applies the selection and returns the resolved filter, the
// matching records and their storm names.
func (v *Viewer) Records(sel Selection) (domain.Filter, []domain.Record, []string, error) {
	defer v.observe("records", v.clock.Now())

	if v.optionsErr != nil {
		return domain.Filter{}, nil, nil, v.optionsErr
	}
	f, records := v.filter(sel)
	return f, records, domain.StormNames(records), nil
}

// Page computes the full HTML view. A selected storm that is not in the
// filtered set falls back to the first storm; an options error is reported
// in the page rather than returned.
func (v *Viewer) Page(sel Selection) Page {
	defer v.observe("page", v.clock.Now())
	return v.page(sel)
}

func (v *Viewer) page(sel Selection) Page {
	p := Page{Options: v.options, OptionsErr: v.optionsErr}
	if v.table != nil {
		p.Source, p.LoadedAt, p.Total = v.table.Source(), v.table.LoadedAt(), v.table.Len()
	}
	if v.optionsErr != nil {
		return p
	}

	p.Filter, p.Records = v.filter(sel)
	p.Storms = domain.StormNames(p.Records)
	if len(p.Storms) == 0 {
		return p
	}

	p.Storm = p.Storms[0]
	if slices.Contains(p.Storms, sel.Storm) {
		p.Storm = sel.Storm
	}
	detail := domain.BuildDetail(p.Records, p.Storm)
	mv := v.mapView(detail)
	p.Detail, p.Map = &detail, &mv
	return p
}

// Storm returns the detail and map view of name within the filtered set.
func (v *Viewer) Storm(sel Selection, name string) (domain.StormDetail, domain.MapView, error) {
	defer v.observe("storm", v.clock.Now())

	if v.optionsErr != nil {
		return domain.StormDetail{}, domain.MapView{}, v.optionsErr
	}
	_, records := v.filter(sel)
	if !slices.Contains(domain.StormNames(records), name) {
		return domain.StormDetail{}, domain.MapView{}, fmt.Errorf("%w: %q", ErrUnknownStorm, name)
	}
	detail := domain.BuildDetail(records, name)
	return detail, v.mapView(detail), nil
}

// RenderMap draws the selected storm of the page view for sel. It returns
// the map view alongside the image so callers can surface its warnings.
func (v *Viewer) RenderMap(ctx context.Context, sel Selection) ([]byte, domain.MapView, error) {
	defer v.observe("map", v.clock.Now())

	p := v.page(sel)
	if p.OptionsErr != nil {
		return nil, domain.MapView{}, p.OptionsErr
	}
	if p.Map == nil {
		return nil, domain.MapView{}, fmt.Errorf("%w: no storms match the filter", ErrNothingToPlot)
	}
	if p.Map.Empty() {
		return nil, *p.Map, fmt.Errorf("%w: %s", ErrNothingToPlot, p.Map.Name)
	}

	img, err := v.render(ctx, *p.Map)
	if err != nil {
		return nil, *p.Map, err
	}
	return img, *p.Map, nil
}

func (v *Viewer) render(ctx context.Context, mv domain.MapView) ([]byte, error) {
	var errs []error
	for _, r := range v.renderers {
		start := v.clock.Now()
		img, err := r.RenderTrack(ctx, mv)
		v.metrics.MapRenderDuration.WithLabelValues(r.Name()).Observe(v.clock.Since(start).Seconds())
		if err != nil {
			v.metrics.MapRenders.WithLabelValues(r.Name(), "error").Inc()
			v.logger.Warn("map render failed", "renderer", r.Name(), "storm", mv.Name, "error", err)
			errs = append(errs, fmt.Errorf("%s: %w", r.Name(), err))
			if ctx.Err() != nil {
				break
			}
			continue
		}
		v.metrics.MapRenders.WithLabelValues(r.Name(), "success").Inc()
		return img, nil
	}
	if len(errs) == 0 {
		return nil, errors.New("no map renderer configured")
	}
	return nil, fmt.Errorf("render map: %w", errors.Join(errs...))
}

func (v *Viewer) filter(sel Selection) (domain.Filter, []domain.Record) {
	f := sel.Filter(v.options)
	records := domain.Apply(v.table.Records(), f)
	v.metrics.FilteredRecords.Observe(float64(len(records)))
	v.logger.Debug("filter applied",
		"years", len(f.Years),
		"categories", len(f.Categories),
		"min_wind", f.Wind.Min,
		"max_wind", f.Wind.Max,
		"records", len(records),
	)
	return f, records
}

func (v *Viewer) mapView(d domain.StormDetail) domain.MapView {
	mv := domain.BuildMapView(d)
	for _, w := range mv.Warnings {
		v.metrics.MapWarnings.WithLabelValues(string(w)).Inc()
	}
	return mv
}

func (v *Viewer) observe(view string, start time.Time) {
	v.metrics.ViewRequests.WithLabelValues(view).Inc()
	v.metrics.ViewDuration.WithLabelValues(view).Observe(v.clock.Since(start).Seconds())
}
