// Package chart draws storm tracks as PNG plots of latitude against longitude.
package chart

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	gochart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Degrees added around the track so single points and straight tracks still
// get a non-degenerate axis range.
const margin = 1.0

var trackColor = drawing.ColorFromHex("c0392b")

// Renderer plots a storm track locally with no network access.
type Renderer struct {
	width  int
	height int
}

// NewRenderer creates a Renderer producing width x height images.
func NewRenderer(width, height int) *Renderer {
	return &Renderer{width: width, height: height}
}

// Name identifies the renderer in logs and metrics.
func (r *Renderer) Name() string { return "chart" }

// RenderTrack plots the points of view in order, joined by a line.
func (r *Renderer) RenderTrack(ctx context.Context, view domain.MapView) ([]byte, error) {
	if view.Empty() {
		return nil, errors.New("no points to plot")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lons := make([]float64, 0, len(view.Points)+1)
	lats := make([]float64, 0, len(view.Points)+1)
	for _, p := range view.Points {
		lons = append(lons, p.Lon)
		lats = append(lats, p.Lat)
	}
	// A one-point series needs a second value to draw.
	if len(lons) == 1 {
		lons = append(lons, lons[0])
		lats = append(lats, lats[0])
	}

	graph := gochart.Chart{
		Title:  view.Name,
		Width:  r.width,
		Height: r.height,
		Background: gochart.Style{
			Padding: gochart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: gochart.XAxis{
			Name:  "Longitude",
			Range: axisRange(lons, -180, 180),
		},
		YAxis: gochart.YAxis{
			Name:  "Latitude",
			Range: axisRange(lats, -90, 90),
		},
		Series: []gochart.Series{
			gochart.ContinuousSeries{
				Name:    view.Name,
				XValues: lons,
				YValues: lats,
				Style: gochart.Style{
					StrokeWidth: 2,
					StrokeColor: trackColor,
					DotWidth:    4,
					DotColor:    trackColor,
				},
			},
		},
	}

	var buf bytes.Buffer
	if err := graph.Render(gochart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render chart: %w", err)
	}
	return buf.Bytes(), nil
}

// axisRange spans values plus a margin, clamped to [lo, hi].
func axisRange(values []float64, lo, hi float64) *gochart.ContinuousRange {
	minV, maxV := values[0], values[0]
	for _, v := range values[1:] {
		minV = min(minV, v)
		maxV = max(maxV, v)
	}
	return &gochart.ContinuousRange{
		Min: max(lo, minV-margin),
		Max: min(hi, maxV+margin),
	}
}
