package chart

import (
	"bytes"
	"context"
	"image/png"
	"testing"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTrack(t *testing.T) {
	tests := []struct {
		name   string
		points []domain.TrackPoint
	}{
		{
			name: "track",
			points: []domain.TrackPoint{
				{Lat: 23.1, Lon: -75.1},
				{Lat: 26.0, Lon: -84.0},
				{Lat: 29.5, Lon: -89.6},
			},
		},
		{
			name:   "single point",
			points: []domain.TrackPoint{{Lat: 25.5, Lon: -80.3}},
		},
		{
			name:   "on the bounds",
			points: []domain.TrackPoint{{Lat: 90, Lon: -180}, {Lat: 90, Lon: 180}},
		},
	}

	r := NewRenderer(640, 400)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			img, err := r.RenderTrack(context.Background(), domain.MapView{Name: "Andrew", Points: tt.points})
			require.NoError(t, err)

			cfg, err := png.DecodeConfig(bytes.NewReader(img))
			require.NoError(t, err)
			assert.Equal(t, 640, cfg.Width)
			assert.Equal(t, 400, cfg.Height)
		})
	}
}

func TestRenderTrack_Empty(t *testing.T) {
	_, err := NewRenderer(640, 400).RenderTrack(context.Background(), domain.MapView{Name: "Ghost"})
	require.Error(t, err)
}

func TestRenderTrack_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	view := domain.MapView{Name: "Andrew", Points: []domain.TrackPoint{{Lat: 25.5, Lon: -80.3}}}
	_, err := NewRenderer(640, 400).RenderTrack(ctx, view)
	require.ErrorIs(t, err, context.Canceled)
}

func TestAxisRange(t *testing.T) {
	got := axisRange([]float64{-89.6, -75.1}, -180, 180)
	assert.InDelta(t, -90.6, got.Min, 1e-9)
	assert.InDelta(t, -74.1, got.Max, 1e-9)

	clamped := axisRange([]float64{89.5}, -90, 90)
	assert.InDelta(t, 88.5, clamped.Min, 1e-9)
	assert.InDelta(t, 90.0, clamped.Max, 1e-9)
}
