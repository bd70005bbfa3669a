//go:build mapbox

package mapbox

import (
	"bytes"
	"context"
	"image/png"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Mapbox API and require a valid MAPBOX_TOKEN env var.
// Run with: go test -tags=mapbox ./internal/adapter/mapbox/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("MAPBOX_TOKEN")
	if token == "" {
		t.Fatal("MAPBOX_TOKEN must be set to run smoke tests")
	}
	return NewClient(token, "mapbox/outdoors-v12", 600, 400, 10*time.Second,
		slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_RenderTrack(t *testing.T) {
	c := smokeClient(t)

	img, err := c.RenderTrack(context.Background(), katrinaView())
	require.NoError(t, err)

	cfg, err := png.DecodeConfig(bytes.NewReader(img))
	require.NoError(t, err)
	assert.Equal(t, 600, cfg.Width)
	assert.Equal(t, 400, cfg.Height)
}

func TestSmoke_InvalidToken(t *testing.T) {
	c := smokeClient(t)
	c.token = "pk.invalid"

	_, err := c.RenderTrack(context.Background(), katrinaView())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
