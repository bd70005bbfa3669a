package mapbox

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/paulmach/orb/simplify"
)

const (
	// Tolerance in degrees for simplifying long tracks before they go into
	// the request URL.
	simplifyTolerance = 0.05

	maxImageBytes = 8 << 20
)

// Client implements viewer.TrackRenderer using the Mapbox Static Images API.
type Client struct {
	token      string
	style      string
	width      int
	height     int
	httpClient *http.Client
	baseURL    string
	logger     *slog.Logger
}

// NewClient creates a Mapbox static map client.
func NewClient(token, style string, width, height int, timeout time.Duration, logger *slog.Logger) *Client {
	return &Client{
		token:  token,
		style:  style,
		width:  width,
		height: height,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		baseURL: "https://api.mapbox.com/styles/v1",
		logger:  logger,
	}
}

// Name identifies the renderer in logs and metrics.
func (c *Client) Name() string { return "mapbox" }

// RenderTrack fetches a basemap image with the storm track drawn on top.
func (c *Client) RenderTrack(ctx context.Context, view domain.MapView) ([]byte, error) {
	if view.Empty() {
		return nil, errors.New("no points to plot")
	}

	overlay, err := json.Marshal(trackOverlay(view))
	if err != nil {
		return nil, fmt.Errorf("encode overlay: %w", err)
	}

	u := fmt.Sprintf("%s/%s/static/geojson(%s)/auto/%dx%d",
		c.baseURL, c.style, url.PathEscape(string(overlay)), c.width, c.height)
	params := url.Values{
		"access_token": {c.token},
		"padding":      {"40"},
	}

	start := time.Now()
	img, err := c.doRequest(ctx, u+"?"+params.Encode())
	if err != nil {
		return nil, err
	}
	c.logger.Debug("mapbox image fetched",
		"storm", view.Name,
		"points", len(view.Points),
		"bytes", len(img),
		"duration", time.Since(start),
	)
	return img, nil
}

func (c *Client) doRequest(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("static image request: %w", redact(err, c.token))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("mapbox API error: status %d: %s", resp.StatusCode, body)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "image/") {
		return nil, fmt.Errorf("mapbox API error: unexpected content type %q", ct)
	}

	img, err := io.ReadAll(io.LimitReader(resp.Body, maxImageBytes))
	if err != nil {
		return nil, fmt.Errorf("read image: %w", err)
	}
	return img, nil
}

// trackOverlay styles the track for the Static Images API: a simplified line
// plus start and end markers. Coordinates are rounded to keep the URL short.
func trackOverlay(view domain.MapView) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	line := roundLine(view.LineString())
	if len(line) > 1 {
		if simplified, ok := simplify.DouglasPeucker(simplifyTolerance).Simplify(line).(orb.LineString); ok {
			line = simplified
		}
		track := geojson.NewFeature(line)
		track.Properties["stroke"] = "#c0392b"
		track.Properties["stroke-width"] = 3
		fc.Append(track)
	}

	first := geojson.NewFeature(line[0])
	first.Properties["marker-color"] = "#2e86c1"
	first.Properties["marker-size"] = "small"
	fc.Append(first)

	if len(line) > 1 {
		last := geojson.NewFeature(line[len(line)-1])
		last.Properties["marker-color"] = "#c0392b"
		last.Properties["marker-size"] = "small"
		fc.Append(last)
	}
	return fc
}

func roundLine(ls orb.LineString) orb.LineString {
	out := make(orb.LineString, len(ls))
	for i, p := range ls {
		out[i] = orb.Point{round4(p[0]), round4(p[1])}
	}
	return out
}

func round4(v float64) float64 {
	return math.Round(v*1e4) / 1e4
}

// redact strips the access token from transport errors, which embed the URL.
func redact(err error, token string) error {
	if token == "" || !strings.Contains(err.Error(), token) {
		return err
	}
	return errors.New(strings.ReplaceAll(err.Error(), token, "REDACTED"))
}
