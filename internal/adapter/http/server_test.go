package http_test

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	httpadapter "github.com/couchcryptid/hurricane-viewer/internal/adapter/http"
	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/observability"
	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRenderer struct{}

func (stubRenderer) Name() string { return "stub" }

func (stubRenderer) RenderTrack(_ context.Context, view domain.MapView) ([]byte, error) {
	return []byte("png:" + view.Name), nil
}

var discard = slog.New(slog.NewTextHandler(io.Discard, nil))

func testTable(t *testing.T) *domain.Table {
	t.Helper()
	rows := [][]string{
		{"1", "1", "2005-08-29", "1200", "29.5", "-89.6", "150", "5", "15", "902", "LA,MS,AL", "Katrina"},
		{"1", "2", "2005-08-30", "0000", "31.1", "-89.6", "95", "3", "20", "928", "MS", "Katrina"},
		{"2", "1", "2005-09-24", "0740", "x", "-93.7", "100", "3", "25", "937", "LA,TX", "Rita"},
		{"3", "1", "1992-08-24", "0900", "25.5", "-80.3", "145", "5", "10", "922", "FL", "Andrew"},
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, _, err := domain.ParseRow(row)
		require.NoError(t, err)
		records = append(records, rec)
	}
	return domain.NewTable(records, "tracks.csv", time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC))
}

func newTestServer(t *testing.T, table *domain.Table) *httpadapter.Server {
	t.Helper()
	v := viewer.New(table, []viewer.TrackRenderer{stubRenderer{}}, clockwork.NewFakeClock(), discard, observability.NewMetricsForTesting())
	return httpadapter.NewServer(":0", v, discard)
}

func get(t *testing.T, srv *httpadapter.Server, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v))
	return v
}

func TestHealthzReturns200(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns200WhenLoaded(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/readyz")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestReadyzReturns503WithoutTable(t *testing.T) {
	rec := get(t, newTestServer(t, nil), "/readyz")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/metrics")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}

func TestOptions(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/api/options")
	require.Equal(t, http.StatusOK, rec.Code)

	opts := decode[domain.FilterOptions](t, rec)
	assert.Equal(t, []int{1992, 2005}, opts.Years)
	assert.Equal(t, []string{"3", "5"}, opts.Categories)
	assert.Equal(t, domain.WindRange{Min: 95, Max: 150}, opts.Wind)
}

func TestOptions_EmptyTable(t *testing.T) {
	rec := get(t, newTestServer(t, domain.NewTable(nil, "empty.csv", time.Time{})), "/api/options")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	body := decode[map[string]string](t, rec)
	assert.Equal(t, domain.ErrEmptyTable.Error(), body["error"])
}

type recordsBody struct {
	Count   int             `json:"count"`
	Records []domain.Record `json:"records"`
	Storms  []string        `json:"storms"`
	Filter  domain.Filter   `json:"filter"`
}

func TestRecords(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	tests := []struct {
		name   string
		query  string
		count  int
		storms []string
	}{
		{"default", "", 4, []string{"Katrina", "Rita", "Andrew"}},
		{"year", "?year=2005", 3, []string{"Katrina", "Rita"}},
		{"category", "?category=5&category=", 2, []string{"Katrina", "Andrew"}},
		{"wind", "?min_wind=50&max_wind=100", 2, []string{"Katrina", "Rita"}},
		{"nothing selected", "?year=", 0, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, srv, "/api/records"+tt.query)
			require.Equal(t, http.StatusOK, rec.Code)
			assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")

			body := decode[recordsBody](t, rec)
			assert.Equal(t, tt.count, body.Count)
			assert.Len(t, body.Records, tt.count)
			assert.Equal(t, tt.storms, body.Storms)
		})
	}
}

func TestRecords_BadSelection(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	for _, query := range []string{
		"?min_wind=120&max_wind=100",
		"?min_wind=-5",
		"?max_wind=fast",
		"?year=recent",
	} {
		t.Run(query, func(t *testing.T) {
			rec := get(t, srv, "/api/records"+query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.NotEmpty(t, decode[map[string]string](t, rec)["error"])
		})
	}
}

func TestStorms(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/api/storms?category=3")
	require.Equal(t, http.StatusOK, rec.Code)

	body := decode[map[string]any](t, rec)
	assert.Equal(t, []any{"Katrina", "Rita"}, body["storms"])
}

func TestStorm(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	rec := get(t, srv, "/api/storms/Katrina")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Name     string              `json:"name"`
		Records  []domain.Record     `json:"records"`
		Summary  domain.StormSummary `json:"summary"`
		Warnings []struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"warnings"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Katrina", body.Name)
	assert.Len(t, body.Records, 2)
	assert.Equal(t, 2, body.Summary.Observations)
	require.NotNil(t, body.Summary.PeakWindKt)
	assert.Equal(t, 150, *body.Summary.PeakWindKt)
	assert.Empty(t, body.Warnings)

	rec = get(t, srv, "/api/storms/Rita")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Warnings, 1)
	assert.Equal(t, "no_coordinates", body.Warnings[0].Code)
	assert.Equal(t, domain.WarnNoCoordinates.Message(), body.Warnings[0].Message)
}

func TestStorm_NotInFilter(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/api/storms/Andrew?year=2005")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStorm_EscapedNames(t *testing.T) {
	rows := [][]string{
		{"1", "1", "2005-08-29", "1200", "29.5", "-89.6", "150", "5", "15", "902", "LA", "Storm 100%"},
		{"2", "1", "2005-09-24", "0740", "29.8", "-93.7", "100", "3", "25", "937", "TX", "Able/Baker"},
	}
	records := make([]domain.Record, 0, len(rows))
	for _, row := range rows {
		rec, _, err := domain.ParseRow(row)
		require.NoError(t, err)
		records = append(records, rec)
	}
	srv := newTestServer(t, domain.NewTable(records, "tracks.csv", time.Time{}))

	tests := []struct {
		target string
		want   string
	}{
		{"/api/storms/Storm%20100%25", "Storm 100%"},
		{"/api/storms/Able%2FBaker", "Able/Baker"},
		{"/api/storms/Able%2FBaker/map", "Able/Baker"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			rec := get(t, srv, tt.target)
			require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
			assert.Equal(t, tt.want, decode[map[string]any](t, rec)["name"])
		})
	}
}

func TestStormMap(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	rec := get(t, srv, "/api/storms/Katrina/map")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/geo+json", rec.Header().Get("Content-Type"))

	body := decode[map[string]any](t, rec)
	assert.Equal(t, "FeatureCollection", body["type"])
	assert.Equal(t, "Katrina", body["name"])
	assert.Len(t, body["features"], 3)

	rec = get(t, srv, "/api/storms/Rita/map")
	require.Equal(t, http.StatusOK, rec.Code)
	body = decode[map[string]any](t, rec)
	assert.Empty(t, body["features"])
	assert.Equal(t, []any{"no_coordinates"}, body["warnings"])
}

func TestMapImage(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	rec := get(t, srv, "/map.png?storm=Andrew")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "image/png", rec.Header().Get("Content-Type"))
	assert.Equal(t, "png:Andrew", rec.Body.String())

	rec = get(t, srv, "/map.png?storm=Andrew&year=2005")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "png:Katrina", rec.Body.String(), "unknown storm falls back to first")

	rec = get(t, srv, "/map.png?year=")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPage(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	rec := get(t, srv, "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "text/html")

	html := rec.Body.String()
	assert.Contains(t, html, "<h2>Katrina</h2>")
	assert.Contains(t, html, `<option value="Rita">Rita</option>`)
	assert.Contains(t, html, "4 records match the filter.")
	assert.Contains(t, html, `<img src="/map.png?`)
}

func TestPage_Warnings(t *testing.T) {
	srv := newTestServer(t, testTable(t))

	rec := get(t, srv, "/?storm=Rita")
	require.Equal(t, http.StatusOK, rec.Code)
	html := rec.Body.String()
	assert.Contains(t, html, "<h2>Rita</h2>")
	assert.Contains(t, html, domain.WarnNoCoordinates.Message())
	assert.NotContains(t, html, "<img")

	rec = get(t, srv, "/?category=")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "No hurricanes match the current filter.")
}

func TestPage_EmptyTable(t *testing.T) {
	rec := get(t, newTestServer(t, domain.NewTable(nil, "empty.csv", time.Time{})), "/")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), domain.ErrEmptyTable.Error())
}

func TestPage_BadSelection(t *testing.T) {
	rec := get(t, newTestServer(t, testTable(t)), "/?min_wind=200&max_wind=100")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
