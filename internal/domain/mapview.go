package domain

import (
	"time"

	"github.com/skypies/geo"
)

// MapWarning is a non-fatal condition shown to the user next to the map.
type MapWarning string

const (
	// WarnNoCoordinates means no record of the storm has both coordinates.
	WarnNoCoordinates MapWarning = "no_coordinates"

	// WarnOutOfBounds means coordinates exist but none lies within the
	// valid latitude/longitude ranges.
	WarnOutOfBounds MapWarning = "out_of_bounds"

	// WarnPartialCoordinates means some records were left off the map but
	// at least one point remains.
	WarnPartialCoordinates MapWarning = "partial_coordinates"
)

// Message returns the text shown to the user for w.
func (w MapWarning) Message() string {
	switch w {
	case WarnNoCoordinates:
		return "No valid coordinates available for mapping."
	case WarnOutOfBounds:
		return "Coordinates fall outside valid geographic bounds."
	case WarnPartialCoordinates:
		return "Some latitude and longitude values are missing or invalid and were not plotted."
	default:
		return string(w)
	}
}

// TrackPoint is one mappable observation.
type TrackPoint struct {
	Lat            float64    `json:"lat"`
	Lon            float64    `json:"lon"`
	SequenceNumber string     `json:"sequence_number"`
	Date           *time.Time `json:"date"`
	Time           string     `json:"time"`
	MaxWindKt      *int       `json:"max_wind_kt"`
	Category       *string    `json:"saffir_simpson_category"`
}

// MapView is the coordinate-validated subset of a storm's records.
type MapView struct {
	Name       string       `json:"name"`
	Points     []TrackPoint `json:"points"`
	Missing    int          `json:"missing"`
	OutOfRange int          `json:"out_of_range"`
	Warnings   []MapWarning `json:"warnings"`
}

// Empty reports whether there is nothing to plot.
func (m MapView) Empty() bool { return len(m.Points) == 0 }

// BuildMapView drops records with a missing coordinate, then records outside
// latitude [-90,90] or longitude [-180,180]. Warnings describe what was dropped.
func BuildMapView(d StormDetail) MapView {
	view := MapView{Name: d.Name, Points: make([]TrackPoint, 0, len(d.Records))}
	for _, r := range d.Records {
		if !r.HasCoordinates() {
			view.Missing++
			continue
		}
		if !InBounds(*r.Latitude, *r.Longitude) {
			view.OutOfRange++
			continue
		}
		view.Points = append(view.Points, TrackPoint{
			Lat:            *r.Latitude,
			Lon:            *r.Longitude,
			SequenceNumber: r.SequenceNumber,
			Date:           r.Date,
			Time:           r.Time,
			MaxWindKt:      r.MaxWindKt,
			Category:       r.Category,
		})
	}

	switch {
	case view.Empty() && view.OutOfRange > 0:
		view.Warnings = []MapWarning{WarnOutOfBounds}
	case view.Empty():
		view.Warnings = []MapWarning{WarnNoCoordinates}
	case view.Missing > 0 || view.OutOfRange > 0:
		view.Warnings = []MapWarning{WarnPartialCoordinates}
	}
	return view
}

// InBounds reports whether lat/lon is a valid geographic coordinate.
func InBounds(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

func validPoint(r Record) (geo.Latlong, bool) {
	if !r.HasCoordinates() || !InBounds(*r.Latitude, *r.Longitude) {
		return geo.Latlong{}, false
	}
	return geo.Latlong{Lat: *r.Latitude, Long: *r.Longitude}, true
}
