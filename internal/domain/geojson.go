package domain

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// LineString returns the track as an ordered lon/lat line.
func (m MapView) LineString() orb.LineString {
	ls := make(orb.LineString, 0, len(m.Points))
	for _, p := range m.Points {
		ls = append(ls, orb.Point{p.Lon, p.Lat})
	}
	return ls
}

// FeatureCollection encodes the map view as GeoJSON: one Point feature per
// observation and, with two or more points, a LineString for the track. The
// storm name, warnings and exclusion counts are foreign members of the
// collection.
func (m MapView) FeatureCollection() *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	if len(m.Points) > 1 {
		track := geojson.NewFeature(m.LineString())
		track.Properties["name"] = m.Name
		track.Properties["kind"] = "track"
		fc.Append(track)
	}

	for _, p := range m.Points {
		f := geojson.NewFeature(orb.Point{p.Lon, p.Lat})
		f.Properties["kind"] = "observation"
		f.Properties["sequence_number"] = p.SequenceNumber
		f.Properties["time"] = p.Time
		if p.Date != nil {
			f.Properties["date"] = p.Date.Format("2006-01-02")
		}
		if p.MaxWindKt != nil {
			f.Properties["max_wind_kt"] = *p.MaxWindKt
		}
		if p.Category != nil {
			f.Properties["saffir_simpson_category"] = *p.Category
		}
		fc.Append(f)
	}

	warnings := make([]string, 0, len(m.Warnings))
	for _, w := range m.Warnings {
		warnings = append(warnings, string(w))
	}
	fc.ExtraMembers = geojson.Properties{
		"name":         m.Name,
		"warnings":     warnings,
		"missing":      m.Missing,
		"out_of_range": m.OutOfRange,
	}
	return fc
}
