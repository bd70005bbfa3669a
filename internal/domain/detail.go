package domain

import (
	"strconv"
	"time"

	"github.com/montanaflynn/stats"
	"github.com/skypies/geo"
)

// StormSummary condenses a storm's track records.
type StormSummary struct {
	Observations    int        `json:"observations"`
	FirstDate       *time.Time `json:"first_date"`
	LastDate        *time.Time `json:"last_date"`
	PeakWindKt      *int       `json:"peak_wind_kt"`
	MeanWindKt      *float64   `json:"mean_wind_kt"`
	MinPressureMb   *float64   `json:"min_pressure_mb"`
	HighestCategory *int       `json:"highest_category"`
	TrackLengthNM   float64    `json:"track_length_nm"`
}

// StormDetail is the set of records for one selected storm.
type StormDetail struct {
	Name    string       `json:"name"`
	Records []Record     `json:"records"`
	Summary StormSummary `json:"summary"`
}

// BuildDetail selects the records of the named storm from records, keeping
// their order, and summarizes them.
func BuildDetail(records []Record, name string) StormDetail {
	var selected []Record
	for _, r := range records {
		if r.Name == name {
			selected = append(selected, r)
		}
	}
	return StormDetail{
		Name:    name,
		Records: selected,
		Summary: summarize(selected),
	}
}

func summarize(records []Record) StormSummary {
	s := StormSummary{Observations: len(records)}

	var winds, pressures stats.Float64Data
	var prev *geo.Latlong
	for _, r := range records {
		if r.Date != nil {
			if s.FirstDate == nil || r.Date.Before(*s.FirstDate) {
				s.FirstDate = r.Date
			}
			if s.LastDate == nil || r.Date.After(*s.LastDate) {
				s.LastDate = r.Date
			}
		}
		if r.MaxWindKt != nil {
			winds = append(winds, float64(*r.MaxWindKt))
		}
		if r.CentralPressureMb != nil {
			pressures = append(pressures, *r.CentralPressureMb)
		}
		if c, err := strconv.Atoi(deref(r.Category)); err == nil {
			if s.HighestCategory == nil || c > *s.HighestCategory {
				s.HighestCategory = &c
			}
		}
		if p, ok := validPoint(r); ok {
			if prev != nil {
				s.TrackLengthNM += prev.DistNM(p)
			}
			prev = &p
		}
	}

	if peak, err := stats.Max(winds); err == nil {
		kt := int(peak)
		s.PeakWindKt = &kt
	}
	if mean, err := stats.Mean(winds); err == nil {
		s.MeanWindKt = &mean
	}
	if low, err := stats.Min(pressures); err == nil {
		s.MinPressureMb = &low
	}
	return s
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
