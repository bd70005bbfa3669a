package domain

import (
	"errors"
	"fmt"
	"slices"

	"github.com/montanaflynn/stats"
)

var (
	// ErrEmptyTable is returned when no records survived cleaning.
	ErrEmptyTable = errors.New("no hurricane records available")

	// ErrNoWindData is returned when records exist but none has a wind speed.
	ErrNoWindData = errors.New("no maximum wind speeds available")
)

// WindRange is an inclusive range of maximum sustained wind in knots.
type WindRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether kt lies within the range, bounds included.
func (w WindRange) Contains(kt int) bool {
	return w.Min <= kt && kt <= w.Max
}

// FilterOptions are the choices offered to the user, derived from a table.
type FilterOptions struct {
	Years      []int     `json:"years"`
	Categories []string  `json:"categories"`
	Wind       WindRange `json:"wind"`
}

// BuildOptions collects the distinct years and categories of the table and
// the min/max wind speed. Years and categories are sorted ascending.
func BuildOptions(t *Table) (FilterOptions, error) {
	if t == nil || t.Len() == 0 {
		return FilterOptions{}, ErrEmptyTable
	}

	var (
		years      []int
		categories []string
		winds      stats.Float64Data
	)
	for _, r := range t.records {
		if r.Year != nil {
			years = append(years, *r.Year)
		}
		if r.Category != nil {
			categories = append(categories, *r.Category)
		}
		if r.MaxWindKt != nil {
			winds = append(winds, float64(*r.MaxWindKt))
		}
	}

	wind, err := windRange(winds)
	if err != nil {
		return FilterOptions{}, err
	}

	slices.Sort(years)
	slices.Sort(categories)
	return FilterOptions{
		Years:      slices.Compact(years),
		Categories: slices.Compact(categories),
		Wind:       wind,
	}, nil
}

func windRange(winds stats.Float64Data) (WindRange, error) {
	if len(winds) == 0 {
		return WindRange{}, ErrNoWindData
	}
	lo, err := stats.Min(winds)
	if err != nil {
		return WindRange{}, fmt.Errorf("min wind: %w", err)
	}
	hi, err := stats.Max(winds)
	if err != nil {
		return WindRange{}, fmt.Errorf("max wind: %w", err)
	}
	return WindRange{Min: int(lo), Max: int(hi)}, nil
}
