package viewer

import (
	"slices"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
)

// Selection is what the user picked in the UI or passed in the query string.
//
// A nil Years or Categories slice means "not specified" and resolves to every
// option; a non-nil empty slice means nothing is selected. Nil wind bounds
// resolve to the table's wind range.
type Selection struct {
	Years      []int
	Categories []string
	MinWind    *int
	MaxWind    *int
	Storm      string
}

// Filter resolves the selection against the available options.
func (s Selection) Filter(opts domain.FilterOptions) domain.Filter {
	f := domain.DefaultFilter(opts)
	if s.Years != nil {
		f.Years = slices.Clone(s.Years)
	}
	if s.Categories != nil {
		f.Categories = slices.Clone(s.Categories)
	}
	if s.MinWind != nil {
		f.Wind.Min = *s.MinWind
	}
	if s.MaxWind != nil {
		f.Wind.Max = *s.MaxWind
	}
	return f
}
