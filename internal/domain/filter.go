package domain

import "slices"

// Filter is a conjunctive selection over records. An empty Years or
// Categories set matches nothing.
type Filter struct {
	Years      []int     `json:"years"`
	Categories []string  `json:"categories"`
	Wind       WindRange `json:"wind"`
}

// DefaultFilter selects every option, so it narrows nothing that the
// options describe.
func DefaultFilter(o FilterOptions) Filter {
	return Filter{
		Years:      slices.Clone(o.Years),
		Categories: slices.Clone(o.Categories),
		Wind:       o.Wind,
	}
}

// Matches reports whether r satisfies every condition of f. A record with a
// missing year, category or wind speed never matches.
func (f Filter) Matches(r Record) bool {
	if r.Year == nil || !slices.Contains(f.Years, *r.Year) {
		return false
	}
	if r.Category == nil || !slices.Contains(f.Categories, *r.Category) {
		return false
	}
	if r.MaxWindKt == nil || !f.Wind.Contains(*r.MaxWindKt) {
		return false
	}
	return true
}

// Apply returns the records that match f, in their original order.
// The input slice is not modified.
func Apply(records []Record, f Filter) []Record {
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// StormNames returns the distinct storm names in records, in order of first
// appearance.
func StormNames(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	names := make([]string, 0)
	for _, r := range records {
		if _, ok := seen[r.Name]; ok {
			continue
		}
		seen[r.Name] = struct{}{}
		names = append(names, r.Name)
	}
	return names
}
