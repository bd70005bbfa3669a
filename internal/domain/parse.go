package domain

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

var (
	// ErrFieldCount is returned when a row does not have exactly ColumnCount fields.
	ErrFieldCount = errors.New("wrong field count")

	// ErrSchemaMismatch is returned when a column header row does not match
	// the positional schema.
	ErrSchemaMismatch = errors.New("column header does not match schema")
)

// headerAliases lists the lowercase words accepted for each column label.
// A label matches its position when one of its words equals an alias, or
// starts with an alias of at least minPrefixAlias characters.
var headerAliases = [ColumnCount][]string{
	ColRank:      {"rank"},
	ColSequence:  {"#", "seq", "num", "no"},
	ColDate:      {"date"},
	ColTime:      {"time"},
	ColLatitude:  {"lat"},
	ColLongitude: {"lon"},
	ColMaxWind:   {"wind"},
	ColCategory:  {"ss", "saffir", "cat"},
	ColRMW:       {"rmw", "radius"},
	ColPressure:  {"pressure", "mb"},
	ColStates:    {"state"},
	ColName:      {"name"},
}

const minPrefixAlias = 3

// IsHeaderRow reports whether fields look like a column header row rather
// than data: at least half of the labels match their column. A header with a
// few wrong labels is still detected so ValidateHeader can reject it.
func IsHeaderRow(fields []string) bool {
	if len(fields) != ColumnCount {
		return false
	}
	matched := 0
	for i, label := range fields {
		if labelMatches(i, label) {
			matched++
		}
	}
	return matched*2 >= ColumnCount
}

// ValidateHeader checks a header row positionally against Columns.
func ValidateHeader(fields []string) error {
	if len(fields) != ColumnCount {
		return fmt.Errorf("%w: header has %d columns, want %d", ErrSchemaMismatch, len(fields), ColumnCount)
	}
	for i, label := range fields {
		if !labelMatches(i, label) {
			return fmt.Errorf("%w: column %d is %q, want %q", ErrSchemaMismatch, i+1, strings.TrimSpace(label), Columns[i])
		}
	}
	return nil
}

func labelMatches(pos int, label string) bool {
	words := strings.FieldsFunc(strings.ToLower(label), func(r rune) bool {
		return r != '#' && !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, word := range words {
		for _, alias := range headerAliases[pos] {
			if word == alias || (len(alias) >= minPrefixAlias && strings.HasPrefix(word, alias)) {
				return true
			}
		}
	}
	return false
}

// ParseRow converts one positional row into a Record. Unparsable values
// become nil and are reported in the returned FieldFailures. The name is
// trimmed but not checked; dropping blank names is the cleaner's job.
func ParseRow(fields []string) (Record, FieldFailures, error) {
	if len(fields) != ColumnCount {
		return Record{}, FieldFailures{}, fmt.Errorf("%w: got %d, want %d", ErrFieldCount, len(fields), ColumnCount)
	}

	var failed FieldFailures
	date, ok := parseDate(fields[ColDate])
	failed.Date = !ok
	lat, ok := parseFloat(fields[ColLatitude])
	failed.Latitude = !ok
	lon, ok := parseFloat(fields[ColLongitude])
	failed.Longitude = !ok
	wind, ok := parseKnots(fields[ColMaxWind])
	failed.MaxWind = !ok
	rmw, _ := parseFloat(fields[ColRMW])
	pressure, _ := parseFloat(fields[ColPressure])

	rec := Record{
		Rank:              strings.TrimSpace(fields[ColRank]),
		SequenceNumber:    strings.TrimSpace(fields[ColSequence]),
		Date:              date,
		Time:              strings.TrimSpace(fields[ColTime]),
		Latitude:          lat,
		Longitude:         lon,
		MaxWindKt:         wind,
		Category:          parseLabel(fields[ColCategory]),
		RadiusOfMaxWindNm: rmw,
		CentralPressureMb: pressure,
		StatesAffected:    strings.TrimSpace(fields[ColStates]),
		Name:              strings.TrimSpace(fields[ColName]),
		Year:              deriveYear(date),
	}
	return rec, failed, nil
}

// parseDate accepts any layout dateparse recognises (ISO, m/d/yyyy, month
// names, with or without a time). The second result is false only when a
// non-blank value failed to parse.
func parseDate(s string) (*time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	t, err := dateparse.ParseIn(s, time.UTC)
	if err != nil {
		return nil, false
	}
	return &t, true
}

func deriveYear(date *time.Time) *int {
	if date == nil {
		return nil
	}
	y := date.Year()
	return &y
}

// parseFloat returns nil for blank, non-numeric, NaN or infinite input.
func parseFloat(s string) (*float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return nil, false
	}
	return &v, true
}

// MaxKnots is the largest wind speed accepted from the source file and in a
// selection. Values outside [0, MaxKnots] are treated as unparsable.
const MaxKnots = 1000

// parseKnots parses an integer wind speed. Whole-valued decimals like
// "150.0" are accepted since spreadsheet exports often write them.
func parseKnots(s string) (*int, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, true
	}
	f, ok := parseFloat(s)
	if f == nil || !ok || *f != math.Trunc(*f) || *f < 0 || *f > MaxKnots {
		return nil, false
	}
	n := int(*f)
	return &n, true
}

func parseLabel(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
