package http

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/hurricane-viewer/internal/viewer"
	"github.com/go-playground/validator/v10"
)

// windParams holds the optional wind bounds from the query string.
type windParams struct {
	Min *int `validate:"omitempty,gte=0,lte=1000"`
	Max *int `validate:"omitempty,gte=0,lte=1000"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// parseSelection reads year, category, min_wind, max_wind and storm from q.
// A list parameter that is absent selects every option; one that is present
// with only empty values selects nothing, which lets an HTML form send an
// empty hidden value to clear a multi-select.
func parseSelection(q url.Values) (viewer.Selection, error) {
	var sel viewer.Selection

	if q.Has("year") {
		sel.Years = make([]int, 0, len(q["year"]))
		for _, v := range nonEmpty(q["year"]) {
			y, err := strconv.Atoi(v)
			if err != nil {
				return viewer.Selection{}, fmt.Errorf("year %q is not an integer", v)
			}
			sel.Years = append(sel.Years, y)
		}
	}
	if q.Has("category") {
		sel.Categories = append(make([]string, 0, len(q["category"])), nonEmpty(q["category"])...)
	}

	var wind windParams
	var err error
	if wind.Min, err = optionalInt(q, "min_wind"); err != nil {
		return viewer.Selection{}, err
	}
	if wind.Max, err = optionalInt(q, "max_wind"); err != nil {
		return viewer.Selection{}, err
	}
	if err := validateWind(wind); err != nil {
		return viewer.Selection{}, err
	}
	sel.MinWind, sel.MaxWind = wind.Min, wind.Max

	sel.Storm = strings.TrimSpace(q.Get("storm"))
	return sel, nil
}

func validateWind(w windParams) error {
	if err := validate.Struct(w); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return fmt.Errorf("%s_wind must be between 0 and 1000", strings.ToLower(verrs[0].Field()))
		}
		return fmt.Errorf("validate wind range: %w", err)
	}
	if w.Min != nil && w.Max != nil {
		if err := validate.VarWithValue(*w.Max, *w.Min, "gtefield"); err != nil {
			return errors.New("max_wind must be greater than or equal to min_wind")
		}
	}
	return nil
}

func optionalInt(q url.Values, key string) (*int, error) {
	s := strings.TrimSpace(q.Get(key))
	if s == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%s %q is not an integer", key, s)
	}
	return &n, nil
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
