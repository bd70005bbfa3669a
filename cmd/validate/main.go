// Command validate checks a hurricane track file offline with the same loader
// the viewer uses. It verifies the file layout, the cleaning invariants, that
// filter options can be built, and that every storm can be mapped.
//
// Usage:
//
//	go run ./cmd/validate -data data/Hurricane_Data.csv -header-lines 2
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/couchcryptid/hurricane-viewer/internal/dataset"
	"github.com/couchcryptid/hurricane-viewer/internal/domain"
)

// phase tracks pass/fail for a validation phase.
type phase struct {
	name   string
	errors []string
}

func (p *phase) errorf(format string, args ...any) {
	p.errors = append(p.errors, fmt.Sprintf(format, args...))
}

func (p *phase) passed() bool { return len(p.errors) == 0 }

func main() {
	dataPath := flag.String("data", "", "path to the hurricane track CSV or XLSX file")
	headerLines := flag.Int("header-lines", 2, "metadata lines to skip before the column header")
	flag.Parse()

	if *dataPath == "" || *headerLines < 0 {
		flag.Usage()
		os.Exit(1)
	}

	if code := run(os.Stdout, *dataPath, *headerLines); code != 0 {
		os.Exit(code)
	}
}

func run(out io.Writer, path string, headerLines int) int {
	fmt.Fprintln(out, "=== Hurricane Data Validation ===")
	fmt.Fprintln(out)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	loader := dataset.NewLoader(headerLines, nil, logger, nil)

	schema := &phase{name: "Phase 1: Schema (header and field counts)"}
	table, report, err := loader.Load(context.Background(), path)
	if err != nil {
		schema.errorf("%v", err)
		return finish(out, []*phase{schema})
	}

	phases := []*phase{
		schema,
		validateCleaning(table),
		validateOptions(table),
		validateMapping(table),
	}

	fmt.Fprintf(out, "Rows: %d read, %d kept, %d dropped for a missing name\n",
		report.RowsRead, report.RowsKept, report.DroppedMissingName)
	fmt.Fprintf(out, "Unparsable values set missing: %d date, %d latitude, %d longitude, %d wind\n",
		report.DateFailures, report.LatitudeFailures, report.LongitudeFailures, report.WindFailures)

	return finish(out, phases)
}

func finish(out io.Writer, phases []*phase) int {
	fmt.Fprintln(out)
	allPassed := true
	for _, p := range phases {
		status := "\033[32mPASS\033[0m"
		if !p.passed() {
			status = fmt.Sprintf("\033[31mFAIL (%d errors)\033[0m", len(p.errors))
			allPassed = false
		}
		fmt.Fprintf(out, "  %-42s %s\n", p.name, status)
	}

	// Print detailed errors.
	for _, p := range phases {
		if p.passed() {
			continue
		}
		fmt.Fprintf(out, "\n--- %s ---\n", p.name)
		for i, e := range p.errors {
			fmt.Fprintf(out, "  [%d] %s\n", i+1, e)
		}
	}

	if allPassed {
		fmt.Fprintln(out, "\nAll validations passed.")
		return 0
	}
	fmt.Fprintln(out, "\nValidation FAILED.")
	return 1
}

// ── Phase 2: Cleaning ──
// Every kept record is named, and its year agrees with its date.

func validateCleaning(t *domain.Table) *phase {
	p := &phase{name: "Phase 2: Cleaning invariants"}

	for i, r := range t.Records() {
		if r.Name == "" {
			p.errorf("record %d: blank name survived cleaning", i+1)
		}
		switch {
		case r.Date == nil && r.Year != nil:
			p.errorf("record %d (%s): year %d without a date", i+1, r.Name, *r.Year)
		case r.Date != nil && r.Year == nil:
			p.errorf("record %d (%s): date without a year", i+1, r.Name)
		case r.Date != nil && r.Date.Year() != *r.Year:
			p.errorf("record %d (%s): year %d, date %s", i+1, r.Name, *r.Year, r.Date.Format("2006-01-02"))
		}
	}
	return p
}

// ── Phase 3: Options ──
// The default filter needs at least one year, one category and a wind range.

func validateOptions(t *domain.Table) *phase {
	p := &phase{name: "Phase 3: Filter options"}

	opts, err := domain.BuildOptions(t)
	if err != nil {
		p.errorf("%v", err)
		return p
	}
	if len(opts.Years) == 0 {
		p.errorf("no record has a parsable date")
	}
	if len(opts.Categories) == 0 {
		p.errorf("no record has a Saffir-Simpson category")
	}
	if opts.Wind.Min > opts.Wind.Max {
		p.errorf("wind range is inverted: %d > %d", opts.Wind.Min, opts.Wind.Max)
	}
	return p
}

// ── Phase 4: Mapping ──
// Every storm has at least one point inside the geographic bounds.

func validateMapping(t *domain.Table) *phase {
	p := &phase{name: "Phase 4: Mapping"}

	records := t.Records()
	for _, name := range domain.StormNames(records) {
		view := domain.BuildMapView(domain.BuildDetail(records, name))
		if view.Empty() {
			p.errorf("%s: %s", name, view.Warnings[0].Message())
			continue
		}
		for _, pt := range view.Points {
			if !domain.InBounds(pt.Lat, pt.Lon) {
				p.errorf("%s: point %s out of bounds (%v, %v)", name, pt.SequenceNumber, pt.Lat, pt.Lon)
			}
		}
	}
	return p
}
