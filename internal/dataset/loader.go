// Package dataset reads a hurricane track file and cleans it into a
// domain.Table.
package dataset

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/couchcryptid/hurricane-viewer/internal/domain"
	"github.com/couchcryptid/hurricane-viewer/internal/observability"
	"github.com/jonboulle/clockwork"
	"github.com/xuri/excelize/v2"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Report counts what happened to the source rows during cleaning.
type Report struct {
	RowsRead           int  `json:"rows_read"`
	RowsKept           int  `json:"rows_kept"`
	DroppedMissingName int  `json:"dropped_missing_name"`
	HeaderRow          bool `json:"header_row"`
	DateFailures       int  `json:"date_failures"`
	LatitudeFailures   int  `json:"latitude_failures"`
	LongitudeFailures  int  `json:"longitude_failures"`
	WindFailures       int  `json:"wind_failures"`
}

// Loader reads track files. It holds no dataset state between loads.
type Loader struct {
	headerLines int
	clock       clockwork.Clock
	logger      *slog.Logger
	metrics     *observability.Metrics
}

// NewLoader creates a Loader that skips headerLines metadata lines at the
// top of each file. A nil clock uses the real clock, a nil logger discards
// and nil metrics are not recorded.
func NewLoader(headerLines int, clock clockwork.Clock, logger *slog.Logger, metrics *observability.Metrics) *Loader {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{
		headerLines: headerLines,
		clock:       clock,
		logger:      logger,
		metrics:     metrics,
	}
}

// Load reads path (CSV, or .xlsx by extension), validates its layout, and
// returns the cleaned table. Missing files, a mismatched header row, and
// rows with the wrong number of fields are errors; unparsable values are not.
func (l *Loader) Load(ctx context.Context, path string) (*domain.Table, Report, error) {
	c := &cleaner{}

	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		err = readXLSX(ctx, path, l.headerLines, c.add)
	} else {
		err = readCSVFile(ctx, path, l.headerLines, c.add)
	}
	if err != nil {
		return nil, Report{}, fmt.Errorf("load dataset %s: %w", path, err)
	}

	table := domain.NewTable(c.records, path, l.clock.Now())
	l.record(path, c.report)
	return table, c.report, nil
}

func (l *Loader) record(path string, r Report) {
	l.logger.Info("dataset loaded",
		"path", path,
		"rows_read", r.RowsRead,
		"rows_kept", r.RowsKept,
		"dropped_missing_name", r.DroppedMissingName,
		"header_row", r.HeaderRow,
	)
	if r.DateFailures+r.LatitudeFailures+r.LongitudeFailures+r.WindFailures > 0 {
		l.logger.Warn("unparsable values set missing",
			"date", r.DateFailures,
			"latitude", r.LatitudeFailures,
			"longitude", r.LongitudeFailures,
			"max_wind", r.WindFailures,
		)
	}

	if l.metrics == nil {
		return
	}
	l.metrics.RecordsLoaded.Set(float64(r.RowsKept))
	l.metrics.DatasetLoaded.Set(1)
	l.metrics.RowsDropped.WithLabelValues("missing_name").Add(float64(r.DroppedMissingName))
	l.metrics.FieldParseFailures.WithLabelValues("date").Add(float64(r.DateFailures))
	l.metrics.FieldParseFailures.WithLabelValues("latitude").Add(float64(r.LatitudeFailures))
	l.metrics.FieldParseFailures.WithLabelValues("longitude").Add(float64(r.LongitudeFailures))
	l.metrics.FieldParseFailures.WithLabelValues("max_wind").Add(float64(r.WindFailures))
}

// cleaner accumulates parsed rows, dropping those without a storm name.
type cleaner struct {
	records []domain.Record
	report  Report
	started bool
}

func (c *cleaner) add(line int, fields []string) error {
	if !c.started {
		c.started = true
		if domain.IsHeaderRow(fields) {
			if err := domain.ValidateHeader(fields); err != nil {
				return fmt.Errorf("line %d: %w", line, err)
			}
			c.report.HeaderRow = true
			return nil
		}
	}

	c.report.RowsRead++
	rec, failed, err := domain.ParseRow(fields)
	if err != nil {
		return fmt.Errorf("line %d: %w", line, err)
	}
	c.countFailures(failed)

	if rec.Name == "" {
		c.report.DroppedMissingName++
		return nil
	}
	c.records = append(c.records, rec)
	c.report.RowsKept++
	return nil
}

func (c *cleaner) countFailures(f domain.FieldFailures) {
	if f.Date {
		c.report.DateFailures++
	}
	if f.Latitude {
		c.report.LatitudeFailures++
	}
	if f.Longitude {
		c.report.LongitudeFailures++
	}
	if f.MaxWind {
		c.report.WindFailures++
	}
}

// rowFunc receives each data row with its 1-based line number in the source.
type rowFunc func(line int, fields []string) error

func readCSVFile(ctx context.Context, path string, skip int, fn rowFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer f.Close()
	return readCSV(ctx, f, skip, fn)
}

// readCSV skips the first skip lines verbatim (metadata lines need not be
// valid CSV) and hands every remaining record to fn.
func readCSV(ctx context.Context, r io.Reader, skip int, fn rowFunc) error {
	br := bufio.NewReader(r)
	if prefix, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(prefix, utf8BOM) {
		br.Discard(len(utf8BOM)) //nolint:errcheck // peeked bytes are buffered
	}

	for i := 0; i < skip; i++ {
		if _, err := br.ReadString('\n'); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("skip metadata line %d: %w", i+1, err)
		}
	}

	cr := csv.NewReader(br)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read csv: %w", err)
		}
		line, _ := cr.FieldPos(0)
		if err := fn(skip+line, fields); err != nil {
			return err
		}
	}
}

// readXLSX reads the first sheet of a workbook. Spreadsheets omit trailing
// empty cells, so short rows are padded to the full column count; rows with
// no cells at all are skipped.
func readXLSX(ctx context.Context, path string, skip int, fn rowFunc) error {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}

	for i, row := range rows {
		if i < skip || len(row) == 0 {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if len(row) < domain.ColumnCount {
			row = append(row, make([]string, domain.ColumnCount-len(row))...)
		}
		if err := fn(i+1, row); err != nil {
			return err
		}
	}
	return nil
}
