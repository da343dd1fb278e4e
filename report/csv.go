package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

// CSVReporter writes findings into per-category CSV files under Dir, created
// lazily on first finding of each category.
type CSVReporter struct {
	Dir    string
	Logger zerolog.Logger

	files   map[string]*os.File
	writers map[string]*csv.Writer
}

func NewCSVReporter(dir string, logger zerolog.Logger) (*CSVReporter, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &CSVReporter{
		Dir:     dir,
		Logger:  logger,
		files:   map[string]*os.File{},
		writers: map[string]*csv.Writer{},
	}, nil
}

func (r *CSVReporter) writer(category string, header []string) *csv.Writer {
	if w, ok := r.writers[category]; ok {
		return w
	}
	f, err := os.Create(filepath.Join(r.Dir, category+".csv"))
	if err != nil {
		r.Logger.Err(err).Str("category", category).Msgf("error creating CSV report file")
		return nil
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		r.Logger.Err(err).Msgf("error writing CSV header")
	}
	r.files[category] = f
	r.writers[category] = w
	return w
}

func (r *CSVReporter) write(category string, header, row []string) {
	w := r.writer(category, header)
	if w == nil {
		return
	}
	if err := w.Write(row); err != nil {
		r.Logger.Err(err).Str("category", category).Msgf("error writing CSV report row")
	}
}

func (r *CSVReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case MissingRecord:
		r.write(
			"missing_in_target",
			[]string{"comparison", "primary_key", "columns", "values"},
			[]string{
				obj.Comparison,
				strings.Join(zipKeyForReporting(obj.KeyColumns, obj.KeyValues), ";"),
				strings.Join(obj.Columns, ";"),
				strings.Join(obj.Values, ";"),
			},
		)
	case ExtraneousRecord:
		r.write(
			"missing_in_source",
			[]string{"comparison", "primary_key"},
			[]string{
				obj.Comparison,
				strings.Join(zipKeyForReporting(obj.KeyColumns, obj.KeyValues), ";"),
			},
		)
	case MismatchingRecord:
		for i, field := range obj.MismatchingFields {
			r.write(
				"mismatches",
				[]string{"comparison", "primary_key", "field", "source_value", "target_value"},
				[]string{
					obj.Comparison,
					strings.Join(zipKeyForReporting(obj.KeyColumns, obj.KeyValues), ";"),
					field,
					obj.SourceValues[i],
					obj.TargetValues[i],
				},
			)
		}
	case DuplicateKey:
		r.write(
			"duplicates",
			[]string{"comparison", "side", "primary_key", "occurrences"},
			[]string{
				obj.Comparison,
				obj.Side,
				strings.Join(zipKeyForReporting(obj.KeyColumns, obj.KeyValues), ";"),
				strconv.Itoa(obj.Count),
			},
		)
	}
}

func (r *CSVReporter) Close() {
	for category, w := range r.writers {
		w.Flush()
		if err := w.Error(); err != nil {
			r.Logger.Err(err).Str("category", category).Msgf("error flushing CSV report")
		}
	}
	for _, f := range r.files {
		_ = f.Close()
	}
}
