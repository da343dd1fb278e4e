package report

import (
	"encoding/json"
	"io"

	"github.com/rs/zerolog"
)

// JSONReporter streams findings as one JSON object per line, suitable for
// piping into downstream tooling.
type JSONReporter struct {
	Writer io.Writer
	Logger zerolog.Logger
}

type jsonRecord struct {
	Type       string   `json:"type"`
	Comparison string   `json:"comparison,omitempty"`
	Side       string   `json:"side,omitempty"`
	KeyColumns []string `json:"key_columns,omitempty"`
	KeyValues  []string `json:"key_values,omitempty"`
	Fields     []string `json:"fields,omitempty"`
	Source     []string `json:"source_values,omitempty"`
	Target     []string `json:"target_values,omitempty"`
	Count      int      `json:"count,omitempty"`
	Info       string   `json:"info,omitempty"`
}

func (r JSONReporter) Report(obj ReportableObject) {
	var rec jsonRecord
	switch obj := obj.(type) {
	case StatusReport:
		rec = jsonRecord{Type: "status", Info: obj.Info}
	case MissingRecord:
		rec = jsonRecord{
			Type:       "missing_in_target",
			Comparison: obj.Comparison,
			KeyColumns: obj.KeyColumns,
			KeyValues:  obj.KeyValues,
			Fields:     obj.Columns,
			Source:     obj.Values,
		}
	case ExtraneousRecord:
		rec = jsonRecord{
			Type:       "missing_in_source",
			Comparison: obj.Comparison,
			KeyColumns: obj.KeyColumns,
			KeyValues:  obj.KeyValues,
		}
	case MismatchingRecord:
		rec = jsonRecord{
			Type:       "mismatch",
			Comparison: obj.Comparison,
			KeyColumns: obj.KeyColumns,
			KeyValues:  obj.KeyValues,
			Fields:     obj.MismatchingFields,
			Source:     obj.SourceValues,
			Target:     obj.TargetValues,
		}
	case DuplicateKey:
		rec = jsonRecord{
			Type:       "duplicate_key",
			Comparison: obj.Comparison,
			Side:       obj.Side,
			KeyColumns: obj.KeyColumns,
			KeyValues:  obj.KeyValues,
			Count:      obj.Count,
		}
	default:
		return
	}
	enc := json.NewEncoder(r.Writer)
	if err := enc.Encode(rec); err != nil {
		r.Logger.Err(err).Msgf("error writing JSON report record")
	}
}

func (r JSONReporter) Close() {
}
