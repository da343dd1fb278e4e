// Package export renders finished comparison results and quality reports to
// JSON files, CSV files, and console summary tables. It contains no
// comparison logic; both inputs are plain serializable structures.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/quality"
)

// Bundle groups one comparison result with the per-side quality reports
// produced in the same run.
type Bundle struct {
	Result        *compare.Result `json:"result"`
	SourceQuality *quality.Report `json:"source_quality,omitempty"`
	TargetQuality *quality.Report `json:"target_quality,omitempty"`
}

func WriteJSON(w io.Writer, b Bundle) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(b)
}

func WriteJSONFile(path string, b Bundle) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	return WriteJSON(f, b)
}

// WriteCSV writes the result's summary, per-field delta table, and missing
// key lists as separate CSV files under dir.
func WriteCSV(dir string, res *compare.Result) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	if err := writeCSVFile(dir, res.Comparison+"_summary.csv",
		[]string{"metric", "value"},
		[][]string{
			{"source_count", strconv.Itoa(res.SourceCount)},
			{"target_count", strconv.Itoa(res.TargetCount)},
			{"matched_pairs", strconv.Itoa(res.MatchedPairs)},
			{"missing_in_target", strconv.Itoa(res.MissingInTarget)},
			{"missing_in_source", strconv.Itoa(res.MissingInSource)},
			{"comparisons_total", strconv.Itoa(res.ComparisonsTotal)},
			{"comparisons_agreed", strconv.Itoa(res.ComparisonsAgreed)},
			{"match_percentage", fmt.Sprintf("%.2f", res.MatchPercentage)},
			{"perfect_match", strconv.FormatBool(res.PerfectMatch)},
		},
	); err != nil {
		return err
	}

	deltaRows := make([][]string, len(res.FieldDeltas))
	for i, d := range res.FieldDeltas {
		deltaRows[i] = []string{d.Field, strconv.Itoa(d.Deltas), strconv.Itoa(d.Comparisons)}
	}
	if err := writeCSVFile(dir, res.Comparison+"_field_deltas.csv",
		[]string{"field", "deltas", "comparisons"}, deltaRows); err != nil {
		return err
	}

	if len(res.MissingInTargetKeys) > 0 {
		if err := writeKeyCSV(dir, res.Comparison+"_missing_in_target.csv", res.MissingInTargetKeys); err != nil {
			return err
		}
	}
	if len(res.MissingInSourceKeys) > 0 {
		if err := writeKeyCSV(dir, res.Comparison+"_missing_in_source.csv", res.MissingInSourceKeys); err != nil {
			return err
		}
	}
	return nil
}

func writeKeyCSV(dir, name string, keys []compare.RecordKey) error {
	rows := make([][]string, len(keys))
	for i, k := range keys {
		rows[i] = []string{strings.Join(k.Columns, ";"), strings.Join(k.Values, ";")}
	}
	return writeCSVFile(dir, name, []string{"key_columns", "key_values"}, rows)
}

func writeCSVFile(dir, name string, header []string, rows [][]string) error {
	f, err := os.Create(filepath.Join(dir, name))
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}
