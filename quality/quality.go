// Package quality inspects a single record set for data-quality defects:
// duplicate primary keys, null density per field, and a derived 0-100 score.
// It runs independently of comparison and never fails on malformed data.
package quality

import (
	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/normalize"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/report"
)

// Options tunes the validator. Weights and thresholds are caller-supplied so
// the engine stays free of hard-coded business rules.
type Options struct {
	// DuplicateCheck enables duplicate primary-key detection.
	DuplicateCheck bool
	// CaseInsensitive folds string key components, so the duplicate
	// definition matches what alignment collapses under the same policy.
	CaseInsensitive bool
	// NullThreshold is the per-field null ratio above which a field is
	// penalized.
	NullThreshold float64
	// DuplicateWeight scales the duplicate-key ratio penalty.
	DuplicateWeight float64
	// NullWeight is the penalty per field whose null ratio exceeds the
	// threshold.
	NullWeight float64
}

func DefaultOptions() Options {
	return Options{
		DuplicateCheck:  true,
		NullThreshold:   0.5,
		DuplicateWeight: 50,
		NullWeight:      10,
	}
}

// FieldNullRatio is the fraction of records whose un-normalized value for a
// field is NULL or an empty string.
type FieldNullRatio struct {
	Field     string  `json:"field"`
	NullCount int     `json:"null_count"`
	Ratio     float64 `json:"ratio"`
}

// DuplicateKey itemizes one duplicated key tuple.
type DuplicateKey struct {
	Values []string `json:"values"`
	Count  int      `json:"count"`
}

// Report is the immutable outcome of validating one record set.
type Report struct {
	Side    string `json:"side,omitempty"`
	Records int    `json:"records"`

	DuplicateKeyCount int            `json:"duplicate_key_count"`
	Duplicates        []DuplicateKey `json:"duplicates,omitempty"`

	NullRatios []FieldNullRatio `json:"null_ratios"`

	Score float64 `json:"score"`
}

// Validate inspects a record set. The key spec may be empty only when
// duplicate checking is disabled; an empty record set scores a perfect 100
// with zero duplicates by definition.
func Validate(set *recset.RecordSet, key compare.KeySpec, opts Options) (*Report, error) {
	if opts.DuplicateCheck {
		if len(key) == 0 {
			return nil, errors.Newf("duplicate check requires a primary key spec")
		}
		for _, field := range key {
			if !set.Schema().HasField(field) {
				return nil, errors.Newf("primary key field %q not in schema", field)
			}
		}
	}

	rep := &Report{Records: set.NumRecords()}
	norm := normalize.New(normalize.Config{CaseInsensitive: opts.CaseInsensitive})

	if opts.DuplicateCheck {
		groupCounts := map[string]int{}
		groupOrder := []string{}
		groupVals := map[string][]string{}
		for i := 0; i < set.NumRecords(); i++ {
			rec := set.Record(i)
			k := key.IndexKey(rec, norm)
			if _, ok := groupCounts[k]; !ok {
				groupOrder = append(groupOrder, k)
				groupVals[k] = key.KeyValues(rec)
			}
			groupCounts[k]++
		}
		for _, k := range groupOrder {
			if n := groupCounts[k]; n > 1 {
				// Each extra occurrence beyond the first is one duplicate.
				rep.DuplicateKeyCount += n - 1
				rep.Duplicates = append(rep.Duplicates, DuplicateKey{
					Values: groupVals[k],
					Count:  n,
				})
			}
		}
	}

	fields := set.Schema().Fields()
	rep.NullRatios = make([]FieldNullRatio, len(fields))
	for fi, field := range fields {
		ratio := FieldNullRatio{Field: field}
		for i := 0; i < set.NumRecords(); i++ {
			v, _ := set.Record(i).Get(field)
			if isNullish(v) {
				ratio.NullCount++
			}
		}
		if set.NumRecords() > 0 {
			ratio.Ratio = float64(ratio.NullCount) / float64(set.NumRecords())
		}
		rep.NullRatios[fi] = ratio
	}

	rep.Score = score(rep, opts)
	return rep, nil
}

// ValidateAndReport runs Validate and streams each duplicate key to the
// reporter, tagged with the side it was found on.
func ValidateAndReport(
	set *recset.RecordSet,
	key compare.KeySpec,
	opts Options,
	side string,
	comparison string,
	reporter report.Reporter,
) (*Report, error) {
	rep, err := Validate(set, key, opts)
	if err != nil {
		return nil, err
	}
	rep.Side = side
	for _, dup := range rep.Duplicates {
		reporter.Report(report.DuplicateKey{
			Comparison: comparison,
			Side:       side,
			KeyColumns: key,
			KeyValues:  dup.Values,
			Count:      dup.Count,
		})
	}
	return rep, nil
}

func isNullish(v recset.Value) bool {
	return v.IsNull() || (v.Kind() == recset.KindString && v.Text() == "")
}

func score(rep *Report, opts Options) float64 {
	s := 100.0
	if rep.Records > 0 {
		dupRatio := float64(rep.DuplicateKeyCount) / float64(rep.Records)
		s -= dupRatio * opts.DuplicateWeight
		for _, nr := range rep.NullRatios {
			if opts.NullThreshold > 0 && nr.Ratio > opts.NullThreshold {
				s -= opts.NullWeight
			}
		}
	}
	if s < 0 {
		return 0
	}
	if s > 100 {
		return 100
	}
	return s
}
