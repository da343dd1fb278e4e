package compare

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/normalize"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/report"
)

// ToleranceMode selects how a numeric tolerance value is interpreted.
type ToleranceMode int

const (
	ToleranceAbsolute ToleranceMode = iota
	TolerancePercentage
)

func ParseToleranceMode(s string) (ToleranceMode, error) {
	switch s {
	case "", "absolute":
		return ToleranceAbsolute, nil
	case "percentage":
		return TolerancePercentage, nil
	}
	return 0, errors.Newf("unknown tolerance mode %q (want absolute or percentage)", s)
}

// Tolerance is the optional numeric slack applied when both sides of a field
// comparison are numeric. The zero value means exact equality.
type Tolerance struct {
	Value float64
	Mode  ToleranceMode
}

func (t Tolerance) enabled() bool {
	return t.Value > 0
}

// withinTolerance reports whether two numeric values agree under the
// tolerance. Percentage mode is relative to the source-side magnitude.
func (t Tolerance) withinTolerance(source, target recset.Value) bool {
	sd, sok := source.AsDecimal()
	td, tok := target.AsDecimal()
	if !sok || !tok {
		return false
	}
	sf, _ := sd.Float64()
	tf, _ := td.Float64()
	diff := math.Abs(sf - tf)
	limit := t.Value
	if t.Mode == TolerancePercentage {
		limit = math.Abs(sf) * t.Value / 100
	}
	return diff <= limit
}

// fieldList computes the fields compared for every matched pair: the union of
// both schemas in source-then-target order, minus key fields, minus omitted
// columns.
func fieldList(source, target *recset.Schema, key KeySpec, omit map[string]struct{}) []string {
	var fields []string
	add := func(name string) {
		if key.Contains(name) {
			return
		}
		if _, ok := omit[name]; ok {
			return
		}
		fields = append(fields, name)
	}
	for _, f := range source.Fields() {
		add(f)
	}
	for _, f := range target.Fields() {
		if !source.HasField(f) {
			add(f)
		}
	}
	return fields
}

// pairDiff holds the disagreeing fields of one matched pair, rendered for
// reporting.
type pairDiff struct {
	fields     []string
	sourceVals []string
	targetVals []string
}

// diffPair compares every field of a matched pair and feeds one verdict per
// field into the verdict sink. A field missing from one side's schema is a
// structural mismatch, not a skip.
func diffPair(
	pair matchedPair,
	fields []string,
	norm *normalize.Normalizer,
	tol Tolerance,
	verdict func(field string, agree bool),
) pairDiff {
	var d pairDiff
	for _, field := range fields {
		sv, sok := pair.source.Get(field)
		tv, tok := pair.target.Get(field)

		var agree bool
		switch {
		case !sok || !tok:
			agree = false
		default:
			agree = fieldsAgree(sv, tv, norm, tol)
		}
		verdict(field, agree)
		if agree {
			continue
		}

		d.fields = append(d.fields, field)
		d.sourceVals = append(d.sourceVals, renderSide(sv, sok))
		d.targetVals = append(d.targetVals, renderSide(tv, tok))
	}
	return d
}

// fieldsAgree applies the precedence the engine guarantees: omission
// equivalence first, then numeric tolerance, then exact normalized equality.
func fieldsAgree(sv, tv recset.Value, norm *normalize.Normalizer, tol Tolerance) bool {
	if eq, resolved := norm.ResolveNull(sv, tv); resolved {
		return eq
	}
	if tol.enabled() && sv.IsNumeric() && tv.IsNumeric() {
		return tol.withinTolerance(sv, tv)
	}
	return norm.Equal(sv, tv)
}

func renderSide(v recset.Value, present bool) string {
	if !present {
		return report.AbsentValue
	}
	return v.String()
}
