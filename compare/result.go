package compare

import (
	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/monitor"
)

// FieldDelta is the per-field tally over all matched pairs.
type FieldDelta struct {
	Field       string `json:"field"`
	Deltas      int    `json:"deltas"`
	Comparisons int    `json:"comparisons"`
}

// RecordKey is a primary-key tuple rendered for export.
type RecordKey struct {
	Columns []string `json:"columns"`
	Values  []string `json:"values"`
}

// Result is the immutable outcome of one comparison run. It is assembled
// exactly once and is a plain serializable structure so any exporter can
// render it.
type Result struct {
	Comparison string `json:"comparison"`

	SourceCount  int `json:"source_count"`
	TargetCount  int `json:"target_count"`
	MatchedPairs int `json:"matched_pairs"`

	MissingInTarget     int         `json:"missing_in_target"`
	MissingInSource     int         `json:"missing_in_source"`
	MissingInTargetKeys []RecordKey `json:"missing_in_target_keys,omitempty"`
	MissingInSourceKeys []RecordKey `json:"missing_in_source_keys,omitempty"`

	FieldDeltas       []FieldDelta `json:"field_deltas"`
	ComparisonsTotal  int          `json:"comparisons_total"`
	ComparisonsAgreed int          `json:"comparisons_agreed"`

	MatchPercentage float64 `json:"match_percentage"`
	PerfectMatch    bool    `json:"perfect_match"`

	Performance *monitor.RunStats `json:"performance,omitempty"`
}

// The result lifecycle is strictly sequential and single-pass:
// empty -> aligning -> diffing -> finalized. Using the builder out of phase is a
// programming-contract violation and panics rather than silently corrupting
// a finalized result.
type resultPhase int

const (
	phaseEmpty resultPhase = iota
	phaseAligning
	phaseDiffing
	phaseFinalized
)

func (p resultPhase) String() string {
	switch p {
	case phaseEmpty:
		return "empty"
	case phaseAligning:
		return "aligning"
	case phaseDiffing:
		return "diffing"
	case phaseFinalized:
		return "finalized"
	}
	return "unknown"
}

type resultBuilder struct {
	phase resultPhase
	res   Result

	fieldOrder []string
	deltas     map[string]*FieldDelta
}

func newResultBuilder(name string, sourceCount, targetCount int) *resultBuilder {
	return &resultBuilder{
		res: Result{
			Comparison:  name,
			SourceCount: sourceCount,
			TargetCount: targetCount,
		},
		deltas: map[string]*FieldDelta{},
	}
}

func (b *resultBuilder) advance(from, to resultPhase) {
	if b.phase != from {
		panic(errors.AssertionFailedf(
			"comparison lifecycle violation: in phase %s, expected %s", b.phase, from))
	}
	b.phase = to
}

func (b *resultBuilder) requirePhase(p resultPhase) {
	if b.phase != p {
		panic(errors.AssertionFailedf(
			"comparison lifecycle violation: in phase %s, expected %s", b.phase, p))
	}
}

func (b *resultBuilder) beginAlign() {
	b.advance(phaseEmpty, phaseAligning)
}

func (b *resultBuilder) recordMissingInTarget(key RecordKey) {
	b.requirePhase(phaseAligning)
	b.res.MissingInTarget++
	b.res.MissingInTargetKeys = append(b.res.MissingInTargetKeys, key)
}

func (b *resultBuilder) recordMissingInSource(key RecordKey) {
	b.requirePhase(phaseAligning)
	b.res.MissingInSource++
	b.res.MissingInSourceKeys = append(b.res.MissingInSourceKeys, key)
}

func (b *resultBuilder) beginDiff(fields []string) {
	b.advance(phaseAligning, phaseDiffing)
	b.fieldOrder = fields
	for _, f := range fields {
		b.deltas[f] = &FieldDelta{Field: f}
	}
}

func (b *resultBuilder) addPair() {
	b.requirePhase(phaseDiffing)
	b.res.MatchedPairs++
}

func (b *resultBuilder) addVerdict(field string, agree bool) {
	b.requirePhase(phaseDiffing)
	d, ok := b.deltas[field]
	if !ok {
		panic(errors.AssertionFailedf("verdict for unknown field %q", field))
	}
	d.Comparisons++
	b.res.ComparisonsTotal++
	if agree {
		b.res.ComparisonsAgreed++
	} else {
		d.Deltas++
	}
}

// finalize seals the result. The builder must not be touched afterwards.
func (b *resultBuilder) finalize() *Result {
	b.advance(phaseDiffing, phaseFinalized)

	b.res.FieldDeltas = make([]FieldDelta, 0, len(b.fieldOrder))
	totalDeltas := 0
	for _, f := range b.fieldOrder {
		b.res.FieldDeltas = append(b.res.FieldDeltas, *b.deltas[f])
		totalDeltas += b.deltas[f].Deltas
	}

	if b.res.ComparisonsTotal == 0 {
		b.res.MatchPercentage = 100.0
	} else {
		b.res.MatchPercentage =
			float64(b.res.ComparisonsAgreed) / float64(b.res.ComparisonsTotal) * 100.0
	}
	b.res.PerfectMatch = b.res.MissingInTarget == 0 &&
		b.res.MissingInSource == 0 &&
		totalDeltas == 0

	res := b.res
	return &res
}
