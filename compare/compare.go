// Package compare implements the cross-source comparison engine: it aligns
// two record sets on a primary key, diffs every matched pair field by field
// under omission and tolerance rules, and assembles an immutable Result.
//
// A comparison invocation is a pure function of its inputs: the engine holds
// no process-wide state, performs no I/O, and independent invocations may run
// concurrently without coordination.
package compare

import (
	"fmt"

	"github.com/dataqe/recon/monitor"
	"github.com/dataqe/recon/normalize"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/report"
)

type Option func(*options)

type options struct {
	name            string
	omitColumns     []string
	omitValues      []string
	tolerance       Tolerance
	caseInsensitive bool
	reporter        report.Reporter
	monitor         *monitor.Monitor
}

func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithOmitColumns excludes the named fields from field-level comparison.
// Records remain subject to existence checks either way.
func WithOmitColumns(columns ...string) Option {
	return func(o *options) {
		o.omitColumns = append(o.omitColumns, columns...)
	}
}

// WithOmitValues declares scalar string forms that compare equal to each
// other and to NULL.
func WithOmitValues(values ...string) Option {
	return func(o *options) {
		o.omitValues = append(o.omitValues, values...)
	}
}

func WithTolerance(t Tolerance) Option {
	return func(o *options) {
		o.tolerance = t
	}
}

func WithCaseInsensitive(b bool) Option {
	return func(o *options) {
		o.caseInsensitive = b
	}
}

// WithReporter streams detail findings (missing records, mismatching fields)
// to the given reporter as they are discovered.
func WithReporter(r report.Reporter) Option {
	return func(o *options) {
		o.reporter = r
	}
}

// WithMonitor attaches performance instrumentation; the run stats land on
// Result.Performance.
func WithMonitor(m *monitor.Monitor) Option {
	return func(o *options) {
		o.monitor = m
	}
}

type nopReporter struct{}

func (nopReporter) Report(report.ReportableObject) {}
func (nopReporter) Close()                         {}

// Compare aligns and diffs two record sets under the given primary-key spec.
// Configuration errors (empty or unknown key fields) are returned before any
// alignment begins; data-level anomalies never fail the run and surface in
// the Result and via the reporter instead.
func Compare(
	source, target *recset.RecordSet, key KeySpec, opts ...Option,
) (*Result, error) {
	o := options{
		name:     "comparison",
		reporter: nopReporter{},
	}
	for _, applyOpt := range opts {
		applyOpt(&o)
	}

	if err := key.Validate(source.Schema(), target.Schema()); err != nil {
		o.monitor.Cancel()
		return nil, err
	}

	norm := normalize.New(normalize.Config{
		OmitValues:      o.omitValues,
		CaseInsensitive: o.caseInsensitive,
	})
	omit := make(map[string]struct{}, len(o.omitColumns))
	for _, c := range o.omitColumns {
		omit[c] = struct{}{}
	}

	builder := newResultBuilder(o.name, source.NumRecords(), target.NumRecords())
	o.monitor.AddRecords(source.NumRecords() + target.NumRecords())

	builder.beginAlign()
	endAlign := o.monitor.StartStage("align")
	aligned := alignRecords(source, target, key, norm)
	endAlign()

	for _, rec := range aligned.sourceOnly {
		keyVals := key.KeyValues(rec)
		builder.recordMissingInTarget(RecordKey{Columns: key, Values: keyVals})
		o.reporter.Report(report.MissingRecord{
			Comparison: o.name,
			KeyColumns: key,
			KeyValues:  keyVals,
			Columns:    rec.Fields(),
			Values:     renderValues(rec.Values()),
		})
	}
	for _, rec := range aligned.targetOnly {
		keyVals := key.KeyValues(rec)
		builder.recordMissingInSource(RecordKey{Columns: key, Values: keyVals})
		o.reporter.Report(report.ExtraneousRecord{
			Comparison: o.name,
			KeyColumns: key,
			KeyValues:  keyVals,
		})
	}

	fields := fieldList(source.Schema(), target.Schema(), key, omit)
	builder.beginDiff(fields)
	endDiff := o.monitor.StartStage("diff")
	for _, pair := range aligned.pairs {
		builder.addPair()
		d := diffPair(pair, fields, norm, o.tolerance, builder.addVerdict)
		if len(d.fields) > 0 {
			o.reporter.Report(report.MismatchingRecord{
				Comparison:        o.name,
				KeyColumns:        key,
				KeyValues:         key.KeyValues(pair.source),
				MismatchingFields: d.fields,
				SourceValues:      d.sourceVals,
				TargetValues:      d.targetVals,
			})
		}
	}
	endDiff()

	res := builder.finalize()
	if o.monitor != nil {
		stats := o.monitor.Finish()
		res.Performance = &stats
	}
	o.reporter.Report(report.StatusReport{
		Info: fmt.Sprintf(
			"finished %s: %d pairs, %d missing in target, %d missing in source, match %.2f%%",
			o.name, res.MatchedPairs, res.MissingInTarget, res.MissingInSource, res.MatchPercentage,
		),
	})
	return res, nil
}

func renderValues(vals []recset.Value) []string {
	ret := make([]string, len(vals))
	for i, v := range vals {
		ret[i] = v.String()
	}
	return ret
}
