package report

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Reporter interface {
	Report(obj ReportableObject)
	Close()
}

type CombinedReporter struct {
	Reporters []Reporter
}

func (c CombinedReporter) Report(obj ReportableObject) {
	for _, r := range c.Reporters {
		r.Report(obj)
	}
}

func (c CombinedReporter) Close() {
	for _, r := range c.Reporters {
		r.Close()
	}
}

// LogReporter reports to `zerolog`.
type LogReporter struct {
	zerolog.Logger
}

func (l LogReporter) Report(obj ReportableObject) {
	switch obj := obj.(type) {
	case StatusReport:
		l.Info().Msg(obj.Info)
	case MissingRecord:
		l.Warn().
			Str("comparison", obj.Comparison).
			Strs("primary_key", zipKeyForReporting(obj.KeyColumns, obj.KeyValues)).
			Msgf("record missing from target")
	case ExtraneousRecord:
		l.Warn().
			Str("comparison", obj.Comparison).
			Strs("primary_key", zipKeyForReporting(obj.KeyColumns, obj.KeyValues)).
			Msgf("record missing from source")
	case MismatchingRecord:
		sourceVals := zerolog.Dict()
		targetVals := zerolog.Dict()
		for i, field := range obj.MismatchingFields {
			sourceVals = sourceVals.Str(field, obj.SourceValues[i])
			targetVals = targetVals.Str(field, obj.TargetValues[i])
		}
		l.Warn().
			Str("comparison", obj.Comparison).
			Dict("source_values", sourceVals).
			Dict("target_values", targetVals).
			Strs("primary_key", zipKeyForReporting(obj.KeyColumns, obj.KeyValues)).
			Msgf("mismatching field values")
	case DuplicateKey:
		l.Warn().
			Str("comparison", obj.Comparison).
			Str("side", obj.Side).
			Int("occurrences", obj.Count).
			Strs("primary_key", zipKeyForReporting(obj.KeyColumns, obj.KeyValues)).
			Msgf("duplicate primary key")
	default:
		l.Error().
			Str("type", fmt.Sprintf("%T", obj)).
			Msgf("unknown object type")
	}
}

func (l LogReporter) Close() {
}

func zipKeyForReporting(cols, vals []string) []string {
	ret := make([]string, len(vals))
	for i := range vals {
		if i < len(cols) {
			ret[i] = cols[i] + "=" + vals[i]
		} else {
			ret[i] = vals[i]
		}
	}
	return ret
}
