// Package report defines the objects a comparison run emits as it finds
// discrepancies, and the reporters that render them. Reporters receive
// detail-level findings one at a time; aggregate results are exported
// separately by the export package.
package report

// ReportableObject is any finding a comparison or quality run can emit.
type ReportableObject interface{}

// StatusReport carries free-form progress information.
type StatusReport struct {
	Info string
}

// MissingRecord is a record present in the source set with no matching
// primary key in the target set.
type MissingRecord struct {
	Comparison string
	KeyColumns []string
	KeyValues  []string
	Columns    []string
	Values     []string
}

// ExtraneousRecord is a record present in the target set only.
type ExtraneousRecord struct {
	Comparison string
	KeyColumns []string
	KeyValues  []string
}

// MismatchingRecord is a matched pair that disagrees on one or more fields.
// A field present in only one side's schema appears here with the AbsentValue
// marker on the other side.
type MismatchingRecord struct {
	Comparison string
	KeyColumns []string
	KeyValues  []string

	MismatchingFields []string
	SourceValues      []string
	TargetValues      []string
}

// AbsentValue marks a field that exists in one record's schema only.
const AbsentValue = "<absent>"

// DuplicateKey is a primary-key tuple occurring more than once within a
// single record set.
type DuplicateKey struct {
	Comparison string
	Side       string
	KeyColumns []string
	KeyValues  []string
	Count      int
}
