package compare

import (
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/normalize"
	"github.com/dataqe/recon/recset"
)

// KeySpec is the ordered, non-empty list of field names records are aligned
// on. Composite keys compare as ordered tuples.
type KeySpec []string

// Validate checks the spec against both schemas before any alignment work
// begins. Violations are configuration errors and fail the invocation.
func (k KeySpec) Validate(source, target *recset.Schema) error {
	if len(k) == 0 {
		return errors.Newf("primary key spec is empty")
	}
	seen := make(map[string]struct{}, len(k))
	for _, field := range k {
		if _, ok := seen[field]; ok {
			return errors.Newf("primary key field %q listed twice", field)
		}
		seen[field] = struct{}{}
		if !source.HasField(field) {
			return errors.Newf("primary key field %q not in source schema", field)
		}
		if !target.HasField(field) {
			return errors.Newf("primary key field %q not in target schema", field)
		}
	}
	return nil
}

func (k KeySpec) Contains(field string) bool {
	for _, f := range k {
		if f == field {
			return true
		}
	}
	return false
}

// keySeparator joins tuple components in the alignment index. A unit
// separator keeps composite keys unambiguous for any printable values.
const keySeparator = "\x1f"

// IndexKey renders the canonical index key of a record under this spec.
// Key fields are normalized (numeric unification, case policy) but never
// subject to omit-value substitution.
func (k KeySpec) IndexKey(rec recset.Record, norm *normalize.Normalizer) string {
	parts := make([]string, len(k))
	for i, field := range k {
		v, _ := rec.Get(field)
		parts[i] = norm.KeyComponent(v)
	}
	return strings.Join(parts, keySeparator)
}

// KeyValues renders the raw key tuple of a record for reporting.
func (k KeySpec) KeyValues(rec recset.Record) []string {
	vals := make([]string, len(k))
	for i, field := range k {
		v, _ := rec.Get(field)
		vals[i] = v.String()
	}
	return vals
}
