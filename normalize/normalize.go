// Package normalize centralizes every coercion and omission rule applied to
// field values before comparison. The comparison engine itself never inspects
// raw values; all equivalence policy is defined here, once.
package normalize

import (
	"strings"

	"github.com/cockroachdb/apd/v3"
	"github.com/dataqe/recon/recset"
)

// Config captures the caller-supplied value-equivalence rules.
type Config struct {
	// OmitValues are scalar string forms treated as mutually equivalent to
	// each other and to NULL (e.g. "NULL", "None", "---", "").
	OmitValues []string
	// CaseInsensitive folds string comparison and omit-value matching.
	// Default is case-sensitive.
	CaseInsensitive bool
}

// Normalizer applies a Config. It is immutable and safe for concurrent use.
type Normalizer struct {
	omit            map[string]struct{}
	caseInsensitive bool
}

func New(cfg Config) *Normalizer {
	n := &Normalizer{
		omit:            make(map[string]struct{}, len(cfg.OmitValues)),
		caseInsensitive: cfg.CaseInsensitive,
	}
	for _, v := range cfg.OmitValues {
		n.omit[n.fold(v)] = struct{}{}
	}
	return n
}

func (n *Normalizer) fold(s string) string {
	if n.caseInsensitive {
		return strings.ToLower(s)
	}
	return s
}

// EquivalentNull reports whether a value is NULL or its string form matches
// the omit-value set.
func (n *Normalizer) EquivalentNull(v recset.Value) bool {
	if v.IsNull() {
		return true
	}
	if len(n.omit) == 0 {
		return false
	}
	_, ok := n.omit[n.fold(v.String())]
	return ok
}

// ResolveNull applies omission-equivalence to a pair of values. If either
// side is equivalent-null the comparison is resolved here and tolerance never
// applies: the pair is equal iff both sides are equivalent-null.
func (n *Normalizer) ResolveNull(a, b recset.Value) (equal bool, resolved bool) {
	an, bn := n.EquivalentNull(a), n.EquivalentNull(b)
	if an || bn {
		return an && bn, true
	}
	return false, false
}

// Equal compares two values under exact (zero-tolerance) rules: numeric kinds
// are unified before comparison, strings follow the case policy, everything
// else is structural. Normalization never fails; unclassifiable values were
// already stored as text.
func (n *Normalizer) Equal(a, b recset.Value) bool {
	if eq, resolved := n.ResolveNull(a, b); resolved {
		return eq
	}
	if a.Kind() == recset.KindString && b.Kind() == recset.KindString {
		return n.fold(a.Text()) == n.fold(b.Text())
	}
	return a.Identical(b)
}

// KeyComponent renders the canonical form of a primary-key field value.
// Numerics are reduced so 5, 5.0 and "5.00" index identically; the omit-value
// set is deliberately not consulted, since key fields are never omitted.
func (n *Normalizer) KeyComponent(v recset.Value) string {
	if d, ok := v.AsDecimal(); ok {
		var reduced apd.Decimal
		reduced.Reduce(d)
		return reduced.String()
	}
	if v.Kind() == recset.KindString {
		return n.fold(v.Text())
	}
	return v.String()
}
