package normalize

import (
	"testing"

	"github.com/dataqe/recon/recset"
	"github.com/stretchr/testify/require"
)

func TestEquivalentNull(t *testing.T) {
	n := New(Config{OmitValues: []string{"NULL", "None", "---", ""}})
	require.True(t, n.EquivalentNull(recset.Null()))
	require.True(t, n.EquivalentNull(recset.String("NULL")))
	require.True(t, n.EquivalentNull(recset.String("None")))
	require.True(t, n.EquivalentNull(recset.String("---")))
	require.True(t, n.EquivalentNull(recset.String("")))
	require.False(t, n.EquivalentNull(recset.String("null")))
	require.False(t, n.EquivalentNull(recset.String("x")))
	require.False(t, n.EquivalentNull(recset.Int(0)))

	// A true NULL is equivalent-null even with no omit set configured.
	bare := New(Config{})
	require.True(t, bare.EquivalentNull(recset.Null()))
	require.False(t, bare.EquivalentNull(recset.String("")))
}

func TestEquivalentNullCaseFold(t *testing.T) {
	n := New(Config{OmitValues: []string{"NULL"}, CaseInsensitive: true})
	require.True(t, n.EquivalentNull(recset.String("null")))
	require.True(t, n.EquivalentNull(recset.String("Null")))
}

func TestResolveNull(t *testing.T) {
	n := New(Config{OmitValues: []string{"NA"}})
	for _, tc := range []struct {
		a, b            recset.Value
		equal, resolved bool
	}{
		{a: recset.Null(), b: recset.Null(), equal: true, resolved: true},
		{a: recset.Null(), b: recset.String("NA"), equal: true, resolved: true},
		{a: recset.String("NA"), b: recset.String("x"), equal: false, resolved: true},
		{a: recset.Null(), b: recset.Int(0), equal: false, resolved: true},
		{a: recset.Int(1), b: recset.Int(1), equal: false, resolved: false},
		{a: recset.String("x"), b: recset.String("y"), equal: false, resolved: false},
	} {
		equal, resolved := n.ResolveNull(tc.a, tc.b)
		require.Equal(t, tc.equal, equal, "%s vs %s", tc.a, tc.b)
		require.Equal(t, tc.resolved, resolved, "%s vs %s", tc.a, tc.b)
	}
}

func TestEqual(t *testing.T) {
	exact := New(Config{})
	folded := New(Config{CaseInsensitive: true})

	require.True(t, exact.Equal(recset.Int(5), recset.Float(5.0)))
	require.True(t, exact.Equal(recset.String("a"), recset.String("a")))
	require.False(t, exact.Equal(recset.String("a"), recset.String("A")))
	require.True(t, folded.Equal(recset.String("a"), recset.String("A")))

	// Case folding applies to strings only, not to mixed kinds.
	require.False(t, folded.Equal(recset.Int(5), recset.String("5")))
}

func TestKeyComponent(t *testing.T) {
	n := New(Config{OmitValues: []string{"NULL"}})
	require.Equal(t, "5", n.KeyComponent(recset.Int(5)))
	require.Equal(t, "5", n.KeyComponent(recset.Float(5.0)))
	require.Equal(t, "5", n.KeyComponent(recset.ParseString("5.00")))
	require.Equal(t, "abc", n.KeyComponent(recset.String("abc")))
	// Key fields never go through the omit-value set.
	require.Equal(t, "NULL", n.KeyComponent(recset.String("NULL")))

	folded := New(Config{CaseInsensitive: true})
	require.Equal(t, "abc", folded.KeyComponent(recset.String("AbC")))
}
