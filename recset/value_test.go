package recset

import (
	"testing"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/stretchr/testify/require"
)

func TestParseString(t *testing.T) {
	for _, tc := range []struct {
		in   string
		kind Kind
	}{
		{in: "", kind: KindString},
		{in: "0", kind: KindInt},
		{in: "-42", kind: KindInt},
		{in: "9223372036854775807", kind: KindInt},
		{in: "10.5", kind: KindDecimal},
		{in: "-0.001", kind: KindDecimal},
		{in: "1e10", kind: KindDecimal},
		{in: "1.5E-3", kind: KindDecimal},
		{in: "abc", kind: KindString},
		{in: "10.5.3", kind: KindString},
		{in: "1-2", kind: KindString},
		{in: "e", kind: KindString},
		{in: "NaN", kind: KindString},
		{in: "2023-01-02", kind: KindString},
	} {
		t.Run(tc.in, func(t *testing.T) {
			require.Equal(t, tc.kind, ParseString(tc.in).Kind())
		})
	}
}

func TestFromAny(t *testing.T) {
	require.Equal(t, KindNull, FromAny(nil).Kind())
	require.Equal(t, Int(5), FromAny(int32(5)))
	require.Equal(t, Float(1.5), FromAny(1.5))
	require.Equal(t, String("x"), FromAny([]byte("x")))
	require.Equal(t, String("true"), FromAny(true))
	require.Equal(t, KindTime, FromAny(time.Now()).Kind())

	d, _, err := apd.NewFromString("3.14")
	require.NoError(t, err)
	require.Equal(t, KindDecimal, FromAny(d).Kind())

	// Unrecognised types degrade to their string form.
	require.Equal(t, String("[1 2]"), FromAny([]int{1, 2}))
}

func TestIdenticalUnifiesNumerics(t *testing.T) {
	five, _, err := apd.NewFromString("5.00")
	require.NoError(t, err)
	for _, tc := range []struct {
		a, b  Value
		equal bool
	}{
		{a: Int(5), b: Float(5.0), equal: true},
		{a: Int(5), b: Decimal(five), equal: true},
		{a: Float(5.0), b: Decimal(five), equal: true},
		{a: Int(5), b: Int(6), equal: false},
		{a: Int(5), b: String("5"), equal: false},
		{a: Null(), b: Null(), equal: true},
		{a: Null(), b: String(""), equal: false},
		{a: String("a"), b: String("a"), equal: true},
		{a: String("a"), b: String("A"), equal: false},
	} {
		require.Equal(t, tc.equal, tc.a.Identical(tc.b), "%s vs %s", tc.a, tc.b)
		require.Equal(t, tc.equal, tc.b.Identical(tc.a), "%s vs %s reversed", tc.b, tc.a)
	}
}

func TestValueString(t *testing.T) {
	ts := time.Date(2023, 4, 5, 6, 7, 8, 0, time.UTC)
	for _, tc := range []struct {
		v   Value
		out string
	}{
		{v: Null(), out: "NULL"},
		{v: Int(-3), out: "-3"},
		{v: Float(2.5), out: "2.5"},
		{v: String("hello"), out: "hello"},
		{v: Time(ts), out: "2023-04-05T06:07:08Z"},
	} {
		require.Equal(t, tc.out, tc.v.String())
	}
}

func TestAsDecimal(t *testing.T) {
	d, ok := Int(7).AsDecimal()
	require.True(t, ok)
	require.Equal(t, "7", d.String())

	d, ok = Float(0.25).AsDecimal()
	require.True(t, ok)
	require.Equal(t, "0.25", d.String())

	_, ok = String("7").AsDecimal()
	require.False(t, ok)
	_, ok = Null().AsDecimal()
	require.False(t, ok)
}
