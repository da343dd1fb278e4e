package compare

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestResultLifecycle(t *testing.T) {
	t.Run("happy path", func(t *testing.T) {
		b := newResultBuilder("t", 2, 2)
		b.beginAlign()
		b.recordMissingInTarget(RecordKey{Columns: []string{"id"}, Values: []string{"1"}})
		b.beginDiff([]string{"v"})
		b.addPair()
		b.addVerdict("v", true)
		b.addPair()
		b.addVerdict("v", false)
		res := b.finalize()

		require.Equal(t, 2, res.MatchedPairs)
		require.Equal(t, 1, res.MissingInTarget)
		require.Equal(t, 50.0, res.MatchPercentage)
		require.False(t, res.PerfectMatch)
	})

	t.Run("no comparisons means full match", func(t *testing.T) {
		b := newResultBuilder("t", 0, 0)
		b.beginAlign()
		b.beginDiff(nil)
		res := b.finalize()
		require.Equal(t, 100.0, res.MatchPercentage)
		require.True(t, res.PerfectMatch)
	})

	t.Run("diff before align panics", func(t *testing.T) {
		b := newResultBuilder("t", 0, 0)
		require.PanicsWithError(
			t,
			"comparison lifecycle violation: in phase empty, expected aligning",
			func() { b.beginDiff(nil) },
		)
	})

	t.Run("missing record after align panics", func(t *testing.T) {
		b := newResultBuilder("t", 0, 0)
		b.beginAlign()
		b.beginDiff(nil)
		require.Panics(t, func() {
			b.recordMissingInTarget(RecordKey{})
		})
	})

	t.Run("mutation after finalize panics", func(t *testing.T) {
		b := newResultBuilder("t", 0, 0)
		b.beginAlign()
		b.beginDiff([]string{"v"})
		b.finalize()
		require.Panics(t, func() { b.addPair() })
		require.Panics(t, func() { b.addVerdict("v", true) })
		require.Panics(t, func() { b.finalize() })
	})

	t.Run("verdict for unknown field panics", func(t *testing.T) {
		b := newResultBuilder("t", 0, 0)
		b.beginAlign()
		b.beginDiff([]string{"v"})
		require.Panics(t, func() { b.addVerdict("nope", true) })
	})
}

func TestParseToleranceMode(t *testing.T) {
	for _, tc := range []struct {
		in   string
		mode ToleranceMode
		err  string
	}{
		{in: "", mode: ToleranceAbsolute},
		{in: "absolute", mode: ToleranceAbsolute},
		{in: "percentage", mode: TolerancePercentage},
		{in: "relative", err: `unknown tolerance mode "relative"`},
	} {
		t.Run(tc.in, func(t *testing.T) {
			mode, err := ParseToleranceMode(tc.in)
			if tc.err != "" {
				require.ErrorContains(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.mode, mode)
		})
	}
}
