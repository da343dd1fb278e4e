package export

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/quality"
	"github.com/stretchr/testify/require"
)

func sampleResult() *compare.Result {
	return &compare.Result{
		Comparison:      "orders",
		SourceCount:     3,
		TargetCount:     2,
		MatchedPairs:    2,
		MissingInTarget: 1,
		MissingInTargetKeys: []compare.RecordKey{
			{Columns: []string{"id"}, Values: []string{"3"}},
		},
		FieldDeltas: []compare.FieldDelta{
			{Field: "total", Deltas: 1, Comparisons: 2},
		},
		ComparisonsTotal:  2,
		ComparisonsAgreed: 1,
		MatchPercentage:   50.0,
	}
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, Bundle{
		Result:        sampleResult(),
		SourceQuality: &quality.Report{Side: "source", Records: 3, Score: 100},
	}))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	res := decoded["result"].(map[string]any)
	require.Equal(t, "orders", res["comparison"])
	require.Equal(t, 50.0, res["match_percentage"])
	require.Equal(t, "source", decoded["source_quality"].(map[string]any)["side"])
	_, hasTarget := decoded["target_quality"]
	require.False(t, hasTarget)
}

func TestWriteCSV(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	require.NoError(t, WriteCSV(dir, sampleResult()))

	summary, err := os.ReadFile(filepath.Join(dir, "orders_summary.csv"))
	require.NoError(t, err)
	require.Contains(t, string(summary), "match_percentage,50.00")
	require.Contains(t, string(summary), "perfect_match,false")

	deltas, err := os.ReadFile(filepath.Join(dir, "orders_field_deltas.csv"))
	require.NoError(t, err)
	require.Contains(t, string(deltas), "total,1,2")

	missing, err := os.ReadFile(filepath.Join(dir, "orders_missing_in_target.csv"))
	require.NoError(t, err)
	require.Contains(t, string(missing), "id,3")

	// No extraneous records, so no missing_in_source file.
	_, err = os.Stat(filepath.Join(dir, "orders_missing_in_source.csv"))
	require.True(t, os.IsNotExist(err))
}

func TestRenderSummary(t *testing.T) {
	var buf bytes.Buffer
	RenderSummary(&buf, sampleResult())
	out := buf.String()
	require.Contains(t, out, "Matched pairs")
	require.Contains(t, out, "50.00%")
	require.Contains(t, out, "total")
}

func TestRenderQuality(t *testing.T) {
	var buf bytes.Buffer
	RenderQuality(&buf, &quality.Report{
		Side:              "target",
		Records:           4,
		DuplicateKeyCount: 1,
		NullRatios: []quality.FieldNullRatio{
			{Field: "v", NullCount: 0, Ratio: 0},
			{Field: "w", NullCount: 2, Ratio: 0.5},
		},
		Score: 75,
	})
	out := buf.String()
	require.Contains(t, out, "target")
	require.Contains(t, out, "75.0")
	require.Contains(t, out, "Null ratio: w")
	require.NotContains(t, out, "Null ratio: v")
}
