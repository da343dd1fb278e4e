package report

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogReporter(t *testing.T) {
	var buf bytes.Buffer
	r := LogReporter{Logger: zerolog.New(&buf)}

	r.Report(StatusReport{Info: "in progress"})
	r.Report(MissingRecord{
		Comparison: "orders",
		KeyColumns: []string{"id"},
		KeyValues:  []string{"4"},
		Columns:    []string{"id", "total"},
		Values:     []string{"4", "9.99"},
	})
	r.Report(MismatchingRecord{
		Comparison:        "orders",
		KeyColumns:        []string{"id"},
		KeyValues:         []string{"7"},
		MismatchingFields: []string{"total"},
		SourceValues:      []string{"10"},
		TargetValues:      []string{"11"},
	})
	r.Report(DuplicateKey{
		Comparison: "orders",
		Side:       "target",
		KeyColumns: []string{"id"},
		KeyValues:  []string{"7"},
		Count:      2,
	})
	r.Close()

	out := buf.String()
	require.Contains(t, out, "in progress")
	require.Contains(t, out, "record missing from target")
	require.Contains(t, out, `"primary_key":["id=4"]`)
	require.Contains(t, out, "mismatching field values")
	require.Contains(t, out, `"source_values":{"total":"10"}`)
	require.Contains(t, out, `"target_values":{"total":"11"}`)
	require.Contains(t, out, "duplicate primary key")
	require.Contains(t, out, `"occurrences":2`)
}

func TestJSONReporter(t *testing.T) {
	var buf bytes.Buffer
	r := JSONReporter{Writer: &buf}

	r.Report(ExtraneousRecord{
		Comparison: "orders",
		KeyColumns: []string{"id"},
		KeyValues:  []string{"9"},
	})
	r.Report(MismatchingRecord{
		Comparison:        "orders",
		KeyColumns:        []string{"id"},
		KeyValues:         []string{"7"},
		MismatchingFields: []string{"total"},
		SourceValues:      []string{"10"},
		TargetValues:      []string{AbsentValue},
	})
	r.Close()

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var first map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.Equal(t, "missing_in_source", first["type"])
	require.Equal(t, []any{"9"}, first["key_values"])

	var second map[string]any
	require.NoError(t, json.Unmarshal(lines[1], &second))
	require.Equal(t, "mismatch", second["type"])
	require.Equal(t, []any{AbsentValue}, second["target_values"])
}

func TestZipKeyForReporting(t *testing.T) {
	require.Equal(
		t,
		[]string{"a=1", "b=2"},
		zipKeyForReporting([]string{"a", "b"}, []string{"1", "2"}),
	)
	// Values beyond the column list still render.
	require.Equal(
		t,
		[]string{"a=1", "2"},
		zipKeyForReporting([]string{"a"}, []string{"1", "2"}),
	)
}
