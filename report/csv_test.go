package report

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestCSVReporter(t *testing.T) {
	dir := t.TempDir()
	r, err := NewCSVReporter(dir, zerolog.Nop())
	require.NoError(t, err)

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
		MismatchingFields: []string{"total", "status"},
		SourceValues:      []string{"10", "open"},
		TargetValues:      []string{"11", "closed"},
	})
	// Status reports produce no CSV category.
	r.Report(StatusReport{Info: "done"})
	r.Close()

	rows := readCSVFile(t, filepath.Join(dir, "missing_in_target.csv"))
	require.Equal(t, [][]string{
		{"comparison", "primary_key", "columns", "values"},
		{"orders", "id=4", "id;total", "4;9.99"},
	}, rows)

	rows = readCSVFile(t, filepath.Join(dir, "mismatches.csv"))
	require.Len(t, rows, 3)
	require.Equal(t, []string{"orders", "id=7", "total", "10", "11"}, rows[1])
	require.Equal(t, []string{"orders", "id=7", "status", "open", "closed"}, rows[2])

	// Categories with no findings create no files.
	_, err = os.Stat(filepath.Join(dir, "missing_in_source.csv"))
	require.True(t, os.IsNotExist(err))
}

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}
