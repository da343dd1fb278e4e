package source

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dataqe/recon/recset"
	"github.com/stretchr/testify/require"
)

func TestQueryRecordSet(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	created := time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)
	mock.ExpectQuery("SELECT id, name, amt, created_at FROM orders").
		WillReturnRows(
			sqlmock.NewRows([]string{"id", "name", "amt", "created_at"}).
				AddRow(int64(1), []byte("alice"), []byte("10.50"), created).
				AddRow(int64(2), nil, []byte("20"), created),
		)

	set, err := QueryRecordSet(context.Background(), db, "SELECT id, name, amt, created_at FROM orders")
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
	require.Equal(t, 2, set.NumRecords())
	require.Equal(t, []string{"id", "name", "amt", "created_at"}, set.Schema().Fields())

	rec := set.Record(0)
	id, _ := rec.Get("id")
	require.Equal(t, recset.Int(1), id)
	name, _ := rec.Get("name")
	require.Equal(t, "alice", name.Text())
	// Byte cells are classified like CSV cells.
	amt, _ := rec.Get("amt")
	require.Equal(t, recset.KindDecimal, amt.Kind())
	ts, _ := rec.Get("created_at")
	require.Equal(t, recset.KindTime, ts.Kind())
	require.True(t, created.Equal(ts.TimeVal()))

	name, _ = set.Record(1).Get("name")
	require.True(t, name.IsNull())
}

func TestQueryRecordSetQueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("SELECT boom").WillReturnError(errBoom{})
	_, err = QueryRecordSet(context.Background(), db, "SELECT boom")
	require.ErrorContains(t, err, "error executing query")
}

type errBoom struct{}

func (errBoom) Error() string { return "boom" }
