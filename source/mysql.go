package source

import (
	"context"
	"database/sql"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/retry"
	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"
)

// QueryMySQL runs a query against a MySQL database and materializes the full
// result as a record set. The DSN is in go-sql-driver form
// (user:pass@tcp(host:port)/dbname).
func QueryMySQL(
	ctx context.Context, logger zerolog.Logger, dsn string, query string,
) (*recset.RecordSet, error) {
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, errors.Wrapf(err, "error opening mysql connection")
	}
	defer func() { _ = db.Close() }()

	r, err := retry.NewRetry(retry.DefaultSettings())
	if err != nil {
		return nil, err
	}
	if err := r.Do(ctx, logger, db.PingContext); err != nil {
		return nil, errors.Wrapf(err, "error connecting to mysql")
	}
	return QueryRecordSet(ctx, db, query)
}

// QueryRecordSet materializes a query result from any database/sql handle.
// MySQL hands back most non-integer values as bytes, so cells are classified
// the same way CSV cells are.
func QueryRecordSet(ctx context.Context, db *sql.DB, query string) (*recset.RecordSet, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer func() { _ = rows.Close() }()

	fields, err := rows.Columns()
	if err != nil {
		return nil, err
	}
	builder, err := recset.NewBuilder(fields)
	if err != nil {
		return nil, err
	}

	scan := make([]any, len(fields))
	scanPtrs := make([]any, len(fields))
	for i := range scan {
		scanPtrs[i] = &scan[i]
	}
	for rows.Next() {
		if err := rows.Scan(scanPtrs...); err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		vals := make([]recset.Value, len(scan))
		for i, raw := range scan {
			vals[i] = convertSQLValue(raw)
		}
		if err := builder.Append(vals...); err != nil {
			return nil, err
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "error iterating rows")
	}
	return builder.Finish(), nil
}

func convertSQLValue(raw any) recset.Value {
	switch raw := raw.(type) {
	case nil:
		return recset.Null()
	case []byte:
		return recset.ParseString(string(raw))
	case time.Time:
		return recset.Time(raw)
	default:
		return recset.FromAny(raw)
	}
}
