package source

import (
	"context"
	"time"

	"github.com/cockroachdb/apd/v3"
	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/retry"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/rs/zerolog"
)

// QueryPG runs a query against a PostgreSQL-compatible database and
// materializes the full result as a record set. Connection establishment is
// retried with backoff; the query itself is not.
func QueryPG(
	ctx context.Context, logger zerolog.Logger, connStr string, query string,
) (*recset.RecordSet, error) {
	var conn *pgx.Conn
	r, err := retry.NewRetry(retry.DefaultSettings())
	if err != nil {
		return nil, err
	}
	if err := r.Do(ctx, logger, func(ctx context.Context) error {
		var err error
		conn, err = pgx.Connect(ctx, connStr)
		return err
	}); err != nil {
		return nil, errors.Wrapf(err, "error connecting to %s", connStr)
	}
	defer func() { _ = conn.Close(ctx) }()

	rows, err := conn.Query(ctx, query)
	if err != nil {
		return nil, errors.Wrap(err, "error executing query")
	}
	defer rows.Close()

	fds := rows.FieldDescriptions()
	fields := make([]string, len(fds))
	for i, fd := range fds {
		fields[i] = fd.Name
	}
	builder, err := recset.NewBuilder(fields)
	if err != nil {
		return nil, err
	}

	for rows.Next() {
		rawVals, err := rows.Values()
		if err != nil {
			return nil, errors.Wrap(err, "error scanning row")
		}
		vals := make([]recset.Value, len(rawVals))
		for i, raw := range rawVals {
			vals[i] = convertPGValue(raw)
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

func convertPGValue(raw any) recset.Value {
	switch raw := raw.(type) {
	case pgtype.Numeric:
		return convertNumeric(raw)
	case pgtype.Time:
		return recset.Time(time.Unix(0, raw.Microseconds*int64(time.Microsecond)).UTC())
	case [16]uint8:
		// UUID bytes; keep the raw form, comparison is structural.
		return recset.String(string(raw[:]))
	default:
		return recset.FromAny(raw)
	}
}

func convertNumeric(val pgtype.Numeric) recset.Value {
	if !val.Valid {
		return recset.Null()
	}
	if val.NaN {
		return recset.String("NaN")
	}
	if val.InfinityModifier != pgtype.Finite {
		return recset.String(val.InfinityModifier.String())
	}
	var coeff apd.BigInt
	coeff.SetMathBigInt(val.Int)
	return recset.Decimal(apd.NewWithBigInt(&coeff, val.Exp))
}
