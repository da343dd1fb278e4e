// Package source materializes record sets from external locations: CSV and
// JSON files, PostgreSQL and MySQL queries, and CSV objects in S3-compatible
// storage. All I/O happens here, before the comparison engine is invoked;
// the engine only ever sees fully built record sets.
package source

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
	"github.com/rs/zerolog"
)

// Spec names one side of a comparison. Location is a file path or a
// postgres://, mysql:// or s3:// URL; Query is required for database
// locations and rejected elsewhere.
type Spec struct {
	Location string
	Query    string
}

func Load(ctx context.Context, logger zerolog.Logger, spec Spec) (*recset.RecordSet, error) {
	if spec.Location == "" {
		return nil, errors.Newf("empty source location")
	}
	switch {
	case strings.HasPrefix(spec.Location, "postgres://"),
		strings.HasPrefix(spec.Location, "postgresql://"):
		if spec.Query == "" {
			return nil, errors.Newf("database location %s requires a query", spec.Location)
		}
		return QueryPG(ctx, logger, spec.Location, spec.Query)
	case strings.HasPrefix(spec.Location, "mysql://"):
		if spec.Query == "" {
			return nil, errors.Newf("database location %s requires a query", spec.Location)
		}
		return QueryMySQL(ctx, logger, strings.TrimPrefix(spec.Location, "mysql://"), spec.Query)
	case strings.HasPrefix(spec.Location, "s3://"):
		if spec.Query != "" {
			return nil, errors.Newf("query is not supported for object storage location %s", spec.Location)
		}
		return ReadS3CSV(ctx, logger, spec.Location)
	}
	if spec.Query != "" {
		return nil, errors.Newf("query is not supported for file location %s", spec.Location)
	}
	if strings.HasSuffix(spec.Location, ".json") {
		return ReadJSONFile(spec.Location)
	}
	return ReadCSVFile(spec.Location)
}
