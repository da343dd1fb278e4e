package source

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/recset"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// S3 locations take the form s3://bucket/path/to/object.csv. The endpoint
// and credentials come from the environment: RECON_S3_ENDPOINT,
// RECON_S3_ACCESS_KEY, RECON_S3_SECRET_KEY, RECON_S3_USE_SSL.
const (
	envS3Endpoint  = "RECON_S3_ENDPOINT"
	envS3AccessKey = "RECON_S3_ACCESS_KEY"
	envS3SecretKey = "RECON_S3_SECRET_KEY"
	envS3UseSSL    = "RECON_S3_USE_SSL"
)

// ReadS3CSV fetches a CSV object from S3-compatible storage and builds a
// record set from it.
func ReadS3CSV(
	ctx context.Context, logger zerolog.Logger, location string,
) (*recset.RecordSet, error) {
	bucket, object, err := splitS3Location(location)
	if err != nil {
		return nil, err
	}
	endpoint := os.Getenv(envS3Endpoint)
	if endpoint == "" {
		return nil, errors.Newf("%s must be set for object storage locations", envS3Endpoint)
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds: credentials.NewStaticV4(
			os.Getenv(envS3AccessKey), os.Getenv(envS3SecretKey), ""),
		Secure: os.Getenv(envS3UseSSL) == "true",
	})
	if err != nil {
		return nil, errors.Wrap(err, "error creating object storage client")
	}

	logger.Debug().
		Str("bucket", bucket).
		Str("object", object).
		Msgf("fetching object")
	obj, err := client.GetObject(ctx, bucket, object, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrapf(err, "error fetching s3://%s/%s", bucket, object)
	}
	defer func() { _ = obj.Close() }()
	return ReadCSV(obj)
}

func splitS3Location(location string) (bucket string, object string, _ error) {
	trimmed := strings.TrimPrefix(location, "s3://")
	parts := strings.SplitN(trimmed, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.Newf("object storage location %q must be s3://bucket/object", location)
	}
	return parts[0], parts[1], nil
}
