package cmdutil

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	defer func() { logLevel = zerolog.InfoLevel.String() }()

	logLevel = "warn"
	logger, err := Logger()
	require.NoError(t, err)
	require.Equal(t, zerolog.WarnLevel, logger.GetLevel())

	logLevel = "noisy"
	_, err = Logger()
	require.Error(t, err)
}
