package cmdutil

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var logLevel = zerolog.InfoLevel.String()

func RegisterLoggerFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(
		&logLevel,
		"log-level",
		logLevel,
		"minimum level to log at (trace, debug, info, warn, error)",
	)
}

// Logger builds the console logger shared by every subcommand. Suite runs
// interleave findings from concurrent comparisons, so entries carry
// timestamps to keep output attributable; tables and exports go to stdout,
// the log to stderr.
func Logger() (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(logLevel)
	if err != nil {
		return zerolog.Nop(), err
	}
	writer := zerolog.NewConsoleWriter(func(w *zerolog.ConsoleWriter) {
		w.Out = os.Stderr
		w.TimeFormat = time.RFC3339
	})
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger(), nil
}
