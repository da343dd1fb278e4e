package cmd

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/cmd/internal/cmdutil"
	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/export"
	"github.com/dataqe/recon/quality"
	"github.com/dataqe/recon/report"
	"github.com/dataqe/recon/source"
	"github.com/spf13/cobra"
)

var (
	flagValidatePrimaryKey      string
	flagValidateQuery           string
	flagValidateNullThreshold   float64
	flagValidateSkipDuplicates  bool
	flagValidateCaseInsensitive bool
	flagValidateJSONOut         string

	validateCmd = &cobra.Command{
		Use:   "validate <location>",
		Short: "Validate one record set's data quality.",
		Long: `Validate loads a single record set and inspects it for duplicate primary
keys, per-field null density, and structural consistency, producing a 0-100
quality score.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			ctx := context.Background()

			set, err := source.Load(ctx, logger, source.Spec{
				Location: args[0],
				Query:    flagValidateQuery,
			})
			if err != nil {
				return errors.Wrapf(err, "error loading %s", args[0])
			}

			opts := quality.DefaultOptions()
			opts.DuplicateCheck = !flagValidateSkipDuplicates
			opts.CaseInsensitive = flagValidateCaseInsensitive
			if flagValidateNullThreshold > 0 {
				opts.NullThreshold = flagValidateNullThreshold
			}

			reporter := report.LogReporter{Logger: logger}
			rep, err := quality.ValidateAndReport(
				set,
				compare.KeySpec(splitFlagList(flagValidatePrimaryKey)),
				opts,
				"source",
				args[0],
				reporter,
			)
			if err != nil {
				return err
			}

			export.RenderQuality(os.Stdout, rep)
			if flagValidateJSONOut != "" {
				f, err := os.Create(flagValidateJSONOut)
				if err != nil {
					return err
				}
				defer func() { _ = f.Close() }()
				if err := writeQualityJSON(f, rep); err != nil {
					return errors.Wrap(err, "error writing JSON export")
				}
			}
			return nil
		},
	}
)

func writeQualityJSON(w io.Writer, rep *quality.Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rep)
}

func init() {
	validateCmd.PersistentFlags().StringVar(
		&flagValidatePrimaryKey,
		"primary-key",
		"",
		"comma-separated primary key fields used for duplicate detection",
	)
	validateCmd.PersistentFlags().StringVar(
		&flagValidateQuery,
		"query",
		"",
		"query to run against a database location",
	)
	validateCmd.PersistentFlags().Float64Var(
		&flagValidateNullThreshold,
		"null-threshold",
		0,
		"per-field null ratio above which the score is penalized (default 0.5)",
	)
	validateCmd.PersistentFlags().BoolVar(
		&flagValidateSkipDuplicates,
		"skip-duplicates",
		false,
		"skip duplicate primary key detection",
	)
	validateCmd.PersistentFlags().BoolVar(
		&flagValidateCaseInsensitive,
		"case-insensitive",
		false,
		"whether string key components fold case for duplicate detection",
	)
	validateCmd.PersistentFlags().StringVar(
		&flagValidateJSONOut,
		"json-out",
		"",
		"write the quality report as JSON to this file",
	)
	rootCmd.AddCommand(validateCmd)
}
