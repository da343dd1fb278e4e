package cmd

import (
	"context"
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/cmd/internal/cmdutil"
	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/export"
	"github.com/dataqe/recon/monitor"
	"github.com/dataqe/recon/quality"
	"github.com/dataqe/recon/report"
	"github.com/dataqe/recon/source"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	flagCompareName            string
	flagComparePrimaryKey      string
	flagCompareOmitColumns     string
	flagCompareOmitValues      string
	flagCompareToleranceValue  float64
	flagCompareToleranceMode   string
	flagCompareCaseInsensitive bool
	flagCompareSourceQuery     string
	flagCompareTargetQuery     string
	flagCompareJSONOut         string
	flagCompareCSVOut          string
	flagCompareReportDir       string
	flagCompareSkipQuality     bool
	flagCompareNullThreshold   float64
	flagCompareFailOnImperfect bool

	compareCmd = &cobra.Command{
		Use:   "compare <source-location> <target-location>",
		Short: "Compare two record sets and report differences.",
		Long: `Compare loads two record sets (CSV/JSON files, postgres:// or mysql://
queries, or s3:// objects), aligns them on the primary key, and reports
per-field deltas, missing records, and a quality score per side.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)
			ctx := context.Background()

			bundle, err := runComparison(ctx, logger, comparisonRun{
				name:            flagCompareName,
				source:          source.Spec{Location: args[0], Query: flagCompareSourceQuery},
				target:          source.Spec{Location: args[1], Query: flagCompareTargetQuery},
				primaryKey:      splitFlagList(flagComparePrimaryKey),
				omitColumns:     splitFlagList(flagCompareOmitColumns),
				omitValues:      splitFlagValues(flagCompareOmitValues),
				toleranceValue:  flagCompareToleranceValue,
				toleranceMode:   flagCompareToleranceMode,
				caseInsensitive: flagCompareCaseInsensitive,
				skipQuality:     flagCompareSkipQuality,
				nullThreshold:   flagCompareNullThreshold,
				reportDir:       flagCompareReportDir,
				jsonOut:         flagCompareJSONOut,
				csvOut:          flagCompareCSVOut,
			})
			if err != nil {
				return err
			}

			export.RenderSummary(os.Stdout, bundle.Result)
			if bundle.SourceQuality != nil {
				export.RenderQuality(os.Stdout, bundle.SourceQuality)
			}
			if bundle.TargetQuality != nil {
				export.RenderQuality(os.Stdout, bundle.TargetQuality)
			}
			if flagCompareFailOnImperfect && !bundle.Result.PerfectMatch {
				return errors.Newf("comparison %s is not a perfect match", bundle.Result.Comparison)
			}
			return nil
		},
	}
)

// comparisonRun is the full description of one comparison invocation,
// assembled either from flags or from a suite file entry.
type comparisonRun struct {
	name            string
	source, target  source.Spec
	primaryKey      []string
	omitColumns     []string
	omitValues      []string
	toleranceValue  float64
	toleranceMode   string
	caseInsensitive bool
	skipQuality     bool
	nullThreshold   float64
	duplicateCheck  *bool
	reportDir       string
	jsonOut         string
	csvOut          string
}

func runComparison(
	ctx context.Context, logger zerolog.Logger, run comparisonRun,
) (export.Bundle, error) {
	reporter := report.CombinedReporter{}
	reporter.Reporters = append(reporter.Reporters, report.LogReporter{Logger: logger})
	if run.reportDir != "" {
		csvReporter, err := report.NewCSVReporter(run.reportDir, logger)
		if err != nil {
			return export.Bundle{}, err
		}
		reporter.Reporters = append(reporter.Reporters, csvReporter)
	}
	defer reporter.Close()

	sourceSet, err := source.Load(ctx, logger, run.source)
	if err != nil {
		return export.Bundle{}, errors.Wrapf(err, "error loading source %s", run.source.Location)
	}
	targetSet, err := source.Load(ctx, logger, run.target)
	if err != nil {
		return export.Bundle{}, errors.Wrapf(err, "error loading target %s", run.target.Location)
	}

	key := compare.KeySpec(run.primaryKey)
	mode, err := compare.ParseToleranceMode(run.toleranceMode)
	if err != nil {
		return export.Bundle{}, err
	}

	reporter.Report(report.StatusReport{Info: "comparison in progress"})
	res, err := compare.Compare(
		sourceSet,
		targetSet,
		key,
		compare.WithName(run.name),
		compare.WithOmitColumns(run.omitColumns...),
		compare.WithOmitValues(run.omitValues...),
		compare.WithTolerance(compare.Tolerance{Value: run.toleranceValue, Mode: mode}),
		compare.WithCaseInsensitive(run.caseInsensitive),
		compare.WithReporter(reporter),
		compare.WithMonitor(monitor.Start()),
	)
	if err != nil {
		return export.Bundle{}, errors.Wrapf(err, "error comparing")
	}

	bundle := export.Bundle{Result: res}
	if !run.skipQuality {
		opts := quality.DefaultOptions()
		opts.CaseInsensitive = run.caseInsensitive
		if run.nullThreshold > 0 {
			opts.NullThreshold = run.nullThreshold
		}
		if run.duplicateCheck != nil {
			opts.DuplicateCheck = *run.duplicateCheck
		}
		if bundle.SourceQuality, err = quality.ValidateAndReport(
			sourceSet, key, opts, "source", run.name, reporter); err != nil {
			return export.Bundle{}, err
		}
		if bundle.TargetQuality, err = quality.ValidateAndReport(
			targetSet, key, opts, "target", run.name, reporter); err != nil {
			return export.Bundle{}, err
		}
	}

	if run.jsonOut != "" {
		if err := export.WriteJSONFile(run.jsonOut, bundle); err != nil {
			return export.Bundle{}, errors.Wrap(err, "error writing JSON export")
		}
	}
	if run.csvOut != "" {
		if err := export.WriteCSV(run.csvOut, res); err != nil {
			return export.Bundle{}, errors.Wrap(err, "error writing CSV export")
		}
	}
	return bundle, nil
}

func splitFlagList(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	ret := parts[:0]
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			ret = append(ret, p)
		}
	}
	return ret
}

// splitFlagValues keeps empty entries so the empty string can be declared an
// omit value with a trailing comma.
func splitFlagValues(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

func init() {
	compareCmd.PersistentFlags().StringVar(
		&flagCompareName,
		"name",
		"comparison",
		"name of the comparison, used in reports and export file names",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagComparePrimaryKey,
		"primary-key",
		"",
		"comma-separated primary key fields used to align records",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareOmitColumns,
		"omit-columns",
		"",
		"comma-separated fields excluded from field-level comparison",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareOmitValues,
		"omit-values",
		"",
		"comma-separated values treated as mutually equivalent to NULL",
	)
	compareCmd.PersistentFlags().Float64Var(
		&flagCompareToleranceValue,
		"tolerance-value",
		0,
		"numeric tolerance applied when both sides are numeric (0 means exact)",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareToleranceMode,
		"tolerance-mode",
		"absolute",
		"how to interpret tolerance-value: absolute or percentage",
	)
	compareCmd.PersistentFlags().BoolVar(
		&flagCompareCaseInsensitive,
		"case-insensitive",
		false,
		"whether string comparison ignores case",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareSourceQuery,
		"source-query",
		"",
		"query to run against a database source location",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareTargetQuery,
		"target-query",
		"",
		"query to run against a database target location",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareJSONOut,
		"json-out",
		"",
		"write the result and quality reports as JSON to this file",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareCSVOut,
		"csv-out",
		"",
		"write result summary and delta tables as CSV files to this directory",
	)
	compareCmd.PersistentFlags().StringVar(
		&flagCompareReportDir,
		"report-dir",
		"",
		"stream detail findings (mismatches, missing records) as CSV files to this directory",
	)
	compareCmd.PersistentFlags().BoolVar(
		&flagCompareSkipQuality,
		"skip-quality",
		false,
		"skip per-side quality validation",
	)
	compareCmd.PersistentFlags().Float64Var(
		&flagCompareNullThreshold,
		"null-threshold",
		0,
		"per-field null ratio above which the quality score is penalized (default 0.5)",
	)
	compareCmd.PersistentFlags().BoolVar(
		&flagCompareFailOnImperfect,
		"fail-on-imperfect",
		false,
		"exit non-zero when the comparison is not a perfect match",
	)
	rootCmd.AddCommand(compareCmd)
}
