package cmd

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/dataqe/recon/cmd/internal/cmdutil"
	"github.com/dataqe/recon/config"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var (
	flagRunConcurrency     int
	flagRunFailOnImperfect bool

	runCmd = &cobra.Command{
		Use:   "run <suite-file>",
		Short: "Run every comparison declared in a suite file.",
		Long: `Run loads a YAML suite file describing named comparisons and executes
them concurrently. Each comparison gets its own record sets, so runs share no
state and need no coordination.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := cmdutil.Logger()
			if err != nil {
				return err
			}
			cmdutil.RunMetricsServer(logger)

			suite, err := config.Load(args[0])
			if err != nil {
				return err
			}

			for _, dir := range []string{suite.Output.JSONDir, suite.Output.CSVDir} {
				if dir != "" {
					if err := os.MkdirAll(dir, 0o755); err != nil {
						return err
					}
				}
			}

			g, ctx := errgroup.WithContext(context.Background())
			g.SetLimit(flagRunConcurrency)
			imperfect := make([]string, len(suite.Comparisons))
			for i, c := range suite.Comparisons {
				i, c := i, c
				g.Go(func() error {
					run := comparisonRun{
						name:            c.Name,
						source:          c.Source.Spec(),
						target:          c.Target.Spec(),
						primaryKey:      c.KeySpec(),
						omitColumns:     c.OmitColumnList(),
						omitValues:      c.OmitValueList(),
						toleranceValue:  c.ToleranceValue,
						toleranceMode:   c.ToleranceMode,
						caseInsensitive: c.CaseInsensitive,
						duplicateCheck:  c.DuplicateCheck,
					}
					if c.NullThreshold != nil {
						run.nullThreshold = *c.NullThreshold
					}
					if suite.Output.JSONDir != "" {
						run.jsonOut = filepath.Join(suite.Output.JSONDir, c.Name+".json")
					}
					if suite.Output.CSVDir != "" {
						run.csvOut = filepath.Join(suite.Output.CSVDir, c.Name)
						run.reportDir = filepath.Join(suite.Output.CSVDir, c.Name)
					}
					bundle, err := runComparison(ctx, logger.With().Str("comparison", c.Name).Logger(), run)
					if err != nil {
						return errors.Wrapf(err, "comparison %q", c.Name)
					}
					if !bundle.Result.PerfectMatch {
						imperfect[i] = c.Name
					}
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				return err
			}

			if flagRunFailOnImperfect {
				for _, name := range imperfect {
					if name != "" {
						return errors.Newf("comparison %q is not a perfect match", name)
					}
				}
			}
			return nil
		},
	}
)

func init() {
	runCmd.PersistentFlags().IntVar(
		&flagRunConcurrency,
		"concurrency",
		4,
		"number of comparisons to run at a time",
	)
	runCmd.PersistentFlags().BoolVar(
		&flagRunFailOnImperfect,
		"fail-on-imperfect",
		false,
		"exit non-zero when any comparison is not a perfect match",
	)
	rootCmd.AddCommand(runCmd)
}
