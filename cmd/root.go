package cmd

import (
	"fmt"
	"os"

	"github.com/dataqe/recon/cmd/internal/cmdutil"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "recon",
	Short: "Cross-source data reconciliation for test automation",
	Long: `recon compares record sets pulled from different sources (files, SQL
databases, object storage), reports per-field differences and missing records,
and scores each side's data quality.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cmdutil.RegisterLoggerFlags(rootCmd)
	cmdutil.RegisterMetricsFlags(rootCmd)
}
