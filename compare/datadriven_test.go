package compare_test

import (
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/cockroachdb/datadriven"
	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/recset"
	"github.com/dataqe/recon/source"
	"github.com/stretchr/testify/require"
)

// TestDataDriven runs comparison scenarios declared as CSV blocks. Directives:
//
//	source / target  - load the input block as a record set
//	compare          - run the comparison; args:
//	                   key=(f1,f2,...) omit-columns=(...) omit-values=(...)
//	                   tolerance=<float> mode=<absolute|percentage>
//	                   case-insensitive
func TestDataDriven(t *testing.T) {
	datadriven.Walk(t, "testdata", func(t *testing.T, path string) {
		var sourceSet, targetSet *recset.RecordSet
		datadriven.RunTest(t, path, func(t *testing.T, d *datadriven.TestData) string {
			switch d.Cmd {
			case "source", "target":
				set, err := source.ReadCSV(strings.NewReader(d.Input))
				require.NoError(t, err)
				if d.Cmd == "source" {
					sourceSet = set
				} else {
					targetSet = set
				}
				return fmt.Sprintf("%d records", set.NumRecords())
			case "compare":
				var key compare.KeySpec
				var opts []compare.Option
				tol := compare.Tolerance{}
				for _, arg := range d.CmdArgs {
					switch arg.Key {
					case "key":
						key = compare.KeySpec(arg.Vals)
					case "omit-columns":
						opts = append(opts, compare.WithOmitColumns(arg.Vals...))
					case "omit-values":
						opts = append(opts, compare.WithOmitValues(arg.Vals...))
					case "tolerance":
						v, err := strconv.ParseFloat(arg.Vals[0], 64)
						require.NoError(t, err)
						tol.Value = v
					case "mode":
						mode, err := compare.ParseToleranceMode(arg.Vals[0])
						require.NoError(t, err)
						tol.Mode = mode
					case "case-insensitive":
						opts = append(opts, compare.WithCaseInsensitive(true))
					default:
						t.Fatalf("unknown arg %s", arg.Key)
					}
				}
				opts = append(opts, compare.WithTolerance(tol))

				res, err := compare.Compare(sourceSet, targetSet, key, opts...)
				if err != nil {
					return fmt.Sprintf("error: %s", err)
				}
				var sb strings.Builder
				fmt.Fprintf(
					&sb,
					"source=%d target=%d pairs=%d missing_in_target=%d missing_in_source=%d match=%.2f%% perfect=%t\n",
					res.SourceCount,
					res.TargetCount,
					res.MatchedPairs,
					res.MissingInTarget,
					res.MissingInSource,
					res.MatchPercentage,
					res.PerfectMatch,
				)
				for _, fd := range res.FieldDeltas {
					fmt.Fprintf(&sb, "%s: deltas=%d comparisons=%d\n", fd.Field, fd.Deltas, fd.Comparisons)
				}
				return sb.String()
			default:
				t.Fatalf("unknown command %s", d.Cmd)
				return ""
			}
		})
	})
}
