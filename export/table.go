package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/dataqe/recon/compare"
	"github.com/dataqe/recon/quality"
	"github.com/olekukonko/tablewriter"
)

// RenderSummary writes a console table of the comparison result.
func RenderSummary(w io.Writer, res *compare.Result) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Metric", "Value"})
	table.SetAutoWrapText(false)
	table.Append([]string{"Comparison", res.Comparison})
	table.Append([]string{"Source records", strconv.Itoa(res.SourceCount)})
	table.Append([]string{"Target records", strconv.Itoa(res.TargetCount)})
	table.Append([]string{"Matched pairs", strconv.Itoa(res.MatchedPairs)})
	table.Append([]string{"Missing in target", strconv.Itoa(res.MissingInTarget)})
	table.Append([]string{"Missing in source", strconv.Itoa(res.MissingInSource)})
	table.Append([]string{"Match percentage", fmt.Sprintf("%.2f%%", res.MatchPercentage)})
	table.Append([]string{"Perfect match", strconv.FormatBool(res.PerfectMatch)})
	if res.Performance != nil {
		table.Append([]string{"Duration", res.Performance.TotalDuration.Round(time.Millisecond).String()})
		table.Append([]string{"Records/sec", fmt.Sprintf("%.0f", res.Performance.RecordsPerSecond)})
	}
	table.Render()

	if len(res.FieldDeltas) == 0 {
		return
	}
	deltas := tablewriter.NewWriter(w)
	deltas.SetHeader([]string{"Field", "Deltas", "Comparisons"})
	for _, d := range res.FieldDeltas {
		deltas.Append([]string{d.Field, strconv.Itoa(d.Deltas), strconv.Itoa(d.Comparisons)})
	}
	deltas.Render()
}

// RenderQuality writes a console table of one side's quality report.
func RenderQuality(w io.Writer, rep *quality.Report) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Quality Metric", "Value"})
	table.SetAutoWrapText(false)
	if rep.Side != "" {
		table.Append([]string{"Side", rep.Side})
	}
	table.Append([]string{"Records", strconv.Itoa(rep.Records)})
	table.Append([]string{"Duplicate keys", strconv.Itoa(rep.DuplicateKeyCount)})
	table.Append([]string{"Score", fmt.Sprintf("%.1f", rep.Score)})
	for _, nr := range rep.NullRatios {
		if nr.NullCount == 0 {
			continue
		}
		table.Append([]string{
			"Null ratio: " + nr.Field,
			fmt.Sprintf("%.2f (%d)", nr.Ratio, nr.NullCount),
		})
	}
	table.Render()
}
