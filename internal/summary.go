package internal

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fedragon/go-album/internal/metrics"
	"github.com/fedragon/go-album/internal/models"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// WriteSummary renders the outcome of a run followed by its failures and
// timings.
func WriteSummary(w io.Writer, summary models.Summary, samples []metrics.Sample) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleRounded)
	tw.Style().Format.Header = text.FormatDefault
	tw.AppendHeader(table.Row{"Organized", "Skipped", "Failed", "Status"})
	status := "done"
	if summary.Cancelled {
		status = "cancelled"
	}
	tw.AppendRow(table.Row{summary.Organized, summary.Skipped, summary.Failed, status})
	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight},
		{Number: 2, Align: text.AlignRight},
		{Number: 3, Align: text.AlignRight},
	})
	tw.Render()

	if len(summary.Failures) > 0 {
		fw := table.NewWriter()
		fw.SetOutputMirror(w)
		fw.SetStyle(table.StyleRounded)
		fw.Style().Format.Header = text.FormatDefault
		fw.AppendHeader(table.Row{"File", "Error"})
		for _, f := range summary.Failures {
			fw.AppendRow(table.Row{f.Path, f.Err.Error()})
		}
		fw.Render()
	}

	if len(samples) > 0 {
		mw := table.NewWriter()
		mw.SetOutputMirror(w)
		mw.SetStyle(table.StyleRounded)
		mw.Style().Format.Header = text.FormatDefault
		mw.AppendHeader(table.Row{"Metric", "Count", "Elapsed"})
		for _, s := range samples {
			elapsed := ""
			if s.Elapsed > 0 {
				elapsed = s.Elapsed.String()
			}
			mw.AppendRow(table.Row{s.Name, strconv.FormatInt(s.Count, 10), elapsed})
		}
		mw.SetColumnConfigs([]table.ColumnConfig{{Number: 2, Align: text.AlignRight}})
		mw.Render()
	}

	if summary.Cancelled {
		fmt.Fprintln(w, "Cancelled by user.")
	} else {
		fmt.Fprintln(w, "Done.")
	}
}
