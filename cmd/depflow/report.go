package main

import (
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/warriorguo/depflow/runtime"
	"github.com/warriorguo/depflow/types"
)

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func header(cols ...string) table.Row {
	row := make(table.Row, 0, len(cols))
	for _, c := range cols {
		row = append(row, text.FgHiCyan.Sprint(c))
	}
	return row
}

func colorStatus(status types.StatusType) string {
	switch status {
	case types.Completed:
		return text.FgGreen.Sprint(status)
	case types.Failed:
		return text.FgRed.Sprint(status)
	case types.Skipped, types.Cancelled:
		return text.FgHiBlack.Sprint(status)
	}
	return text.FgYellow.Sprint(status)
}

// printRecords lists the traced outcome of every node in construction order.
func printRecords(w io.Writer, nodes []*types.Node, records map[int]*types.NodeTraceRecord) {
	t := newTable(w)
	t.AppendHeader(header("#", "STEP", "STATUS", "DURATION"))
	for i, n := range nodes {
		r, exists := records[i]
		if !exists {
			t.AppendRow(table.Row{i, n.Label, colorStatus(types.None), "-"})
			continue
		}
		duration := "-"
		if !r.StartTime.IsZero() && !r.EndTime.IsZero() {
			duration = r.EndTime.Sub(r.StartTime).Round(time.Millisecond).String()
		}
		t.AppendRow(table.Row{i, r.Label, colorStatus(r.Status), duration})
	}
	t.Render()
}

// reduction is the share of the serial time saved by the concurrent run, in percent.
func reduction(serial, concurrent time.Duration) float64 {
	if serial <= 0 {
		return 0
	}
	return 100 * float64(serial-concurrent) / float64(serial)
}

func printTimings(w io.Writer, serial, concurrent *runtime.RunReport) {
	t := newTable(w)
	t.AppendHeader(header("RUN", "ID", "SUCCEEDED", "PEAK", "ELAPSED"))
	for _, r := range []struct {
		name   string
		report *runtime.RunReport
	}{
		{"serial", serial},
		{"concurrent", concurrent},
	} {
		t.AppendRow(table.Row{
			r.name,
			r.report.ID,
			r.report.Stats.Succeeded,
			r.report.Stats.PeakRunning,
			r.report.Elapsed.Round(time.Millisecond).String(),
		})
	}
	t.AppendFooter(table.Row{"", "", "", "reduction", fmt.Sprintf("%.1f%%", reduction(serial.Elapsed, concurrent.Elapsed))})
	t.Render()
}
