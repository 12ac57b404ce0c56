package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/speakeasy-api/modeladaptor"
)

// writeReports prints reports as an aligned table. The kind column is
// coloured when w is a terminal and NO_COLOR is unset.
func writeReports(w io.Writer, reports []modeladaptor.ErrorReport) {
	kind := color.New(color.FgRed, color.Bold)
	if useColor(w) {
		kind.EnableColor()
	} else {
		kind.DisableColor()
	}

	rows := [][]string{{"KIND", "EXPRESSION", "DETAILS"}}
	for _, r := range reports {
		rows = append(rows, []string{string(r.Kind), fmt.Sprint(r.Token), r.Context.String()})
	}
	widths := columnWidths(rows)

	for i, row := range rows {
		var b strings.Builder
		for j, cell := range row {
			if j == len(row)-1 {
				b.WriteString(cell)
				break
			}
			cell = runewidth.FillRight(cell, widths[j])
			if i > 0 && j == 0 {
				cell = kind.Sprint(cell)
			}
			b.WriteString(cell)
			b.WriteString("  ")
		}
		fmt.Fprintln(w, strings.TrimRight(b.String(), " "))
	}
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for j, cell := range row {
			if j >= len(widths) {
				widths = append(widths, 0)
			}
			widths[j] = max(widths[j], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func useColor(w io.Writer) bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	f, ok := w.(interface{ Fd() uintptr })
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// writeStats prints the current value of every gathered counter and gauge,
// and the sample count of histograms.
func writeStats(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("failed to gather metrics: %w", err)
	}
	var rows [][]string
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			name := mf.GetName()
			if labels := m.GetLabel(); len(labels) > 0 {
				pairs := make([]string, len(labels))
				for i, lp := range labels {
					pairs[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
				}
				name += "{" + strings.Join(pairs, ",") + "}"
			}
			var value string
			switch {
			case m.GetCounter() != nil:
				value = fmt.Sprint(m.GetCounter().GetValue())
			case m.GetGauge() != nil:
				value = fmt.Sprint(m.GetGauge().GetValue())
			case m.GetHistogram() != nil:
				name += "_count"
				value = fmt.Sprint(m.GetHistogram().GetSampleCount())
			default:
				continue
			}
			rows = append(rows, []string{name, value})
		}
	}
	widths := columnWidths(rows)
	for _, row := range rows {
		if _, err := fmt.Fprintf(w, "%s  %s\n", runewidth.FillRight(row[0], widths[0]), row[1]); err != nil {
			return err
		}
	}
	return nil
}
