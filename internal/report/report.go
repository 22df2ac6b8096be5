// Package report renders session state as the text lines front-ends display.
package report

import (
	"fmt"
	"strings"

	"regressdemo/internal/population"
	"regressdemo/internal/stats"
)

// Labels used for the four delta lines
const (
	LabelPreviousTop    = "Change in Previous Top 5"
	LabelPreviousBottom = "Change in Previous Bottom 5"
	LabelNewTop         = "Change in New Top 5"
	LabelNewBottom      = "Change in New Bottom 5"
)

// FormatDeltas renders "label: ID 3: +1.23, ID 7: -0.50".
// An empty list renders the bare label.
func FormatDeltas(label string, deltas []population.Delta) string {
	parts := make([]string, len(deltas))
	for i, d := range deltas {
		parts[i] = fmt.Sprintf("ID %d: %+.2f", d.ID, d.Change)
	}
	return fmt.Sprintf("%s: %s", label, strings.Join(parts, ", "))
}

// DeltaLines renders the four delta lines in display order
func DeltaLines(d population.Deltas) []string {
	return []string{
		FormatDeltas(LabelPreviousTop, d.PreviousTop),
		FormatDeltas(LabelPreviousBottom, d.PreviousBottom),
		FormatDeltas(LabelNewTop, d.NewTop),
		FormatDeltas(LabelNewBottom, d.NewBottom),
	}
}

// FormatStatistics renders the previous and current mean/std lines.
// Without a previous round the current values stand in for it.
func FormatStatistics(current, previous stats.Summary, ok bool) string {
	if !ok {
		previous = current
	}
	return fmt.Sprintf("Previous Mean: %.2f, Std Dev: %.2f\nNew Mean: %.2f, Std Dev: %.2f",
		previous.Mean, previous.StdDev, current.Mean, current.StdDev)
}

// FormatWeight renders the genetic/environmental split as percentages
func FormatWeight(w float64) string {
	g := population.ToPercent(w)
	return fmt.Sprintf("Genetic: %.1f%%, Environmental: %.1f%%", g, 100-g)
}

// FormatRow renders one table row
func FormatRow(r population.Row) string {
	return fmt.Sprintf("%4d  %9.2f  %9.2f  %13.2f", r.ID, r.Phenotype, r.Genetic, r.Environmental)
}

// RowHeader is the column header matching FormatRow
const RowHeader = "  ID  Phenotype    Genetic  Environmental"

// FormatIDs renders an id list as "3 7 12"
func FormatIDs(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = fmt.Sprint(id)
	}
	return strings.Join(parts, " ")
}
