package report

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"regressdemo/internal/population"
	"regressdemo/internal/stats"
)

func TestFormatDeltas(t *testing.T) {
	got := FormatDeltas("Change in New Top 5", []population.Delta{
		{ID: 3, Change: 1.234},
		{ID: 7, Change: -0.5},
		{ID: 9, Change: 0},
	})

	assert.Equal(t, "Change in New Top 5: ID 3: +1.23, ID 7: -0.50, ID 9: +0.00", got)
}

func TestFormatDeltasEmpty(t *testing.T) {
	assert.Equal(t, "Change in Previous Top 5: ", FormatDeltas(LabelPreviousTop, nil))
}

func TestDeltaLinesOrder(t *testing.T) {
	lines := DeltaLines(population.Deltas{
		NewBottom: []population.Delta{{ID: 1, Change: 2}},
	})

	assert.Len(t, lines, 4)
	assert.Equal(t, LabelPreviousTop+": ", lines[0])
	assert.Equal(t, LabelNewBottom+": ID 1: +2.00", lines[3])
}

func TestFormatStatistics(t *testing.T) {
	current := stats.Summary{N: 4, Mean: 100, StdDev: 0}
	previous := stats.Summary{N: 4, Mean: 98.456, StdDev: 7.001}

	assert.Equal(t,
		"Previous Mean: 98.46, Std Dev: 7.00\nNew Mean: 100.00, Std Dev: 0.00",
		FormatStatistics(current, previous, true))
	assert.Equal(t,
		"Previous Mean: 100.00, Std Dev: 0.00\nNew Mean: 100.00, Std Dev: 0.00",
		FormatStatistics(current, stats.Summary{}, false))
}

func TestFormatWeight(t *testing.T) {
	assert.Equal(t, "Genetic: 50.0%, Environmental: 50.0%", FormatWeight(0.5))
	assert.Equal(t, "Genetic: 100.0%, Environmental: 0.0%", FormatWeight(1))
}

func TestFormatIDs(t *testing.T) {
	assert.Equal(t, "3 7 12", FormatIDs([]int{3, 7, 12}))
	assert.Equal(t, "", FormatIDs(nil))
}

func TestFormatRow(t *testing.T) {
	got := FormatRow(population.Row{ID: 4, Phenotype: 101.5, Genetic: 50.25, Environmental: 51.25})
	assert.Equal(t, "   4     101.50      50.25          51.25", got)
}
