package logging

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/google/uuid"

	"regressdemo/internal/population"
	"regressdemo/internal/report"
	"regressdemo/internal/stats"
)

// RoundLogger writes one CSV row and one JSON line per round
type RoundLogger struct {
	runID       string
	csvPath     string
	jsonPath    string
	csvFile     *os.File
	csvWriter   *csv.Writer
	jsonFile    *os.File
	log         *slog.Logger
	initialized bool
	err         error
}

// NewRoundLogger creates a logger and the directories its files live in.
// A nil slog logger falls back to slog.Default().
func NewRoundLogger(csvPath, jsonPath string, log *slog.Logger) (*RoundLogger, error) {
	if log == nil {
		log = slog.Default()
	}
	l := &RoundLogger{
		runID:    uuid.NewString(),
		csvPath:  csvPath,
		jsonPath: jsonPath,
		log:      log,
	}

	if err := os.MkdirAll(filepath.Dir(csvPath), 0755); err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(jsonPath), 0755); err != nil {
		return nil, err
	}

	return l, nil
}

// RunID identifies every row this logger writes
func (l *RoundLogger) RunID() string {
	return l.runID
}

// Init creates the log files and writes the CSV header
func (l *RoundLogger) Init() error {
	var err error

	l.csvFile, err = os.Create(l.csvPath)
	if err != nil {
		return err
	}
	l.csvWriter = csv.NewWriter(l.csvFile)

	header := []string{
		"run_id", "round", "weight", "mean", "std_dev", "prev_mean", "prev_std_dev",
		"top_ids", "bottom_ids", "prev_top_change", "prev_bottom_change",
	}
	if err := l.csvWriter.Write(header); err != nil {
		return err
	}

	l.jsonFile, err = os.OpenFile(l.jsonPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}

	l.initialized = true
	return nil
}

// Close flushes and closes all log files, reporting any write error seen
func (l *RoundLogger) Close() error {
	var errs []error
	if l.csvWriter != nil {
		l.csvWriter.Flush()
		errs = append(errs, l.csvWriter.Error())
	}
	if l.csvFile != nil {
		errs = append(errs, l.csvFile.Close())
	}
	if l.jsonFile != nil {
		errs = append(errs, l.jsonFile.Close())
	}
	errs = append(errs, l.err)
	return errors.Join(errs...)
}

// RoundSummary holds per-round statistics
type RoundSummary struct {
	RunID            string            `json:"run_id"`
	Round            int               `json:"round"`
	Weight           float64           `json:"weight"`
	Current          stats.Summary     `json:"current"`
	Previous         *stats.Summary    `json:"previous,omitempty"`
	TopIDs           []int             `json:"top_ids"`
	BottomIDs        []int             `json:"bottom_ids"`
	PrevTopChange    float64           `json:"prev_top_change"`
	PrevBottomChange float64           `json:"prev_bottom_change"`
	Deltas           population.Deltas `json:"deltas"`
}

// Summarize builds the summary of the session's current round
func (l *RoundLogger) Summarize(s *population.Session) RoundSummary {
	current, previous, ok := s.Statistics()
	d := s.Deltas()
	summary := RoundSummary{
		RunID:            l.runID,
		Round:            s.Round(),
		Weight:           s.Weight(),
		Current:          current,
		TopIDs:           s.TopIDs(),
		BottomIDs:        s.BottomIDs(),
		PrevTopChange:    stats.MeanChange(population.Changes(d.PreviousTop)),
		PrevBottomChange: stats.MeanChange(population.Changes(d.PreviousBottom)),
		Deltas:           d,
	}
	if ok {
		summary.Previous = &previous
	}
	return summary
}

// LogRound logs the session's current round
func (l *RoundLogger) LogRound(s *population.Session) {
	summary := l.Summarize(s)

	if l.initialized {
		l.write(summary)
	}

	attrs := []any{
		"round", summary.Round,
		"weight", summary.Weight,
		"mean", fmt.Sprintf("%.2f", summary.Current.Mean),
		"std_dev", fmt.Sprintf("%.2f", summary.Current.StdDev),
		"top", report.FormatIDs(summary.TopIDs),
		"bottom", report.FormatIDs(summary.BottomIDs),
	}
	if summary.Previous != nil {
		attrs = append(attrs,
			"prev_top_change", fmt.Sprintf("%+.2f", summary.PrevTopChange),
			"prev_bottom_change", fmt.Sprintf("%+.2f", summary.PrevBottomChange),
		)
	}
	l.log.Info("round", attrs...)
}

func (l *RoundLogger) write(summary RoundSummary) {
	prevMean, prevStd := "", ""
	if summary.Previous != nil {
		prevMean = fmt.Sprintf("%.4f", summary.Previous.Mean)
		prevStd = fmt.Sprintf("%.4f", summary.Previous.StdDev)
	}
	row := []string{
		summary.RunID,
		strconv.Itoa(summary.Round),
		fmt.Sprintf("%.4f", summary.Weight),
		fmt.Sprintf("%.4f", summary.Current.Mean),
		fmt.Sprintf("%.4f", summary.Current.StdDev),
		prevMean,
		prevStd,
		report.FormatIDs(summary.TopIDs),
		report.FormatIDs(summary.BottomIDs),
		fmt.Sprintf("%.4f", summary.PrevTopChange),
		fmt.Sprintf("%.4f", summary.PrevBottomChange),
	}
	if err := l.csvWriter.Write(row); err != nil {
		l.fail(err)
	}
	l.csvWriter.Flush()

	line, err := json.Marshal(summary)
	if err != nil {
		l.fail(err)
		return
	}
	if _, err := l.jsonFile.Write(append(line, '\n')); err != nil {
		l.fail(err)
	}
}

func (l *RoundLogger) fail(err error) {
	if l.err == nil {
		l.err = err
	}
	l.log.Warn("round log write failed", "err", err)
}

// Attach logs the session's current round now and after every reshuffle
func (l *RoundLogger) Attach(s *population.Session) {
	l.LogRound(s)
	s.Subscribe(func(ev population.Event) {
		if ev.Kind == population.EventReshuffled {
			l.LogRound(s)
		}
	})
}
