// Package stats contains ear-training statistics and text reporting.
package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/notes"
)

// Accuracy returns correct / (correct + incorrect), or 0 when there are no answers.
func Accuracy(correct, incorrect int) float64 {
	den := correct + incorrect
	if den <= 0 {
		return 0
	}
	return float64(correct) / float64(den)
}

// Totals counts correct and incorrect attempts.
func Totals(attempts []model.Attempt) (correct, incorrect int) {
	for _, a := range attempts {
		if a.Correct {
			correct++
		} else {
			incorrect++
		}
	}
	return correct, incorrect
}

// BestStreak returns the longest run of consecutive correct attempts.
func BestStreak(attempts []model.Attempt) int {
	best, cur := 0, 0
	for _, a := range attempts {
		if !a.Correct {
			cur = 0
			continue
		}
		cur++
		if cur > best {
			best = cur
		}
	}
	return best
}

// AverageLatencyMs returns the mean answer latency, or 0 without attempts.
func AverageLatencyMs(attempts []model.Attempt) float64 {
	if len(attempts) == 0 {
		return 0
	}
	var sum int64
	for _, a := range attempts {
		sum += a.LatencyMs
	}
	return float64(sum) / float64(len(attempts))
}

// MovingAverage computes a rolling mean over the provided window size.
func MovingAverage(values []float64, window int) []float64 {
	if window <= 1 || len(values) == 0 {
		out := make([]float64, len(values))
		copy(out, values)
		return out
	}
	out := make([]float64, len(values))
	var sum float64
	for i := 0; i < len(values); i++ {
		sum += values[i]
		if i >= window {
			sum -= values[i-window]
		}
		den := float64(i + 1)
		if i >= window {
			den = float64(window)
		}
		out[i] = sum / den
	}
	return out
}

// AccuracySeries returns 100 for each correct attempt and 0 otherwise.
func AccuracySeries(attempts []model.Attempt) []float64 {
	out := make([]float64, len(attempts))
	for i, a := range attempts {
		if a.Correct {
			out[i] = 100
		}
	}
	return out
}

// RenderSummary prints the headline numbers of a run.
func RenderSummary(w io.Writer, attempts []model.Attempt) error {
	if len(attempts) == 0 {
		_, err := fmt.Fprintln(w, "No attempts recorded.")
		return err
	}
	correct, incorrect := Totals(attempts)
	lines := []string{
		"Summary",
		fmt.Sprintf("Attempts: %d", len(attempts)),
		fmt.Sprintf("Correct: %d", correct),
		fmt.Sprintf("Accuracy: %.2f%%", Accuracy(correct, incorrect)*100),
		fmt.Sprintf("Best streak: %d", BestStreak(attempts)),
		fmt.Sprintf("Avg latency: %.0f ms", AverageLatencyMs(attempts)),
		"",
	}
	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// RenderNoteTable prints per-note accuracy, weakest first.
func RenderNoteTable(w io.Writer, aggs []model.NoteAggregate) error {
	if len(aggs) == 0 {
		_, err := fmt.Fprintln(w, "No note stats found.")
		return err
	}
	rows := make([]model.NoteAggregate, len(aggs))
	copy(rows, aggs)
	sort.Slice(rows, func(i, j int) bool {
		ai := accuracy(rows[i])
		aj := accuracy(rows[j])
		if ai == aj {
			return rows[i].Pitch < rows[j].Pitch
		}
		return ai < aj
	})

	if _, err := fmt.Fprintln(w, "Per-Note"); err != nil {
		return err
	}
	cols := []column{
		{title: "Note"},
		{title: "Accuracy", right: true},
		{title: "Avg Latency (ms)", right: true},
		{title: "Correct", right: true},
		{title: "Incorrect", right: true},
	}
	tableRows := make([][]string, 0, len(rows))
	for _, r := range rows {
		tableRows = append(tableRows, NoteRow(r))
	}
	if err := writeTable(w, cols, tableRows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// NoteRow formats one aggregate as table cells.
func NoteRow(agg model.NoteAggregate) []string {
	lat := 0.0
	if agg.LatencyCount > 0 {
		lat = float64(agg.LatencySumMs) / float64(agg.LatencyCount)
	}
	return []string{
		notes.Label(agg.Pitch),
		fmt.Sprintf("%.2f%%", accuracy(agg)*100),
		fmt.Sprintf("%.0f", lat),
		fmt.Sprintf("%d", agg.Correct),
		fmt.Sprintf("%d", agg.Incorrect),
	}
}

// RenderConfusions prints the most common wrong answers.
func RenderConfusions(w io.Writer, conf []model.Confusion) error {
	if len(conf) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "Most Confused"); err != nil {
		return err
	}
	rows := make([][]string, 0, len(conf))
	for _, c := range conf {
		rows = append(rows, []string{
			notes.Label(c.Challenge),
			notes.Label(c.Response),
			fmt.Sprintf("%+d", c.Response-c.Challenge),
			fmt.Sprintf("%d", c.Count),
		})
	}
	cols := []column{{title: "Played"}, {title: "Answered"}, {title: "Semitones", right: true}, {title: "Times", right: true}}
	if err := writeTable(w, cols, rows); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w, "")
	return err
}

// RenderCurves plots the rolling accuracy and streak over the run.
func RenderCurves(w io.Writer, attempts []model.Attempt, window, totalWidth, height int, useColor bool) error {
	if len(attempts) < 2 {
		return nil
	}
	acc := MovingAverage(AccuracySeries(attempts), window)
	streaks := make([]float64, len(attempts))
	for i, a := range attempts {
		streaks[i] = float64(a.Streak)
	}
	width := 0
	if totalWidth > 0 {
		width = PlotWidthFor(totalWidth)
	}
	if err := PlotCurve(w, fmt.Sprintf("Accuracy (rolling %d)", window), acc, width, height, useColor); err != nil {
		return err
	}
	return PlotCurve(w, "Streak", streaks, width, height, useColor)
}
