package stats

import (
	"context"
	"io"

	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/store"
)

const (
	defaultConfusions = 5
	defaultWeakTop    = 3
	curveWindow       = 10
	curveHeight       = 6
)

// Report contains precomputed data for stats rendering.
type Report struct {
	Attempts   []model.Attempt
	Notes      []model.NoteAggregate
	Confusions []model.Confusion
	Weak       []int
}

// BuildReport loads and prepares the data of one run.
func BuildReport(ctx context.Context, st *store.Store, runID int64) (Report, error) {
	attempts, err := st.ListAttempts(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	aggs, err := st.NoteAggregates(ctx, runID)
	if err != nil {
		return Report{}, err
	}
	conf, err := st.Confusions(ctx, runID, defaultConfusions)
	if err != nil {
		return Report{}, err
	}
	return Report{
		Attempts:   attempts,
		Notes:      aggs,
		Confusions: conf,
		Weak:       SelectWeakNotes(aggs, defaultWeakTop),
	}, nil
}

// Render writes the whole report. A width of 0 uses the terminal width.
func (r Report) Render(w io.Writer, width int) error {
	if err := RenderSummary(w, r.Attempts); err != nil {
		return err
	}
	if len(r.Attempts) == 0 {
		return nil
	}
	if err := RenderNoteTable(w, r.Notes); err != nil {
		return err
	}
	if err := RenderConfusions(w, r.Confusions); err != nil {
		return err
	}
	return RenderCurves(w, r.Attempts, curveWindow, width, curveHeight, false)
}
