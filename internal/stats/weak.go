package stats

import (
	"sort"

	"github.com/verte-zerg/pitchtrainer/internal/model"
)

// SelectWeakNotes returns up to top pitches with the lowest accuracy, lowest
// pitch first on ties. Notes never answered wrong are not weak.
func SelectWeakNotes(aggs []model.NoteAggregate, top int) []int {
	candidates := make([]model.NoteAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Incorrect > 0 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai := accuracy(candidates[i])
		aj := accuracy(candidates[j])
		if ai == aj {
			return candidates[i].Pitch < candidates[j].Pitch
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]int, 0, top)
	for i := 0; i < top; i++ {
		out = append(out, candidates[i].Pitch)
	}
	return out
}

func accuracy(agg model.NoteAggregate) float64 {
	total := agg.Correct + agg.Incorrect
	if total == 0 {
		return 1.0
	}
	return float64(agg.Correct) / float64(total)
}
