package stats

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/store"
)

func TestBuildReport(t *testing.T) {
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})

	ctx := context.Background()
	runID, err := st.InsertRun(ctx, model.Run{StartedAt: time.Unix(0, 0), Lower: 60, Upper: 72})
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	pairs := [][2]int{{60, 60}, {62, 62}, {64, 65}, {64, 65}, {67, 67}, {60, 61}}
	streak := 0
	for i, p := range pairs {
		correct := p[0] == p[1]
		if correct {
			streak++
		} else {
			streak = 0
		}
		err := st.InsertAttempt(ctx, model.Attempt{
			RunID:      runID,
			Challenge:  p[0],
			Response:   p[1],
			Correct:    correct,
			Streak:     streak,
			LatencyMs:  500,
			AnsweredAt: time.Unix(int64(i), 0),
		})
		if err != nil {
			t.Fatalf("insert attempt: %v", err)
		}
	}

	report, err := BuildReport(ctx, st, runID)
	if err != nil {
		t.Fatalf("build report: %v", err)
	}
	if len(report.Attempts) != len(pairs) {
		t.Fatalf("expected %d attempts, got %d", len(pairs), len(report.Attempts))
	}
	if len(report.Notes) != 4 {
		t.Fatalf("expected 4 note aggregates, got %d", len(report.Notes))
	}
	if len(report.Confusions) == 0 || report.Confusions[0].Challenge != 64 || report.Confusions[0].Count != 2 {
		t.Fatalf("unexpected confusions: %+v", report.Confusions)
	}
	if len(report.Weak) != 2 || report.Weak[0] != 64 || report.Weak[1] != 60 {
		t.Fatalf("unexpected weak notes: %v", report.Weak)
	}

	var buf bytes.Buffer
	if err := report.Render(&buf, 60); err != nil {
		t.Fatalf("render: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"Attempts: 6", "Best streak: 2", "Per-Note", "E4", "Most Confused", "Accuracy (rolling"} {
		if !strings.Contains(out, want) {
			t.Fatalf("report missing %q:\n%s", want, out)
		}
	}
}

func TestRenderSummaryEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := (Report{}).Render(&buf, 80); err != nil {
		t.Fatalf("render: %v", err)
	}
	if !strings.Contains(buf.String(), "No attempts recorded.") {
		t.Fatalf("unexpected output: %q", buf.String())
	}
}
