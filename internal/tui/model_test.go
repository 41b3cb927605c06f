package tui

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/verte-zerg/pitchtrainer/internal/audio"
	"github.com/verte-zerg/pitchtrainer/internal/model"
	"github.com/verte-zerg/pitchtrainer/internal/store"
	"github.com/verte-zerg/pitchtrainer/internal/trainer"
)

type zeroSource struct{}

func (zeroSource) Intn(int) int { return 0 }

func newTestModel(t *testing.T) (*Model, *audio.Recorder, *store.Store, int64) {
	t.Helper()
	st, err := store.Open()
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	runID, err := st.InsertRun(context.Background(), model.Run{StartedAt: time.Unix(0, 0), Lower: 60, Upper: 72})
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	rec := &audio.Recorder{}
	m := NewModel(trainer.NewWithSource(zeroSource{}), rec, st, runID)
	return m, rec, st, runID
}

func keyRune(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestSpaceStartsChallengeAndPlaysIt(t *testing.T) {
	m, rec, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	st := m.engine.State()
	if !st.HasChallenge || st.Challenge != 60 {
		t.Fatalf("expected challenge 60, got %+v", st)
	}
	if played := rec.Played(); len(played) != 1 || played[0] != 60 {
		t.Fatalf("expected challenge to be played, got %v", played)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	if played := rec.Played(); len(played) != 2 || played[1] != 60 {
		t.Fatalf("expected replay, got %v", played)
	}
}

func TestKeyPressAnswersOnce(t *testing.T) {
	m, rec, st, runID := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(keyRune('a'))
	if m.engine.CurrentStreak() != 1 {
		t.Fatalf("expected streak 1, got %d", m.engine.CurrentStreak())
	}
	m.Update(keyRune('s'))
	if m.engine.CurrentStreak() != 1 || m.attempts != 1 {
		t.Fatalf("second press should be inert: streak %d attempts %d", m.engine.CurrentStreak(), m.attempts)
	}
	if played := rec.Played(); len(played) != 3 || played[2] != 62 {
		t.Fatalf("expected every press to sound, got %v", played)
	}
	attempts, err := st.ListAttempts(context.Background(), runID)
	if err != nil {
		t.Fatalf("list attempts: %v", err)
	}
	if len(attempts) != 1 || !attempts[0].Correct || attempts[0].Response != 60 {
		t.Fatalf("unexpected stored attempts: %+v", attempts)
	}
}

func TestWrongPressResetsStreakAndShowsAnswer(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(keyRune('a'))
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(keyRune('w'))
	if m.engine.CurrentStreak() != 0 {
		t.Fatalf("expected streak reset, got %d", m.engine.CurrentStreak())
	}
	if m.bestStreak != 1 || m.attempts != 2 || m.correct != 1 {
		t.Fatalf("unexpected counters: best %d attempts %d correct %d", m.bestStreak, m.attempts, m.correct)
	}
	answer := m.renderAnswer(m.engine.State())
	if !strings.Contains(answer, "Random Note: C4") || !strings.Contains(answer, "Your Note: Db4") {
		t.Fatalf("unexpected answer line: %q", answer)
	}
	if m.background != "#FFB399" {
		t.Fatalf("expected Db colour, got %q", m.background)
	}
}

func TestPressWithoutChallengeIgnored(t *testing.T) {
	m, rec, _, _ := newTestModel(t)
	m.Update(keyRune('a'))
	if m.attempts != 0 {
		t.Fatalf("expected no attempts, got %d", m.attempts)
	}
	if len(rec.Played()) != 1 {
		t.Fatalf("expected the pressed note to sound")
	}
	if got := m.renderAnswer(m.engine.State()); got != promptText {
		t.Fatalf("expected prompt, got %q", got)
	}
}

func TestMidiNoteMsgAnswers(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(NoteMsg{Pitch: 60, Pressed: true})
	if m.engine.CurrentStreak() != 1 {
		t.Fatalf("expected MIDI press to answer, streak %d", m.engine.CurrentStreak())
	}
	if !m.holding {
		t.Fatalf("expected held key after press")
	}
	m.Update(NoteMsg{Pitch: 60})
	if m.holding {
		t.Fatalf("expected release to clear held key")
	}
	if m.engine.CurrentStreak() != 1 {
		t.Fatalf("release must not affect streak")
	}
	m.Update(InputErrMsg{Err: errors.New("unplugged")})
	if !strings.Contains(m.message, "unplugged") {
		t.Fatalf("expected input error in footer, got %q", m.message)
	}
}

func TestShiftRange(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	r := m.engine.Range()
	if r.First != 61 || r.Last != 73 {
		t.Fatalf("unexpected range %+v", r)
	}
	if p, ok := m.keys.Pitch("q"); !ok || p != 61 {
		t.Fatalf("expected keymap rebuilt for new range, q -> %d (%v)", p, ok)
	}
	if !strings.Contains(m.renderFooter(), "Range Db4-Db5") {
		t.Fatalf("footer missing range: %s", m.renderFooter())
	}
}

func TestShiftRangeRejectsInversion(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	if err := m.engine.SetRange(trainer.NoteRange{First: 60, Last: 60}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyDown})
	r := m.engine.Range()
	if r.First != 60 || r.Last != 60 {
		t.Fatalf("range changed on inversion: %+v", r)
	}
	if !strings.Contains(m.message, "invalid note range") {
		t.Fatalf("expected range error in footer, got %q", m.message)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if m.message != "" {
		t.Fatalf("expected message cleared after valid change, got %q", m.message)
	}
}

func TestShiftRangeClampsToPiano(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	if err := m.engine.SetRange(trainer.NoteRange{First: 21, Last: 108}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	r := m.engine.Range()
	if r.First != 21 || r.Last != 108 {
		t.Fatalf("expected clamp to piano bounds, got %+v", r)
	}
}

func TestShiftRangeBelowPianoMovesOneSemitone(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	if err := m.engine.SetRange(trainer.NoteRange{First: 0, Last: 12}); err != nil {
		t.Fatalf("SetRange: %v", err)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyRight})
	if r := m.engine.Range(); r.First != 1 || r.Last != 12 {
		t.Fatalf("expected lower bound +1, got %+v", r)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyUp})
	if r := m.engine.Range(); r.First != 1 || r.Last != 13 {
		t.Fatalf("expected upper bound +1, got %+v", r)
	}
	m.Update(tea.KeyMsg{Type: tea.KeyLeft})
	if r := m.engine.Range(); r.First != 1 || r.Last != 13 {
		t.Fatalf("expected off-piano lower bound not to move further out, got %+v", r)
	}
	if m.message != "" {
		t.Fatalf("unexpected footer message %q", m.message)
	}
}

func TestShiftBound(t *testing.T) {
	cases := []struct{ p, delta, want int }{
		{60, 1, 61},
		{21, -1, 21},
		{108, 1, 108},
		{5, 1, 6},
		{5, -1, 5},
		{120, 1, 120},
		{120, -1, 119},
	}
	for _, c := range cases {
		if got := shiftBound(c.p, c.delta); got != c.want {
			t.Fatalf("shiftBound(%d, %d) = %d, want %d", c.p, c.delta, got, c.want)
		}
	}
}

func TestStatsPanelRows(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m.Update(keyRune('a'))
	m.Update(tea.KeyMsg{Type: tea.KeyTab})
	if !m.showStats {
		t.Fatalf("expected stats panel shown")
	}
	rows := m.noteTable.Rows()
	if len(rows) != 1 || rows[0][0] != "C4" || rows[0][1] != "100.00%" {
		t.Fatalf("unexpected stats rows: %v", rows)
	}
	if !strings.Contains(m.View(), "Accuracy") {
		t.Fatalf("expected stats table in view")
	}
}

func TestRenderFooterFormats(t *testing.T) {
	m := NewModel(trainer.NewWithSource(rand.New(rand.NewSource(1))), audio.Nop{}, nil, 0)
	m.attempts = 4
	m.correct = 3
	m.bestStreak = 2
	out := m.renderFooter()
	for _, want := range []string{"Range C4-C5", "Attempts 4", "Accuracy 75.0%", "Best streak 2"} {
		if !strings.Contains(out, want) {
			t.Fatalf("footer missing %q: %s", want, out)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	m, _, _, _ := newTestModel(t)
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc}); cmd == nil {
		t.Fatalf("expected quit command on esc")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd == nil {
		t.Fatalf("expected quit command on ctrl+c")
	}
}
