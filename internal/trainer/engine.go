// Package trainer holds the note-matching challenge state.
package trainer

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/verte-zerg/pitchtrainer/internal/notes"
)

// ErrInvalidRange is returned by SetRange when First > Last or a bound is not
// a MIDI pitch.
var ErrInvalidRange = errors.New("invalid note range")

// NoteRange is an inclusive interval of pitch numbers.
type NoteRange struct {
	First int
	Last  int
}

// DefaultRange is one octave from C4 to C5.
var DefaultRange = NoteRange{First: notes.MiddleC, Last: notes.MiddleC + 12}

// Size returns the number of pitches in the range.
func (r NoteRange) Size() int {
	return r.Last - r.First + 1
}

// Contains reports whether pitch lies inside the range.
func (r NoteRange) Contains(pitch int) bool {
	return pitch >= r.First && pitch <= r.Last
}

// Outcome is the result of recording a response.
type Outcome int

const (
	// Ignored means there was no open challenge to answer.
	Ignored Outcome = iota
	// Correct means the response matched the challenge.
	Correct
	// Incorrect means the response did not match.
	Incorrect
)

func (o Outcome) String() string {
	switch o {
	case Correct:
		return "correct"
	case Incorrect:
		return "incorrect"
	default:
		return "ignored"
	}
}

// Source yields uniform integers in [0, n).
type Source interface {
	Intn(n int) int
}

// State is a display snapshot of the engine.
type State struct {
	Challenge    int
	HasChallenge bool
	Response     int
	HasResponse  bool
	Streak       int
}

// Engine owns the current challenge, the first response to it, and the streak.
// It is not safe for concurrent use; the host UI calls it from one event loop.
type Engine struct {
	rnd   Source
	rng   NoteRange
	state State
}

// New returns an Engine over DefaultRange seeded with the current time.
func New() *Engine {
	return NewWithSource(rand.New(rand.NewSource(time.Now().UnixNano())))
}

// NewWithSource returns an Engine over DefaultRange drawing from src.
func NewWithSource(src Source) *Engine {
	return &Engine{rnd: src, rng: DefaultRange}
}

// Range returns the active range.
func (e *Engine) Range() NoteRange {
	return e.rng
}

// SetRange replaces the active range. An open challenge is kept even if it
// falls outside the new range; it can still be answered.
func (e *Engine) SetRange(r NoteRange) error {
	if !notes.Valid(r.First) || !notes.Valid(r.Last) {
		return fmt.Errorf("%w: %d..%d outside %d..%d", ErrInvalidRange, r.First, r.Last, notes.MinPitch, notes.MaxPitch)
	}
	if r.First > r.Last {
		return fmt.Errorf("%w: first %d > last %d", ErrInvalidRange, r.First, r.Last)
	}
	e.rng = r
	return nil
}

// StartChallenge picks a pitch uniformly from the active range, discards any
// previous challenge and its response, and returns the pitch.
func (e *Engine) StartChallenge() int {
	pitch := e.rng.First + e.rnd.Intn(e.rng.Size())
	e.state.Challenge = pitch
	e.state.HasChallenge = true
	e.state.Response = 0
	e.state.HasResponse = false
	return pitch
}

// RecordResponse judges pitch against the current challenge. Only the first
// response per challenge counts; later calls return Ignored.
func (e *Engine) RecordResponse(pitch int) Outcome {
	if e.state.HasResponse {
		return Ignored
	}
	if !e.state.HasChallenge {
		return Ignored
	}
	e.state.Response = pitch
	e.state.HasResponse = true
	if pitch == e.state.Challenge {
		e.state.Streak++
		return Correct
	}
	e.state.Streak = 0
	return Incorrect
}

// CurrentStreak returns the number of consecutive correct answers.
func (e *Engine) CurrentStreak() int {
	return e.state.Streak
}

// State returns a snapshot for display.
func (e *Engine) State() State {
	return e.state
}
