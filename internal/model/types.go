// Package model defines shared data structures.
package model

import "time"

// Config defines trainer settings.
type Config struct {
	Lower  int
	Upper  int
	MidiIn string
	Mute   bool
	Volume float64
	NoteMs int
	Seed   int64
}

// Run describes one program run of the trainer.
type Run struct {
	ID        int64
	StartedAt time.Time
	Lower     int
	Upper     int
}

// Attempt captures one judged response.
type Attempt struct {
	RunID      int64
	Challenge  int
	Response   int
	Correct    bool
	Streak     int
	LatencyMs  int64
	AnsweredAt time.Time
}

// NoteAggregate aggregates attempts by challenge pitch.
type NoteAggregate struct {
	Pitch        int
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// Confusion counts how often a challenge was answered with a given wrong pitch.
type Confusion struct {
	Challenge int
	Response  int
	Count     int
}
