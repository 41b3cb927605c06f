package audio

import "sync"

// Recorder is a Player that remembers what it was asked to play.
type Recorder struct {
	mu     sync.Mutex
	played []int
}

// Play implements Player.
func (r *Recorder) Play(pitch int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.played = append(r.played, pitch)
}

// Played returns the pitches played so far, oldest first.
func (r *Recorder) Played() []int {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]int, len(r.played))
	copy(out, r.played)
	return out
}
