// Package audio plays note sounds without blocking the caller.
package audio

import (
	"fmt"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/speaker"

	"github.com/verte-zerg/pitchtrainer/internal/synth"
)

const sampleRate = beep.SampleRate(44100)

// Player plays the sound of a pitch. Play returns immediately.
type Player interface {
	Play(pitch int)
}

// Nop is a Player that stays silent.
type Nop struct{}

// Play implements Player.
func (Nop) Play(int) {}

// Speaker plays synthesized tones through the default audio device.
type Speaker struct {
	duration time.Duration
	volume   float64

	mu    sync.Mutex
	cache map[int]*beep.Buffer
}

// NewSpeaker initializes the audio device. Tones last duration at volume (0-1).
func NewSpeaker(duration time.Duration, volume float64) (*Speaker, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("failed to init speaker: %w", err)
	}
	return &Speaker{
		duration: duration,
		volume:   volume,
		cache:    map[int]*beep.Buffer{},
	}, nil
}

// Play implements Player. The tone for each pitch is rendered once and reused.
func (s *Speaker) Play(pitch int) {
	buf := s.buffer(pitch)
	speaker.Play(buf.Streamer(0, buf.Len()))
}

func (s *Speaker) buffer(pitch int) *beep.Buffer {
	s.mu.Lock()
	defer s.mu.Unlock()
	if buf, ok := s.cache[pitch]; ok {
		return buf
	}
	buf := beep.NewBuffer(beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2})
	buf.Append(synth.Tone(sampleRate, pitch, s.duration, s.volume))
	s.cache[pitch] = buf
	return buf
}

// Close stops any playing sound.
func (s *Speaker) Close() {
	speaker.Clear()
}
