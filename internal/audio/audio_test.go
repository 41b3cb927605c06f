package audio

import (
	"testing"
	"time"

	"github.com/faiface/beep"
)

func TestSpeakerCachesRenderedTones(t *testing.T) {
	s := &Speaker{duration: 100 * time.Millisecond, volume: 0.5, cache: map[int]*beep.Buffer{}}
	a := s.buffer(60)
	b := s.buffer(60)
	if a != b {
		t.Fatalf("expected cached buffer to be reused")
	}
	if a.Len() != sampleRate.N(100*time.Millisecond) {
		t.Fatalf("expected %d samples, got %d", sampleRate.N(100*time.Millisecond), a.Len())
	}
	if c := s.buffer(61); c == a {
		t.Fatalf("expected a separate buffer per pitch")
	}
}

func TestRecorder(t *testing.T) {
	var p Player = &Recorder{}
	p.Play(60)
	p.Play(64)
	got := p.(*Recorder).Played()
	if len(got) != 2 || got[0] != 60 || got[1] != 64 {
		t.Fatalf("unexpected played pitches: %v", got)
	}
	Nop{}.Play(60)
}
