// Package synth renders short piano-like tones as beep streamers.
package synth

import (
	"math"
	"time"

	"github.com/faiface/beep"

	"github.com/verte-zerg/pitchtrainer/internal/notes"
)

const attack = 5 * time.Millisecond

// harmonic weights relative to the fundamental; higher partials die out faster.
var partials = []struct {
	multiple float64
	weight   float64
	decay    float64
}{
	{multiple: 1, weight: 1.0, decay: 3},
	{multiple: 2, weight: 0.5, decay: 5},
	{multiple: 3, weight: 0.25, decay: 8},
	{multiple: 4, weight: 0.12, decay: 11},
}

type tone struct {
	sr     beep.SampleRate
	freq   float64
	volume float64
	pos    int
	total  int
	attack int
	norm   float64
}

// Tone returns a streamer that plays pitch for duration at volume (0-1).
func Tone(sr beep.SampleRate, pitch int, duration time.Duration, volume float64) beep.Streamer {
	norm := 0.0
	for _, p := range partials {
		norm += p.weight
	}
	return &tone{
		sr:     sr,
		freq:   notes.Frequency(pitch),
		volume: clamp(volume, 0, 1),
		total:  sr.N(duration),
		attack: sr.N(attack),
		norm:   norm,
	}
}

func (t *tone) Stream(samples [][2]float64) (n int, ok bool) {
	if t.pos >= t.total {
		return 0, false
	}
	rate := float64(t.sr)
	for i := range samples {
		if t.pos >= t.total {
			break
		}
		at := float64(t.pos) / rate
		v := 0.0
		for _, p := range partials {
			v += p.weight * math.Exp(-p.decay*at) * math.Sin(2*math.Pi*t.freq*p.multiple*at)
		}
		v = v / t.norm * t.envelope() * t.volume
		samples[i][0] = v
		samples[i][1] = v
		t.pos++
		n++
	}
	return n, true
}

func (t *tone) Err() error {
	return nil
}

// envelope ramps in over the attack and fades the last 10% to avoid a click.
func (t *tone) envelope() float64 {
	env := 1.0
	if t.attack > 0 && t.pos < t.attack {
		env = float64(t.pos) / float64(t.attack)
	}
	release := t.total / 10
	if release > 0 && t.pos > t.total-release {
		env *= float64(t.total-t.pos) / float64(release)
	}
	return env
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
