// Package keymap binds computer keys to the pitches of a note range.
package keymap

import "github.com/verte-zerg/pitchtrainer/internal/notes"

// Naturals on the home row, accidentals on the row above, laid out like a piano:
// the accidental between two naturals sits on the key above and between them.
var (
	naturalKeys    = []string{"a", "s", "d", "f", "g", "h", "j", "k", "l", ";", "'"}
	accidentalKeys = []string{"q", "w", "e", "r", "t", "y", "u", "i", "o", "p", "[", "]"}
)

// Map is a bidirectional key <-> pitch binding.
type Map struct {
	byKey   map[string]int
	byPitch map[int]string
}

// New lays out keys for pitches first..last. Pitches past the end of the key
// rows stay unbound.
func New(first, last int) *Map {
	m := &Map{
		byKey:   map[string]int{},
		byPitch: map[int]string{},
	}
	natural := 0
	for p := first; p <= last; p++ {
		if notes.IsAccidental(p) {
			if natural < len(accidentalKeys) {
				m.bind(accidentalKeys[natural], p)
			}
			continue
		}
		if natural >= len(naturalKeys) {
			break
		}
		m.bind(naturalKeys[natural], p)
		natural++
	}
	return m
}

func (m *Map) bind(key string, pitch int) {
	m.byKey[key] = pitch
	m.byPitch[pitch] = key
}

// Pitch returns the pitch bound to key.
func (m *Map) Pitch(key string) (int, bool) {
	p, ok := m.byKey[key]
	return p, ok
}

// Key returns the key bound to pitch.
func (m *Map) Key(pitch int) (string, bool) {
	k, ok := m.byPitch[pitch]
	return k, ok
}

// Len returns the number of bound keys.
func (m *Map) Len() int {
	return len(m.byKey)
}
