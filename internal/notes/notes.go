// Package notes maps MIDI pitch numbers to note names and back.
package notes

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	// MinPitch is the lowest MIDI pitch number (C-1).
	MinPitch = 0
	// MaxPitch is the highest MIDI pitch number (G9).
	MaxPitch = 127
	// PianoFirst is the lowest key of an 88-key piano (A0).
	PianoFirst = 21
	// PianoLast is the highest key of an 88-key piano (C8).
	PianoLast = 108
	// MiddleC is C4.
	MiddleC = 60
)

var (
	// ErrUnknownNote is returned when a note name cannot be parsed.
	ErrUnknownNote = errors.New("unknown note")
	// ErrOutOfRange is returned for pitch numbers outside 0..127.
	ErrOutOfRange = errors.New("pitch out of range")
)

var pitchClassNames = [12]string{"C", "Db", "D", "Eb", "E", "F", "Gb", "G", "Ab", "A", "Bb", "B"}

var letterOffsets = map[byte]int{
	'c': 0,
	'd': 2,
	'e': 4,
	'f': 5,
	'g': 7,
	'a': 9,
	'b': 11,
}

// Valid reports whether pitch is a MIDI pitch number.
func Valid(pitch int) bool {
	return pitch >= MinPitch && pitch <= MaxPitch
}

// PitchClass returns the pitch class name without octave, e.g. "Db".
func PitchClass(pitch int) string {
	return pitchClassNames[mod12(pitch)]
}

// Octave returns the scientific octave number, with C4 = 60.
func Octave(pitch int) int {
	return floorDiv(pitch, 12) - 1
}

// IsAccidental reports whether pitch falls on a black piano key.
func IsAccidental(pitch int) bool {
	return len(PitchClass(pitch)) > 1
}

// Name returns the note name for pitch, e.g. 61 -> "Db4".
func Name(pitch int) (string, error) {
	if !Valid(pitch) {
		return "", fmt.Errorf("%w: %d", ErrOutOfRange, pitch)
	}
	return PitchClass(pitch) + strconv.Itoa(Octave(pitch)), nil
}

// Label is Name for display, with "?" standing in for invalid pitches.
func Label(pitch int) string {
	name, err := Name(pitch)
	if err != nil {
		return "?"
	}
	return name
}

// Parse converts a note name such as "c4", "C#4", "Db4" or "c-1" to a pitch number.
func Parse(name string) (int, error) {
	s := strings.ToLower(strings.TrimSpace(name))
	if len(s) < 2 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	base, ok := letterOffsets[s[0]]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	rest := s[1:]
	switch rest[0] {
	case '#':
		base++
		rest = rest[1:]
	case 'b':
		base--
		rest = rest[1:]
	}
	if rest == "" {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	octave, err := strconv.Atoi(rest)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrUnknownNote, name)
	}
	if octave < Octave(MinPitch) || octave > Octave(MaxPitch) {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, name)
	}
	pitch := (octave+1)*12 + base
	if !Valid(pitch) {
		return 0, fmt.Errorf("%w: %q", ErrOutOfRange, name)
	}
	return pitch, nil
}

// Names enumerates the note names from first to last, inclusive.
func Names(first, last int) ([]string, error) {
	if !Valid(first) || !Valid(last) {
		return nil, fmt.Errorf("%w: %d..%d", ErrOutOfRange, first, last)
	}
	if first > last {
		return nil, fmt.Errorf("invalid bounds %d > %d", first, last)
	}
	out := make([]string, 0, last-first+1)
	for p := first; p <= last; p++ {
		out = append(out, Label(p))
	}
	return out, nil
}

// Frequency returns the equal-tempered frequency in Hz, A4 = 440.
func Frequency(pitch int) float64 {
	return 440 * math.Pow(2, float64(pitch-69)/12)
}

func mod12(n int) int {
	m := n % 12
	if m < 0 {
		m += 12
	}
	return m
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
