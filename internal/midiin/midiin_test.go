package midiin

import (
	"testing"

	"gitlab.com/gomidi/midi/v2"
)

func TestTranslateNoteOn(t *testing.T) {
	ev, ok := Translate(midi.NoteOn(0, 60, 100))
	if !ok {
		t.Fatalf("expected note on to translate")
	}
	if !ev.Pressed || ev.Pitch != 60 || ev.Velocity != 100 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestTranslateNoteOff(t *testing.T) {
	ev, ok := Translate(midi.NoteOff(3, 72))
	if !ok {
		t.Fatalf("expected note off to translate")
	}
	if ev.Pressed || ev.Pitch != 72 {
		t.Fatalf("unexpected event: %+v", ev)
	}
}

func TestTranslateZeroVelocityIsRelease(t *testing.T) {
	ev, ok := Translate(midi.NoteOn(0, 64, 0))
	if !ok {
		t.Fatalf("expected zero-velocity note on to translate")
	}
	if ev.Pressed {
		t.Fatalf("expected release, got %+v", ev)
	}
}

func TestTranslateIgnoresOtherMessages(t *testing.T) {
	if _, ok := Translate(midi.ControlChange(0, 64, 127)); ok {
		t.Fatalf("expected control change to be ignored")
	}
}
