// Package midiin reads note presses from a hardware MIDI keyboard.
package midiin

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"
)

// Event is a key going down or up on the MIDI keyboard.
type Event struct {
	Pitch    int
	Velocity int
	Pressed  bool
}

// Handler receives events on the driver's goroutine.
type Handler func(Event)

// Ports lists the available MIDI input port names.
func Ports() []string {
	ins := midi.GetInPorts()
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names
}

// Listen opens the first input port whose name contains port and forwards
// note events to handle. onErr, if set, is called when the listener fails,
// e.g. when the device is unplugged. The returned stop function closes the port.
func Listen(port string, handle Handler, onErr func(error)) (stop func(), err error) {
	in, err := midi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("MIDI input %q not found: %w", port, err)
	}
	opts := []midi.Option{}
	if onErr != nil {
		opts = append(opts, midi.HandleError(onErr))
	}
	stopFn, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		if ev, ok := Translate(msg); ok {
			handle(ev)
		}
	}, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %q: %w", in.String(), err)
	}
	return func() {
		stopFn()
		if cerr := in.Close(); cerr != nil {
			// Best-effort port close.
			_ = cerr
		}
	}, nil
}

// Translate converts a note start/end message into an Event. Other messages
// report false.
func Translate(msg midi.Message) (Event, bool) {
	var ch, key, vel uint8
	if msg.GetNoteStart(&ch, &key, &vel) {
		return Event{Pitch: int(key), Velocity: int(vel), Pressed: true}, true
	}
	if msg.GetNoteEnd(&ch, &key) {
		return Event{Pitch: int(key)}, true
	}
	return Event{}, false
}
