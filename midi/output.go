package midi

import (
	"fmt"
	"sync"
	"time"

	"go-autotracker/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv" // Register MIDI driver
)

// Sender delivers one event. Output implements it; tests and export use
// recorders.
type Sender interface {
	Send(e Event) error
}

// Output is an opened MIDI output port
type Output struct {
	name string
	mu   sync.Mutex
	send func(gomidi.Message) error
}

// OpenOutput opens the named output port. An empty name opens the first port.
func OpenOutput(name string) (*Output, error) {
	ports, err := outPorts()
	if err != nil {
		return nil, err
	}
	if len(ports) == 0 {
		return nil, fmt.Errorf("no MIDI output ports")
	}

	var port drivers.Out
	if name == "" {
		port = ports[0]
	} else {
		for _, p := range ports {
			if p.String() == name {
				port = p
				break
			}
		}
	}
	if port == nil {
		return nil, fmt.Errorf("MIDI output %q not found", name)
	}

	send, err := gomidi.SendTo(port)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", port.String(), err)
	}
	debug.Log("midi", "opened output %s", port.String())
	return &Output{name: port.String(), send: send}, nil
}

// Name returns the port name
func (o *Output) Name() string {
	return o.name
}

// Send writes an event to the port
func (o *Output) Send(e Event) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	for _, msg := range Messages(e) {
		if err := o.send(msg); err != nil {
			debug.Log("midi", "send failed on %s: %v", o.name, err)
			return err
		}
	}
	return nil
}

// Panic silences every channel
func (o *Output) Panic() {
	for ch := uint8(0); ch < 16; ch++ {
		o.Send(Event{Type: CC, Channel: ch, Note: CCAllNotesOff})
	}
}

// CloseDriver releases the MIDI driver. Call once on exit.
func CloseDriver() {
	gomidi.CloseDriver()
}

// Messages converts an event to wire messages
func Messages(e Event) []gomidi.Message {
	ch := e.Channel & 0x0F
	switch e.Type {
	case NoteOn:
		return []gomidi.Message{gomidi.NoteOn(ch, e.Note, e.Velocity)}
	case NoteOff:
		return []gomidi.Message{gomidi.NoteOff(ch, e.Note)}
	case Trigger:
		return []gomidi.Message{gomidi.NoteOn(ch, e.Note, e.Velocity), gomidi.NoteOff(ch, e.Note)}
	case CC:
		return []gomidi.Message{gomidi.ControlChange(ch, e.Note, e.Velocity)}
	case PitchBend:
		return []gomidi.Message{gomidi.Pitchbend(ch, e.BendValue)}
	}
	return nil
}

// OutPortNames lists the available output ports
func OutPortNames() ([]string, error) {
	ports, err := outPorts()
	if err != nil {
		return nil, err
	}
	names := make([]string, len(ports))
	for i, p := range ports {
		names[i] = p.String()
	}
	return names, nil
}

// outPorts lists ports with a timeout (CoreMIDI can hang)
func outPorts() ([]drivers.Out, error) {
	ch := make(chan []drivers.Out, 1)
	go func() {
		ch <- gomidi.GetOutPorts()
	}()
	select {
	case ports := <-ch:
		return ports, nil
	case <-time.After(3 * time.Second):
		return nil, fmt.Errorf("timed out listing MIDI ports")
	}
}

// Recorder collects events instead of sending them
type Recorder struct {
	mu     sync.Mutex
	Events []Event
}

// Send records e
func (r *Recorder) Send(e Event) error {
	r.mu.Lock()
	r.Events = append(r.Events, e)
	r.mu.Unlock()
	return nil
}

// Take returns the recorded events and clears the recorder
func (r *Recorder) Take() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.Events
	r.Events = nil
	return out
}
