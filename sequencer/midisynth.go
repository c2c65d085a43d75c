package sequencer

import (
	"math"

	"go-autotracker/debug"
	"go-autotracker/midi"
	"go-autotracker/theory"
)

const defaultVelocity = 100

// MIDISynth plays one voice on a MIDI channel. Note voices send
// NoteOff/NoteOn pairs with pulse width on CC 70 and glide as portamento;
// the drum voice sends triggers through a kit.
type MIDISynth struct {
	out     midi.Sender
	channel uint8
	kit     DrumKit

	step     int64 // stamps outgoing events, one per Play
	sounding int   // MIDI note currently on, -1 for none
	gliding  bool  // portamento switch state
}

// NewMIDISynth creates a synth sending to out on channel (0-15)
func NewMIDISynth(out midi.Sender, channel uint8, kit DrumKit) *MIDISynth {
	return &MIDISynth{out: out, channel: channel & 0x0F, kit: kit, sounding: -1}
}

// Play handles one tick's slot
func (s *MIDISynth) Play(slot Slot) {
	switch sl := slot.(type) {
	case NoteSlot:
		s.playNote(sl)
	case DrumSlot:
		s.playDrum(sl)
	}
	s.step++
}

func (s *MIDISynth) playNote(n NoteSlot) {
	switch n.Kind {
	case NoteOff:
		s.release()
		return
	case NoteCont:
		s.pulseWidth(n.PulseWidth)
		return
	}

	s.pulseWidth(n.PulseWidth)
	note := int(theory.MIDINote(n.Pitch))

	if n.Glide > 0 && s.sounding >= 0 {
		// legato: new note on before the old note off
		s.send(midi.CC, midi.CCPortamentoTime, ccValue(n.Glide))
		if !s.gliding {
			s.send(midi.CC, midi.CCPortamentoSwitch, 127)
			s.gliding = true
		}
		if prev := s.sounding; prev != note {
			s.send(midi.NoteOn, uint8(note), velocity(n.Velocity))
			s.send(midi.NoteOff, uint8(prev), 0)
			s.sounding = note
		}
		return
	}

	if s.gliding {
		s.send(midi.CC, midi.CCPortamentoSwitch, 0)
		s.gliding = false
	}
	s.release()
	s.send(midi.NoteOn, uint8(note), velocity(n.Velocity))
	s.sounding = note
}

func (s *MIDISynth) playDrum(d DrumSlot) {
	note, ok := s.kit.Note(d.Hit)
	if !ok {
		return
	}
	s.send(midi.Trigger, note, velocity(d.Velocity))
}

func (s *MIDISynth) release() {
	if s.sounding < 0 {
		return
	}
	s.send(midi.NoteOff, uint8(s.sounding), 0)
	s.sounding = -1
}

func (s *MIDISynth) pulseWidth(pw float64) {
	if pw != 0 {
		s.send(midi.CC, midi.CCTimbre, ccValue(pw))
	}
}

func (s *MIDISynth) send(typ, note, vel uint8) {
	err := s.out.Send(midi.Event{Tick: s.step, Type: typ, Channel: s.channel, Note: note, Velocity: vel})
	if err != nil {
		debug.LogEvery(64, "midi", "ch %d send: %v", s.channel+1, err)
	}
}

// velocity maps a slot velocity to MIDI; absent means the default and
// values past 1 saturate
func velocity(v float64) uint8 {
	if v == 0 {
		return defaultVelocity
	}
	return uint8(min(max(math.Round(v*127), 1), 127))
}

// ccValue maps 0..1 to a controller value
func ccValue(v float64) uint8 {
	return uint8(min(max(math.Round(v*127), 0), 127))
}
