package sequencer

import (
	"fmt"
	"math"
	"strings"

	"go-autotracker/theory"
)

// PatternSize is the number of steps in a pattern, four per beat
const PatternSize = 64

// NumVoices is the number of sequencer voices; the last one is drums
const NumVoices = 5

// DrumVoice is the index of the drum voice
const DrumVoice = NumVoices - 1

// Slot is one step of instruction for one voice: a NoteSlot or a DrumSlot
type Slot interface {
	isSlot()
	String() string
}

// NoteKind says what a NoteSlot does to the voice
type NoteKind uint8

const (
	NoteOff   NoteKind = iota // "---" stop sounding
	NoteCont                  // hold whatever is sounding
	NotePitch                 // start Pitch
)

// NoteSlot is a step for a melodic voice. Zero PulseWidth, Glide and
// Velocity mean the effect is absent.
type NoteSlot struct {
	Kind       NoteKind
	Pitch      int // semitones from A1, only for NotePitch
	PulseWidth float64
	Glide      float64
	Velocity   float64
}

func (NoteSlot) isSlot() {}

// String renders the slot tracker style: note, then w/g/v effect columns
func (n NoteSlot) String() string {
	var b strings.Builder
	switch n.Kind {
	case NoteOff:
		b.WriteString("---")
	case NoteCont:
		b.WriteString("   ")
	case NotePitch:
		b.WriteString(theory.NoteName(n.Pitch))
	}
	if n.PulseWidth != 0 {
		b.WriteString(" w" + hexByte(n.PulseWidth))
	}
	if n.Glide != 0 {
		b.WriteString(" g" + hexByte(n.Glide))
	}
	if n.Velocity != 0 {
		b.WriteString(" v" + hexByte(n.Velocity))
	}
	return b.String()
}

// Drum is a drum hit
type Drum uint8

const (
	DrumOff Drum = iota
	Kick
	Snare
	Noise
)

func (d Drum) String() string {
	switch d {
	case Kick:
		return "KCK"
	case Snare:
		return "SNR"
	case Noise:
		return "NSS"
	default:
		return "---"
	}
}

// DrumSlot is a step for the drum voice
type DrumSlot struct {
	Hit      Drum
	Velocity float64
}

func (DrumSlot) isSlot() {}

func (d DrumSlot) String() string {
	s := d.Hit.String()
	if d.Velocity != 0 {
		s += " v" + hexByte(d.Velocity)
	}
	return s
}

// hexByte renders v*255 as two upper-case hex digits. Values past 1 (the
// bass2 velocity of 2) print wider.
func hexByte(v float64) string {
	return fmt.Sprintf("%02X", int(math.Floor(v*255)))
}

// SlotKind identifies which Slot variant a pattern holds
type SlotKind uint8

const (
	SlotNote SlotKind = iota
	SlotDrum
)

func (k SlotKind) String() string {
	if k == SlotDrum {
		return "drum"
	}
	return "note"
}

// Pattern is one voice's fixed 64-step sequence. Patterns are values and
// are replaced wholesale on regeneration.
type Pattern [PatternSize]Slot

func notePattern(fn func(i int) NoteSlot) Pattern {
	var p Pattern
	for i := range p {
		p[i] = fn(i)
	}
	return p
}

func drumPattern(fn func(i int) DrumSlot) Pattern {
	var p Pattern
	for i := range p {
		p[i] = fn(i)
	}
	return p
}

// Kind reports the slot variant of the pattern and whether every slot
// agrees with it. A zero Pattern reports (SlotNote, false).
func (p Pattern) Kind() (SlotKind, bool) {
	var kind SlotKind
	for i, s := range p {
		var k SlotKind
		switch s.(type) {
		case NoteSlot:
			k = SlotNote
		case DrumSlot:
			k = SlotDrum
		default:
			return SlotNote, false
		}
		if i == 0 {
			kind = k
		} else if k != kind {
			return kind, false
		}
	}
	return kind, true
}

// Lines returns the text form of every slot
func (p Pattern) Lines() []string {
	out := make([]string, len(p))
	for i, s := range p {
		if s == nil {
			out[i] = ""
			continue
		}
		out[i] = s.String()
	}
	return out
}

// Silence returns the "stop sounding" slot matching the pattern's kind
func (p Pattern) Silence() Slot {
	if k, _ := p.Kind(); k == SlotDrum {
		return DrumSlot{Hit: DrumOff}
	}
	return NoteSlot{Kind: NoteOff}
}
