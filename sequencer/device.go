package sequencer

// Synth turns one slot per tick into sound. Backends: the MIDI synth,
// the built-in audio synths, or Discard.
type Synth interface {
	Play(slot Slot)
}

// Display shows the patterns and the playhead. SetPatterns is called once
// per regeneration, HighlightRow once per tick.
type Display interface {
	SetPatterns(patterns [NumVoices]Pattern, code string)
	HighlightRow(step int)
}

// SynthFunc adapts a function to Synth
type SynthFunc func(slot Slot)

func (f SynthFunc) Play(slot Slot) { f(slot) }

// Discard is a Synth that plays nothing
var Discard Synth = SynthFunc(func(Slot) {})

// LEDState describes the state of a single LED
type LEDState struct {
	Row, Col int
	Color    [3]uint8 // RGB colour - controller maps to its palette
	Channel  uint8    // 0=static, 2=pulse
}

// silenceFor returns the slot that stops a voice of slot's kind
func silenceFor(slot Slot) Slot {
	if _, ok := slot.(DrumSlot); ok {
		return DrumSlot{Hit: DrumOff}
	}
	return NoteSlot{Kind: NoteOff}
}
