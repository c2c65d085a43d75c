package midi

// MIDI message types
const (
	NoteOn    uint8 = 0x90
	NoteOff   uint8 = 0x80
	CC        uint8 = 0xB0
	PitchBend uint8 = 0xE0
	Trigger   uint8 = 0x01 // NoteOn immediately followed by NoteOff (drums)
)

// Controller numbers the synth sink uses for slot effects
const (
	CCPortamentoTime   uint8 = 5
	CCVolume           uint8 = 7
	CCPortamentoSwitch uint8 = 65
	CCTimbre           uint8 = 70 // sound controller 1, carries pulse width
	CCAllNotesOff      uint8 = 123
)

// PPQ is the file resolution used for export: 24 ticks per sequencer step
const PPQ = 96

// TicksPerStep is the number of PPQ ticks in one sequencer step
const TicksPerStep = PPQ / 4

// Event represents a MIDI event produced by the sequencer
type Event struct {
	Tick      int64 // sequencer step the event belongs to
	Type      uint8 // NoteOn, NoteOff, CC, PitchBend, Trigger
	Channel   uint8 // 0-15
	Note      uint8 // note number, or controller number for CC
	Velocity  uint8 // velocity, or controller value for CC
	BendValue int16
}
