package sequencer

import "go-autotracker/rng"

// Empty is a silent note pattern. It draws nothing.
func Empty(MusicContext, rng.Rand) Pattern {
	return notePattern(func(int) NoteSlot {
		return NoteSlot{Kind: NoteOff}
	})
}

// EmptyDrum is a silent drum pattern. It draws nothing.
func EmptyDrum(MusicContext, rng.Rand) Pattern {
	return drumPattern(func(int) DrumSlot {
		return DrumSlot{Hit: DrumOff}
	})
}
