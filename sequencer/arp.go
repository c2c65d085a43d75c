package sequencer

import (
	"go-autotracker/rng"
	"go-autotracker/theory"
)

var (
	arpOctaves = []int{0, 12, 24}
	arpOffsets = []int{0, 1, 2}
	arpCycles  = []int{4, 5, 6, 8, 12, 16}
	arpJitter  = []int{0, 0, 0, 1, 2}
	arpLift    = []int{0, 12}
)

// Arp walks the triad under each step with a jittered index, plus a pulse
// width sweep that repeats every cycle steps independent of the notes.
func Arp(ctx MusicContext, r rng.Rand) Pattern {
	octave := rng.Choose(r, arpOctaves)
	offset := rng.Choose(r, arpOffsets)
	phase := r.IntBelow(8) * 2
	cycle := rng.Choose(r, arpCycles)

	return notePattern(func(i int) NoteSlot {
		chord := ctx.chord(i, theory.Triad)
		idx := (i + offset + rng.Choose(r, arpJitter)) % len(chord)
		pitch := chord[idx] + octave + rng.Choose(r, arpLift)
		return NoteSlot{
			Kind:       NotePitch,
			Pitch:      pitch,
			PulseWidth: float64((phase+i)%cycle) / float64(cycle+1),
		}
	})
}
