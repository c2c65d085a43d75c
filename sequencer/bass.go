package sequencer

import (
	"go-autotracker/rng"
	"go-autotracker/theory"
)

// Bass plays the chord root on even steps, an octave below and jumping up
// an octave every other hit. Odd steps hold. No draws.
func Bass(ctx MusicContext, _ rng.Rand) Pattern {
	return notePattern(func(i int) NoteSlot {
		if i%2 == 1 {
			return NoteSlot{Kind: NoteCont}
		}
		root := ctx.chord(i, theory.Single)[0]
		return NoteSlot{Kind: NotePitch, Pitch: root + (i/2%2)*12 - 12}
	})
}

// Bass2 is a sparse accent bass: one hit every 8 steps at velocity 2.
// Every step draws a pulse width, hits and holds alike.
func Bass2(ctx MusicContext, r rng.Rand) Pattern {
	return notePattern(func(i int) NoteSlot {
		pw := r.Float64()
		s := NoteSlot{Kind: NoteCont, PulseWidth: pw, Velocity: 2}
		if i%8 == 0 {
			root := ctx.chord(i, theory.Single)[0]
			s.Kind = NotePitch
			s.Pitch = root%12 - 4
		}
		return s
	})
}
