package sequencer

import (
	"go-autotracker/rng"
	"go-autotracker/theory"
)

// Walk bounds for the melody's scale index
const (
	melodyFloor    = 10
	melodyCeiling  = 32
	melodyLeapDown = 15
	melodyLeapUp   = 25
)

// Pulse width wobble is reflected back once it leaves this band
const (
	wobbleLow  = 0.1
	wobbleHigh = 0.7
	wobbleStep = 0.05
)

var (
	melodyOctaves = []int{2, 3, 4}
	melodyLeaps   = []int{2, 4, 7}
	melodyGlides  = []float64{0.1, 0.2, 0.5, 0.7}
)

// MelodyStep describes one generated melody step
type MelodyStep struct {
	Step   int
	Wobble float64
	Rest   bool

	// Chord-tone membership of the walk position before and after the
	// corrective nudge. Only meaningful when Rest is false.
	OnChordBefore bool
	OnChordAfter  bool
}

// MelodyObserver receives every step as it is generated
type MelodyObserver func(MelodyStep)

// Melody is a constrained random walk over scale indices, pulled toward
// chord tones, with rests, glides and an optional pulse width wobble.
func Melody(ctx MusicContext, r rng.Rand) Pattern {
	return melody(ctx, r, nil)
}

// ObservedMelody returns Melody reporting each step to obs. The draws are
// identical to Melody's.
func ObservedMelody(obs MelodyObserver) GeneratorFunc {
	return func(ctx MusicContext, r rng.Rand) Pattern {
		return melody(ctx, r, obs)
	}
}

func melody(ctx MusicContext, r rng.Rand, obs MelodyObserver) Pattern {
	slow := r.Flip(0.5)
	pwmMod := r.Flip(0.5)
	wobble := r.Float64() * 0.5

	n := ctx.Scale.Len()
	current := (rng.Choose(r, theory.Triad) - 1) + n*rng.Choose(r, melodyOctaves)

	return notePattern(func(i int) NoteSlot {
		if r.Flip(0.5) {
			wobble += wobbleStep
		} else {
			wobble -= wobbleStep
		}
		if wobble > wobbleHigh {
			wobble -= wobbleStep
		} else if wobble < wobbleLow {
			wobble += wobbleStep
		}

		pw := 0.0
		if pwmMod {
			pw = wobble
		}

		if (slow && i%2 == 1) || r.Flip(0.1+0.4*float64(1-i%2)) {
			if obs != nil {
				obs(MelodyStep{Step: i, Wobble: wobble, Rest: true})
			}
			return NoteSlot{Kind: NoteCont, PulseWidth: pw}
		}

		switch {
		case current > melodyFloor && r.Flip(0.5):
			current--
		case current < melodyCeiling && r.Flip(0.5):
			current++
		case current > melodyLeapDown && r.Flip(0.2):
			current -= rng.Choose(r, melodyLeaps)
		case current < melodyLeapUp && r.Flip(0.2):
			current += rng.Choose(r, melodyLeaps)
		}

		degrees := theory.ChordDegrees(ctx.Progression, ctx.Scale, i, theory.Triad)
		before := onChord(degrees, current, n)
		if r.Flip(0.5) && !before {
			if r.Flip(0.5) {
				current--
			} else {
				current++
			}
		}

		if obs != nil {
			obs(MelodyStep{
				Step:          i,
				Wobble:        wobble,
				OnChordBefore: before,
				OnChordAfter:  onChord(degrees, current, n),
			})
		}

		glide := 0.0
		if r.Flip(0.2) {
			glide = rng.Choose(r, melodyGlides)
		}

		return NoteSlot{
			Kind:       NotePitch,
			Pitch:      ctx.Key + ctx.Scale.Step(current) + floorDiv(current, n)*12,
			PulseWidth: pw,
			Glide:      glide,
		}
	})
}

func onChord(degrees []int, current, n int) bool {
	d := mod(current, n)
	for _, c := range degrees {
		if c == d {
			return true
		}
	}
	return false
}

func mod(a, n int) int {
	m := a % n
	if m < 0 {
		m += n
	}
	return m
}

func floorDiv(a, n int) int {
	q := a / n
	if a%n != 0 && (a < 0) != (n < 0) {
		q--
	}
	return q
}
