package sequencer

import "go-autotracker/rng"

var drumAccents = []Drum{Kick, Snare}

// Drums is a fixed kick/snare backbeat with random extra kicks on even
// steps and rare accents over a noise hat. Downbeats are louder.
func Drums(_ MusicContext, r rng.Rand) Pattern {
	return drumPattern(func(i int) DrumSlot {
		var hit Drum
		switch {
		case i%8 == 0:
			hit = Kick
		case i%8 == 4:
			hit = Snare
		case i%2 == 0 && r.Flip(0.2):
			hit = Kick
		case r.Flip(0.05):
			hit = rng.Choose(r, drumAccents)
		default:
			hit = Noise
		}
		return DrumSlot{Hit: hit, Velocity: 0.6 + 0.2*float64(1-i%2)}
	})
}
