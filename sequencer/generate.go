package sequencer

import (
	"fmt"

	"go-autotracker/rng"
	"go-autotracker/theory"
)

// MusicContext is the harmonic frame every generator works inside
type MusicContext struct {
	Progression theory.Progression
	Key         int
	Scale       theory.Scale
}

func (c MusicContext) chord(step int, shape []int) []int {
	return theory.ChordAt(c.Progression, c.Key, c.Scale, step, shape)
}

// GeneratorFunc builds one pattern. Draws from r happen in a fixed order
// per generator; that order is what makes a seed code reproducible.
type GeneratorFunc func(ctx MusicContext, r rng.Rand) Pattern

// Generator names, as shown in logs and the TUI
const (
	GenEmpty     = "empty"
	GenEmptyDrum = "emptyDrum"
	GenBass      = "bass"
	GenBass2     = "bass2"
	GenArp       = "arp"
	GenMelody    = "melody1"
	GenDrum      = "drum"
)

var generators = map[string]GeneratorFunc{
	GenEmpty:     Empty,
	GenEmptyDrum: EmptyDrum,
	GenBass:      Bass,
	GenBass2:     Bass2,
	GenArp:       Arp,
	GenMelody:    Melody,
	GenDrum:      Drums,
}

// Generator looks up a generator by name
func Generator(name string) (GeneratorFunc, error) {
	g, ok := generators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownGenerator, name)
	}
	return g, nil
}

// GeneratorNames lists every registered generator
func GeneratorNames() []string {
	return []string{GenEmpty, GenEmptyDrum, GenBass, GenBass2, GenArp, GenMelody, GenDrum}
}

// chooseVoices picks a generator for each voice and runs it immediately,
// so each voice's selection draw sits right before that generator's draws.
func chooseVoices(ctx MusicContext, r rng.Rand) ([NumVoices]string, [NumVoices]Pattern) {
	var names [NumVoices]string
	var patterns [NumVoices]Pattern

	pick := func(v int, name string) {
		names[v] = name
		patterns[v] = generators[name](ctx, r)
	}

	pick(0, rng.Choose(r, []string{GenBass, GenBass2, GenEmpty}))
	pick(1, either(r, 0.7, GenArp, GenEmpty))
	pick(2, either(r, 0.7, GenMelody, GenEmpty))
	pick(3, rng.Choose(r, []string{GenEmpty, GenArp, GenMelody}))
	pick(4, either(r, 0.8, GenDrum, GenEmptyDrum))

	return names, patterns
}

func either(r rng.Rand, p float64, yes, no string) string {
	if r.Float64() < p {
		return yes
	}
	return no
}
