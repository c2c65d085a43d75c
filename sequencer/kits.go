package sequencer

import "sort"

// DrumKit maps the three drum hits to MIDI notes on a drum machine
type DrumKit struct {
	Name  string
	Kick  uint8
	Snare uint8
	Noise uint8 // closed hi-hat
}

// Note returns the MIDI note for a hit; ok is false for DrumOff
func (k DrumKit) Note(d Drum) (note uint8, ok bool) {
	switch d {
	case Kick:
		return k.Kick, true
	case Snare:
		return k.Snare, true
	case Noise:
		return k.Noise, true
	}
	return 0, false
}

// Kits contains the available drum kit mappings
var Kits = map[string]DrumKit{
	"gm":   {Name: "General MIDI", Kick: 36, Snare: 38, Noise: 42},
	"rd8":  {Name: "Behringer RD-8", Kick: 36, Snare: 40, Noise: 42}, // RD-8 snare is 40, not 38
	"tr8s": {Name: "Roland TR-8S", Kick: 36, Snare: 38, Noise: 42},
	"er1":  {Name: "Korg ER-1", Kick: 36, Snare: 38, Noise: 42},
}

// DefaultKit is the default kit name
const DefaultKit = "gm"

// KitNames returns the available kit names, sorted
func KitNames() []string {
	names := make([]string, 0, len(Kits))
	for name := range Kits {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetKit returns a kit by name, defaulting to GM if not found
func GetKit(name string) DrumKit {
	if kit, ok := Kits[name]; ok {
		return kit
	}
	return Kits[DefaultKit]
}
