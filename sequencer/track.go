package sequencer

// Track is one voice's output slot: a synth plus mute/solo state
type Track struct {
	Name    string
	Channel uint8 // MIDI channel (0-15) when the synth is MIDI
	Synth   Synth
	Muted   bool
	Solo    bool

	silenced bool // the silence slot was already sent
}

// NewTrack creates a track for the given synth
func NewTrack(name string, channel uint8, synth Synth) *Track {
	if synth == nil {
		synth = Discard
	}
	return &Track{Name: name, Channel: channel, Synth: synth}
}

// Audible reports whether the track sounds, given whether any track is soloed
func (t *Track) Audible(soloActive bool) bool {
	return !t.Muted && (!soloActive || t.Solo)
}

// Play forwards slot to the synth. An inaudible track sends one silence
// slot and then nothing until it becomes audible again.
func (t *Track) Play(slot Slot, soloActive bool) {
	if !t.Audible(soloActive) {
		t.Silence(slot)
		return
	}
	t.silenced = false
	t.Synth.Play(slot)
}

// Silence stops the voice once; like is any slot of the voice's kind
func (t *Track) Silence(like Slot) {
	if t.silenced {
		return
	}
	t.silenced = true
	t.Synth.Play(silenceFor(like))
}
