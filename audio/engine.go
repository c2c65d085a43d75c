// Package audio renders the five voices with built-in synths through the
// sound card.
package audio

import (
	"math"
	"sync"
	"time"

	"go-autotracker/debug"
	"go-autotracker/sequencer"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/effects"
	"github.com/gopxl/beep/speaker"
)

// VoicePan is the stereo position of each voice
var VoicePan = [sequencer.NumVoices]float64{0, -0.5, 0, 0.5, 0}

// Engine owns the mixer graph: synth -> pan -> mixer -> volume -> speaker
type Engine struct {
	mu          sync.Mutex
	sr          beep.SampleRate
	synths      [sequencer.NumVoices]sequencer.Synth
	mixer       *beep.Mixer
	volume      *effects.Volume
	ctrl        *beep.Ctrl
	initialized bool
}

// NewEngine builds the graph. volume is 0-100.
func NewEngine(sampleRate, volume int) *Engine {
	e := &Engine{
		sr:    beep.SampleRate(sampleRate),
		mixer: &beep.Mixer{},
	}
	for v := 0; v < sequencer.NumVoices; v++ {
		var st beep.Streamer
		if v == sequencer.DrumVoice {
			ds := NewDrumSynth(e.sr, time.Now().UnixNano())
			e.synths[v], st = ds, ds
		} else {
			ps := NewPulseSynth(e.sr)
			e.synths[v], st = ps, ps
		}
		e.mixer.Add(&effects.Pan{Streamer: st, Pan: VoicePan[v]})
	}
	e.volume = &effects.Volume{Streamer: e.mixer, Base: 2}
	setVolume(e.volume, volume)
	e.ctrl = &beep.Ctrl{Streamer: e.volume}
	return e
}

// setVolume maps 0-100 onto the volume effect; 0 is silent
func setVolume(v *effects.Volume, pct int) {
	if pct <= 0 {
		v.Volume, v.Silent = 0, true
		return
	}
	v.Volume, v.Silent = math.Log2(float64(min(pct, 100))/100), false
}

// Start opens the sound card and starts playing the graph
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		return nil
	}
	if err := speaker.Init(e.sr, e.sr.N(100*time.Millisecond)); err != nil {
		return err
	}
	speaker.Play(e.ctrl)
	e.initialized = true
	debug.Log("audio", "speaker started at %d Hz", e.sr)
	return nil
}

// Close pauses output and clears the mixer
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.initialized {
		return
	}
	speaker.Lock()
	e.ctrl.Paused = true
	e.mixer.Clear()
	speaker.Unlock()
	e.initialized = false
}

// SetVolume changes the master volume (0-100)
func (e *Engine) SetVolume(pct int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.initialized {
		speaker.Lock()
		defer speaker.Unlock()
	}
	setVolume(e.volume, pct)
}

// Voices returns the five synth sinks
func (e *Engine) Voices() [sequencer.NumVoices]sequencer.Synth {
	return e.synths
}

// Output is the master streamer, for rendering without a sound card
func (e *Engine) Output() beep.Streamer {
	return e.ctrl
}
