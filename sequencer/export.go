package sequencer

import (
	"io"

	"go-autotracker/midi"
)

// Recording is a headless render of some mutation cycles as MIDI events
type Recording struct {
	Tracks []midi.TrackData
	Tempos []midi.TempoChange
	Steps  int64
	Codes  []string // save code of every regeneration, in order
}

// Record runs sched for cycles*CycleTicks ticks through MIDI synths that
// record instead of send. Event ticks count from the first recorded tick.
func Record(sched *Scheduler, cycles int, kit DrumKit, channels [NumVoices]uint8) Recording {
	var recs [NumVoices]*midi.Recorder
	var tracks [NumVoices]*Track
	for v := range tracks {
		recs[v] = &midi.Recorder{}
		tracks[v] = NewTrack(VoiceNames[v], channels[v], NewMIDISynth(recs[v], channels[v], kit))
	}
	m := NewManager(sched, tracks)

	start := sched.LastTick() + 1
	steps := int64(cycles) * CycleTicks
	rec := Recording{
		Steps:  steps,
		Tempos: []midi.TempoChange{{Step: 0, BPM: float64(sched.State().BPM)}},
	}
	if start == 0 {
		rec.Codes = append(rec.Codes, sched.Code())
	}

	for f := start; f < start+steps; f++ {
		fr, _ := m.Step(f)
		if fr.Regenerated && f > 0 {
			rec.Codes = append(rec.Codes, sched.Code())
		}
		if fr.TempoChanged {
			rec.Tempos = append(rec.Tempos, midi.TempoChange{Step: f - start, BPM: float64(sched.State().BPM)})
		}
	}
	m.Stop() // release held notes

	for v, r := range recs {
		rec.Tracks = append(rec.Tracks, midi.TrackData{Name: VoiceNames[v], Events: r.Take()})
	}
	return rec
}

// WriteSMF writes the recording as a Standard MIDI File
func (r Recording) WriteSMF(w io.Writer) error {
	return midi.WriteSMF(w, r.Tracks, r.Tempos, r.Steps+1)
}
