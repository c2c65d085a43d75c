package midi

import (
	"fmt"
	"io"
	"sort"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// TempoChange sets the tempo from a sequencer step on
type TempoChange struct {
	Step int64
	BPM  float64
}

// TrackData is one exported track: a name and step-stamped events
type TrackData struct {
	Name   string
	Events []Event
}

type timed struct {
	abs uint32
	msg gomidi.Message
}

// WriteSMF writes a format 1 Standard MIDI File at PPQ resolution. Track 0
// holds meter and tempo; each TrackData becomes one further track. Triggers
// are held for just under one step.
func WriteSMF(w io.Writer, tracks []TrackData, tempos []TempoChange, lengthSteps int64) error {
	sm := smf.New()
	sm.TimeFormat = smf.MetricTicks(PPQ)

	end := uint32(lengthSteps * TicksPerStep)

	var track0 smf.Track
	track0.Add(0, smf.MetaMeter(4, 4))
	var meta []timed
	for _, tc := range tempos {
		meta = append(meta, timed{abs: uint32(tc.Step * TicksPerStep), msg: gomidi.Message(smf.MetaTempo(tc.BPM))})
	}
	addTimed(&track0, meta, end)
	if err := sm.Add(track0); err != nil {
		return fmt.Errorf("add tempo track: %w", err)
	}

	for _, td := range tracks {
		var track smf.Track
		track.Add(0, smf.MetaTrackSequenceName(td.Name))

		var evs []timed
		for _, e := range td.Events {
			abs := uint32(e.Tick * TicksPerStep)
			if e.Type == Trigger {
				ch := e.Channel & 0x0F
				evs = append(evs,
					timed{abs: abs, msg: gomidi.NoteOn(ch, e.Note, e.Velocity)},
					timed{abs: abs + TicksPerStep - 1, msg: gomidi.NoteOff(ch, e.Note)})
				continue
			}
			for _, msg := range Messages(e) {
				evs = append(evs, timed{abs: abs, msg: msg})
			}
		}
		addTimed(&track, evs, end)
		if err := sm.Add(track); err != nil {
			return fmt.Errorf("add track %s: %w", td.Name, err)
		}
	}

	if _, err := sm.WriteTo(w); err != nil {
		return fmt.Errorf("write smf: %w", err)
	}
	return nil
}

// addTimed appends absolute-time messages as deltas and closes the track
// at end
func addTimed(track *smf.Track, evs []timed, end uint32) {
	sort.SliceStable(evs, func(i, j int) bool { return evs[i].abs < evs[j].abs })
	var last uint32
	for _, e := range evs {
		track.Add(e.abs-last, e.msg)
		last = e.abs
	}
	if end < last {
		end = last
	}
	track.Close(end - last)
}
