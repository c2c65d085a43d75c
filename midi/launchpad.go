package midi

import (
	"fmt"
	"sync"
	"sync/atomic"

	"go-autotracker/debug"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Novation SysEx header for the Launchpad X
var lpxHeader = []byte{0x00, 0x20, 0x29, 0x02, 0x0C}

// Launchpad drives a Novation Launchpad X in programmer mode
type Launchpad struct {
	id   string
	mu   sync.Mutex
	send func(msg gomidi.Message) error
	stop func()
	sent atomic.Uint64

	pads      chan PadEvent
	closeOnce sync.Once
}

// NewLaunchpad opens a Launchpad on the given ports. Either port may be nil.
func NewLaunchpad(id string, inPort drivers.In, outPort drivers.Out) (*Launchpad, error) {
	var send func(gomidi.Message) error
	if outPort != nil {
		s, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		send = s
	}

	lp := newLaunchpad(id, send)

	if inPort != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, _ int32) {
			lp.handle(msg)
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		lp.stop = stop
	}
	return lp, nil
}

func newLaunchpad(id string, send func(gomidi.Message) error) *Launchpad {
	lp := &Launchpad{id: id, send: send, pads: make(chan PadEvent, 32)}
	if send != nil {
		// programmer mode, full brightness, external LED feedback
		lp.sysex(0x00, 0x7F)
		lp.sysex(0x08, 0x7F)
		lp.sysex(0x0A, 0x01, 0x01)
	}
	return lp
}

func (lp *Launchpad) sysex(data ...byte) {
	msg := append(append([]byte{}, lpxHeader...), data...)
	lp.send(gomidi.SysEx(msg))
}

// handle turns incoming notes (grid and side column) and CCs (top row) into
// pad presses. Releases are dropped.
func (lp *Launchpad) handle(msg gomidi.Message) {
	var ch, key, val uint8
	row, col := -1, -1
	switch {
	case msg.GetNoteOn(&ch, &key, &val) && val > 0:
		row, col = NoteToGrid(key)
	case msg.GetControlChange(&ch, &key, &val) && val > 0:
		if key >= 91 && key <= 98 {
			row, col = 8, int(key-91)
		}
	}
	if row < 0 {
		return
	}
	select {
	case lp.pads <- PadEvent{Row: row, Col: col, Velocity: val}:
	default:
	}
}

func (lp *Launchpad) ID() string { return lp.id }

func (lp *Launchpad) Type() ControllerType { return ControllerLaunchpad }

func (lp *Launchpad) PadEvents() <-chan PadEvent { return lp.pads }

// SetLEDRGB lights one pad with the nearest palette colour
func (lp *Launchpad) SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error {
	return lp.SetLEDBatch([]LEDUpdate{{Row: row, Col: col, Color: rgb, Channel: channel}})
}

// SetLEDBatch sends the updates as individual NoteOns
func (lp *Launchpad) SetLEDBatch(updates []LEDUpdate) error {
	if lp.send == nil || len(updates) == 0 {
		return nil
	}
	lp.mu.Lock()
	defer lp.mu.Unlock()
	for _, u := range updates {
		note := GridNote(u.Row, u.Col)
		if err := lp.send(gomidi.NoteOn(u.Channel&0x0F, note, NearestColor(u.Color))); err != nil {
			return err
		}
	}
	n := lp.sent.Add(uint64(len(updates)))
	if n%500 < uint64(len(updates)) {
		debug.Log("lp", "%s: %d LED updates sent", lp.id, n)
	}
	return nil
}

// Sent returns the number of LED updates sent so far
func (lp *Launchpad) Sent() uint64 {
	return lp.sent.Load()
}

// Close blanks every pad and stops listening
func (lp *Launchpad) Close() error {
	var updates []LEDUpdate
	for row := 0; row < GridRows; row++ {
		for col := 0; col < GridCols; col++ {
			if row == 8 && col == 8 {
				continue // logo position, no LED
			}
			updates = append(updates, LEDUpdate{Row: row, Col: col})
		}
	}
	err := lp.SetLEDBatch(updates)
	if lp.stop != nil {
		lp.stop()
	}
	lp.closeOnce.Do(func() { close(lp.pads) })
	return err
}

// Launchpad X note layout:
// grid row 0 (bottom) = notes 11-18 ... row 7 = 81-88,
// side column = 19, 29 ... 89, top row = 91-98.

// GridNote returns the note that addresses a pad
func GridNote(row, col int) uint8 {
	if row == 8 {
		return uint8(91 + col)
	}
	return uint8((row+1)*10 + col + 1)
}

// NoteToGrid is the inverse of GridNote; it returns -1, -1 for notes
// outside the grid
func NoteToGrid(note uint8) (row, col int) {
	if note >= 91 && note <= 98 {
		return 8, int(note - 91)
	}
	row = int(note/10) - 1
	col = int(note%10) - 1
	if row < 0 || row > 7 || col < 0 || col > 8 {
		return -1, -1
	}
	return row, col
}

// approximate RGB of a subset of the Launchpad X palette, {velocity, r, g, b}
var lpxPalette = [][4]uint8{
	{0, 0, 0, 0},
	{5, 255, 0, 0},
	{6, 255, 80, 80},
	{7, 180, 60, 60},
	{9, 255, 100, 0},
	{11, 180, 80, 40},
	{13, 255, 200, 0},
	{17, 0, 180, 0},
	{19, 0, 100, 0},
	{21, 0, 255, 0},
	{37, 0, 200, 200},
	{43, 40, 60, 120},
	{45, 0, 100, 255},
	{47, 80, 150, 255},
	{49, 150, 0, 200},
	{53, 255, 80, 180},
	{78, 100, 100, 255},
	{84, 255, 150, 50},
	{87, 150, 255, 100},
	{97, 180, 180, 60},
	{119, 255, 255, 255},
}

// NearestColor maps an RGB colour to the closest palette velocity
func NearestColor(rgb [3]uint8) uint8 {
	best, bestDist := uint8(0), 1<<30
	r, g, b := int(rgb[0]), int(rgb[1]), int(rgb[2])
	for _, p := range lpxPalette {
		dr, dg, db := r-int(p[1]), g-int(p[2]), b-int(p[3])
		if d := dr*dr + dg*dg + db*db; d < bestDist {
			best, bestDist = p[0], d
		}
	}
	return best
}
