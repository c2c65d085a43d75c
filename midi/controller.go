package midi

// ControllerType identifies the kind of controller
type ControllerType int

const (
	ControllerUnknown ControllerType = iota
	ControllerLaunchpad
)

func (t ControllerType) String() string {
	switch t {
	case ControllerLaunchpad:
		return "launchpad"
	}
	return "unknown"
}

// PadEvent is sent when a pad/button is pressed on a grid controller.
// Row 0 is the bottom row; row 8 is the top control row, col 8 the side column.
type PadEvent struct {
	Row, Col int
	Velocity uint8
}

// LEDUpdate is one pad colour change
type LEDUpdate struct {
	Row, Col int
	Color    [3]uint8
	Channel  uint8 // ChannelStatic, ChannelFlash or ChannelPulse
}

// Controller is a grid controller used as a pattern display
type Controller interface {
	ID() string
	Type() ControllerType

	PadEvents() <-chan PadEvent

	SetLEDRGB(row, col int, rgb [3]uint8, channel uint8) error
	SetLEDBatch(updates []LEDUpdate) error

	Close() error
}

// Launchpad X colour modes (use as the 'channel' of an LED update)
const (
	ChannelStatic uint8 = 0 // solid colour
	ChannelFlash  uint8 = 1 // flashing A/B alternating
	ChannelPulse  uint8 = 2 // pulsing (fades)
)

// GridRows and GridCols cover the 8x8 grid plus the top row and side column
const (
	GridRows = 9
	GridCols = 9
)
