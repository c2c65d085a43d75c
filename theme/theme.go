package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

type Theme struct {
	Palette *Palette
	Symbols Symbols
}

type Symbols struct {
	Playhead rune // ▶ current row
	Muted    rune // × voice muted
	Solo     rune // ● voice soloed
	Pad      rune // ■ lit pad
	PadOff   rune // · dark pad
}

func New(palette *Palette) *Theme {
	return &Theme{
		Palette: palette,
		Symbols: Symbols{
			Playhead: '▶',
			Muted:    '×',
			Solo:     '●',
			Pad:      '■',
			PadOff:   '·',
		},
	}
}

// Load returns the theme for a GPL file, or the embedded palette when
// path is empty
func Load(path string) (*Theme, error) {
	if path == "" {
		return New(DefaultPalette()), nil
	}
	p, err := LoadGPL(path)
	if err != nil {
		return nil, err
	}
	return New(p), nil
}

// Color roles mapped to palette positions (0-1)
const (
	RoleBG      = 0.0
	RoleMuted   = 0.2
	RoleFG      = 0.4
	RoleAccent  = 0.5
	RoleActive  = 0.7
	RoleWarning = 0.8
	RoleSuccess = 1.0
)

// Voice colours spread over the bright half of the palette
var voiceRoles = [5]float64{0.35, 0.5, 0.65, 0.8, 0.95}

func (t *Theme) BG() lipgloss.Color      { return rgbToLipgloss(t.Palette.Lookup(RoleBG)) }
func (t *Theme) FG() lipgloss.Color      { return rgbToLipgloss(t.Palette.Lookup(RoleFG)) }
func (t *Theme) Accent() lipgloss.Color  { return rgbToLipgloss(t.Palette.Lookup(RoleAccent)) }
func (t *Theme) Muted() lipgloss.Color   { return rgbToLipgloss(t.Palette.Lookup(RoleMuted)) }
func (t *Theme) Active() lipgloss.Color  { return rgbToLipgloss(t.Palette.Lookup(RoleActive)) }
func (t *Theme) Warning() lipgloss.Color { return rgbToLipgloss(t.Palette.Lookup(RoleWarning)) }
func (t *Theme) Success() lipgloss.Color { return rgbToLipgloss(t.Palette.Lookup(RoleSuccess)) }

// Voice returns the text colour of a voice column
func (t *Theme) Voice(v int) lipgloss.Color {
	return rgbToLipgloss(t.VoiceRGB()[v%len(voiceRoles)])
}

// VoiceRGB returns raw voice colours (for Launchpad)
func (t *Theme) VoiceRGB() [5][3]uint8 {
	var out [5][3]uint8
	for v, role := range voiceRoles {
		out[v] = t.Palette.Lookup(role)
	}
	return out
}

func rgbToLipgloss(c RGB) lipgloss.Color {
	return lipgloss.Color(Hex(c))
}

// Hex formats a colour as #rrggbb
func Hex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
