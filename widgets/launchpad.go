package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// GridSize is the Launchpad surface including the top and side button rows
const GridSize = 9

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8, symbol rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(symbol))
}

// PadGrid mirrors the LEDs of a controller. Row 0 is the bottom row.
type PadGrid struct {
	colors [GridSize][GridSize][3]uint8
	lit    [GridSize][GridSize]bool
}

// Set lights one pad; out of range pads are ignored
func (g *PadGrid) Set(row, col int, color [3]uint8) {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return
	}
	g.colors[row][col] = color
	g.lit[row][col] = color != [3]uint8{}
}

// Lit reports whether a pad is on
func (g *PadGrid) Lit(row, col int) bool {
	if row < 0 || row >= GridSize || col < 0 || col >= GridSize {
		return false
	}
	return g.lit[row][col]
}

// Render draws the grid top row first, lit pads as on and dark pads as off
func (g *PadGrid) Render(on, off rune) string {
	dim := lipgloss.NewStyle().Faint(true)
	var lines []string
	for row := GridSize - 1; row >= 0; row-- {
		var line strings.Builder
		for col := 0; col < GridSize; col++ {
			if col > 0 {
				line.WriteString(" ")
			}
			if g.lit[row][col] {
				line.WriteString(RenderPad(g.colors[row][col], on))
			} else {
				line.WriteString(dim.Render(string(off)))
			}
		}
		lines = append(lines, line.String())
	}
	return strings.Join(lines, "\n")
}

// RenderLegendItem renders a single legend item: "■ Name - description"
func RenderLegendItem(color [3]uint8, symbol rune, name, desc string) string {
	return fmt.Sprintf("  %s %s - %s", RenderPad(color, symbol), name, desc)
}

// RenderKeyHelp formats key bindings in a friendly way
func RenderKeyHelp(sections []KeySection) string {
	var lines []string
	for _, sec := range sections {
		if sec.Title != "" {
			lines = append(lines, sec.Title)
		}
		for _, k := range sec.Keys {
			lines = append(lines, fmt.Sprintf("  %-12s %s", k.Key, k.Desc))
		}
	}
	return strings.Join(lines, "\n")
}

// RenderKeyLine packs bindings on one line: "key:desc  key:desc"
func RenderKeyLine(keys []KeyBinding) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = k.Key + ":" + k.Desc
	}
	return strings.Join(parts, "  ")
}

// KeySection groups related key bindings
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// KeyBinding is a single key and its description
type KeyBinding struct {
	Key  string
	Desc string
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
