package widgets

import (
	"strings"
	"testing"
)

func TestPadGrid(t *testing.T) {
	var g PadGrid
	g.Set(8, 0, [3]uint8{0, 100, 255})
	g.Set(0, 8, [3]uint8{255, 0, 0})
	g.Set(9, 0, [3]uint8{1, 1, 1})  // ignored
	g.Set(-1, 3, [3]uint8{1, 1, 1}) // ignored

	if !g.Lit(8, 0) || !g.Lit(0, 8) {
		t.Error("Expected corner pads lit")
	}
	if g.Lit(4, 4) || g.Lit(9, 0) {
		t.Error("Expected other pads dark")
	}

	g.Set(8, 0, [3]uint8{})
	if g.Lit(8, 0) {
		t.Error("Expected black to switch a pad off")
	}

	out := g.Render('#', '.')
	lines := strings.Split(out, "\n")
	if len(lines) != GridSize {
		t.Fatalf("Expected %d lines, got %d", GridSize, len(lines))
	}
	if strings.Count(out, "#") != 1 {
		t.Errorf("Expected one lit pad, got %d", strings.Count(out, "#"))
	}
	if !strings.Contains(lines[GridSize-1], "#") {
		t.Error("Expected row 0 drawn last")
	}
}

func TestRenderKeyHelp(t *testing.T) {
	out := RenderKeyHelp([]KeySection{
		{Title: "Transport", Keys: []KeyBinding{{Key: "space", Desc: "play/stop"}}},
		{Keys: []KeyBinding{{Key: "q", Desc: "quit"}}},
	})
	want := "Transport\n  space        play/stop\n  q            quit"
	if out != want {
		t.Errorf("Expected %q, got %q", want, out)
	}

	line := RenderKeyLine([]KeyBinding{{Key: "p", Desc: "play"}, {Key: "q", Desc: "quit"}})
	if line != "p:play  q:quit" {
		t.Errorf("Expected %q, got %q", "p:play  q:quit", line)
	}
}
