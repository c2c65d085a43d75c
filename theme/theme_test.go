package theme

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultPalette(t *testing.T) {
	p := DefaultPalette()
	if p.Name != "plasma" {
		t.Errorf("Expected name plasma, got %q", p.Name)
	}
	if len(p.Colors) != 20 {
		t.Errorf("Expected 20 colors, got %d", len(p.Colors))
	}
	if got := p.Lookup(0); got != (RGB{13, 8, 135}) {
		t.Errorf("Expected first color, got %v", got)
	}
	if got := p.Lookup(2); got != (RGB{240, 249, 33}) {
		t.Errorf("Expected last color for norm > 1, got %v", got)
	}
}

func TestParseGPL(t *testing.T) {
	src := "GIMP Palette\nName: two\nColumns: 2\n# comment\n0 0 0 black\n255 100 0\nbad line\n300 0 0 out of range\n"
	p, err := ParseGPL(strings.NewReader(src))
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if p.Name != "two" || len(p.Colors) != 2 {
		t.Fatalf("Expected two colors named two, got %q %v", p.Name, p.Colors)
	}
	if got := p.Lookup(0.5); got != (RGB{127, 50, 0}) {
		t.Errorf("Expected midpoint {127 50 0}, got %v", got)
	}

	if _, err := ParseGPL(strings.NewReader("GIMP Palette\n")); err == nil {
		t.Error("Expected error for a palette without colors")
	}
}

func TestLoad(t *testing.T) {
	th, err := Load("")
	if err != nil || th.Palette.Name != "plasma" {
		t.Fatalf("Expected embedded palette, got %v %v", th, err)
	}

	path := filepath.Join(t.TempDir(), "mono.gpl")
	if err := os.WriteFile(path, []byte("GIMP Palette\n10 20 30\n"), 0644); err != nil {
		t.Fatal(err)
	}
	th, err = Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if got := th.VoiceRGB()[3]; got != [3]uint8{10, 20, 30} {
		t.Errorf("Expected single color for every voice, got %v", got)
	}
	if got := string(th.Voice(0)); got != "#0a141e" {
		t.Errorf("Expected #0a141e, got %s", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.gpl")); err == nil {
		t.Error("Expected error for a missing file")
	}
}
