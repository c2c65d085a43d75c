package tui

import (
	"sync"

	"go-autotracker/sequencer"
)

// Board is the tracker display: it keeps the text of every pattern and the
// row under the playhead. The manager writes it from the clock goroutine;
// the view reads it from the bubbletea goroutine.
type Board struct {
	mu    sync.Mutex
	lines [sequencer.NumVoices][]string
	code  string
	step  int
}

func NewBoard() *Board {
	return &Board{}
}

func (b *Board) SetPatterns(patterns [sequencer.NumVoices]sequencer.Pattern, code string) {
	var lines [sequencer.NumVoices][]string
	for v, p := range patterns {
		lines[v] = p.Lines()
	}
	b.mu.Lock()
	b.lines, b.code = lines, code
	b.mu.Unlock()
}

func (b *Board) HighlightRow(step int) {
	b.mu.Lock()
	b.step = step
	b.mu.Unlock()
}

// BoardView is a consistent copy of the board
type BoardView struct {
	Lines [sequencer.NumVoices][]string
	Code  string
	Step  int
}

func (b *Board) View() BoardView {
	b.mu.Lock()
	defer b.mu.Unlock()
	return BoardView{Lines: b.lines, Code: b.code, Step: b.step}
}

// Window returns the first row of a rows-high window that keeps step
// centred where possible
func Window(step, rows int) int {
	if rows >= sequencer.PatternSize {
		return 0
	}
	start := step - rows/2
	return max(0, min(start, sequencer.PatternSize-rows))
}
