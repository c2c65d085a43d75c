package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-autotracker/debug"
	"go-autotracker/midi"
	"go-autotracker/sequencer"
	"go-autotracker/theme"
	"go-autotracker/widgets"
)

// slot text is at most "A-1 wFF gFF v1FE"
const columnWidth = 16

// padLink is a connected Launchpad and the display driving it
type padLink struct {
	ctrl    midi.Controller
	display *sequencer.LaunchpadDisplay
	cancel  context.CancelFunc
}

type Model struct {
	Manager   *sequencer.Manager
	DeviceMgr *midi.DeviceManager // may be nil
	Theme     *theme.Theme
	Board     *Board
	rows      int
	showPads  bool
	showHelp  bool
	status    string
	quitting  bool
	pad       *padLink
}

type UpdateMsg struct{}

type DeviceEventMsg midi.DeviceEvent

// NewModel creates the TUI and attaches its board to the manager. rows is
// the number of pattern rows shown around the playhead.
func NewModel(manager *sequencer.Manager, deviceMgr *midi.DeviceManager, th *theme.Theme, rows int) Model {
	if rows <= 0 {
		rows = 16
	}
	board := NewBoard()
	manager.AddDisplay(board)
	return Model{
		Manager:   manager,
		DeviceMgr: deviceMgr,
		Theme:     th,
		Board:     board,
		rows:      min(rows, sequencer.PatternSize),
	}
}

func ListenForUpdates(manager *sequencer.Manager) tea.Cmd {
	return func() tea.Msg {
		<-manager.UpdateChan
		return UpdateMsg{}
	}
}

func ListenForDevices(deviceMgr *midi.DeviceManager) tea.Cmd {
	if deviceMgr == nil {
		return nil
	}
	return func() tea.Msg {
		event, ok := <-deviceMgr.Events()
		if !ok {
			return nil
		}
		return DeviceEventMsg(event)
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(
		ListenForUpdates(m.Manager),
		ListenForDevices(m.DeviceMgr),
	)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg.String())

	case UpdateMsg:
		return m, ListenForUpdates(m.Manager)

	case DeviceEventMsg:
		m = m.handleDevice(midi.DeviceEvent(msg))
		return m, ListenForDevices(m.DeviceMgr)
	}

	return m, nil
}

func (m Model) handleKey(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q", "ctrl+c":
		m.quitting = true
		m.Manager.Stop()
		m.disconnectPad()
		return m, tea.Quit

	case " ", "space", "p":
		m.Manager.TogglePlay()

	case "1", "2", "3", "4", "5":
		v := int(key[0] - '1')
		muted := m.Manager.ToggleMute(v)
		if m.pad != nil {
			m.pad.display.Invalidate()
		}
		m.status = sequencer.VoiceNames[v] + " on"
		if muted {
			m.status = sequencer.VoiceNames[v] + " muted"
		}

	case "!", "@", "#", "$", "%":
		v := strings.Index("!@#$%", key)
		solo := m.Manager.ToggleSolo(v)
		m.status = sequencer.VoiceNames[v] + " unsolo"
		if solo {
			m.status = sequencer.VoiceNames[v] + " solo"
		}

	case "b":
		code := m.Manager.Code()
		if _, err := sequencer.AddBookmark(code, ""); err != nil {
			debug.Log("tui", "bookmark %s: %v", code, err)
			m.status = "bookmark failed: " + err.Error()
		} else {
			m.status = "bookmarked " + code
		}

	case "l":
		m.showPads = !m.showPads

	case "?":
		m.showHelp = !m.showHelp
	}
	return m, nil
}

func (m Model) handleDevice(ev midi.DeviceEvent) Model {
	switch ev.Type {
	case midi.DeviceConnected:
		if m.pad != nil {
			debug.Log("tui", "ignoring %s, %s already connected", ev.ID, m.pad.ctrl.ID())
			return m
		}
		display := sequencer.NewLaunchpadDisplay(ev.Controller, m.Theme.VoiceRGB(), m.Manager.Muted)
		ctx, cancel := context.WithCancel(context.Background())
		m.pad = &padLink{ctrl: ev.Controller, display: display, cancel: cancel}
		m.Manager.AddDisplay(display)
		manager := m.Manager
		go display.Run(ctx, func(v int) { manager.ToggleMute(v) })
		m.status = "connected " + ev.ID

	case midi.DeviceDisconnected:
		if m.pad != nil && m.pad.ctrl.ID() == ev.ID {
			m.disconnectPad()
			m.pad = nil
			m.status = "disconnected " + ev.ID
		}
	}
	return m
}

func (m Model) disconnectPad() {
	if m.pad == nil {
		return
	}
	m.pad.cancel()
	m.Manager.RemoveDisplay(m.pad.display)
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	snap := m.Manager.Snapshot()
	board := m.Board.View()

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	rowStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	cursorStyle := lipgloss.NewStyle().Reverse(true)

	playState := "STOP"
	if snap.Playing {
		playState = "PLAY"
	}
	deviceStatus := ""
	if m.pad != nil {
		deviceStatus = "  LP:X"
	}

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(headerStyle.Render(fmt.Sprintf("go-autotracker  %s  %s%s", playState, snap.State.Describe(), deviceStatus)))
	out.WriteString("\n")
	out.WriteString(dimStyle.Render("?" + snap.Code))
	out.WriteString("\n\n")

	// column headers
	out.WriteString("    ")
	for v := 0; v < sequencer.NumVoices; v++ {
		label := snap.Voices[v]
		switch {
		case snap.Muted[v]:
			label = string(m.Theme.Symbols.Muted) + label
		case snap.Solo[v]:
			label = string(m.Theme.Symbols.Solo) + label
		}
		out.WriteString(" ")
		out.WriteString(m.voiceStyle(v, snap.Muted[v]).Render(fit(label)))
	}
	out.WriteString("\n")

	start := Window(board.Step, m.rows)
	for row := start; row < start+m.rows; row++ {
		marker := "  "
		if row == board.Step {
			marker = string(m.Theme.Symbols.Playhead) + " "
		}
		out.WriteString(rowStyle.Render(fmt.Sprintf("%s%02X", marker, row)))
		for v := 0; v < sequencer.NumVoices; v++ {
			text := ""
			if lines := board.Lines[v]; row < len(lines) {
				text = lines[row]
			}
			cell := m.voiceStyle(v, snap.Muted[v])
			if row == board.Step {
				cell = cell.Inherit(cursorStyle)
			}
			out.WriteString(" ")
			out.WriteString(cell.Render(fit(text)))
		}
		out.WriteString("\n")
	}

	if m.showPads && m.pad != nil {
		var grid widgets.PadGrid
		for _, led := range m.pad.display.RenderLEDs() {
			grid.Set(led.Row, led.Col, led.Color)
		}
		out.WriteString("\n")
		out.WriteString(grid.Render(m.Theme.Symbols.Pad, m.Theme.Symbols.PadOff))
		out.WriteString("\n")
		colors := m.Theme.VoiceRGB()
		for v, name := range sequencer.VoiceNames {
			out.WriteString(widgets.RenderLegendItem(colors[v], m.Theme.Symbols.Pad, name, fmt.Sprintf("row %d", 8-v)))
			out.WriteString("\n")
		}
	}

	out.WriteString("\n")
	if m.status != "" {
		out.WriteString(rowStyle.Render(m.status))
		out.WriteString("\n")
	}
	if m.showHelp {
		out.WriteString(dimStyle.Render(widgets.RenderKeyHelp(keyHelp)))
	} else {
		var keys []widgets.KeyBinding
		for _, sec := range keyHelp {
			keys = append(keys, sec.Keys...)
		}
		out.WriteString(dimStyle.Render(widgets.RenderKeyLine(keys)))
	}
	return out.String()
}

var keyHelp = []widgets.KeySection{
	{Title: "Transport", Keys: []widgets.KeyBinding{
		{Key: "space/p", Desc: "play"},
		{Key: "q", Desc: "quit"},
	}},
	{Title: "Voices", Keys: []widgets.KeyBinding{
		{Key: "1-5", Desc: "mute"},
		{Key: "shift+1-5", Desc: "solo"},
	}},
	{Title: "Other", Keys: []widgets.KeyBinding{
		{Key: "b", Desc: "bookmark"},
		{Key: "l", Desc: "pads"},
		{Key: "?", Desc: "help"},
	}},
}

func (m Model) voiceStyle(v int, muted bool) lipgloss.Style {
	if muted {
		return lipgloss.NewStyle().Foreground(m.Theme.Muted())
	}
	return lipgloss.NewStyle().Foreground(m.Theme.Voice(v))
}

func fit(s string) string {
	return fmt.Sprintf("%-*s", columnWidth, s)
}
