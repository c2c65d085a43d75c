package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"go-autotracker/midi"
	"go-autotracker/sequencer"
	"go-autotracker/theme"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}
	defer midi.CloseDriver()

	switch os.Args[1] {
	case "list":
		listPorts()
	case "notes":
		port := ""
		if len(os.Args) > 2 {
			port = os.Args[2]
		}
		playNotes(port)
	case "leds":
		testLEDs()
	case "poll":
		pollDevices()
	default:
		usage()
	}
}

func usage() {
	fmt.Println("MIDI Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list          - List all MIDI ports")
	fmt.Println("  notes [port]  - Play one pattern of every voice on its channel")
	fmt.Println("  leds          - Light the voice rows on a Launchpad")
	fmt.Println("  poll          - Watch Launchpads connect and disconnect")
}

func listPorts() {
	fmt.Println("=== MIDI Output Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")
	outs, err := midi.OutPortNames()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		fmt.Println("Fix: sudo killall coreaudiod midiserver")
		return
	}
	for i, name := range outs {
		fmt.Printf("  %d: %s\n", i, name)
	}

	fmt.Println("\n=== MIDI Input Ports ===")
	ins, err := midi.InPortNames()
	if err != nil {
		fmt.Printf("\n%v\n", err)
		return
	}
	for i, name := range ins {
		fmt.Printf("  %d: %s\n", i, name)
	}
}

// playNotes sends the first pattern of seed "miditest" through MIDI synths
// on channels 1-4 and 10
func playNotes(port string) {
	out, err := midi.OpenOutput(port)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}
	defer out.Panic()
	fmt.Printf("Using output: %s\n", out.Name())

	var tracks [sequencer.NumVoices]*sequencer.Track
	channels := [sequencer.NumVoices]uint8{0, 1, 2, 3, 9}
	kit := sequencer.GetKit(sequencer.DefaultKit)
	for v := range tracks {
		tracks[v] = sequencer.NewTrack(sequencer.VoiceNames[v], channels[v], sequencer.NewMIDISynth(out, channels[v], kit))
	}
	sched := sequencer.NewScheduler("miditest")
	mgr := sequencer.NewManager(sched, tracks)
	fmt.Printf("Playing %s  %v\n", sched.Code(), sched.Voices())

	period := sequencer.StepDuration(sched.State().BPM)
	for tick := int64(0); tick < sequencer.PatternSize; tick++ {
		mgr.Step(tick)
		time.Sleep(period)
	}
	mgr.Stop()
	fmt.Println("Done!")
}

func testLEDs() {
	fmt.Println("Looking for a Launchpad (5 seconds)...")
	dm := midi.NewDeviceManager(nil)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go dm.Run(ctx)

	var ctrl midi.Controller
	select {
	case ev := <-dm.Events():
		ctrl = ev.Controller
	case <-time.After(5 * time.Second):
		fmt.Println("No Launchpad found")
		return
	}
	fmt.Printf("Found %s\n", ctrl.ID())

	colors := theme.New(theme.DefaultPalette()).VoiceRGB()
	var updates []midi.LEDUpdate
	for v := 0; v < sequencer.NumVoices; v++ {
		for col := 0; col < 8; col++ {
			updates = append(updates, midi.LEDUpdate{Row: 7 - v, Col: col, Color: colors[v]})
		}
	}
	if err := ctrl.SetLEDBatch(updates); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	fmt.Println("Press pads to see events, Enter to clear...")
	go func() {
		for pad := range ctrl.PadEvents() {
			fmt.Printf("  pad row=%d col=%d vel=%d\n", pad.Row, pad.Col, pad.Velocity)
		}
	}()
	fmt.Scanln()
	fmt.Println("Done!")
}

func pollDevices() {
	fmt.Println("Watching for Launchpads. Ctrl+C to exit.")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	dm := midi.NewDeviceManager(nil)
	go dm.Run(ctx)

	for ev := range dm.Events() {
		state := "connected"
		if ev.Type == midi.DeviceDisconnected {
			state = "disconnected"
		}
		fmt.Printf("[%s] %s %s\n", time.Now().Format("15:04:05"), ev.ID, state)
	}
}
