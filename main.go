package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"go-autotracker/audio"
	"go-autotracker/config"
	"go-autotracker/debug"
	"go-autotracker/midi"
	"go-autotracker/sequencer"
	"go-autotracker/theme"
	"go-autotracker/tui"
)

var version = "0.1.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// options are the flags shared by the commands
type options struct {
	backend string
	port    string
	kit     string
	debug   bool
	resume  bool
	cycles  int
	out     string
	name    string
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:   "go-autotracker [seed|0xcode]",
		Short: "Endless self-mutating chiptune tracker",
		Long: `go-autotracker generates five voices of tracker music from a seed and
keeps rewriting them every two bars. Every state has a save code; passing
the code back restores the song at that point.

Examples:
  go-autotracker
  go-autotracker "rainy tuesday"
  go-autotracker 0x04010070003fcc --backend midi --port "IAC Driver Bus 1"`,
		Version:      version,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(cmd, opts, args)
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !opts.debug {
				return nil
			}
			return debug.Enable()
		},
	}
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Write a debug log to "+debug.Path())
	root.PersistentFlags().StringVar(&opts.kit, "kit", "", "Drum kit for MIDI output ("+strings.Join(sequencer.KitNames(), ", ")+")")
	root.Flags().StringVarP(&opts.backend, "backend", "b", "", "Output backend (audio, midi, none)")
	root.Flags().StringVarP(&opts.port, "port", "p", "", "MIDI output port (default: first port)")
	root.Flags().BoolVarP(&opts.resume, "resume", "r", false, "Continue from the last session's save code")

	codesCmd := &cobra.Command{
		Use:   "codes [seed|0xcode]",
		Short: "Print the save code after each mutation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCodes(cmd.OutOrStdout(), firstArg(args), opts.cycles)
		},
	}
	codesCmd.Flags().IntVarP(&opts.cycles, "cycles", "n", 16, "Number of mutations")

	exportCmd := &cobra.Command{
		Use:   "export [seed|0xcode]",
		Short: "Render mutation cycles to a Standard MIDI File",
		Long: `Render the song headless and write one track per voice.

Example:
  go-autotracker export "rainy tuesday" --cycles 32 --out rainy.mid`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExport(cmd.OutOrStdout(), opts, firstArg(args))
		},
	}
	exportCmd.Flags().IntVarP(&opts.cycles, "cycles", "n", 16, "Number of cycles to render")
	exportCmd.Flags().StringVarP(&opts.out, "out", "o", "song.mid", "Output file")

	portsCmd := &cobra.Command{
		Use:   "ports",
		Short: "List MIDI ports",
		RunE: func(cmd *cobra.Command, args []string) error {
			defer midi.CloseDriver()
			return runPorts(cmd.OutOrStdout())
		},
	}

	bookmarksCmd := &cobra.Command{
		Use:   "bookmarks",
		Short: "List bookmarked save codes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return listBookmarks(cmd.OutOrStdout())
		},
	}
	bookmarkAddCmd := &cobra.Command{
		Use:   "add <0xcode>",
		Short: "Bookmark a save code",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := sequencer.AddBookmark(args[0], opts.name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "bookmarked %s (%s)\n", b.Code, b.Label())
			return nil
		},
	}
	bookmarkAddCmd.Flags().StringVar(&opts.name, "name", "", "Bookmark name")
	bookmarkRmCmd := &cobra.Command{
		Use:   "rm <0xcode>",
		Short: "Delete a bookmark",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return sequencer.DeleteBookmark(args[0])
		},
	}
	bookmarksCmd.AddCommand(bookmarkAddCmd, bookmarkRmCmd)

	root.AddCommand(codesCmd, exportCmd, portsCmd, bookmarksCmd)
	return root
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

// loadConfig reads the config file, then the environment, then flags
func loadConfig(opts *options) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	if opts.backend != "" {
		b, err := config.ParseBackend(opts.backend)
		if err != nil {
			return nil, err
		}
		cfg.Output.Backend = b
	}
	if opts.port != "" {
		cfg.Output.PortName = opts.port
	}
	if opts.kit != "" {
		cfg.Output.Kit = opts.kit
	}
	return cfg, nil
}

// songInput picks what seeds the song: the argument, else the last code
// when resuming, else a random seed
func songInput(arg string, resume bool, cfg *config.Config) string {
	if arg == "" && resume {
		return cfg.LastCode
	}
	return arg
}

func runPlay(cmd *cobra.Command, opts *options, args []string) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	sched, err := sequencer.NewSong(songInput(firstArg(args), opts.resume, cfg))
	if err != nil {
		return err
	}

	th, err := theme.Load(cfg.UI.Palette)
	if err != nil {
		fmt.Fprintf(cmd.ErrOrStderr(), "%v, using default palette\n", err)
		th = theme.New(theme.DefaultPalette())
	}

	defer midi.CloseDriver()
	tracks, closeOutput := openTracks(cmd.ErrOrStderr(), cfg)
	defer closeOutput()

	manager := sequencer.NewManager(sched, tracks)

	deviceMgr := midi.NewDeviceManager(cfg.AutoConnectPorts())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go deviceMgr.Run(ctx)

	m := tui.NewModel(manager, deviceMgr, th, cfg.UI.VisibleRows)
	manager.Play()

	p := tea.NewProgram(m, tea.WithAltScreen())
	_, runErr := p.Run()
	manager.Stop()

	cfg.LastCode = manager.Code()
	if err := cfg.Save(); err != nil {
		debug.Log("config", "save: %v", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), "?"+cfg.LastCode)
	return runErr
}

// openTracks builds the five tracks for the configured backend. A backend
// that fails to open is reported and replaced by silence.
func openTracks(stderr io.Writer, cfg *config.Config) ([sequencer.NumVoices]*sequencer.Track, func()) {
	var synths [sequencer.NumVoices]sequencer.Synth
	closeFn := func() {}

	switch cfg.Output.Backend {
	case config.BackendAudio:
		engine := audio.NewEngine(cfg.Audio.SampleRate, cfg.Audio.Volume)
		if err := engine.Start(); err != nil {
			debug.Log("audio", "start failed: %v", err)
			fmt.Fprintf(stderr, "audio disabled: %v\n", err)
			break
		}
		synths = engine.Voices()
		closeFn = engine.Close

	case config.BackendMIDI:
		out, err := midi.OpenOutput(cfg.Output.PortName)
		if err != nil {
			debug.Log("midi", "open failed: %v", err)
			fmt.Fprintf(stderr, "MIDI output disabled: %v\n", err)
			break
		}
		kit := sequencer.GetKit(cfg.Output.Kit)
		for v := range synths {
			synths[v] = sequencer.NewMIDISynth(out, cfg.Channel(v), kit)
		}
		closeFn = out.Panic
	}

	var tracks [sequencer.NumVoices]*sequencer.Track
	for v := range tracks {
		tracks[v] = sequencer.NewTrack(sequencer.VoiceNames[v], cfg.Channel(v), synths[v])
	}
	return tracks, closeFn
}

func runCodes(w io.Writer, input string, cycles int) error {
	sched, err := sequencer.NewSong(input)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "%3d  ?%s  %s\n", 0, sched.Code(), sched.State().Describe())
	for i := 1; i <= cycles; i++ {
		sched.Tick(int64(i) * sequencer.CycleTicks)
		fmt.Fprintf(w, "%3d  ?%s  %s\n", i, sched.Code(), sched.State().Describe())
	}
	return nil
}

func runExport(w io.Writer, opts *options, input string) error {
	if opts.cycles <= 0 {
		return fmt.Errorf("--cycles must be positive, got %d", opts.cycles)
	}
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	sched, err := sequencer.NewSong(input)
	if err != nil {
		return err
	}

	var channels [sequencer.NumVoices]uint8
	for v := range channels {
		channels[v] = cfg.Channel(v)
	}
	rec := sequencer.Record(sched, opts.cycles, sequencer.GetKit(cfg.Output.Kit), channels)

	f, err := os.Create(opts.out)
	if err != nil {
		return err
	}
	if err := rec.WriteSMF(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", opts.out, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	fmt.Fprintf(w, "wrote %s: %d cycles, %d steps, %d tempo changes\n", opts.out, opts.cycles, rec.Steps, len(rec.Tempos)-1)
	fmt.Fprintf(w, "from ?%s\n", rec.Codes[0])
	return nil
}

func runPorts(w io.Writer) error {
	outs, err := midi.OutPortNames()
	if err != nil {
		return err
	}
	ins, err := midi.InPortNames()
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "Outputs:")
	for i, name := range outs {
		fmt.Fprintf(w, "  %d: %s\n", i, name)
	}
	fmt.Fprintln(w, "Inputs:")
	for i, name := range ins {
		fmt.Fprintf(w, "  %d: %s\n", i, name)
	}
	return nil
}

func listBookmarks(w io.Writer) error {
	marks, err := sequencer.ListBookmarks()
	if err != nil {
		return err
	}
	if len(marks) == 0 {
		fmt.Fprintln(w, "no bookmarks")
		return nil
	}
	for _, b := range marks {
		fmt.Fprintf(w, "?%s  %s\n", b.Code, b.Label())
	}
	return nil
}
