package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Backend selects where the five voices are played
type Backend string

const (
	BackendAudio Backend = "audio"
	BackendMIDI  Backend = "midi"
	BackendNone  Backend = "none"
)

// ParseBackend accepts audio, midi or none in any case
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(s))); b {
	case BackendAudio, BackendMIDI, BackendNone:
		return b, nil
	}
	return "", fmt.Errorf("unknown backend %q (want audio, midi or none)", s)
}

// ControllerConfig is a grid controller that should be used as a display
type ControllerConfig struct {
	PortName    string `json:"portName"`
	AutoConnect bool   `json:"autoConnect"`
}

// OutputConfig defines the synth output
type OutputConfig struct {
	Backend  Backend `json:"backend"`
	PortName string  `json:"portName,omitempty"` // MIDI port, empty = first
	Channels []int   `json:"channels,omitempty"` // MIDI channel per voice, 1-16
	Kit      string  `json:"kit,omitempty"`      // drum kit for the MIDI backend
}

// AudioConfig holds the built-in synth settings
type AudioConfig struct {
	Volume     int `json:"volume"` // 0-100
	SampleRate int `json:"sampleRate"`
}

// UIConfig stores display preferences
type UIConfig struct {
	Palette     string `json:"palette,omitempty"` // GPL file, empty = embedded default
	VisibleRows int    `json:"visibleRows,omitempty"`
}

// Config is the main configuration structure
type Config struct {
	Output      OutputConfig       `json:"output"`
	Audio       AudioConfig        `json:"audio"`
	Controllers []ControllerConfig `json:"controllers,omitempty"`
	UI          UIConfig           `json:"ui,omitempty"`
	LastCode    string             `json:"lastCode,omitempty"`
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Output: OutputConfig{
			Backend:  BackendAudio,
			Channels: []int{1, 2, 3, 4, 10},
			Kit:      "gm",
		},
		Audio: AudioConfig{
			Volume:     80,
			SampleRate: 44100,
		},
		Controllers: []ControllerConfig{
			{PortName: "Launchpad X LPX MIDI", AutoConnect: true},
		},
		UI: UIConfig{VisibleRows: 16},
	}
}

// ConfigDir returns ~/.config/go-autotracker
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-autotracker"), nil
}

// ConfigPath returns the full path to config.json
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, or returns defaults if not found.
// Missing fields keep their defaults.
func Load() (*Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigPath()
	if err != nil {
		return cfg, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, err
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	cfg.normalize()
	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save() error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(dir, "config.json"), data, 0644)
}

// ApplyEnv overrides settings from AUTOTRACKER_* environment variables
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("AUTOTRACKER_BACKEND"); ok {
		b, err := ParseBackend(v)
		if err != nil {
			return fmt.Errorf("AUTOTRACKER_BACKEND: %w", err)
		}
		c.Output.Backend = b
	}
	if v, ok := os.LookupEnv("AUTOTRACKER_MIDI_PORT"); ok {
		c.Output.PortName = v
	}
	if v, ok := os.LookupEnv("AUTOTRACKER_VOLUME"); ok {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("AUTOTRACKER_VOLUME: %w", err)
		}
		c.Audio.Volume = n
	}
	if v, ok := os.LookupEnv("AUTOTRACKER_KIT"); ok {
		c.Output.Kit = v
	}
	c.normalize()
	return nil
}

func (c *Config) normalize() {
	c.Audio.Volume = min(max(c.Audio.Volume, 0), 100)
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Output.Backend == "" {
		c.Output.Backend = BackendAudio
	}
	if c.UI.VisibleRows <= 0 {
		c.UI.VisibleRows = 16
	}
}

// Channel returns the 0-based MIDI channel for a voice. Voices without a
// configured channel use their index; the drum voice defaults to channel 10.
func (c *Config) Channel(voice int) uint8 {
	if voice < len(c.Output.Channels) {
		if ch := c.Output.Channels[voice]; ch >= 1 && ch <= 16 {
			return uint8(ch - 1)
		}
	}
	if voice == 4 {
		return 9
	}
	return uint8(voice & 0x0F)
}

// AutoConnectPorts returns the port names of controllers with autoConnect set
func (c *Config) AutoConnectPorts() []string {
	var result []string
	for _, ctrl := range c.Controllers {
		if ctrl.AutoConnect {
			result = append(result, ctrl.PortName)
		}
	}
	return result
}
