// Package app wires the nsf driver, an audio sink, and song-selection
// state together into the player a command-line front end drives.
package app

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Config holds all application configuration.
type Config struct {
	Audio     AudioConfig     `json:"audio"`
	Emulation EmulationConfig `json:"emulation"`
	Debug     DebugConfig     `json:"debug"`
	Paths     PathsConfig     `json:"paths"`

	configPath string
	loaded     bool
}

// AudioConfig contains audio sink configuration.
type AudioConfig struct {
	Backend    string  `json:"backend"` // "ebitengine", "headless", "wav"
	SampleRate int     `json:"sample_rate"`
	BufferSize int     `json:"buffer_size"`
	Volume     float32 `json:"volume"`
}

// EmulationConfig contains playback settings that apply across songs.
type EmulationConfig struct {
	Region        string `json:"region"` // "auto", "NTSC", "PAL"
	CycleAccuracy bool   `json:"cycle_accuracy"`
	LoopSong      bool   `json:"loop_song"`
	SongDuration  int    `json:"song_duration_seconds"` // 0 = play until explicitly advanced
}

// DebugConfig contains debugging and development options.
type DebugConfig struct {
	ShowVUMeter   bool   `json:"show_vu_meter"`
	EnableLogging bool   `json:"enable_logging"`
	LogLevel      string `json:"log_level"` // "DEBUG", "INFO", "WARN", "ERROR"
	RegisterTrace bool   `json:"register_trace"`
}

// PathsConfig contains file and directory paths.
type PathsConfig struct {
	NSFLibrary string `json:"nsf_library"`
	WAVExport  string `json:"wav_export"`
	Config     string `json:"config"`
	Logs       string `json:"logs"`
}

// NewConfig creates a new configuration with default values.
func NewConfig() *Config {
	return &Config{
		Audio: AudioConfig{
			Backend:    "ebitengine",
			SampleRate: 44100,
			BufferSize: 4096,
			Volume:     0.8,
		},
		Emulation: EmulationConfig{
			Region:        "auto",
			CycleAccuracy: true,
			LoopSong:      false,
			SongDuration:  0,
		},
		Debug: DebugConfig{
			ShowVUMeter:   false,
			EnableLogging: false,
			LogLevel:      "INFO",
			RegisterTrace: false,
		},
		Paths: PathsConfig{
			NSFLibrary: "./nsf",
			WAVExport:  "./export",
			Config:     "./config",
			Logs:       "./logs",
		},
		loaded: false,
	}
}

// LoadFromFile loads configuration from a JSON file.
func (c *Config) LoadFromFile(path string) error {
	c.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return c.SaveToFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %v", err)
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file: %v", err)
	}
	if err := c.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %v", err)
	}
	if err := c.createDirectories(); err != nil {
		return fmt.Errorf("failed to create directories: %v", err)
	}

	c.loaded = true
	return nil
}

// SaveToFile saves configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %v", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %v", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %v", err)
	}

	c.configPath = path
	return nil
}

// Save saves the configuration to the current config file.
func (c *Config) Save() error {
	if c.configPath == "" {
		return fmt.Errorf("no config file path set")
	}
	return c.SaveToFile(c.configPath)
}

// validate clamps out-of-range numeric values to safe defaults. An
// unrecognised emulation region is not clamped: it is rejected with a
// *ConfigError.
func (c *Config) validate() error {
	if c.Audio.SampleRate <= 0 {
		c.Audio.SampleRate = 44100
	}
	if c.Audio.BufferSize <= 0 {
		c.Audio.BufferSize = 4096
	}
	if c.Audio.Volume < 0.0 || c.Audio.Volume > 1.0 {
		c.Audio.Volume = 0.8
	}
	switch c.Emulation.Region {
	case "auto", "NTSC", "PAL":
	default:
		return &ConfigError{Field: "emulation.region", Value: c.Emulation.Region, Err: fmt.Errorf("must be auto, NTSC, or PAL")}
	}
	if c.Emulation.SongDuration < 0 {
		c.Emulation.SongDuration = 0
	}
	return nil
}

func (c *Config) createDirectories() error {
	dirs := []string{c.Paths.NSFLibrary, c.Paths.WAVExport, c.Paths.Config, c.Paths.Logs}
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %v", dir, err)
		}
	}
	return nil
}

// IsLoaded reports whether this config was populated from a file.
func (c *Config) IsLoaded() bool { return c.loaded }

// GetConfigPath returns the path this config was loaded from or saved to.
func (c *Config) GetConfigPath() string { return c.configPath }

// Clone returns a deep copy of the configuration.
func (c *Config) Clone() *Config {
	data, err := json.Marshal(c)
	if err != nil {
		return NewConfig()
	}
	clone := &Config{}
	if err := json.Unmarshal(data, clone); err != nil {
		return NewConfig()
	}
	clone.configPath = c.configPath
	clone.loaded = c.loaded
	return clone
}

// UpdateAudio updates audio configuration.
func (c *Config) UpdateAudio(backend string, volume float32, sampleRate int) {
	c.Audio.Backend = backend
	c.Audio.Volume = volume
	c.Audio.SampleRate = sampleRate
}

// UpdateEmulation updates emulation configuration.
func (c *Config) UpdateEmulation(region string, loopSong bool, songDuration int) {
	c.Emulation.Region = region
	c.Emulation.LoopSong = loopSong
	c.Emulation.SongDuration = songDuration
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() string {
	return "./config/nsfplay.json"
}

// GetDefaultConfigDir returns the default configuration directory.
func GetDefaultConfigDir() string {
	return "./config"
}

// ConfigError represents configuration-related errors.
type ConfigError struct {
	Field string
	Value interface{}
	Err   error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error in field '%s' with value '%v': %v", e.Field, e.Value, e.Err)
}
