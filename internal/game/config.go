package game

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/samdwyer/apprentice/internal/msglog"
)

// Config holds game configuration options, loaded from YAML.
type Config struct {
	// Map names an embedded map; MapFile, if set, is read from disk instead.
	Map     string `yaml:"map"`
	MapFile string `yaml:"map_file"`
	// Width and Height override the bounds derived from the map rows.
	Width  int `yaml:"width"`
	Height int `yaml:"height"`

	FOVRadius       int     `yaml:"fov_radius"`
	DetectionRadius float64 `yaml:"detection_radius"`
	AdjacencyRange  float64 `yaml:"adjacency_range"`

	// TurnsPerDay of 0 means the day never advances on its own.
	TurnsPerDay int    `yaml:"turns_per_day"`
	StartDay    int    `yaml:"start_day"`
	PlayerName  string `yaml:"player_name"`

	LogWidth int `yaml:"log_width"`
	LogLines int `yaml:"log_lines"`

	SaveDir   string `yaml:"save_dir"`
	SaveSlots int    `yaml:"save_slots"`

	// Scripts enables the Lua action handlers.
	Scripts bool `yaml:"scripts"`

	StartingInventory map[string]int   `yaml:"starting_inventory"`
	Intro             []msglog.Message `yaml:"intro"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Map:             "workshop",
		FOVRadius:       8,
		DetectionRadius: 8,
		AdjacencyRange:  1,
		StartDay:        1,
		PlayerName:      "Lina",
		LogWidth:        60,
		LogLines:        15,
		SaveDir:         "saves",
		SaveSlots:       3,
		Scripts:         true,
		StartingInventory: map[string]int{
			"silver_leaf":  5,
			"lemon_fruit":  2,
			"glowshroom":   10,
			"moon_dew":     5,
			"glowing_moss": 3,
		},
		Intro: []msglog.Message{
			{Text: "> You enter the quiet workshop. Dust motes dance in the sunlight.", Color: msglog.ColorDefault},
			{Text: "> The main brewing station stands silent, its pipes clogged with dark residue.", Color: msglog.ColorWarning},
		},
	}
}

// LoadConfig reads a YAML config file over the defaults. A missing file is
// not an error and yields the defaults.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}
	defaults := cfg.StartingInventory
	cfg.StartingInventory = nil
	if err := yaml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	// A listed starting_inventory replaces the defaults rather than merging.
	if cfg.StartingInventory == nil {
		cfg.StartingInventory = defaults
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks value ranges.
func (c Config) Validate() error {
	switch {
	case c.Map == "" && c.MapFile == "":
		return errors.New("one of map or map_file is required")
	case c.Width < 0 || c.Height < 0:
		return errors.New("width and height must not be negative")
	case c.FOVRadius < 0:
		return errors.New("fov_radius must not be negative")
	case c.DetectionRadius < 0 || c.AdjacencyRange < 0:
		return errors.New("detection_radius and adjacency_range must not be negative")
	case c.TurnsPerDay < 0:
		return errors.New("turns_per_day must not be negative")
	case c.LogWidth < 1 || c.LogLines < 1:
		return errors.New("log_width and log_lines must be positive")
	case c.SaveSlots < 1:
		return errors.New("save_slots must be positive")
	}
	for id, qty := range c.StartingInventory {
		if qty < 0 {
			return fmt.Errorf("starting_inventory %s: negative quantity", id)
		}
	}
	return nil
}
