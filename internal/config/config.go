package config

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"

	"chesssim/internal/core"

	"github.com/adrg/xdg"
)

var cfgFile = "chesssim/config.json"

type InvalidConfig struct {
	err string
}

func (e *InvalidConfig) Error() string {
	return fmt.Sprintf("config error: %s", e.err)
}

type Config struct {
	Width       int    `json:"width" validate:"min=2,max=26"`
	Height      int    `json:"height" validate:"min=2,max=99"`
	Depth       int    `json:"depth" validate:"min=1,max=6"`
	White       string `json:"white" validate:"oneof=human random capture kingcapture ai"`
	Black       string `json:"black" validate:"oneof=human random capture kingcapture ai"`
	Games       int    `json:"games" validate:"min=1"`
	MaxTurns    int    `json:"maxTurns" validate:"min=0"` // 0 is unlimited
	Workers     int    `json:"workers" validate:"min=1,max=64"`
	StoragePath string `json:"storagePath"`
	Theme       string `json:"theme" validate:"oneof=off brown green gray"`
	Seed        int64  `json:"seed"` // 0 seeds from the clock
}

func Default() Config {
	return Config{
		Width:    8,
		Height:   8,
		Depth:    3,
		White:    string(core.PlayerHuman),
		Black:    string(core.PlayerAI),
		Games:    1,
		MaxTurns: 0,
		Workers:  4,
		Theme:    "brown",
	}
}

// Load returns the defaults overlaid with the user's config file, if one exists.
func Load() (*Config, error) {
	absPath, err := xdg.SearchConfigFile(cfgFile)
	if err != nil {
		cfg := Default()
		return &cfg, nil
	}
	return LoadFile(absPath)
}

// LoadFile overlays the JSON file at path on the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, &InvalidConfig{fmt.Sprintf("%s: %v", path, err)}
	}
	return &cfg, nil
}

// Save writes c to the user's config file and returns its path.
func (c *Config) Save() (string, error) {
	absPath, err := xdg.ConfigFile(cfgFile)
	if err != nil {
		return "", err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return "", err
	}
	if err := os.WriteFile(absPath, data, 0664); err != nil {
		return "", err
	}
	return absPath, nil
}

// BindFlags registers a flag per field, defaulting to the current values.
func (c *Config) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&c.Width, "width", c.Width, "Board width (2-26)")
	fs.IntVar(&c.Height, "height", c.Height, "Board height (2-99)")
	fs.IntVar(&c.Depth, "depth", c.Depth, "AI search depth (1-6)")
	fs.StringVar(&c.White, "white", c.White, "White player: human|random|capture|kingcapture|ai")
	fs.StringVar(&c.Black, "black", c.Black, "Black player: human|random|capture|kingcapture|ai")
	fs.IntVar(&c.Games, "games", c.Games, "Number of games to play")
	fs.IntVar(&c.MaxTurns, "max-turns", c.MaxTurns, "Declare a draw after this many turns (0 = unlimited)")
	fs.IntVar(&c.Workers, "workers", c.Workers, "Concurrent games in batch mode (1-64)")
	fs.StringVar(&c.StoragePath, "storage-path", c.StoragePath, "SQLite database path (empty disables persistence)")
	fs.StringVar(&c.Theme, "theme", c.Theme, "Board colours: off|brown|green|gray")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "Random seed (0 = time based)")
}

// Validate normalizes player aliases and checks every field.
func (c *Config) Validate() error {
	for _, p := range []*string{&c.White, &c.Black} {
		kind, err := core.ParsePlayerKind(*p)
		if err != nil {
			return &InvalidConfig{err.Error()}
		}
		*p = string(kind)
	}
	if err := core.Validate.Struct(c); err != nil {
		return &InvalidConfig{core.DescribeValidation(err)}
	}
	return nil
}

func IsInvalid(err error) bool {
	var ic *InvalidConfig
	return errors.As(err, &ic)
}
