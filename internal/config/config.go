package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Game     GameConfig     `toml:"game"`
	Paradox  ParadoxConfig  `toml:"paradox"`
	Data     DataConfig     `toml:"data"`
	Logging  LoggingConfig  `toml:"logging"`
	Database DatabaseConfig `toml:"database"`
}

// Playback policies for recordings whose loop flag is off.
const (
	PlaybackDespawn = "despawn" // actor leaves the grid once its recording runs out
	PlaybackWrap    = "wrap"    // index wraps like a looping recording
)

type GameConfig struct {
	Level          string `toml:"level"`
	InventorySize  int    `toml:"inventory_size"`
	PlayerKind     string `toml:"player_kind"`
	CloneKind      string `toml:"clone_kind"`
	ClonerItem     string `toml:"cloner_item"` // item minted when a recording ends
	PlaybackPolicy string `toml:"playback_policy"`
	MaxTurns       int    `toml:"max_turns"` // 0 = unlimited
}

type ParadoxConfig struct {
	SpawnEmission     float64 `toml:"spawn_emission"`
	DigitizerEmission float64 `toml:"digitizer_emission"`
	StabilizerRadius  int     `toml:"stabilizer_radius"`
}

type DataConfig struct {
	Definitions string `toml:"definitions"`
	LevelsDir   string `toml:"levels_dir"`
	ScriptsDir  string `toml:"scripts_dir"`
}

type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "json" or "console"
}

// DatabaseConfig configures the run ledger. An empty DSN disables it.
type DatabaseConfig struct {
	DSN             string        `toml:"dsn"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := Defaults()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects values the engine cannot run with.
func (c *Config) Validate() error {
	if c.Game.InventorySize <= 0 {
		return fmt.Errorf("game.inventory_size must be positive, got %d", c.Game.InventorySize)
	}
	if c.Game.ClonerItem == "" {
		return fmt.Errorf("game.cloner_item must be set")
	}
	switch c.Game.PlaybackPolicy {
	case PlaybackDespawn, PlaybackWrap:
	default:
		return fmt.Errorf("game.playback_policy %q: want %q or %q", c.Game.PlaybackPolicy, PlaybackDespawn, PlaybackWrap)
	}
	if c.Paradox.StabilizerRadius < 0 {
		return fmt.Errorf("paradox.stabilizer_radius must not be negative")
	}
	return nil
}

func Defaults() *Config {
	return &Config{
		Game: GameConfig{
			Level:          "lab",
			InventorySize:  8,
			PlayerKind:     "player",
			CloneKind:      "clone",
			ClonerItem:     "cloner",
			PlaybackPolicy: PlaybackDespawn,
		},
		Paradox: ParadoxConfig{
			SpawnEmission:     9,
			DigitizerEmission: 4.5,
			StabilizerRadius:  1,
		},
		Data: DataConfig{
			Definitions: "data/definitions.yaml",
			LevelsDir:   "data/levels",
			ScriptsDir:  "scripts",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Database: DatabaseConfig{
			MaxOpenConns:    4,
			MaxIdleConns:    1,
			ConnMaxLifetime: 30 * time.Minute,
		},
	}
}
