// Package config provides YAML-based game tuning and environment-based
// service configuration for Snake+.
package config

import "time"

// SnakePlusConfig contains all tuning for the Snake+ simulation.
type SnakePlusConfig struct {
	Grid     GridConfig    `yaml:"grid"`
	Speed    SpeedConfig   `yaml:"speed"`
	Combo    ComboConfig   `yaml:"combo"`
	Food     FoodConfig    `yaml:"food"`
	Ice      IceConfig     `yaml:"ice"`
	Boosters BoosterConfig `yaml:"boosters"`
	Economy  EconomyConfig `yaml:"economy"`
}

// GridConfig defines the square toroidal board.
type GridConfig struct {
	Size int `yaml:"size"`
}

// SpeedConfig defines the movement cadence in cells per second.
type SpeedConfig struct {
	Base float64 `yaml:"base"`
	// IncreaseEvery bumps base speed by one whenever the snake length is a
	// multiple of it. Zero disables speed-ups.
	IncreaseEvery int `yaml:"increase_every"`
}

// ComboConfig defines the combo window between consecutive pickups.
type ComboConfig struct {
	Window time.Duration `yaml:"window"`
}

// FoodConfig defines food spawning.
type FoodConfig struct {
	BonusChance float64 `yaml:"bonus_chance"`
	BonusPoints int     `yaml:"bonus_points"`
	Points      int     `yaml:"points"`
}

// IceConfig defines the ice hazard engine.
type IceConfig struct {
	TileChance      float64       `yaml:"tile_chance"`
	RespawnDelay    time.Duration `yaml:"respawn_delay"`
	FadeWindow      time.Duration `yaml:"fade_window"`
	SpawnStagger    time.Duration `yaml:"spawn_stagger"`
	RespawnStagger  time.Duration `yaml:"respawn_stagger"`
	RespawnAttempts int           `yaml:"respawn_attempts"`
	Boost           IceBoost      `yaml:"boost"`
}

// IceBoost is the optional speed boost granted by stepping on ice.
type IceBoost struct {
	Enabled    bool          `yaml:"enabled"`
	Multiplier float64       `yaml:"multiplier"`
	Duration   time.Duration `yaml:"duration"`
}

// BoosterConfig defines the booster pickup state machine.
type BoosterConfig struct {
	SpawnChance      float64       `yaml:"spawn_chance"`
	DespawnAfter     time.Duration `yaml:"despawn_after"`
	RespawnCooldown  time.Duration `yaml:"respawn_cooldown"`
	MinFoodDistance  int           `yaml:"min_food_distance"`
	MaxFoodDistance  int           `yaml:"max_food_distance"`
	MagnetPullChance float64       `yaml:"magnet_pull_chance"`
}

// EconomyConfig defines how score converts into stars.
type EconomyConfig struct {
	StarsPerPoint   float64 `yaml:"stars_per_point"`
	MilestonePoints int     `yaml:"milestone_points"`
	MilestoneStars  int     `yaml:"milestone_stars"`
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParseDifficultyPreset converts a CLI string to a preset.
// Unknown values return "" and false.
func ParseDifficultyPreset(s string) (DifficultyPreset, bool) {
	switch p := DifficultyPreset(s); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, true
	default:
		return "", false
	}
}
