package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const snakePlusFile = "snakeplus.yaml"

// LoadSnakePlus loads Snake+ tuning.
// Search order: customPath -> ~/.snakeplus/configs/snakeplus.yaml -> ./configs/snakeplus.yaml -> embedded default.
// Files are decoded over the defaults, so a file may override only some keys.
func LoadSnakePlus(customPath string) (SnakePlusConfig, error) {
	if customPath != "" {
		data, err := os.ReadFile(customPath)
		if err != nil {
			return DefaultSnakePlusConfig(), fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		cfg, err := parseSnakePlus(data)
		if err != nil {
			return DefaultSnakePlusConfig(), fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}
		return cfg, nil
	}

	// Try user config directory
	if userCfgPath := userConfigPath(snakePlusFile); userCfgPath != "" {
		if data, err := os.ReadFile(userCfgPath); err == nil {
			if cfg, err := parseSnakePlus(data); err == nil {
				return cfg, nil
			}
		}
	}

	// Try local configs directory
	if data, err := os.ReadFile(filepath.Join("configs", snakePlusFile)); err == nil {
		if cfg, err := parseSnakePlus(data); err == nil {
			return cfg, nil
		}
	}

	cfg, err := parseSnakePlus(defaultSnakePlusYAML)
	if err != nil {
		return DefaultSnakePlusConfig(), nil // Fallback to hardcoded if embed fails
	}
	return cfg, nil
}

func parseSnakePlus(data []byte) (SnakePlusConfig, error) {
	cfg := DefaultSnakePlusConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// userConfigPath returns the path to user config file, or empty if home is unavailable.
func userConfigPath(filename string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".snakeplus", "configs", filename)
}

// Validate reports every value that would make the simulation misbehave.
func (c SnakePlusConfig) Validate() error {
	var errs []error
	if c.Grid.Size < 5 {
		errs = append(errs, fmt.Errorf("grid.size must be at least 5, got %d", c.Grid.Size))
	}
	if c.Speed.Base <= 0 {
		errs = append(errs, fmt.Errorf("speed.base must be positive, got %v", c.Speed.Base))
	}
	if c.Speed.IncreaseEvery < 0 {
		errs = append(errs, fmt.Errorf("speed.increase_every must not be negative, got %d", c.Speed.IncreaseEvery))
	}
	if c.Economy.MilestonePoints <= 0 {
		errs = append(errs, fmt.Errorf("economy.milestone_points must be positive, got %d", c.Economy.MilestonePoints))
	}
	if c.Boosters.MinFoodDistance > c.Boosters.MaxFoodDistance {
		errs = append(errs, fmt.Errorf("boosters.min_food_distance %d exceeds max_food_distance %d",
			c.Boosters.MinFoodDistance, c.Boosters.MaxFoodDistance))
	}
	for name, p := range map[string]float64{
		"food.bonus_chance":           c.Food.BonusChance,
		"ice.tile_chance":             c.Ice.TileChance,
		"boosters.spawn_chance":       c.Boosters.SpawnChance,
		"boosters.magnet_pull_chance": c.Boosters.MagnetPullChance,
	} {
		if p < 0 || p > 1 {
			errs = append(errs, fmt.Errorf("%s must be within [0, 1], got %v", name, p))
		}
	}
	return errors.Join(errs...)
}

// ApplySnakePlusPreset modifies the config based on a difficulty preset.
func ApplySnakePlusPreset(cfg *SnakePlusConfig, preset DifficultyPreset) {
	switch preset {
	case DifficultyEasy:
		cfg.Speed.Base = 4
		cfg.Speed.IncreaseEvery = 8
		cfg.Combo.Window = 4500 * time.Millisecond
	case DifficultyHard:
		cfg.Speed.Base = 7
		cfg.Speed.IncreaseEvery = 4
		cfg.Combo.Window = 2000 * time.Millisecond
	case DifficultyFixed:
		cfg.Speed.IncreaseEvery = 0
	}
}
