package config

import (
	_ "embed"
	"time"
)

//go:embed defaults/snakeplus.yaml
var defaultSnakePlusYAML []byte

// DefaultSnakePlusConfig returns the hardcoded Snake+ tuning. It mirrors
// defaults/snakeplus.yaml and is used when the embedded file cannot be parsed.
func DefaultSnakePlusConfig() SnakePlusConfig {
	return SnakePlusConfig{
		Grid: GridConfig{Size: 20},
		Speed: SpeedConfig{
			Base:          5,
			IncreaseEvery: 5,
		},
		Combo: ComboConfig{Window: 2500 * time.Millisecond},
		Food: FoodConfig{
			BonusChance: 0.12,
			Points:      1,
			BonusPoints: 10,
		},
		Ice: IceConfig{
			TileChance:      0.02,
			RespawnDelay:    4 * time.Second,
			FadeWindow:      400 * time.Millisecond,
			SpawnStagger:    800 * time.Millisecond,
			RespawnStagger:  600 * time.Millisecond,
			RespawnAttempts: 200,
			Boost: IceBoost{
				Enabled:    true,
				Multiplier: 2.0,
				Duration:   2 * time.Second,
			},
		},
		Boosters: BoosterConfig{
			SpawnChance:      0.15,
			DespawnAfter:     8 * time.Second,
			RespawnCooldown:  10 * time.Second,
			MinFoodDistance:  2,
			MaxFoodDistance:  4,
			MagnetPullChance: 0.7,
		},
		Economy: EconomyConfig{
			StarsPerPoint:   0.1,
			MilestonePoints: 100,
			MilestoneStars:  10,
		},
	}
}
