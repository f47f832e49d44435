// Package snakeplus implements Snake+: a toroidal snake with combos, timed
// boosters, an ice hazard and a star economy. Sim is the deterministic core;
// Game adapts it to the platform frame loop.
package snakeplus

import (
	"math"
	"math/rand"
	"time"

	"github.com/vovakirdan/snake-plus/internal/config"
	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
)

// Sim owns one session's state. It is not safe for concurrent use; callers
// serialize Tick and State.
type Sim struct {
	cfg        config.SnakePlusConfig
	rng        *rand.Rand
	st         State
	startStars int
}

// NewSim creates a session for the given player. The seed drives every
// random choice, so equal seeds and inputs give equal games.
func NewSim(cfg config.SnakePlusConfig, profile progression.PlayerProfile, seed int64) *Sim {
	size := max(cfg.Grid.Size, 2)
	s := &Sim{
		cfg:        cfg,
		rng:        rand.New(rand.NewSource(seed)),
		startStars: profile.Stars,
	}
	s.st = State{
		GridSize:         size,
		Snake:            []Point{{X: size / 2, Y: size / 2}},
		Direction:        DirRight,
		NextDirection:    DirRight,
		Food:             noFood,
		NextBoosterSpawn: cfg.Boosters.RespawnCooldown,
		LastFoodTime:     -cfg.Combo.Window,
		Stars:            profile.Stars,
		BestScore:        profile.Stats.BestScore,
		BaseSpeed:        cfg.Speed.Base,
		Speed:            cfg.Speed.Base,
	}
	s.placeInitialIce(0)
	s.spawnFood(0)
	return s
}

// State returns a copy of the current state.
func (s *Sim) State() State {
	return s.st.clone()
}

// Config returns the tuning the session runs with.
func (s *Sim) Config() config.SnakePlusConfig {
	return s.cfg
}

// MoveInterval is the time between ticks at the current speed.
func (s *Sim) MoveInterval() time.Duration {
	if s.st.Speed <= 0 {
		return time.Second
	}
	return time.Duration(float64(time.Second) / s.st.Speed)
}

// Tick advances the session by one cell. now is the time since session
// start and must not go backwards.
func (s *Sim) Tick(now time.Duration, in Input) TickResult {
	if s.st.GameOver {
		return TickResult{GameOver: true, Crash: s.st.Head()}
	}
	s.st.Now = now
	var ev []Event

	s.steer(in)

	dx, dy := s.st.Direction.Delta()
	head := s.st.Head()
	next := Point{
		X: core.Mod(head.X+dx, s.st.GridSize),
		Y: core.Mod(head.Y+dy, s.st.GridSize),
	}

	if s.onSnake(next) {
		if !s.st.ShieldActive {
			s.st.GameOver = true
			s.st.BestScore = max(s.st.BestScore, s.st.Score)
			ev = append(ev, Event{Kind: EventCrash, At: next})
			return TickResult{GameOver: true, Crash: next, Events: ev}
		}
		s.st.ShieldActive = false
		s.st.Effect = nil
		s.st.NextBoosterSpawn = now + s.cfg.Boosters.RespawnCooldown
		if len(s.st.Snake) > 1 {
			s.st.Snake = s.st.Snake[:len(s.st.Snake)-1]
		}
		ev = append(ev, Event{Kind: EventShieldBroken, At: next})
	}

	s.st.Snake = append([]Point{next}, s.st.Snake...)

	ate := s.eat(now, &ev)
	s.extendIceBoost(now)
	s.collectBooster(now, &ev)
	s.pullFood(&ev)

	if !ate {
		s.st.Snake = s.st.Snake[:len(s.st.Snake)-1]
	}
	if !s.st.Food.Placed() {
		s.spawnFood(now)
	}

	s.maybeSpawnBooster(now, &ev)
	s.despawnBooster(now, &ev)
	s.stepOnIce(now, &ev)
	s.purgeIce(now)
	s.respawnIce(now, &ev)
	s.expireEffect(now, &ev)
	s.recomputeSpeed(now)

	return TickResult{Events: ev}
}

// steer applies the queued intent. A sliding tick ignores input and a
// reversal keeps the current heading.
func (s *Sim) steer(in Input) {
	switch {
	case s.st.Sliding:
		s.st.NextDirection = s.st.Direction
	case in.Direction == DirNone:
	case in.Direction == s.st.Direction.Opposite():
		s.st.NextDirection = s.st.Direction
	default:
		s.st.NextDirection = in.Direction
	}
	s.st.Sliding = false
	s.st.Direction = s.st.NextDirection
}

// eat handles a food pickup under the head and reports whether the snake grows.
func (s *Sim) eat(now time.Duration, ev *[]Event) bool {
	if !s.foodAt(s.st.Head()) {
		return false
	}
	food := s.st.Food

	if now-s.st.LastFoodTime < s.cfg.Combo.Window {
		s.st.Combo++
	} else {
		s.st.Combo = 1
	}
	s.st.LastFoodTime = now
	s.st.MaxCombo = max(s.st.MaxCombo, s.st.Combo)

	points := s.cfg.Food.Points
	if food.Bonus {
		points = s.cfg.Food.BonusPoints
	}
	points *= s.st.Combo
	if s.effectActive(EffectMultiplier) {
		points *= int(s.st.Effect.Booster.Magnitude)
	}
	s.st.Score += points
	s.st.BestScore = max(s.st.BestScore, s.st.Score)

	stars := int(math.Floor(float64(points)*s.cfg.Economy.StarsPerPoint + 1e-9))
	s.st.Stars += stars
	*ev = append(*ev, Event{
		Kind:   EventFoodEaten,
		At:     food.Point,
		Points: points,
		Combo:  s.st.Combo,
		Bonus:  food.Bonus,
		Stars:  stars,
	})
	if s.st.Combo > 1 {
		*ev = append(*ev, Event{Kind: EventComboUp, At: food.Point, Combo: s.st.Combo})
	}

	if mp := s.cfg.Economy.MilestonePoints; mp > 0 {
		if cp := s.st.Score / mp; cp > s.st.LastScoreCheckpoint {
			crossed := cp - s.st.LastScoreCheckpoint
			award := crossed * s.cfg.Economy.MilestoneStars
			s.st.Stars += award
			s.st.LastScoreCheckpoint = cp
			*ev = append(*ev, Event{Kind: EventMilestone, Count: crossed, Stars: award})
		}
	}

	if n := s.cfg.Speed.IncreaseEvery; n > 0 && len(s.st.Snake)%n == 0 && !s.effectActive(EffectSpeed) {
		s.st.BaseSpeed++
		*ev = append(*ev, Event{Kind: EventSpeedUp})
	}

	s.st.Food = noFood
	s.spawnFood(now)
	return true
}

// recomputeSpeed folds every live modifier into the effective speed.
func (s *Sim) recomputeSpeed(now time.Duration) {
	speed := s.st.BaseSpeed
	if s.effectActive(EffectSpeed) {
		speed *= s.st.Effect.Booster.Magnitude
	}
	if b := s.cfg.Ice.Boost; b.Enabled && now < s.st.IceBoostUntil {
		speed *= b.Multiplier
	}
	s.st.Speed = speed
}

// Summary is the terminal snapshot handed to progression at game over.
func (s *Sim) Summary() progression.GameResult {
	used := make([]string, 0, len(s.st.BoostersUsed))
	for _, k := range s.st.BoostersUsed {
		used = append(used, k.String())
	}
	return progression.GameResult{
		Score:        s.st.Score,
		MaxCombo:     s.st.MaxCombo,
		BoostersUsed: used,
		StarsEarned:  max(s.st.Stars-s.startStars, 0),
		Length:       len(s.st.Snake),
		Duration:     s.st.Now,
	}
}

// Finalize folds the session into the player's profile.
func (s *Sim) Finalize(p progression.PlayerProfile) (progression.PlayerProfile, progression.Report) {
	return progression.Finalize(p, s.Summary())
}
