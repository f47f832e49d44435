package snakeplus

import (
	"math"
	"time"

	"github.com/vovakirdan/snake-plus/internal/core"
)

// BoosterKind identifies a booster in the catalog.
type BoosterKind int

const (
	BoosterSlow BoosterKind = iota
	BoosterMagnet
	BoosterDouble
	BoosterShield
	boosterCount
)

// EffectKind is what a booster does while active.
type EffectKind int

const (
	EffectSpeed      EffectKind = iota // multiplies speed by Magnitude
	EffectMagnet                       // pulls food within Magnitude cells
	EffectMultiplier                   // multiplies points by Magnitude
	EffectShield                       // absorbs one self-collision
)

// Booster is a catalog entry.
type Booster struct {
	Kind      BoosterKind
	ID        string
	Name      string
	Duration  time.Duration
	Effect    EffectKind
	Magnitude float64
	Color     string
	Glyph     rune
}

// Boosters is the static booster catalog.
var Boosters = [boosterCount]Booster{
	BoosterSlow: {
		Kind: BoosterSlow, ID: "slow", Name: "Slow Motion",
		Duration: 8 * time.Second, Effect: EffectSpeed, Magnitude: 0.5,
		Color: "#3498db", Glyph: 'S',
	},
	BoosterMagnet: {
		Kind: BoosterMagnet, ID: "magnet", Name: "Magnet",
		Duration: 10 * time.Second, Effect: EffectMagnet, Magnitude: 3,
		Color: "#e74c3c", Glyph: 'M',
	},
	BoosterDouble: {
		Kind: BoosterDouble, ID: "double", Name: "2x Points",
		Duration: 12 * time.Second, Effect: EffectMultiplier, Magnitude: 2,
		Color: "#f1c40f", Glyph: 'x',
	},
	BoosterShield: {
		Kind: BoosterShield, ID: "shield", Name: "Shield",
		Duration: 5 * time.Second, Effect: EffectShield, Magnitude: 1,
		Color: "#9b59b6", Glyph: 'U',
	},
}

// Def returns the catalog entry for k.
func (k BoosterKind) Def() Booster {
	if k < 0 || k >= boosterCount {
		return Booster{Kind: k, ID: "unknown", Name: "Unknown", Glyph: '?'}
	}
	return Boosters[k]
}

// String returns the booster id.
func (k BoosterKind) String() string {
	return k.Def().ID
}

// BoosterByID looks up a catalog entry by its id.
func BoosterByID(id string) (Booster, bool) {
	for _, b := range Boosters {
		if b.ID == id {
			return b, true
		}
	}
	return Booster{}, false
}

func (s *Sim) effectActive(kind EffectKind) bool {
	return s.st.Effect != nil && s.st.Effect.Booster.Effect == kind
}

// collectBooster consumes the pickup under the head and starts its effect.
func (s *Sim) collectBooster(now time.Duration, ev *[]Event) {
	b := s.st.Booster
	if b == nil || b.Point != s.st.Head() {
		return
	}
	def := b.Kind.Def()
	s.st.Booster = nil
	s.st.Effect = &ActiveEffect{
		Booster:   def,
		StartedAt: now,
		EndsAt:    now + def.Duration,
	}
	if def.Effect == EffectShield {
		s.st.ShieldActive = true
	}
	// speed-type effects are folded in by recomputeSpeed
	s.markBoosterUsed(b.Kind)
	*ev = append(*ev, Event{Kind: EventBoosterCollected, At: b.Point, Booster: b.Kind})
}

func (s *Sim) markBoosterUsed(k BoosterKind) {
	for _, used := range s.st.BoostersUsed {
		if used == k {
			return
		}
	}
	s.st.BoostersUsed = append(s.st.BoostersUsed, k)
}

// pullFood nudges the food one cell toward the head while a magnet is active.
func (s *Sim) pullFood(ev *[]Event) {
	if !s.effectActive(EffectMagnet) || !s.st.Food.Placed() {
		return
	}
	head := s.st.Head()
	food := s.st.Food.Point
	dx, dy := head.X-food.X, head.Y-food.Y
	dist := math.Hypot(float64(dx), float64(dy))
	if dist == 0 || dist > s.st.Effect.Booster.Magnitude {
		return
	}
	if s.rng.Float64() >= s.cfg.Boosters.MagnetPullChance {
		return
	}

	next := food
	if core.Abs(dx) >= core.Abs(dy) {
		next.X += sign(dx)
	} else {
		next.Y += sign(dy)
	}
	if !s.inBounds(next) || s.onSnake(next) || s.iceAt(next) >= 0 {
		return
	}
	s.st.Food.Point = next
	*ev = append(*ev, Event{Kind: EventFoodPulled, At: next})
}

// maybeSpawnBooster runs the Idle -> Spawned transition.
func (s *Sim) maybeSpawnBooster(now time.Duration, ev *[]Event) {
	if s.st.Booster != nil || s.st.Effect != nil || now < s.st.NextBoosterSpawn {
		return
	}
	if s.rng.Float64() >= s.cfg.Boosters.SpawnChance {
		return
	}
	cell, ok := s.boosterCell()
	if !ok {
		return
	}
	kind := BoosterKind(s.rng.Intn(int(boosterCount)))
	s.st.Booster = &BoosterPickup{
		Point:     cell,
		Kind:      kind,
		SpawnedAt: now,
		DespawnAt: now + s.cfg.Boosters.DespawnAfter,
	}
	s.st.NextBoosterSpawn = now + s.cfg.Boosters.DespawnAfter + s.cfg.Boosters.RespawnCooldown
	*ev = append(*ev, Event{Kind: EventBoosterSpawned, At: cell, Booster: kind})
}

// boosterCell picks a free cell within the configured Manhattan ring around
// the food. Cells are not wrapped.
func (s *Sim) boosterCell() (Point, bool) {
	if !s.st.Food.Placed() {
		return Point{}, false
	}
	lo, hi := s.cfg.Boosters.MinFoodDistance, s.cfg.Boosters.MaxFoodDistance
	food := s.st.Food.Point

	var candidates []Point
	for dx := -hi; dx <= hi; dx++ {
		for dy := -hi; dy <= hi; dy++ {
			d := core.Abs(dx) + core.Abs(dy)
			if d < lo || d > hi {
				continue
			}
			p := Point{X: food.X + dx, Y: food.Y + dy}
			if !s.inBounds(p) || p == food || s.onSnake(p) || s.iceAt(p) >= 0 {
				continue
			}
			candidates = append(candidates, p)
		}
	}
	if len(candidates) == 0 {
		return Point{}, false
	}
	return candidates[s.rng.Intn(len(candidates))], true
}

// despawnBooster runs the Spawned -> Despawned transition.
func (s *Sim) despawnBooster(now time.Duration, ev *[]Event) {
	b := s.st.Booster
	if b == nil || now < b.DespawnAt {
		return
	}
	s.st.Booster = nil
	s.st.NextBoosterSpawn = now + s.cfg.Boosters.RespawnCooldown
	*ev = append(*ev, Event{Kind: EventBoosterDespawned, At: b.Point, Booster: b.Kind})
}

// expireEffect runs the Active -> Expired transition.
func (s *Sim) expireEffect(now time.Duration, ev *[]Event) {
	e := s.st.Effect
	if e == nil || now < e.EndsAt {
		return
	}
	if e.Booster.Effect == EffectShield {
		s.st.ShieldActive = false
	}
	s.st.Effect = nil
	s.st.NextBoosterSpawn = now + s.cfg.Boosters.RespawnCooldown
	*ev = append(*ev, Event{Kind: EventBoosterExpired, Booster: e.Booster.Kind})
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	default:
		return 0
	}
}
