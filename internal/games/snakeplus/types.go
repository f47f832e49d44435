package snakeplus

import "time"

// Direction is the snake's heading on the grid.
type Direction int

const (
	DirNone Direction = iota
	DirUp
	DirDown
	DirLeft
	DirRight
)

func (d Direction) String() string {
	switch d {
	case DirUp:
		return "up"
	case DirDown:
		return "down"
	case DirLeft:
		return "left"
	case DirRight:
		return "right"
	default:
		return "none"
	}
}

// Opposite returns the 180° reversal of d.
func (d Direction) Opposite() Direction {
	switch d {
	case DirUp:
		return DirDown
	case DirDown:
		return DirUp
	case DirLeft:
		return DirRight
	case DirRight:
		return DirLeft
	default:
		return DirNone
	}
}

// Delta returns the unit displacement of d.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case DirUp:
		return 0, -1
	case DirDown:
		return 0, 1
	case DirLeft:
		return -1, 0
	case DirRight:
		return 1, 0
	default:
		return 0, 0
	}
}

// Point is a grid cell.
type Point struct {
	X, Y int
}

// Food is the single food item on the board.
type Food struct {
	Point
	Bonus     bool
	SpawnedAt time.Duration // for the entry animation
}

// Placed reports whether the food sits on the board. A saturated board leaves
// it unplaced until a cell frees up.
func (f Food) Placed() bool {
	return f.X >= 0 && f.Y >= 0
}

// BoosterPickup is a live booster waiting on the board.
type BoosterPickup struct {
	Point
	Kind      BoosterKind
	SpawnedAt time.Duration
	DespawnAt time.Duration
}

// ActiveEffect is the timed modifier granted by a collected booster.
type ActiveEffect struct {
	Booster   Booster
	StartedAt time.Duration
	EndsAt    time.Duration
}

// Remaining returns how long the effect still lasts at now.
func (e ActiveEffect) Remaining(now time.Duration) time.Duration {
	return max(e.EndsAt-now, 0)
}

// IceTile is a hazard cell. Stepping on it breaks it: the tile fades out and
// a replacement is scheduled elsewhere.
type IceTile struct {
	Point
	SpawnedAt        time.Duration
	DespawnAt        time.Duration // valid when Broken
	Broken           bool
	RespawnScheduled bool
}

// Input is the intent supplied by the input source for one tick.
type Input struct {
	Direction Direction // DirNone keeps the current heading
}

// State is the complete simulation state. Sim hands out copies; mutating a
// copy has no effect on the simulation.
type State struct {
	Now      time.Duration // timestamp of the last tick
	GridSize int

	Snake         []Point // head at index 0
	Direction     Direction
	NextDirection Direction
	Sliding       bool // on ice: the next tick ignores input

	Food               Food
	Booster            *BoosterPickup
	Effect             *ActiveEffect
	NextBoosterSpawn   time.Duration
	Ice                []IceTile
	PendingIceRespawns []time.Duration
	IceBoostUntil      time.Duration

	Score               int
	Combo               int
	MaxCombo            int
	LastFoodTime        time.Duration
	LastScoreCheckpoint int
	Stars               int
	BestScore           int

	Speed        float64 // effective cells per second
	BaseSpeed    float64
	ShieldActive bool

	BoostersUsed []BoosterKind // distinct, in order of first use this session
	GameOver     bool
}

// Head returns the head cell.
func (s State) Head() Point {
	return s.Snake[0]
}

func (s State) clone() State {
	c := s
	c.Snake = append([]Point(nil), s.Snake...)
	c.Ice = append([]IceTile(nil), s.Ice...)
	c.PendingIceRespawns = append([]time.Duration(nil), s.PendingIceRespawns...)
	c.BoostersUsed = append([]BoosterKind(nil), s.BoostersUsed...)
	if s.Booster != nil {
		b := *s.Booster
		c.Booster = &b
	}
	if s.Effect != nil {
		e := *s.Effect
		c.Effect = &e
	}
	return c
}
