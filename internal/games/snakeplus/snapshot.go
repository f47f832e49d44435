package snakeplus

// GameStateType represents the current game state.
type GameStateType string

const (
	StatePlaying     GameStateType = "playing"
	StatePaused      GameStateType = "paused"
	StateGameOver    GameStateType = "game_over"
	StatePausedSmall GameStateType = "paused_small_window"
)

// Snapshot captures the session for determinism testing and replay.
type Snapshot struct {
	Tick      uint64
	Variant   string
	Score     int
	Stars     int
	Combo     int
	MaxCombo  int
	SnakeLen  int
	Head      Point
	Dir       Direction
	Food      Point
	FoodBonus bool
	Booster   string // empty when no pickup is on the board
	Effect    string // empty when no effect is active
	IceTiles  int
	Speed     float64
	State     GameStateType
}

// Snapshot returns the current game snapshot for determinism verification.
func (g *Game) Snapshot() Snapshot {
	st := &g.sim.st

	state := StatePlaying
	switch {
	case g.tooSmall:
		state = StatePausedSmall
	case st.GameOver:
		state = StateGameOver
	case g.paused:
		state = StatePaused
	}

	snap := Snapshot{
		Tick:      g.tick,
		Variant:   g.ID(),
		Score:     st.Score,
		Stars:     st.Stars,
		Combo:     st.Combo,
		MaxCombo:  st.MaxCombo,
		SnakeLen:  len(st.Snake),
		Head:      st.Head(),
		Dir:       st.Direction,
		Food:      st.Food.Point,
		FoodBonus: st.Food.Bonus,
		IceTiles:  len(st.Ice),
		Speed:     st.Speed,
		State:     state,
	}
	if st.Booster != nil {
		snap.Booster = st.Booster.Kind.String()
	}
	if st.Effect != nil {
		snap.Effect = st.Effect.Booster.ID
	}
	return snap
}
