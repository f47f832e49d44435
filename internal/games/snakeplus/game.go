package snakeplus

import (
	"math/rand"
	"time"

	"github.com/vovakirdan/snake-plus/internal/config"
	"github.com/vovakirdan/snake-plus/internal/core"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/registry"
)

// Variant selects a registered flavor of the game.
type Variant int

const (
	VariantBoost   Variant = iota // ice grants a temporary speed boost
	VariantClassic                // ice only makes the snake slide
)

// configPath stores the custom config path set via CLI
var configPath string

// difficultyPreset stores the difficulty preset set via CLI
var difficultyPreset config.DifficultyPreset

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, _ := config.ParseDifficultyPreset(preset)
	difficultyPreset = p
}

// gridSize overrides the tuned board size when positive.
var gridSize int

// SetGridSize overrides the board size of the next sessions. Values below
// the minimum board are raised to it; zero restores the tuned size.
func SetGridSize(n int) {
	if n > 0 {
		n = max(n, minGridSize)
	}
	gridSize = max(n, 0)
}

const minGridSize = 5

// Board layout in screen cells.
const (
	hudHeight = 2
	cellWidth = 2
)

// Game adapts Sim to the platform frame loop.
type Game struct {
	variant Variant
	cfg     config.SnakePlusConfig
	cfgErr  error
	profile progression.PlayerProfile
	sim     *Sim
	seeds   *rand.Rand

	tick     uint64
	frame    time.Duration
	clock    time.Duration // session time, advanced one frame per Step
	lastMove time.Duration
	pending  Direction
	paused   bool

	events   []Event
	eventsAt time.Duration

	screenW  int
	screenH  int
	offsetX  int
	offsetY  int
	tooSmall bool
}

// New creates the ice boost variant.
func New() *Game {
	return &Game{variant: VariantBoost, profile: progression.DefaultProfile("local", "player")}
}

// NewClassic creates the variant without the ice speed boost.
func NewClassic() *Game {
	return &Game{variant: VariantClassic, profile: progression.DefaultProfile("local", "player")}
}

func init() {
	registry.Register("snakeplus", func() registry.Game {
		return New()
	})
	registry.Register("snakeplus_classic", func() registry.Game {
		return NewClassic()
	})
}

// ID returns the game identifier.
func (g *Game) ID() string {
	if g.variant == VariantClassic {
		return "snakeplus_classic"
	}
	return "snakeplus"
}

// Title returns the display name.
func (g *Game) Title() string {
	if g.variant == VariantClassic {
		return "Snake+ (Classic Ice)"
	}
	return "Snake+"
}

// SetProfile sets the player the next Reset starts a session for.
func (g *Game) SetProfile(p progression.PlayerProfile) {
	g.profile = p.Normalize()
}

// Profile returns the player of the current session.
func (g *Game) Profile() progression.PlayerProfile {
	return g.profile
}

// ConfigError reports why the tuning file could not be used, if it could not.
func (g *Game) ConfigError() error {
	return g.cfgErr
}

// Reset starts a new session.
func (g *Game) Reset(rc core.RuntimeConfig) {
	g.cfg, g.cfgErr = config.LoadSnakePlus(configPath)
	if difficultyPreset != "" {
		config.ApplySnakePlusPreset(&g.cfg, difficultyPreset)
	}
	if g.variant == VariantClassic {
		g.cfg.Ice.Boost.Enabled = false
	}
	if gridSize > 0 {
		g.cfg.Grid.Size = gridSize
	}

	g.seeds = rand.New(rand.NewSource(rc.Seed))
	g.sim = NewSim(g.cfg, g.profile, g.seeds.Int63())

	g.tick = 0
	g.frame = rc.FrameDuration()
	g.clock = 0
	g.lastMove = 0
	g.pending = DirNone
	g.paused = false
	g.events = nil
	g.eventsAt = 0
	g.resize(rc.ScreenW, rc.ScreenH)
}

func (g *Game) resize(w, h int) {
	g.screenW, g.screenH = w, h
	size := g.sim.st.GridSize
	boardW := size*cellWidth + 2
	boardH := size + 2
	g.tooSmall = w < boardW || h < boardH+hudHeight
	g.offsetX = (w - boardW) / 2
	g.offsetY = hudHeight
}

// Step advances one platform frame. The core ticks whenever a full move
// interval has elapsed on the frame clock.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	g.tick++

	if in.Has(core.ActionRestart) && g.sim.st.GameOver {
		g.Reset(core.RuntimeConfig{
			Seed:     g.seeds.Int63(),
			ScreenW:  g.screenW,
			ScreenH:  g.screenH,
			TickRate: int(time.Second / g.frame),
		})
		return core.StepResult{State: g.State()}
	}

	if in.Has(core.ActionPause) && !g.sim.st.GameOver {
		g.paused = !g.paused
	}
	if g.sim.st.GameOver || g.paused || g.tooSmall {
		return core.StepResult{State: g.State()}
	}

	g.buffer(in)

	g.clock += g.frame
	if g.clock-g.lastMove >= g.sim.MoveInterval() {
		res := g.sim.Tick(g.clock, Input{Direction: g.pending})
		g.lastMove = g.clock
		g.pending = DirNone
		if len(res.Events) > 0 {
			g.events = res.Events
			g.eventsAt = g.clock
		}
	}

	return core.StepResult{State: g.State()}
}

// buffer keeps the latest non-reversing direction key until the next move.
func (g *Game) buffer(in core.InputFrame) {
	d := directionFor(in.Direction())
	if d == DirNone || d == g.sim.st.Direction.Opposite() {
		return
	}
	g.pending = d
}

func directionFor(a core.Action) Direction {
	switch a {
	case core.ActionUp:
		return DirUp
	case core.ActionDown:
		return DirDown
	case core.ActionLeft:
		return DirLeft
	case core.ActionRight:
		return DirRight
	default:
		return DirNone
	}
}

// State returns the coarse state for the platform.
func (g *Game) State() core.GameState {
	return core.GameState{
		Score:    g.sim.st.Score,
		GameOver: g.sim.st.GameOver,
		Paused:   g.paused,
	}
}

// Events returns the events of the most recent tick that had any.
func (g *Game) Events() []Event {
	return g.events
}

// Sim exposes the running session.
func (g *Game) Sim() *Sim {
	return g.sim
}

// Result is the session summary for progression.
func (g *Game) Result() progression.GameResult {
	return g.sim.Summary()
}

var _ registry.Session = (*Game)(nil)
