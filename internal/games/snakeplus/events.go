package snakeplus

// EventKind tags a one-shot event emitted by a tick.
type EventKind int

const (
	EventFoodEaten EventKind = iota
	EventComboUp
	EventMilestone
	EventSpeedUp
	EventFoodPulled
	EventIceBroken
	EventIceRespawned
	EventBoosterSpawned
	EventBoosterDespawned
	EventBoosterCollected
	EventBoosterExpired
	EventShieldBroken
	EventCrash
)

func (k EventKind) String() string {
	switch k {
	case EventFoodEaten:
		return "food_eaten"
	case EventComboUp:
		return "combo_up"
	case EventMilestone:
		return "milestone"
	case EventSpeedUp:
		return "speed_up"
	case EventFoodPulled:
		return "food_pulled"
	case EventIceBroken:
		return "ice_broken"
	case EventIceRespawned:
		return "ice_respawned"
	case EventBoosterSpawned:
		return "booster_spawned"
	case EventBoosterDespawned:
		return "booster_despawned"
	case EventBoosterCollected:
		return "booster_collected"
	case EventBoosterExpired:
		return "booster_expired"
	case EventShieldBroken:
		return "shield_broken"
	case EventCrash:
		return "crash"
	default:
		return "unknown"
	}
}

// Event is one thing that happened during a tick, for the presentation layer
// to react to. Only the fields relevant to Kind are set.
type Event struct {
	Kind    EventKind
	At      Point
	Points  int         // FoodEaten
	Combo   int         // FoodEaten, ComboUp
	Bonus   bool        // FoodEaten
	Stars   int         // FoodEaten, Milestone
	Count   int         // Milestone: checkpoints crossed
	Booster BoosterKind // Booster* events
}

// TickResult is the outcome of one Sim.Tick call.
type TickResult struct {
	GameOver bool
	Crash    Point // valid when GameOver
	Events   []Event
}

// Has reports whether an event of kind k occurred.
func (r TickResult) Has(k EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == k {
			return true
		}
	}
	return false
}

// Find returns the first event of kind k.
func (r TickResult) Find(k EventKind) (Event, bool) {
	for _, e := range r.Events {
		if e.Kind == k {
			return e, true
		}
	}
	return Event{}, false
}
