package progression

import "slices"

// Stats are the lifetime aggregates achievements are evaluated against.
type Stats struct {
	BestScore    int      `json:"bestScore"`
	MaxCombo     int      `json:"maxCombo"`
	TotalGames   int      `json:"totalGames"`
	TotalScore   int      `json:"totalScore"`
	BoostersUsed []string `json:"boostersUsed"`
	SkinsOwned   int      `json:"skinsOwned"`
}

// UsedBooster reports whether the booster id was ever collected.
func (s Stats) UsedBooster(id string) bool {
	return slices.Contains(s.BoostersUsed, id)
}

// Achievement is a one-time goal with a star reward.
type Achievement struct {
	ID          string           `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Reward      int              `json:"reward"`
	Rarity      Rarity           `json:"rarity"`
	Condition   func(Stats) bool `json:"-"`
}

func scoreAtLeast(n int) func(Stats) bool { return func(s Stats) bool { return s.BestScore >= n } }
func comboAtLeast(n int) func(Stats) bool { return func(s Stats) bool { return s.MaxCombo >= n } }
func gamesAtLeast(n int) func(Stats) bool { return func(s Stats) bool { return s.TotalGames >= n } }
func skinsAtLeast(n int) func(Stats) bool { return func(s Stats) bool { return s.SkinsOwned >= n } }
func usedBooster(id string) func(Stats) bool {
	return func(s Stats) bool { return s.UsedBooster(id) }
}

// Achievements is the static rule list.
var Achievements = []Achievement{
	{ID: "score_100", Name: "Beginner", Description: "Score 100 points", Reward: 10, Rarity: RarityCommon, Condition: scoreAtLeast(100)},
	{ID: "score_500", Name: "Experienced", Description: "Score 500 points", Reward: 25, Rarity: RarityCommon, Condition: scoreAtLeast(500)},
	{ID: "score_1000", Name: "Master", Description: "Score 1000 points", Reward: 50, Rarity: RarityRare, Condition: scoreAtLeast(1000)},
	{ID: "score_5000", Name: "Legend", Description: "Score 5000 points", Reward: 100, Rarity: RarityEpic, Condition: scoreAtLeast(5000)},
	{ID: "score_10000", Name: "God of Snake", Description: "Score 10000 points", Reward: 200, Rarity: RarityLegendary, Condition: scoreAtLeast(10000)},

	{ID: "combo_5", Name: "Combo Master", Description: "Reach a x5 combo", Reward: 15, Rarity: RarityCommon, Condition: comboAtLeast(5)},
	{ID: "combo_10", Name: "Combo King", Description: "Reach a x10 combo", Reward: 30, Rarity: RarityRare, Condition: comboAtLeast(10)},
	{ID: "combo_20", Name: "Combo God", Description: "Reach a x20 combo", Reward: 75, Rarity: RarityEpic, Condition: comboAtLeast(20)},

	{ID: "games_10", Name: "Regular", Description: "Play 10 games", Reward: 10, Rarity: RarityCommon, Condition: gamesAtLeast(10)},
	{ID: "games_50", Name: "Fan", Description: "Play 50 games", Reward: 25, Rarity: RarityCommon, Condition: gamesAtLeast(50)},
	{ID: "games_100", Name: "Addict", Description: "Play 100 games", Reward: 50, Rarity: RarityRare, Condition: gamesAtLeast(100)},
	{ID: "games_500", Name: "Veteran", Description: "Play 500 games", Reward: 100, Rarity: RarityEpic, Condition: gamesAtLeast(500)},

	{ID: "booster_slow", Name: "Time Bender", Description: "Use Slow Motion", Reward: 15, Rarity: RarityCommon, Condition: usedBooster("slow")},
	{ID: "booster_magnet", Name: "Magnetic", Description: "Use Magnet", Reward: 15, Rarity: RarityCommon, Condition: usedBooster("magnet")},
	{ID: "booster_double", Name: "Double Trouble", Description: "Use 2x Points", Reward: 15, Rarity: RarityCommon, Condition: usedBooster("double")},
	{ID: "booster_shield", Name: "Untouchable", Description: "Use Shield", Reward: 15, Rarity: RarityCommon, Condition: usedBooster("shield")},

	{ID: "skin_collector", Name: "Collector", Description: "Own 5 skins", Reward: 50, Rarity: RarityRare, Condition: skinsAtLeast(5)},
	{ID: "skin_master", Name: "Fashionista", Description: "Own 10 skins", Reward: 100, Rarity: RarityEpic, Condition: skinsAtLeast(10)},

	{ID: "first_blood", Name: "First Blood", Description: "Play your first game", Reward: 5, Rarity: RarityCommon, Condition: gamesAtLeast(1)},
}

// AchievementByID looks up a rule.
func AchievementByID(id string) (Achievement, bool) {
	for _, a := range Achievements {
		if a.ID == id {
			return a, true
		}
	}
	return Achievement{}, false
}

// CheckAchievements returns the rules satisfied by stats that are not yet in
// unlocked, in catalog order. It does not modify unlocked.
func CheckAchievements(stats Stats, unlocked []string) []Achievement {
	var fresh []Achievement
	for _, a := range Achievements {
		if slices.Contains(unlocked, a.ID) {
			continue
		}
		if a.Condition(stats) {
			fresh = append(fresh, a)
		}
	}
	return fresh
}
