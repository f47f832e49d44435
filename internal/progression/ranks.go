// Package progression holds the player-facing meta game: ranks, the skin
// shop, achievements and the player profile that carries them between
// sessions. Everything here is pure except Keeper, which talks to a Backend.
package progression

// Rank is a cosmetic tier derived from the best-ever score.
type Rank struct {
	Name     string `json:"name"`
	MinScore int    `json:"minScore"`
	Color    string `json:"color"`
}

// Ranks is the static tier table in ascending threshold order.
var Ranks = []Rank{
	{Name: "Bronze I", MinScore: 0, Color: "#cd7f32"},
	{Name: "Bronze II", MinScore: 50, Color: "#cd7f32"},
	{Name: "Bronze III", MinScore: 100, Color: "#cd7f32"},
	{Name: "Silver I", MinScore: 200, Color: "#c0c0c0"},
	{Name: "Silver II", MinScore: 350, Color: "#c0c0c0"},
	{Name: "Silver III", MinScore: 500, Color: "#c0c0c0"},
	{Name: "Gold I", MinScore: 750, Color: "#ffd700"},
	{Name: "Gold II", MinScore: 1000, Color: "#ffd700"},
	{Name: "Gold III", MinScore: 1500, Color: "#ffd700"},
	{Name: "Platinum I", MinScore: 2000, Color: "#e5e4e2"},
	{Name: "Platinum II", MinScore: 3000, Color: "#e5e4e2"},
	{Name: "Platinum III", MinScore: 4000, Color: "#e5e4e2"},
	{Name: "Diamond I", MinScore: 5000, Color: "#b9f2ff"},
	{Name: "Diamond II", MinScore: 7500, Color: "#b9f2ff"},
	{Name: "Diamond III", MinScore: 10000, Color: "#b9f2ff"},
	{Name: "Master", MinScore: 15000, Color: "#ff6b6b"},
	{Name: "Grand Master", MinScore: 25000, Color: "#ff6b6b"},
	{Name: "Legend", MinScore: 50000, Color: "#a855f7"},
}

// RankFor returns the highest tier whose threshold does not exceed score.
// Negative scores map to the first tier.
func RankFor(score int) Rank {
	for i := len(Ranks) - 1; i >= 0; i-- {
		if score >= Ranks[i].MinScore {
			return Ranks[i]
		}
	}
	return Ranks[0]
}

// NextRank returns the tier after the one score is in, and false at the top.
func NextRank(score int) (Rank, bool) {
	for _, r := range Ranks {
		if r.MinScore > score {
			return r, true
		}
	}
	return Rank{}, false
}
