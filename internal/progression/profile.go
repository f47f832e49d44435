package progression

import (
	"slices"
	"time"
)

// PlayerProfile is the persisted player state. It is passed into a session
// at start and returned, updated, at game over.
type PlayerProfile struct {
	UserID       string   `json:"userId"`
	Username     string   `json:"username"`
	Stars        int      `json:"stars"`
	Skins        []string `json:"skins"`
	SelectedSkin string   `json:"selectedSkin"`
	Stats        Stats    `json:"stats"`
	Achievements []string `json:"achievements"`
}

// DefaultProfile returns the profile of a brand-new player.
func DefaultProfile(userID, username string) PlayerProfile {
	return PlayerProfile{
		UserID:       userID,
		Username:     username,
		Skins:        []string{DefaultSkinColor},
		SelectedSkin: DefaultSkinColor,
		Stats:        Stats{SkinsOwned: 1},
	}
}

// Owns reports whether the profile has unlocked the skin color.
func (p PlayerProfile) Owns(color string) bool {
	for _, c := range p.Skins {
		if sameColor(c, color) {
			return true
		}
	}
	return false
}

// Rank returns the profile's rank from its best score.
func (p PlayerProfile) Rank() Rank {
	return RankFor(p.Stats.BestScore)
}

// Normalize repairs data loaded from storage: the free skin is always owned,
// unknown and duplicate skins are dropped, the selected skin must be owned
// and counters must not be negative.
func (p PlayerProfile) Normalize() PlayerProfile {
	out := p.clone()

	skins := []string{DefaultSkinColor}
	for _, c := range p.Skins {
		skin, ok := SkinByColor(c)
		if !ok || slices.Contains(skins, skin.Color) {
			continue
		}
		skins = append(skins, skin.Color)
	}
	out.Skins = skins
	out.Stats.SkinsOwned = len(skins)

	if skin, ok := SkinByColor(out.SelectedSkin); !ok || !out.Owns(skin.Color) {
		out.SelectedSkin = DefaultSkinColor
	} else {
		out.SelectedSkin = skin.Color
	}

	out.Stars = max(out.Stars, 0)
	out.Stats.BestScore = max(out.Stats.BestScore, 0)
	out.Stats.MaxCombo = max(out.Stats.MaxCombo, 0)
	out.Stats.TotalGames = max(out.Stats.TotalGames, 0)
	out.Stats.TotalScore = max(out.Stats.TotalScore, 0)
	return out
}

func (p PlayerProfile) clone() PlayerProfile {
	out := p
	out.Skins = slices.Clone(p.Skins)
	out.Achievements = slices.Clone(p.Achievements)
	out.Stats.BoostersUsed = slices.Clone(p.Stats.BoostersUsed)
	return out
}

func sameColor(a, b string) bool {
	sa, okA := SkinByColor(a)
	sb, okB := SkinByColor(b)
	if okA && okB {
		return sa.Color == sb.Color
	}
	return a == b
}

// GameResult is the terminal snapshot a finished session hands over.
type GameResult struct {
	Score        int           `json:"score"`
	MaxCombo     int           `json:"maxCombo"`
	BoostersUsed []string      `json:"boostersUsed"`
	StarsEarned  int           `json:"starsEarned"`
	Length       int           `json:"length"`
	Duration     time.Duration `json:"duration"`
}

// Report describes what a finished game changed, for the game-over screen.
type Report struct {
	Score            int           `json:"score"`
	BestScore        int           `json:"bestScore"`
	NewBest          bool          `json:"newBest"`
	Rank             Rank          `json:"rank"`
	RankUp           bool          `json:"rankUp"`
	StarsEarned      int           `json:"starsEarned"`
	AchievementStars int           `json:"achievementStars"`
	NewAchievements  []Achievement `json:"newAchievements"`
	Stars            int           `json:"stars"`
}

// Finalize folds a finished game into the profile: lifetime stats, run stars,
// achievements once, and their rewards. The input profile is not modified.
func Finalize(p PlayerProfile, r GameResult) (PlayerProfile, Report) {
	out := p.Normalize()
	prevRank := out.Rank()
	prevBest := out.Stats.BestScore

	out.Stats.TotalGames++
	out.Stats.TotalScore += max(r.Score, 0)
	out.Stats.BestScore = max(out.Stats.BestScore, r.Score)
	out.Stats.MaxCombo = max(out.Stats.MaxCombo, r.MaxCombo)
	for _, id := range r.BoostersUsed {
		if !out.Stats.UsedBooster(id) {
			out.Stats.BoostersUsed = append(out.Stats.BoostersUsed, id)
		}
	}
	out.Stats.SkinsOwned = len(out.Skins)
	out.Stars += max(r.StarsEarned, 0)

	rep := Report{
		Score:       r.Score,
		BestScore:   out.Stats.BestScore,
		NewBest:     r.Score > prevBest,
		StarsEarned: max(r.StarsEarned, 0),
	}

	for _, a := range CheckAchievements(out.Stats, out.Achievements) {
		out.Achievements = append(out.Achievements, a.ID)
		out.Stars += a.Reward
		rep.AchievementStars += a.Reward
		rep.NewAchievements = append(rep.NewAchievements, a)
	}

	rep.Rank = out.Rank()
	rep.RankUp = rep.Rank.MinScore > prevRank.MinScore
	rep.Stars = out.Stars
	return out, rep
}
