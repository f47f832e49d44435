package progression

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// DefaultKeeperTimeout bounds each backend call made by a Keeper.
const DefaultKeeperTimeout = 5 * time.Second

// Keeper moves profiles between a session and a Backend. Backend failures
// never fail a game: they are logged and the local result stands.
type Keeper struct {
	backend Backend
	logger  *log.Logger
	timeout time.Duration
}

// NewKeeper creates a keeper. A nil logger discards output; a nil backend
// keeps everything in memory.
func NewKeeper(b Backend, logger *log.Logger) *Keeper {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Keeper{backend: b, logger: logger, timeout: DefaultKeeperTimeout}
}

// SetTimeout overrides the per-call timeout.
func (k *Keeper) SetTimeout(d time.Duration) {
	if d > 0 {
		k.timeout = d
	}
}

// Load fetches the profile, or a default one when the backend has none or
// cannot be reached.
func (k *Keeper) Load(ctx context.Context, userID, username string) PlayerProfile {
	if k.backend == nil {
		return DefaultProfile(userID, username)
	}

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	p, err := k.backend.Profile(ctx, userID)
	switch {
	case errors.Is(err, ErrProfileNotFound):
		return DefaultProfile(userID, username)
	case err != nil:
		k.logger.Warn("profile load failed, using defaults", "user", userID, "error", err)
		return DefaultProfile(userID, username)
	}
	if p.UserID == "" {
		p.UserID = userID
	}
	if username != "" {
		p.Username = username
	}
	return p.Normalize()
}

// Commit finalizes a game and persists the score and the updated profile.
func (k *Keeper) Commit(ctx context.Context, p PlayerProfile, r GameResult) (PlayerProfile, Report) {
	out, rep := Finalize(p, r)
	if k.backend == nil {
		return out, rep
	}

	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	rec := ScoreRecord{
		UserID:   out.UserID,
		Username: out.Username,
		Score:    r.Score,
		Rank:     rep.Rank.Name,
	}
	if err := k.backend.SaveScore(ctx, rec); err != nil {
		k.logger.Warn("score submit failed", "user", out.UserID, "score", r.Score, "error", err)
	}
	if err := k.backend.SaveProfile(ctx, out); err != nil {
		k.logger.Warn("profile save failed", "user", out.UserID, "error", err)
	}
	for _, a := range rep.NewAchievements {
		k.logger.Info("achievement unlocked", "user", out.UserID, "id", a.ID, "reward", a.Reward)
	}
	return out, rep
}

// Leaderboard returns the top entries, empty when the backend fails.
func (k *Keeper) Leaderboard(ctx context.Context, limit int) []LeaderboardEntry {
	if k.backend == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()

	entries, err := k.backend.Leaderboard(ctx, limit)
	if err != nil {
		k.logger.Warn("leaderboard fetch failed", "error", err)
		return nil
	}
	return entries
}

// BuySkin applies a purchase locally and persists it. Shop errors are
// returned; persistence errors are logged.
func (k *Keeper) BuySkin(ctx context.Context, p PlayerProfile, color string) (PlayerProfile, error) {
	out, err := BuySkin(p, color)
	if err != nil {
		return p, err
	}
	k.persist(ctx, out)
	return out, nil
}

// SelectSkin applies a selection locally and persists it.
func (k *Keeper) SelectSkin(ctx context.Context, p PlayerProfile, color string) (PlayerProfile, error) {
	out, err := SelectSkin(p, color)
	if err != nil {
		return p, err
	}
	k.persist(ctx, out)
	return out, nil
}

func (k *Keeper) persist(ctx context.Context, p PlayerProfile) {
	if k.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(ctx, k.timeout)
	defer cancel()
	if err := k.backend.SaveProfile(ctx, p); err != nil {
		k.logger.Warn("profile save failed", "user", p.UserID, "error", err)
	}
}
