package progression

import (
	"context"
	"errors"
	"time"
)

// ErrProfileNotFound is returned by a Backend for an unknown user.
var ErrProfileNotFound = errors.New("progression: profile not found")

// ScoreRecord is one finished game as submitted to the backend.
type ScoreRecord struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    int    `json:"score"`
	Rank     string `json:"rank,omitempty"`
	Language string `json:"language,omitempty"`
}

// LeaderboardEntry is a player's best score.
type LeaderboardEntry struct {
	Position  int       `json:"position"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Rank      string    `json:"rank"`
	CreatedAt time.Time `json:"createdAt"`
}

// Backend is the persistence collaborator. Implementations live in the
// storage (local SQLite) and apiclient (remote HTTP) packages.
type Backend interface {
	SaveScore(ctx context.Context, rec ScoreRecord) error
	Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	Profile(ctx context.Context, userID string) (PlayerProfile, error)
	SaveProfile(ctx context.Context, p PlayerProfile) error
	UpdateStars(ctx context.Context, userID string, stars int) error
}
