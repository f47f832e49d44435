package storage

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"math"
	"time"

	"github.com/gocarina/gocsv"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

// DefaultLeaderboardLimit is used when a caller passes a non-positive limit.
const DefaultLeaderboardLimit = 50

// ScoreEntry is a single stored game.
type ScoreEntry struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Username  string    `json:"username"`
	Score     int       `json:"score"`
	Rank      string    `json:"rank"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
}

// GlobalStats are the server-wide aggregates.
type GlobalStats struct {
	TotalGames       int    `json:"totalGames"`
	TotalScore       int64  `json:"totalScore"`
	TotalPlayers     int    `json:"totalPlayers"`
	HighestScore     int    `json:"highestScore"`
	HighestScoreUser string `json:"highestScoreUser"`
}

// Position is where a score would place among every player's best.
type Position struct {
	Position   int     `json:"position"` // 1-based
	Total      int     `json:"total"`
	Percentile float64 `json:"percentile"`
}

// SaveScore records a finished game, creating the user on first sight and
// updating the global aggregates.
func (s *Store) SaveScore(ctx context.Context, rec progression.ScoreRecord) error {
	if rec.Username == "" {
		rec.Username = "Anonymous"
	}
	if rec.Rank == "" {
		rec.Rank = progression.RankFor(rec.Score).Name
	}
	if rec.Language == "" {
		rec.Language = "en"
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (user_id, username, language_code) VALUES (?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			   username = excluded.username,
			   updated_at = CURRENT_TIMESTAMP`,
			rec.UserID, rec.Username, rec.Language,
		); err != nil {
			return fmt.Errorf("storage: cannot upsert user: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO scores (user_id, username, score, rank, language) VALUES (?, ?, ?, ?, ?)",
			rec.UserID, rec.Username, rec.Score, rec.Rank, rec.Language,
		); err != nil {
			return fmt.Errorf("storage: cannot save score: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			`UPDATE global_stats SET
			   total_games = total_games + 1,
			   total_score = total_score + ?,
			   highest_score_user = CASE WHEN ? > highest_score THEN ? ELSE highest_score_user END,
			   highest_score = MAX(highest_score, ?),
			   updated_at = CURRENT_TIMESTAMP
			 WHERE id = 1`,
			rec.Score, rec.Score, rec.UserID, rec.Score,
		); err != nil {
			return fmt.Errorf("storage: cannot update global stats: %w", err)
		}
		return nil
	})
}

// Leaderboard returns each player's best game, highest first. Ties go to the
// earlier game.
func (s *Store) Leaderboard(ctx context.Context, limit int) ([]progression.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = DefaultLeaderboardLimit
	}

	// SQLite fills bare columns from the row that holds the MAX
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, username, MAX(score) AS best, rank, created_at
		 FROM scores
		 GROUP BY user_id
		 ORDER BY best DESC, created_at ASC
		 LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []progression.LeaderboardEntry
	for rows.Next() {
		var e progression.LeaderboardEntry
		var createdAt any
		if err := rows.Scan(&e.UserID, &e.Username, &e.Score, &e.Rank, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		e.Position = len(entries) + 1
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// UserBest returns the user's best game, or nil when they have none.
func (s *Store) UserBest(ctx context.Context, userID string) (*ScoreEntry, error) {
	var e ScoreEntry
	var createdAt any
	err := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, username, score, rank, language, created_at
		 FROM scores
		 WHERE user_id = ?
		 ORDER BY score DESC, created_at ASC
		 LIMIT 1`,
		userID,
	).Scan(&e.ID, &e.UserID, &e.Username, &e.Score, &e.Rank, &e.Language, &createdAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	e.CreatedAt = parseTime(createdAt)
	return &e, nil
}

// UserScores returns the user's most recent games.
func (s *Store) UserScores(ctx context.Context, userID string, limit int) ([]ScoreEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, user_id, username, score, rank, language, created_at
		 FROM scores
		 WHERE user_id = ?
		 ORDER BY created_at DESC, id DESC
		 LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query scores: %w", err)
	}
	defer rows.Close()

	var entries []ScoreEntry
	for rows.Next() {
		var e ScoreEntry
		var createdAt any
		if err := rows.Scan(&e.ID, &e.UserID, &e.Username, &e.Score, &e.Rank, &e.Language, &createdAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		e.CreatedAt = parseTime(createdAt)
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}

	return entries, nil
}

// RankPosition reports where score places among all players' bests.
func (s *Store) RankPosition(ctx context.Context, score int) (Position, error) {
	var above, total int
	err := s.db.QueryRowContext(ctx,
		`SELECT
		   COALESCE(SUM(CASE WHEN best > ? THEN 1 ELSE 0 END), 0),
		   COUNT(*)
		 FROM (SELECT MAX(score) AS best FROM scores GROUP BY user_id)`,
		score,
	).Scan(&above, &total)
	if err != nil {
		return Position{}, fmt.Errorf("storage: cannot query rank position: %w", err)
	}

	p := Position{Position: above + 1, Total: total}
	if total > 0 {
		p.Percentile = math.Round(float64(total-p.Position)/float64(total)*10000) / 100
	}
	return p, nil
}

// GlobalStats returns the server-wide aggregates.
func (s *Store) GlobalStats(ctx context.Context) (GlobalStats, error) {
	var g GlobalStats
	err := s.db.QueryRowContext(ctx,
		`SELECT total_games, total_score, highest_score, highest_score_user,
		        (SELECT COUNT(DISTINCT user_id) FROM scores)
		 FROM global_stats WHERE id = 1`,
	).Scan(&g.TotalGames, &g.TotalScore, &g.HighestScore, &g.HighestScoreUser, &g.TotalPlayers)
	if err != nil {
		return GlobalStats{}, fmt.Errorf("storage: cannot query global stats: %w", err)
	}
	return g, nil
}

type csvEntry struct {
	Position  int    `csv:"position"`
	UserID    string `csv:"user_id"`
	Username  string `csv:"username"`
	Score     int    `csv:"score"`
	Rank      string `csv:"rank"`
	CreatedAt string `csv:"created_at"`
}

// ExportLeaderboardCSV writes the leaderboard as CSV with a header row.
func (s *Store) ExportLeaderboardCSV(ctx context.Context, w io.Writer, limit int) error {
	entries, err := s.Leaderboard(ctx, limit)
	if err != nil {
		return err
	}
	rows := make([]csvEntry, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, csvEntry{
			Position:  e.Position,
			UserID:    e.UserID,
			Username:  e.Username,
			Score:     e.Score,
			Rank:      e.Rank,
			CreatedAt: e.CreatedAt.UTC().Format(time.RFC3339),
		})
	}
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("storage: cannot write csv: %w", err)
	}
	return nil
}
