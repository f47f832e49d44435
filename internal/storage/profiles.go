package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

// OwnedSkin is a skin row of a user's collection.
type OwnedSkin struct {
	Color      string    `json:"skinColor"`
	Name       string    `json:"skinName"`
	Price      int       `json:"price"`
	AcquiredAt time.Time `json:"acquiredAt"`
}

// Profile loads a player. Unknown users yield progression.ErrProfileNotFound.
func (s *Store) Profile(ctx context.Context, userID string) (progression.PlayerProfile, error) {
	p := progression.PlayerProfile{UserID: userID}
	var boosters string
	err := s.db.QueryRowContext(ctx,
		`SELECT username, stars, selected_skin, best_score, max_combo, total_games, total_score, boosters_used
		 FROM users WHERE user_id = ?`,
		userID,
	).Scan(&p.Username, &p.Stars, &p.SelectedSkin,
		&p.Stats.BestScore, &p.Stats.MaxCombo, &p.Stats.TotalGames, &p.Stats.TotalScore, &boosters)
	if err == sql.ErrNoRows {
		return progression.PlayerProfile{}, progression.ErrProfileNotFound
	}
	if err != nil {
		return progression.PlayerProfile{}, fmt.Errorf("storage: cannot query user: %w", err)
	}
	if err := json.Unmarshal([]byte(boosters), &p.Stats.BoostersUsed); err != nil {
		return progression.PlayerProfile{}, fmt.Errorf("storage: cannot decode boosters: %w", err)
	}

	// best_score on users tracks finalized games; scores may hold more
	var best sql.NullInt64
	if err := s.db.QueryRowContext(ctx,
		"SELECT MAX(score) FROM scores WHERE user_id = ?", userID,
	).Scan(&best); err != nil {
		return progression.PlayerProfile{}, fmt.Errorf("storage: cannot query best score: %w", err)
	}
	if best.Valid {
		p.Stats.BestScore = max(p.Stats.BestScore, int(best.Int64))
	}

	skins, err := s.UserSkins(ctx, userID)
	if err != nil {
		return progression.PlayerProfile{}, err
	}
	for _, sk := range skins {
		p.Skins = append(p.Skins, sk.Color)
	}

	p.Achievements, err = s.achievements(ctx, userID)
	if err != nil {
		return progression.PlayerProfile{}, err
	}

	return p.Normalize(), nil
}

func (s *Store) achievements(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT achievement_id FROM user_achievements WHERE user_id = ? ORDER BY unlocked_at, rowid",
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query achievements: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return ids, nil
}

// SaveProfile writes the whole profile. Skins and achievements are only ever
// added.
func (s *Store) SaveProfile(ctx context.Context, p progression.PlayerProfile) error {
	p = p.Normalize()
	boosters, err := json.Marshal(p.Stats.BoostersUsed)
	if err != nil {
		return fmt.Errorf("storage: cannot encode boosters: %w", err)
	}
	if p.Stats.BoostersUsed == nil {
		boosters = []byte("[]")
	}
	username := p.Username
	if username == "" {
		username = "Anonymous"
	}

	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO users (user_id, username, stars, selected_skin, best_score, max_combo, total_games, total_score, boosters_used)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			 ON CONFLICT(user_id) DO UPDATE SET
			   username = excluded.username,
			   stars = excluded.stars,
			   selected_skin = excluded.selected_skin,
			   best_score = excluded.best_score,
			   max_combo = excluded.max_combo,
			   total_games = excluded.total_games,
			   total_score = excluded.total_score,
			   boosters_used = excluded.boosters_used,
			   updated_at = CURRENT_TIMESTAMP`,
			p.UserID, username, p.Stars, p.SelectedSkin,
			p.Stats.BestScore, p.Stats.MaxCombo, p.Stats.TotalGames, p.Stats.TotalScore, string(boosters),
		); err != nil {
			return fmt.Errorf("storage: cannot save user: %w", err)
		}

		for _, color := range p.Skins {
			skin, _ := progression.SkinByColor(color)
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO user_skins (user_id, skin_color, skin_name, price) VALUES (?, ?, ?, ?)",
				p.UserID, skin.Color, skin.Name, skin.Price,
			); err != nil {
				return fmt.Errorf("storage: cannot save skin: %w", err)
			}
		}

		for _, id := range p.Achievements {
			if _, err := tx.ExecContext(ctx,
				"INSERT OR IGNORE INTO user_achievements (user_id, achievement_id) VALUES (?, ?)",
				p.UserID, id,
			); err != nil {
				return fmt.Errorf("storage: cannot save achievement: %w", err)
			}
		}
		return nil
	})
}

// UpdateStars sets the user's currency balance.
func (s *Store) UpdateStars(ctx context.Context, userID string, stars int) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO users (user_id, stars) VALUES (?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET stars = excluded.stars, updated_at = CURRENT_TIMESTAMP`,
		userID, max(stars, 0),
	)
	if err != nil {
		return fmt.Errorf("storage: cannot update stars: %w", err)
	}
	return nil
}

// UserSkins lists the skins a user has bought, oldest first. The free skin is
// only stored once a profile has been saved.
func (s *Store) UserSkins(ctx context.Context, userID string) ([]OwnedSkin, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT skin_color, skin_name, price, acquired_at
		 FROM user_skins
		 WHERE user_id = ?
		 ORDER BY acquired_at, rowid`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot query skins: %w", err)
	}
	defer rows.Close()

	var skins []OwnedSkin
	for rows.Next() {
		var sk OwnedSkin
		var acquiredAt any
		if err := rows.Scan(&sk.Color, &sk.Name, &sk.Price, &acquiredAt); err != nil {
			return nil, fmt.Errorf("storage: cannot scan row: %w", err)
		}
		sk.AcquiredAt = parseTime(acquiredAt)
		skins = append(skins, sk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("storage: row iteration error: %w", err)
	}
	return skins, nil
}
