package progression

import (
	"context"
	"errors"
	"testing"
)

type fakeBackend struct {
	profiles map[string]PlayerProfile
	scores   []ScoreRecord
	err      error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{profiles: make(map[string]PlayerProfile)}
}

func (f *fakeBackend) SaveScore(_ context.Context, rec ScoreRecord) error {
	if f.err != nil {
		return f.err
	}
	f.scores = append(f.scores, rec)
	return nil
}

func (f *fakeBackend) Leaderboard(_ context.Context, limit int) ([]LeaderboardEntry, error) {
	if f.err != nil {
		return nil, f.err
	}
	var out []LeaderboardEntry
	for i, s := range f.scores {
		if i == limit {
			break
		}
		out = append(out, LeaderboardEntry{Position: i + 1, UserID: s.UserID, Score: s.Score})
	}
	return out, nil
}

func (f *fakeBackend) Profile(_ context.Context, id string) (PlayerProfile, error) {
	if f.err != nil {
		return PlayerProfile{}, f.err
	}
	p, ok := f.profiles[id]
	if !ok {
		return PlayerProfile{}, ErrProfileNotFound
	}
	return p, nil
}

func (f *fakeBackend) SaveProfile(_ context.Context, p PlayerProfile) error {
	if f.err != nil {
		return f.err
	}
	f.profiles[p.UserID] = p
	return nil
}

func (f *fakeBackend) UpdateStars(_ context.Context, id string, stars int) error {
	if f.err != nil {
		return f.err
	}
	p := f.profiles[id]
	p.Stars = stars
	f.profiles[id] = p
	return nil
}

func TestKeeperLoadDefaults(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		backend Backend
	}{
		{"offline", nil},
		{"not found", newFakeBackend()},
		{"unreachable", &fakeBackend{err: errors.New("connection refused")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			k := NewKeeper(tt.backend, nil)
			p := k.Load(ctx, "u1", "alice")
			if p.UserID != "u1" || p.Username != "alice" {
				t.Errorf("profile = %+v", p)
			}
			if p.SelectedSkin != DefaultSkinColor || p.Stars != 0 {
				t.Errorf("expected a default profile, got %+v", p)
			}
		})
	}
}

func TestKeeperCommit(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	k := NewKeeper(fb, nil)

	p := k.Load(ctx, "u1", "alice")
	out, rep := k.Commit(ctx, p, GameResult{Score: 150, StarsEarned: 15})

	if len(fb.scores) != 1 || fb.scores[0].Score != 150 || fb.scores[0].Rank != "Bronze III" {
		t.Errorf("scores = %+v", fb.scores)
	}
	saved, ok := fb.profiles["u1"]
	if !ok {
		t.Fatal("profile not saved")
	}
	if saved.Stars != out.Stars || out.Stars != rep.Stars {
		t.Errorf("saved stars = %d, returned %d, report %d", saved.Stars, out.Stars, rep.Stars)
	}

	reloaded := k.Load(ctx, "u1", "")
	if reloaded.Stats.BestScore != 150 || reloaded.Username != "alice" {
		t.Errorf("reloaded = %+v", reloaded)
	}
}

func TestKeeperCommitSurvivesBackendFailure(t *testing.T) {
	k := NewKeeper(&fakeBackend{err: errors.New("down")}, nil)
	out, rep := k.Commit(context.Background(), DefaultProfile("u", "u"), GameResult{Score: 10, StarsEarned: 1})
	if out.Stats.TotalGames != 1 || rep.Score != 10 {
		t.Errorf("local result lost: %+v, %+v", out.Stats, rep)
	}
	if got := k.Leaderboard(context.Background(), 10); got != nil {
		t.Errorf("Leaderboard() = %v, expected nil", got)
	}
}

func TestKeeperBuySkin(t *testing.T) {
	ctx := context.Background()
	fb := newFakeBackend()
	k := NewKeeper(fb, nil)

	p := DefaultProfile("u1", "alice")
	p.Stars = 60
	if _, err := k.BuySkin(ctx, p, "#9b59b6"); !errors.Is(err, ErrNotEnoughStars) {
		t.Errorf("BuySkin() error = %v, expected %v", err, ErrNotEnoughStars)
	}
	if _, ok := fb.profiles["u1"]; ok {
		t.Error("failed purchase was persisted")
	}

	out, err := k.BuySkin(ctx, p, "#e67e22")
	if err != nil {
		t.Fatalf("BuySkin() error = %v", err)
	}
	out, err = k.SelectSkin(ctx, out, "#e67e22")
	if err != nil {
		t.Fatalf("SelectSkin() error = %v", err)
	}
	if saved := fb.profiles["u1"]; saved.SelectedSkin != "#e67e22" || saved.Stars != 10 {
		t.Errorf("saved = %+v", saved)
	}
	if out.Stars != 10 {
		t.Errorf("Stars = %d, expected 10", out.Stars)
	}
}
