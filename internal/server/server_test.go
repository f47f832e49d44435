package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-plus/internal/identity"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

const testBotToken = "123456:TEST"

func newTestServer(t *testing.T, opts Options) (http.Handler, *storage.Store) {
	t.Helper()
	store, err := storage.Open(storage.MemoryPath)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return New(opts, log.New(io.Discard), store).Handler(), store
}

func do(t *testing.T, h http.Handler, method, path string, body any, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			data, err := json.Marshal(b)
			if err != nil {
				t.Fatalf("marshal body: %v", err)
			}
			rd = bytes.NewReader(data)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	return v
}

func TestHealth(t *testing.T) {
	h, store := newTestServer(t, Options{Dev: true})

	rec := do(t, h, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := decode[HealthResponse](t, rec); got.Status != "ok" || got.Timestamp.IsZero() {
		t.Errorf("body = %+v", got)
	}

	store.Close()
	rec = do(t, h, http.MethodGet, "/api/health", nil, nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status after close = %d, want %d", rec.Code, http.StatusServiceUnavailable)
	}
}

func TestSaveScoreValidation(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	tests := []struct {
		name string
		body string
	}{
		{"bad json", `{`},
		{"no user", `{"score": 10}`},
		{"no score", `{"userId": "u1"}`},
		{"negative", `{"userId": "u1", "score": -1}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/score", tt.body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := decode[ErrorResponse](t, rec); got.Error == "" {
				t.Error("missing error message")
			}
		})
	}
}

func TestScoresAndLeaderboard(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	for _, s := range []struct {
		user  string
		score int
	}{{"a", 100}, {"b", 300}, {"a", 250}, {"c", 50}} {
		body := map[string]any{"userId": s.user, "username": "n-" + s.user, "score": s.score}
		if rec := do(t, h, http.MethodPost, "/api/score", body, nil); rec.Code != http.StatusOK {
			t.Fatalf("save %v: status = %d, want %d", s, rec.Code, http.StatusOK)
		}
	}

	rec := do(t, h, http.MethodGet, "/api/leaderboard?limit=2", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	lb := decode[LeaderboardResponse](t, rec)
	if lb.Total != 2 || len(lb.Leaderboard) != 2 {
		t.Fatalf("leaderboard = %+v", lb)
	}
	if lb.Leaderboard[0].UserID != "b" || lb.Leaderboard[1].UserID != "a" || lb.Leaderboard[1].Score != 250 {
		t.Errorf("order = %+v", lb.Leaderboard)
	}
	if lb.Leaderboard[1].Rank != progression.RankFor(250).Name {
		t.Errorf("rank = %q, want default %q", lb.Leaderboard[1].Rank, progression.RankFor(250).Name)
	}

	rec = do(t, h, http.MethodGet, "/api/user/a/best", nil, nil)
	best := decode[BestScoreResponse](t, rec)
	if best.BestScore == nil || best.BestScore.Score != 250 {
		t.Errorf("best = %+v", best.BestScore)
	}

	rec = do(t, h, http.MethodGet, "/api/user/nobody/best", nil, nil)
	if best := decode[BestScoreResponse](t, rec); best.BestScore != nil {
		t.Errorf("best for unknown user = %+v, want null", best.BestScore)
	}

	rec = do(t, h, http.MethodGet, "/api/user/a/scores", nil, nil)
	if scores := decode[ScoresResponse](t, rec); len(scores.Scores) != 2 || scores.Scores[0].Score != 250 {
		t.Errorf("scores = %+v", scores.Scores)
	}

	rec = do(t, h, http.MethodGet, "/api/rank/200", nil, nil)
	rank := decode[RankResponse](t, rec)
	if rank.Rank != 3 || rank.Total != 3 || rank.Tier.Name != progression.RankFor(200).Name {
		t.Errorf("rank = %+v", rank)
	}

	rec = do(t, h, http.MethodGet, "/api/stats", nil, nil)
	stats := decode[StatsResponse](t, rec)
	if stats.TotalGames != 4 || stats.HighestScore != 300 || stats.TotalPlayers != 3 {
		t.Errorf("stats = %+v", stats.GlobalStats)
	}
}

func TestRankBadScore(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})
	rec := do(t, h, http.MethodGet, "/api/rank/abc", nil, nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestLeaderboardCSV(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})
	do(t, h, http.MethodPost, "/api/score", map[string]any{"userId": "a", "username": "ann", "score": 42}, nil)

	rec := do(t, h, http.MethodGet, "/api/leaderboard.csv", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/csv") {
		t.Errorf("content-type = %q, want text/csv", got)
	}
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	if len(lines) != 2 || !strings.HasPrefix(lines[0], "position,") || !strings.Contains(lines[1], "ann") {
		t.Errorf("csv = %q", rec.Body.String())
	}
}

func TestUnknownUserGetsDefaults(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	rec := do(t, h, http.MethodGet, "/api/user/ghost", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	u := decode[UserResponse](t, rec).User
	if u.UserID != "ghost" || u.Stars != 0 || u.Rank != "Bronze I" {
		t.Errorf("user = %+v", u)
	}
	if len(u.Skins) != 1 || u.Skins[0] != progression.DefaultSkinColor {
		t.Errorf("skins = %v", u.Skins)
	}
}

func TestUpdateStars(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	for _, body := range []string{`{}`, `{"stars": -3}`} {
		if rec := do(t, h, http.MethodPost, "/api/user/u1/stars", body, nil); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want %d", body, rec.Code, http.StatusBadRequest)
		}
	}

	if rec := do(t, h, http.MethodPost, "/api/user/u1/stars", `{"stars": 75}`, nil); rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	rec := do(t, h, http.MethodGet, "/api/user/u1", nil, nil)
	if u := decode[UserResponse](t, rec).User; u.Stars != 75 {
		t.Errorf("stars = %d, want 75", u.Stars)
	}
}

func TestFinishGame(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	body := map[string]any{"username": "ann", "score": 150, "maxCombo": 6, "starsEarned": 15, "boostersUsed": []string{"slow"}}
	rec := do(t, h, http.MethodPost, "/api/user/u1/game", body, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	got := decode[GameResponse](t, rec)
	if !got.Report.NewBest || got.Report.Rank.Name != "Bronze III" {
		t.Errorf("report = %+v", got.Report)
	}
	if len(got.Report.NewAchievements) == 0 {
		t.Error("expected achievements on the first game")
	}
	if got.User.Stars != got.Report.Stars || got.User.BestScore != 150 {
		t.Errorf("user = %+v", got.User)
	}

	rec = do(t, h, http.MethodGet, "/api/user/u1", nil, nil)
	u := decode[UserResponse](t, rec).User
	if u.Username != "ann" || u.Stats.TotalGames != 1 || u.Stars != got.Report.Stars {
		t.Errorf("stored user = %+v", u)
	}

	// the same game again unlocks nothing new
	rec = do(t, h, http.MethodPost, "/api/user/u1/game", body, nil)
	if again := decode[GameResponse](t, rec); len(again.Report.NewAchievements) != 0 {
		t.Errorf("NewAchievements = %v, want none", again.Report.NewAchievements)
	}
}

func TestBuySkin(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})
	do(t, h, http.MethodPost, "/api/user/u1/stars", `{"stars": 60}`, nil)

	tests := []struct {
		name       string
		body       map[string]string
		wantStatus int
	}{
		{"missing color", map[string]string{"userId": "u1"}, http.StatusBadRequest},
		{"unknown skin", map[string]string{"userId": "u1", "skinColor": "#000000"}, http.StatusNotFound},
		{"free skin", map[string]string{"userId": "u1", "skinColor": progression.DefaultSkinColor}, http.StatusConflict},
		{"too expensive", map[string]string{"userId": "u1", "skinColor": "#9b59b6"}, http.StatusBadRequest},
		{"ok", map[string]string{"userId": "u1", "skinColor": "#e67e22"}, http.StatusOK},
		{"owned", map[string]string{"userId": "u1", "skinColor": "#e67e22"}, http.StatusConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/skin/buy", tt.body, nil)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	rec := do(t, h, http.MethodGet, "/api/user/u1/skins", nil, nil)
	skins := decode[SkinsResponse](t, rec).Skins
	found := false
	for _, s := range skins {
		if s.Color == "#e67e22" {
			found = true
		}
	}
	if !found {
		t.Errorf("skins = %+v, want #e67e22", skins)
	}

	rec = do(t, h, http.MethodGet, "/api/user/u1", nil, nil)
	if u := decode[UserResponse](t, rec).User; u.Stars != 10 {
		t.Errorf("stars = %d, want 10", u.Stars)
	}
}

func signedInitData(userID int64) string {
	v := url.Values{}
	v.Set("auth_date", strconv.FormatInt(time.Now().Unix(), 10))
	v.Set("user", `{"id":`+strconv.FormatInt(userID, 10)+`,"first_name":"Ann","language_code":"de"}`)
	v.Set("hash", identity.Sign(v, testBotToken))
	return v.Encode()
}

func TestTelegramAuth(t *testing.T) {
	h, store := newTestServer(t, Options{BotToken: testBotToken, AuthMaxAge: time.Hour})

	signed := http.Header{InitDataHeader: {signedInitData(42)}}
	tests := []struct {
		name       string
		header     http.Header
		userID     string
		wantStatus int
	}{
		{"no header", nil, "42", http.StatusUnauthorized},
		{"bad signature", http.Header{InitDataHeader: {"user=%7B%22id%22%3A42%7D&hash=00"}}, "42", http.StatusUnauthorized},
		{"other user", signed, "7", http.StatusForbidden},
		{"ok", signed, "42", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := map[string]any{"userId": tt.userID, "score": 10}
			rec := do(t, h, http.MethodPost, "/api/score", body, tt.header)
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
		})
	}

	best, err := store.UserBest(context.Background(), "42")
	if err != nil || best == nil {
		t.Fatalf("UserBest() = %v, %v", best, err)
	}
	if best.Language != "de" {
		t.Errorf("language = %q, want de from init data", best.Language)
	}

	// reads stay public
	if rec := do(t, h, http.MethodGet, "/api/leaderboard", nil, nil); rec.Code != http.StatusOK {
		t.Errorf("leaderboard status = %d, want %d", rec.Code, http.StatusOK)
	}
}

func TestOpenAPIAndDocs(t *testing.T) {
	h, _ := newTestServer(t, Options{Dev: true})

	rec := do(t, h, http.MethodGet, "/openapi.json", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	body := rec.Body.String()
	for _, want := range []string{`"openapi"`, `"/api/leaderboard"`, `"/api/user/{userID}/game"`, `"/api/skin/buy"`} {
		if !strings.Contains(body, want) {
			t.Errorf("openapi.json missing %s", want)
		}
	}

	rec = do(t, h, http.MethodGet, "/docs/", nil, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("docs status = %d, want %d", rec.Code, http.StatusOK)
	}
	if !strings.Contains(rec.Body.String(), "/openapi.json") {
		t.Error("docs page does not reference /openapi.json")
	}
}
