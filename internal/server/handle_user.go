package server

import (
	"context"
	"errors"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

// UserView is the public shape of a profile.
type UserView struct {
	UserID       string            `json:"userId"`
	Username     string            `json:"username"`
	Stars        int               `json:"stars"`
	Skins        []string          `json:"skins"`
	SelectedSkin string            `json:"selectedSkin"`
	BestScore    int               `json:"bestScore"`
	Rank         string            `json:"rank"`
	Stats        progression.Stats `json:"stats"`
	Achievements []string          `json:"achievements"`
}

func newUserView(p progression.PlayerProfile) UserView {
	achievements := p.Achievements
	if achievements == nil {
		achievements = []string{}
	}
	return UserView{
		UserID:       p.UserID,
		Username:     p.Username,
		Stars:        p.Stars,
		Skins:        p.Skins,
		SelectedSkin: p.SelectedSkin,
		BestScore:    p.Stats.BestScore,
		Rank:         p.Rank().Name,
		Stats:        p.Stats,
		Achievements: achievements,
	}
}

type UserResponse struct {
	Success bool     `json:"success"`
	User    UserView `json:"user"`
}

type BestScoreResponse struct {
	Success   bool                `json:"success"`
	BestScore *storage.ScoreEntry `json:"bestScore"`
}

type ScoresResponse struct {
	Success bool                 `json:"success"`
	Scores  []storage.ScoreEntry `json:"scores"`
}

type SkinsResponse struct {
	Success bool                `json:"success"`
	Skins   []storage.OwnedSkin `json:"skins"`
}

// ProfileRequest replaces the stored profile. Skins and achievements are
// merged with what is already stored.
type ProfileRequest struct {
	UserID       string            `json:"-" path:"userID"`
	Username     string            `json:"username"`
	Stars        int               `json:"stars"`
	Skins        []string          `json:"skins"`
	SelectedSkin string            `json:"selectedSkin"`
	Stats        progression.Stats `json:"stats"`
	Achievements []string          `json:"achievements"`
}

type StarsRequest struct {
	UserID string `json:"-" path:"userID"`
	Stars  *int   `json:"stars"`
}

// GameRequest is a finished game submitted by a client that does not
// finalize locally.
type GameRequest struct {
	UserID   string `json:"-" path:"userID"`
	Username string `json:"username"`
	Language string `json:"language,omitempty"`
	progression.GameResult
}

type GameResponse struct {
	Success bool               `json:"success"`
	Report  progression.Report `json:"report"`
	User    UserView           `json:"user"`
}

// loadProfile returns the stored profile or a fresh one for unknown users.
func loadProfile(ctx context.Context, store Store, userID string) (progression.PlayerProfile, error) {
	p, err := store.Profile(ctx, userID)
	if errors.Is(err, progression.ErrProfileNotFound) {
		return progression.DefaultProfile(userID, ""), nil
	}
	return p, err
}

func handleUser(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		p, err := loadProfile(r.Context(), store, userID)
		if err != nil {
			logger.Error("loading profile", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get user data")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{Success: true, User: newUserView(p)})
	}
}

func handleUserBest(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		best, err := store.UserBest(r.Context(), userID)
		if err != nil {
			logger.Error("loading best score", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get user score")
			return
		}
		writeJSON(w, http.StatusOK, BestScoreResponse{Success: true, BestScore: best})
	}
}

func handleUserScores(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		scores, err := store.UserScores(r.Context(), userID, queryLimit(r, 10))
		if err != nil {
			logger.Error("loading scores", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get user scores")
			return
		}
		if scores == nil {
			scores = []storage.ScoreEntry{}
		}
		writeJSON(w, http.StatusOK, ScoresResponse{Success: true, Scores: scores})
	}
}

func handleUserSkins(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		skins, err := store.UserSkins(r.Context(), userID)
		if err != nil {
			logger.Error("loading skins", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get user skins")
			return
		}
		if skins == nil {
			skins = []storage.OwnedSkin{}
		}
		writeJSON(w, http.StatusOK, SkinsResponse{Success: true, Skins: skins})
	}
}

func handleSaveProfile(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if !authorizeUser(w, r, userID) {
			return
		}

		var req ProfileRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		p := progression.PlayerProfile{
			UserID:       userID,
			Username:     req.Username,
			Stars:        req.Stars,
			Skins:        req.Skins,
			SelectedSkin: req.SelectedSkin,
			Stats:        req.Stats,
			Achievements: req.Achievements,
		}.Normalize()
		if err := store.SaveProfile(r.Context(), p); err != nil {
			logger.Error("saving profile", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
		writeJSON(w, http.StatusOK, UserResponse{Success: true, User: newUserView(p)})
	}
}

func handleUpdateStars(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if !authorizeUser(w, r, userID) {
			return
		}

		var req StarsRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Stars == nil {
			writeError(w, http.StatusBadRequest, "stars is required")
			return
		}
		if *req.Stars < 0 {
			writeError(w, http.StatusBadRequest, "stars must not be negative")
			return
		}

		if err := store.UpdateStars(r.Context(), userID, *req.Stars); err != nil {
			logger.Error("updating stars", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update stars")
			return
		}
		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "stars updated"})
	}
}

func handleGame(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID := chi.URLParam(r, "userID")
		if !authorizeUser(w, r, userID) {
			return
		}

		var req GameRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Score < 0 || req.StarsEarned < 0 {
			writeError(w, http.StatusBadRequest, "score and starsEarned must not be negative")
			return
		}

		ctx := r.Context()
		p, err := loadProfile(ctx, store, userID)
		if err != nil {
			logger.Error("loading profile", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load profile")
			return
		}
		if req.Username != "" {
			p.Username = req.Username
		}

		out, rep := progression.Finalize(p, req.GameResult)
		rec := progression.ScoreRecord{
			UserID:   userID,
			Username: out.Username,
			Score:    req.Score,
			Rank:     rep.Rank.Name,
			Language: req.Language,
		}
		if err := store.SaveScore(ctx, rec); err != nil {
			logger.Error("saving score", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save score")
			return
		}
		if err := store.SaveProfile(ctx, out); err != nil {
			logger.Error("saving profile", "user", userID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save profile")
			return
		}
		for _, a := range rep.NewAchievements {
			logger.Info("achievement unlocked", "user", userID, "id", a.ID, "reward", a.Reward)
		}

		if rep.NewAchievements == nil {
			rep.NewAchievements = []progression.Achievement{}
		}
		writeJSON(w, http.StatusOK, GameResponse{Success: true, Report: rep, User: newUserView(out)})
	}
}
