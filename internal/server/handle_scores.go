package server

import (
	"bytes"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

type SaveScoreRequest struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
	Score    *int   `json:"score"`
	Rank     string `json:"rank,omitempty"`
	Language string `json:"language,omitempty"`
}

type LeaderboardResponse struct {
	Success     bool                           `json:"success"`
	Leaderboard []progression.LeaderboardEntry `json:"leaderboard"`
	Total       int                            `json:"total"`
}

type RankResponse struct {
	Success    bool             `json:"success"`
	Rank       int              `json:"rank"`
	Total      int              `json:"total"`
	Percentile float64          `json:"percentile"`
	Tier       progression.Rank `json:"tier"`
}

type StatsResponse struct {
	Success bool `json:"success"`
	storage.GlobalStats
}

func handleSaveScore(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req SaveScoreRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" || req.Score == nil {
			writeError(w, http.StatusBadRequest, "userId and score are required")
			return
		}
		if *req.Score < 0 {
			writeError(w, http.StatusBadRequest, "score must not be negative")
			return
		}
		if !authorizeUser(w, r, req.UserID) {
			return
		}

		rec := progression.ScoreRecord{
			UserID:   req.UserID,
			Username: req.Username,
			Score:    *req.Score,
			Rank:     req.Rank,
			Language: req.Language,
		}
		if id, ok := identityFrom(r); ok && rec.Language == "" {
			rec.Language = id.Language
		}
		if err := store.SaveScore(r.Context(), rec); err != nil {
			logger.Error("saving score", "user", req.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to save score")
			return
		}

		writeJSON(w, http.StatusOK, SuccessResponse{Success: true, Message: "score saved"})
	}
}

func handleLeaderboard(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := store.Leaderboard(r.Context(), queryLimit(r, storage.DefaultLeaderboardLimit))
		if err != nil {
			logger.Error("loading leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get leaderboard")
			return
		}
		if entries == nil {
			entries = []progression.LeaderboardEntry{}
		}

		writeJSON(w, http.StatusOK, LeaderboardResponse{
			Success:     true,
			Leaderboard: entries,
			Total:       len(entries),
		})
	}
}

func handleLeaderboardCSV(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var buf bytes.Buffer
		if err := store.ExportLeaderboardCSV(r.Context(), &buf, queryLimit(r, storage.DefaultLeaderboardLimit)); err != nil {
			logger.Error("exporting leaderboard", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to export leaderboard")
			return
		}

		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="leaderboard.csv"`)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(buf.Bytes())
	}
}

func handleRank(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		score, err := strconv.Atoi(chi.URLParam(r, "score"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "score must be an integer")
			return
		}

		pos, err := store.RankPosition(r.Context(), score)
		if err != nil {
			logger.Error("computing rank", "score", score, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get rank")
			return
		}

		writeJSON(w, http.StatusOK, RankResponse{
			Success:    true,
			Rank:       pos.Position,
			Total:      pos.Total,
			Percentile: pos.Percentile,
			Tier:       progression.RankFor(score),
		})
	}
}

func handleStats(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		stats, err := store.GlobalStats(r.Context())
		if err != nil {
			logger.Error("loading global stats", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to get stats")
			return
		}
		writeJSON(w, http.StatusOK, StatsResponse{Success: true, GlobalStats: stats})
	}
}
