package server

import (
	"errors"
	"net/http"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

type BuySkinRequest struct {
	UserID    string `json:"userId"`
	SkinColor string `json:"skinColor"`
}

type BuySkinResponse struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Stars   int      `json:"stars"`
	Skins   []string `json:"skins"`
}

func handleBuySkin(logger *log.Logger, store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req BuySkinRequest
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		req.UserID = strings.TrimSpace(req.UserID)
		if req.UserID == "" || req.SkinColor == "" {
			writeError(w, http.StatusBadRequest, "userId and skinColor are required")
			return
		}
		if !authorizeUser(w, r, req.UserID) {
			return
		}

		ctx := r.Context()
		p, err := loadProfile(ctx, store, req.UserID)
		if err != nil {
			logger.Error("loading profile", "user", req.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load profile")
			return
		}

		out, err := progression.BuySkin(p, req.SkinColor)
		switch {
		case errors.Is(err, progression.ErrUnknownSkin):
			writeError(w, http.StatusNotFound, "skin not found")
			return
		case errors.Is(err, progression.ErrSkinOwned), errors.Is(err, progression.ErrSkinFree):
			writeError(w, http.StatusConflict, "skin already owned")
			return
		case errors.Is(err, progression.ErrNotEnoughStars):
			writeError(w, http.StatusBadRequest, "not enough stars")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "failed to purchase skin")
			return
		}

		if err := store.SaveProfile(ctx, out); err != nil {
			logger.Error("saving profile", "user", req.UserID, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to purchase skin")
			return
		}

		logger.Info("skin purchased", "user", req.UserID, "skin", req.SkinColor, "stars", out.Stars)
		writeJSON(w, http.StatusOK, BuySkinResponse{
			Success: true,
			Message: "skin purchased",
			Stars:   out.Stars,
			Skins:   out.Skins,
		})
	}
}
