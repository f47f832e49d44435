package server

import (
	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *log.Logger, store Store, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("Snake+ API", "/openapi.json", "/docs"))
	r.Get("/api/health", handleHealth(logger, store))

	// Public reads.
	r.Get("/api/leaderboard", handleLeaderboard(logger, store))
	r.Get("/api/leaderboard.csv", handleLeaderboardCSV(logger, store))
	r.Get("/api/rank/{score}", handleRank(logger, store))
	r.Get("/api/stats", handleStats(logger, store))
	r.Get("/api/user/{userID}", handleUser(logger, store))
	r.Get("/api/user/{userID}/best", handleUserBest(logger, store))
	r.Get("/api/user/{userID}/scores", handleUserScores(logger, store))
	r.Get("/api/user/{userID}/skins", handleUserSkins(logger, store))

	// Writes, signed by Telegram outside dev mode.
	r.Group(func(r chi.Router) {
		r.Use(telegramAuthMiddleware(logger, opts))
		r.Post("/api/score", handleSaveScore(logger, store))
		r.Put("/api/user/{userID}", handleSaveProfile(logger, store))
		r.Post("/api/user/{userID}/stars", handleUpdateStars(logger, store))
		r.Post("/api/user/{userID}/game", handleGame(logger, store))
		r.Post("/api/skin/buy", handleBuySkin(logger, store))
	})
}
