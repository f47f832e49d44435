package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// Parameter carriers for reflection only.
type userPath struct {
	UserID string `path:"userID"`
}

type userLimitQuery struct {
	UserID string `path:"userID"`
	Limit  int    `query:"limit"`
}

type limitQuery struct {
	Limit int `query:"limit"`
}

type rankPath struct {
	Score int `path:"score"`
}

type operation struct {
	method, path, summary, description string
	req                                any
	resp                               any
	errors                             []int
}

var operations = []operation{
	{http.MethodGet, "/api/health", "Health check", "Reports whether the database is reachable.",
		nil, HealthResponse{}, []int{http.StatusServiceUnavailable}},
	{http.MethodPost, "/api/score", "Save score", "Records a finished game. Rank defaults to the rank of the score.",
		SaveScoreRequest{}, SuccessResponse{}, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
	{http.MethodGet, "/api/leaderboard", "Leaderboard", "Best score per player, highest first.",
		limitQuery{}, LeaderboardResponse{}, nil},
	{http.MethodGet, "/api/rank/{score}", "Rank position", "Where a score places among every player's best.",
		rankPath{}, RankResponse{}, []int{http.StatusBadRequest}},
	{http.MethodGet, "/api/stats", "Global stats", "Server-wide game totals and the highest score.",
		nil, StatsResponse{}, nil},
	{http.MethodGet, "/api/user/{userID}", "Get user", "Profile with stars, skins, best score, rank and achievements.",
		userPath{}, UserResponse{}, nil},
	{http.MethodGet, "/api/user/{userID}/best", "Best score", "The user's best game or null.",
		userPath{}, BestScoreResponse{}, nil},
	{http.MethodGet, "/api/user/{userID}/scores", "Score history", "The user's most recent games.",
		userLimitQuery{}, ScoresResponse{}, nil},
	{http.MethodGet, "/api/user/{userID}/skins", "Owned skins", "Skins in the user's collection.",
		userPath{}, SkinsResponse{}, nil},
	{http.MethodPut, "/api/user/{userID}", "Save user", "Stores a profile finalized by the client. Skins and achievements are merged.",
		ProfileRequest{}, UserResponse{}, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
	{http.MethodPost, "/api/user/{userID}/stars", "Update stars", "Sets the user's star balance.",
		StarsRequest{}, SuccessResponse{}, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
	{http.MethodPost, "/api/user/{userID}/game", "Finish game", "Folds a game summary into the profile and stores the score.",
		GameRequest{}, GameResponse{}, []int{http.StatusBadRequest, http.StatusUnauthorized, http.StatusForbidden}},
	{http.MethodPost, "/api/skin/buy", "Buy skin", "Buys a catalog skin with stars.",
		BuySkinRequest{}, BuySkinResponse{}, []int{http.StatusBadRequest, http.StatusNotFound, http.StatusConflict, http.StatusUnauthorized, http.StatusForbidden}},
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "Snake+ API"
	r.Spec.Info.Version = "1.0.0"
	r.Spec.Info.WithDescription("Score, profile and shop backend for Snake+.")

	for _, op := range operations {
		oc, err := r.NewOperationContext(op.method, op.path)
		if err != nil {
			continue
		}
		oc.SetSummary(op.summary)
		oc.SetDescription(op.description)
		if op.req != nil {
			oc.AddReqStructure(op.req)
		}
		oc.AddRespStructure(op.resp, openapi.WithHTTPStatus(http.StatusOK))
		for _, status := range op.errors {
			oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(status))
		}
		oc.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusInternalServerError))
		_ = r.AddOperation(oc)
	}

	// GET /api/leaderboard.csv
	csvOp, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard.csv")
	csvOp.SetSummary("Leaderboard CSV")
	csvOp.SetDescription("The leaderboard as a CSV download.")
	csvOp.AddReqStructure(limitQuery{})
	csvOp.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK), openapi.WithContentType("text/csv"))
	_ = r.AddOperation(csvOp)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
