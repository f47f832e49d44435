package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake-plus/internal/identity"
)

// InitDataHeader carries the raw Telegram WebApp init data.
const InitDataHeader = "X-Telegram-Init-Data"

type ctxKey int

const ctxKeyIdentity ctxKey = iota

// telegramAuthMiddleware requires signed init data on every request it wraps.
// It is a no-op in dev mode or without a bot token.
func telegramAuthMiddleware(logger *log.Logger, opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if opts.Dev || opts.BotToken == "" {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := r.Header.Get(InitDataHeader)
			if raw == "" {
				writeError(w, http.StatusUnauthorized, "unauthorized")
				return
			}

			id, err := identity.VerifyInitData(raw, opts.BotToken, opts.AuthMaxAge, time.Now())
			if err != nil {
				logger.Debug("init data rejected", "error", err)
				writeError(w, http.StatusUnauthorized, "invalid telegram data")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func identityFrom(r *http.Request) (identity.Identity, bool) {
	id, ok := r.Context().Value(ctxKeyIdentity).(identity.Identity)
	return id, ok
}

// authorizeUser rejects a write on behalf of someone other than the verified
// caller. Unauthenticated requests pass.
func authorizeUser(w http.ResponseWriter, r *http.Request, userID string) bool {
	id, ok := identityFrom(r)
	if !ok || id.UserID == userID {
		return true
	}
	writeError(w, http.StatusForbidden, "user mismatch")
	return false
}
