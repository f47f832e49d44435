package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/pflag"

	"github.com/vovakirdan/snake-plus/internal/apiclient"
	"github.com/vovakirdan/snake-plus/internal/identity"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

// initDataEnv holds signed Telegram init data for remote backends that
// require it.
const initDataEnv = "SNAKEPLUS_INIT_DATA"

var (
	flagAPI  string
	flagUser string
)

// addPlayerFlags registers the flags of commands that act for a player.
func addPlayerFlags(fs *pflag.FlagSet) {
	fs.StringVar(&flagAPI, "api", "", "Remote score backend URL (default: local database)")
	fs.StringVar(&flagUser, "user", "", "Player name (default: $USER)")
}

// backend is either the local database or a remote score API.
type backend struct {
	progression.Backend
	store  *storage.Store
	client *apiclient.Client
}

func openBackend(apiURL, dbPath string) (*backend, error) {
	if apiURL != "" {
		c, err := apiclient.New(apiURL)
		if err != nil {
			return nil, err
		}
		if raw := os.Getenv(initDataEnv); raw != "" {
			c.SetInitData(raw)
		}
		return &backend{Backend: c, client: c}, nil
	}

	store, err := storage.Open(dbPath)
	if err != nil {
		return nil, err
	}
	return &backend{Backend: store, store: store}, nil
}

func (b *backend) Close() error {
	if b.store != nil {
		return b.store.Close()
	}
	return nil
}

func (b *backend) leaderboardCSV(ctx context.Context, w io.Writer, limit int) error {
	if b.client != nil {
		return b.client.LeaderboardCSV(ctx, w, limit)
	}
	return b.store.ExportLeaderboardCSV(ctx, w, limit)
}

// currentIdentity resolves the local player. The same name always maps to
// the same id.
func currentIdentity(name string) identity.Identity {
	if strings.TrimSpace(name) == "" {
		name = os.Getenv("USER")
	}
	return identity.Local(name)
}

// loadPlayer opens the backend and loads the current player's profile. A nil
// logger reports backend warnings on stderr.
func loadPlayer(ctx context.Context, logger *log.Logger) (*backend, *progression.Keeper, progression.PlayerProfile, error) {
	b, err := openBackend(flagAPI, flagDBPath)
	if err != nil {
		return nil, nil, progression.PlayerProfile{}, err
	}
	if logger == nil {
		logger = newLogger("warn", "snakeplus")
	}
	id := currentIdentity(flagUser)
	keeper := progression.NewKeeper(b, logger)
	return b, keeper, keeper.Load(ctx, id.UserID, id.DisplayName), nil
}

// newLogger creates the stderr logger of the service commands.
func newLogger(level, prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          prefix,
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// fileLogger logs to ~/.snakeplus/snakeplus.log so the TUI owns the
// terminal. It falls back to discarding output.
func fileLogger() (*log.Logger, func()) {
	home, err := os.UserHomeDir()
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	dir := filepath.Join(home, ".snakeplus")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return log.New(io.Discard), func() {}
	}
	f, err := os.OpenFile(filepath.Join(dir, "snakeplus.log"), os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return log.New(io.Discard), func() {}
	}
	logger := log.NewWithOptions(f, log.Options{ReportTimestamp: true, Prefix: "snakeplus"})
	return logger, func() { f.Close() }
}

// describeShopError turns skin shop errors into user-facing text.
func describeShopError(err error, color string) error {
	switch {
	case errors.Is(err, progression.ErrUnknownSkin):
		return fmt.Errorf("unknown skin %q, run 'snakeplus skins' to see the catalog", color)
	case errors.Is(err, progression.ErrSkinFree):
		return fmt.Errorf("skin %s is free and already yours", color)
	case errors.Is(err, progression.ErrSkinOwned):
		return fmt.Errorf("you already own skin %s", color)
	case errors.Is(err, progression.ErrNotEnoughStars):
		return fmt.Errorf("not enough stars for skin %s", color)
	case errors.Is(err, progression.ErrSkinNotOwned):
		return fmt.Errorf("you don't own skin %s yet, buy it first", color)
	}
	return err
}
