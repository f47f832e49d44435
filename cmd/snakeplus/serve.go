package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/snake-plus/internal/bot"
	"github.com/vovakirdan/snake-plus/internal/config"
	"github.com/vovakirdan/snake-plus/internal/platform/tui"
	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/server"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

var (
	flagHTTPAddr    string
	flagSSHAddr     string
	flagHostKey     string
	flagIdleTimeout int
	flagDev         bool
	flagBotToken    string
	flagWebAppURL   string
	flagLogLevel    string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the score API, and optionally the Telegram bot and SSH play",
	Long: `Start the HTTP score backend used by the Telegram Mini App and by
'snakeplus play --api'. The Telegram bot starts when a bot token is set and
the SSH server when an SSH address is set.

Settings come from SNAKEPLUS_* environment variables; flags override them:
  SNAKEPLUS_HTTP_ADDR, SNAKEPLUS_DB_PATH, SNAKEPLUS_LOG_LEVEL, SNAKEPLUS_DEV,
  SNAKEPLUS_BOT_TOKEN, SNAKEPLUS_WEBAPP_URL, SNAKEPLUS_AUTH_MAX_AGE,
  SNAKEPLUS_SSH_ADDR, SNAKEPLUS_SSH_HOST_KEY

Without --dev, writes require valid Telegram init data in the
X-Telegram-Init-Data header whenever a bot token is configured.

Examples:
  snakeplus serve
  snakeplus serve --http :9000 --dev
  snakeplus serve --ssh :23234
  SNAKEPLUS_BOT_TOKEN=123:abc snakeplus serve

Players connect over SSH with:
  ssh localhost -p 23234`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagHTTPAddr, "http", "", "HTTP listen address (env SNAKEPLUS_HTTP_ADDR, default :8080)")
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address, empty disables SSH")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key file (auto-generated if not specified)")
	serveCmd.Flags().IntVar(&flagIdleTimeout, "idle-timeout", 30, "SSH idle timeout in minutes")
	serveCmd.Flags().BoolVar(&flagDev, "dev", false, "Skip Telegram auth on writes")
	serveCmd.Flags().StringVar(&flagBotToken, "bot-token", "", "Telegram bot token, empty disables the bot")
	serveCmd.Flags().StringVar(&flagWebAppURL, "webapp-url", "", "Mini App URL for the bot's play button")
	serveCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

// serviceConfig loads the environment and applies the flags that were set.
func serviceConfig(cmd *cobra.Command) (config.ServiceConfig, error) {
	cfg, err := config.LoadService()
	if err != nil {
		return cfg, err
	}

	flags := cmd.Flags()
	if flags.Changed("http") {
		cfg.HTTPAddr = flagHTTPAddr
	}
	if flags.Changed("ssh") {
		cfg.SSHAddr = flagSSHAddr
	}
	if flags.Changed("host-key") {
		cfg.HostKeyPath = flagHostKey
	}
	if flags.Changed("dev") {
		cfg.Dev = flagDev
	}
	if flags.Changed("bot-token") {
		cfg.BotToken = flagBotToken
	}
	if flags.Changed("webapp-url") {
		cfg.WebAppURL = flagWebAppURL
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = flagLogLevel
	}
	if cmd.Root().PersistentFlags().Changed("db") {
		cfg.DBPath = flagDBPath
	}
	return cfg, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := serviceConfig(cmd)
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cfg.LogLevel, "snakeplus")

	store, err := storage.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close()
	logger.Info("database ready", "path", cfg.DBPath)

	if !cfg.Dev && cfg.BotToken == "" {
		logger.Warn("no bot token configured, writes are not authenticated")
	}

	srv := server.New(server.Options{
		Addr:       cfg.HTTPAddr,
		BotToken:   cfg.BotToken,
		Dev:        cfg.Dev,
		AuthMaxAge: cfg.AuthMaxAge,
	}, logger.WithPrefix("http"), store)

	var tgBot *bot.Bot
	if cfg.BotToken != "" {
		tgBot, err = bot.New(bot.Config{Token: cfg.BotToken, WebAppURL: cfg.WebAppURL}, logger.WithPrefix("bot"))
		if err != nil {
			return err
		}
	}

	var sshSrv *tui.SSHServer
	if cfg.SSHAddr != "" {
		sshLogger := logger.WithPrefix("ssh")
		sshSrv, err = tui.NewSSHServer(tui.SSHServerConfig{
			Address:     cfg.SSHAddr,
			HostKeyPath: cfg.HostKeyPath,
			IdleTimeout: time.Duration(flagIdleTimeout) * time.Minute,
			TickRate:    flagFPS,
		}, progression.NewKeeper(store, sshLogger), sshLogger)
		if err != nil {
			return err
		}
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return srv.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})
	if tgBot != nil {
		g.Go(func() error {
			return tgBot.Run(gctx)
		})
	}
	if sshSrv != nil {
		g.Go(func() error {
			return sshSrv.ListenAndServe(gctx)
		})
	}

	return g.Wait()
}

var botCmd = &cobra.Command{
	Use:   "bot",
	Short: "Run only the Telegram bot",
	Long: `Long-poll Telegram for inline queries and /start. The token comes from
--bot-token or SNAKEPLUS_BOT_TOKEN.

Examples:
  snakeplus bot --bot-token 123:abc --webapp-url https://t.me/SnakePlusBot/play`,
	Args: cobra.NoArgs,
	RunE: runBot,
}

func init() {
	botCmd.Flags().StringVar(&flagBotToken, "bot-token", "", "Telegram bot token")
	botCmd.Flags().StringVar(&flagWebAppURL, "webapp-url", "", "Mini App URL for the play button")
	botCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
}

func runBot(cmd *cobra.Command, _ []string) error {
	cfg, err := serviceConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.BotToken == "" {
		return fmt.Errorf("a bot token is required (--bot-token or SNAKEPLUS_BOT_TOKEN)")
	}

	ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	logger := newLogger(cfg.LogLevel, "snakeplus-bot")
	b, err := bot.New(bot.Config{Token: cfg.BotToken, WebAppURL: cfg.WebAppURL}, logger)
	if err != nil {
		return err
	}
	return b.Run(ctx)
}
