// Package bot runs the Telegram companion bot: inline score sharing and the
// /start entry point into the Mini App.
package bot

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/vovakirdan/snake-plus/internal/progression"
)

const (
	// InlineCacheTime is how long Telegram may cache inline answers, in seconds.
	InlineCacheTime = 300

	ResultShareScore = "share_score"
	ResultInvitePlay = "invite_play"

	thumbURL  = "https://cdn-icons-png.flaticon.com/512/5260/5260094.png"
	thumbSize = 256
)

// Config configures the bot.
type Config struct {
	Token string
	// WebAppURL opens the game from the /start button.
	WebAppURL string
	// Endpoint overrides the Bot API endpoint format, mostly for tests.
	Endpoint string
	Client   *http.Client
}

type Bot struct {
	api    *tgbotapi.BotAPI
	cfg    Config
	logger *log.Logger
}

// New connects to the Bot API and identifies the bot.
func New(cfg Config, logger *log.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("bot: token is required")
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	client := cfg.Client
	if client == nil {
		client = &http.Client{}
	}

	api, err := tgbotapi.NewBotAPIWithClient(cfg.Token, endpoint, client)
	if err != nil {
		return nil, fmt.Errorf("bot: connecting: %w", err)
	}
	return &Bot{api: api, cfg: cfg, logger: logger}, nil
}

// Username is the bot's @handle without the @.
func (b *Bot) Username() string {
	return b.api.Self.UserName
}

// Run long-polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 30
	updates := b.api.GetUpdatesChan(u)

	b.logger.Info("bot started", "username", b.Username())
	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			b.logger.Info("bot stopped")
			return nil
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.handle(upd)
		}
	}
}

func (b *Bot) handle(upd tgbotapi.Update) {
	switch {
	case upd.InlineQuery != nil:
		b.answerInline(upd.InlineQuery)
	case upd.ChosenInlineResult != nil:
		r := upd.ChosenInlineResult
		var from int64
		if r.From != nil {
			from = r.From.ID
		}
		b.logger.Info("inline result chosen", "result", r.ResultID, "user", from, "query", r.Query)
	case upd.Message != nil && upd.Message.IsCommand():
		b.command(upd.Message)
	}
}

func (b *Bot) answerInline(q *tgbotapi.InlineQuery) {
	cfg := tgbotapi.InlineConfig{
		InlineQueryID: q.ID,
		Results:       BuildInlineResults(q.Query, b.botURL()),
		CacheTime:     InlineCacheTime,
		IsPersonal:    false,
	}
	if _, err := b.api.Request(cfg); err != nil {
		b.logger.Error("answering inline query", "id", q.ID, "error", err)
	}
}

func (b *Bot) command(m *tgbotapi.Message) {
	switch m.Command() {
	case "start":
		if _, err := b.api.Send(welcomeMessage(m.Chat.ID, b.cfg.WebAppURL)); err != nil {
			b.logger.Error("sending welcome", "chat", m.Chat.ID, "error", err)
		}
	default:
		b.logger.Debug("unknown command", "command", m.Command(), "chat", m.Chat.ID)
	}
}

func (b *Bot) botURL() string {
	if b.Username() == "" {
		return ""
	}
	return "https://t.me/" + b.Username()
}

// BuildInlineResults answers an inline query. The query text is read as the
// score to share; anything that is not a number shares 0.
func BuildInlineResults(query, botURL string) []any {
	score, err := strconv.Atoi(strings.TrimSpace(query))
	if err != nil || score < 0 {
		score = 0
	}
	rank := progression.RankFor(score)

	share := tgbotapi.NewInlineQueryResultArticleMarkdown(ResultShareScore,
		"🐍 Share your score",
		fmt.Sprintf("🐍 Snake+\n\n🏆 Score: %d\n🏅 Rank: %s\n\nCan you beat my score? 🎮\n#SnakePlus", score, rank.Name))
	share.Description = "Share your Snake+ score with friends!"

	handle := "Snake+"
	if name := strings.TrimPrefix(botURL, "https://t.me/"); name != "" && name != botURL {
		handle = "@" + name
	}
	invite := tgbotapi.NewInlineQueryResultArticleMarkdown(ResultInvitePlay,
		"🎮 Invite friends",
		"🐍 *Let's play Snake+!*\n\nA classic arcade game right in Telegram.\n\nPlay now: "+handle)
	invite.Description = "Invite your friends to play Snake+!"

	results := []any{}
	for _, a := range []*tgbotapi.InlineQueryResultArticle{&share, &invite} {
		a.URL = botURL
		a.HideURL = botURL != ""
		a.ThumbURL = thumbURL
		a.ThumbWidth = thumbSize
		a.ThumbHeight = thumbSize
		results = append(results, *a)
	}
	return results
}

func welcomeMessage(chatID int64, webAppURL string) tgbotapi.MessageConfig {
	msg := tgbotapi.NewMessage(chatID, "🐍 *Welcome to Snake+!*\n\nTap the button below to start playing.")
	msg.ParseMode = tgbotapi.ModeMarkdown
	if webAppURL != "" {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
			tgbotapi.NewInlineKeyboardRow(tgbotapi.NewInlineKeyboardButtonURL("🎮 Play", webAppURL)),
		)
	}
	return msg
}
