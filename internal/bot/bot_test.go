package bot

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// fakeAPI answers the Bot API methods the bot calls and records the rest.
type fakeAPI struct {
	mu    sync.Mutex
	calls map[string][]map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
	_ = r.ParseForm()
	params := make(map[string]string)
	for k := range r.PostForm {
		params[k] = r.PostForm.Get(k)
	}

	f.mu.Lock()
	f.calls[method] = append(f.calls[method], params)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	switch method {
	case "getMe":
		io.WriteString(w, `{"ok":true,"result":{"id":1,"is_bot":true,"first_name":"Snake","username":"snakeplus_bot"}}`)
	case "getUpdates":
		io.WriteString(w, `{"ok":true,"result":[]}`)
	case "sendMessage":
		io.WriteString(w, `{"ok":true,"result":{"message_id":1,"date":0,"chat":{"id":5,"type":"private"}}}`)
	default:
		io.WriteString(w, `{"ok":true,"result":true}`)
	}
}

func (f *fakeAPI) last(method string) map[string]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	c := f.calls[method]
	if len(c) == 0 {
		return nil
	}
	return c[len(c)-1]
}

func newTestBot(t *testing.T) (*Bot, *fakeAPI) {
	t.Helper()
	api := &fakeAPI{calls: make(map[string][]map[string]string)}
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	b, err := New(Config{
		Token:     "42:TEST",
		WebAppURL: "https://example.com/play",
		Endpoint:  srv.URL + "/bot%s/%s",
	}, log.New(io.Discard))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return b, api
}

func TestNewRequiresToken(t *testing.T) {
	if _, err := New(Config{}, nil); err == nil {
		t.Error("expected error without token")
	}
}

func TestBuildInlineResults(t *testing.T) {
	tests := []struct {
		query     string
		wantScore string
		wantRank  string
	}{
		{"", "Score: 0", "Bronze I"},
		{"150", "Score: 150", "Bronze III"},
		{" 1200 ", "Score: 1200", "Gold II"},
		{"lots", "Score: 0", "Bronze I"},
		{"-5", "Score: 0", "Bronze I"},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			results := BuildInlineResults(tt.query, "https://t.me/snakeplus_bot")
			if len(results) != 2 {
				t.Fatalf("len(results) = %d, expected 2", len(results))
			}
			share := results[0].(tgbotapi.InlineQueryResultArticle)
			invite := results[1].(tgbotapi.InlineQueryResultArticle)
			if share.ID != ResultShareScore || invite.ID != ResultInvitePlay {
				t.Errorf("ids = %q, %q", share.ID, invite.ID)
			}

			text := share.InputMessageContent.(tgbotapi.InputTextMessageContent).Text
			if !strings.Contains(text, tt.wantScore) || !strings.Contains(text, tt.wantRank) {
				t.Errorf("share text = %q, expected %q and %q", text, tt.wantScore, tt.wantRank)
			}
			inviteText := invite.InputMessageContent.(tgbotapi.InputTextMessageContent).Text
			if !strings.Contains(inviteText, "@snakeplus_bot") {
				t.Errorf("invite text = %q, expected the bot handle", inviteText)
			}
			if !share.HideURL || share.URL != "https://t.me/snakeplus_bot" {
				t.Errorf("URL = %q, HideURL = %v", share.URL, share.HideURL)
			}
		})
	}
}

func TestInlineQueryAnswer(t *testing.T) {
	b, api := newTestBot(t)

	b.handle(tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{ID: "q1", Query: "500"}})

	got := api.last("answerInlineQuery")
	if got == nil {
		t.Fatal("answerInlineQuery not called")
	}
	if got["inline_query_id"] != "q1" || got["cache_time"] != "300" {
		t.Errorf("params = %v", got)
	}

	var results []map[string]any
	if err := json.Unmarshal([]byte(got["results"]), &results); err != nil {
		t.Fatalf("results: %v", err)
	}
	if len(results) != 2 || results[0]["id"] != ResultShareScore {
		t.Errorf("results = %v", results)
	}
}

func TestStartCommand(t *testing.T) {
	b, api := newTestBot(t)

	b.handle(tgbotapi.Update{Message: &tgbotapi.Message{
		Text:     "/start",
		Chat:     &tgbotapi.Chat{ID: 5},
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 6}},
	}})

	got := api.last("sendMessage")
	if got == nil {
		t.Fatal("sendMessage not called")
	}
	if got["chat_id"] != "5" || !strings.Contains(got["text"], "Welcome to Snake+") {
		t.Errorf("params = %v", got)
	}
	if !strings.Contains(got["reply_markup"], "https://example.com/play") {
		t.Errorf("reply_markup = %q, expected the web app url", got["reply_markup"])
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	b, _ := newTestBot(t)
	if b.Username() != "snakeplus_bot" {
		t.Errorf("Username() = %q", b.Username())
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
