package identity

import (
	"errors"
	"net/url"
	"strconv"
	"strings"
	"testing"
	"time"
)

const testToken = "123456:TEST-TOKEN"

func signed(t *testing.T, values url.Values) string {
	t.Helper()
	values.Set("hash", Sign(values, testToken))
	return values.Encode()
}

func TestVerifyInitData(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	fresh := strconv.FormatInt(now.Add(-time.Minute).Unix(), 10)
	stale := strconv.FormatInt(now.Add(-48*time.Hour).Unix(), 10)
	user := `{"id":42,"first_name":"Ada","username":"ada","language_code":"en"}`

	tests := []struct {
		name    string
		raw     string
		wantErr error
	}{
		{"valid", signed(t, url.Values{"auth_date": {fresh}, "user": {user}, "query_id": {"q1"}}), nil},
		{"missing hash", url.Values{"auth_date": {fresh}, "user": {user}}.Encode(), ErrMissingHash},
		{"tampered", strings.Replace(signed(t, url.Values{"auth_date": {fresh}, "user": {user}}), "ada", "eve", 1), ErrBadSignature},
		{"expired", signed(t, url.Values{"auth_date": {stale}, "user": {user}}), ErrExpired},
		{"no user", signed(t, url.Values{"auth_date": {fresh}}), ErrNoUser},
		{"bad user json", signed(t, url.Values{"auth_date": {fresh}, "user": {"{"}}), ErrMalformedData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := VerifyInitData(tt.raw, testToken, 24*time.Hour, now)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("VerifyInitData() error = %v, expected %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if id.UserID != "42" || id.DisplayName != "ada" || id.Language != "en" {
				t.Errorf("identity = %+v", id)
			}
		})
	}
}

func TestVerifyInitDataWrongToken(t *testing.T) {
	raw := signed(t, url.Values{"user": {`{"id":1}`}})
	if _, err := VerifyInitData(raw, "other", 0, time.Now()); !errors.Is(err, ErrBadSignature) {
		t.Errorf("error = %v, expected %v", err, ErrBadSignature)
	}
	if _, err := VerifyInitData(raw, testToken, 0, time.Now()); err != nil {
		t.Errorf("maxAge 0 should skip the auth_date check, got %v", err)
	}
}

func TestAnonymousAndLocal(t *testing.T) {
	a, b := Anonymous(), Anonymous()
	if !strings.HasPrefix(a.UserID, "anon-") || a.UserID == b.UserID {
		t.Errorf("Anonymous() ids = %q, %q", a.UserID, b.UserID)
	}
	if Local("ada").UserID != Local("ada").UserID {
		t.Error("Local() id should be stable for the same name")
	}
	if Local("ada").UserID == Local("eve").UserID {
		t.Error("Local() ids collide")
	}
	if !strings.HasPrefix(Local("").UserID, "anon-") {
		t.Error("Local(\"\") should fall back to an anonymous id")
	}
}

func TestDisplayName(t *testing.T) {
	tests := []struct {
		u    telegramUser
		want string
	}{
		{telegramUser{Username: "ada", FirstName: "Ada"}, "ada"},
		{telegramUser{FirstName: "Ada", LastName: "L"}, "Ada L"},
		{telegramUser{FirstName: "Ada"}, "Ada"},
		{telegramUser{}, "Player"},
	}
	for _, tt := range tests {
		if got := displayName(tt.u); got != tt.want {
			t.Errorf("displayName(%+v) = %q, expected %q", tt.u, got, tt.want)
		}
	}
}
