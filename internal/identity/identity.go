// Package identity resolves who is playing: a Telegram Mini App user from
// signed init data, or a locally generated anonymous player.
package identity

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Identity is an opaque player handle.
type Identity struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
	Language    string `json:"language,omitempty"`
}

// Init data validation errors.
var (
	ErrMissingHash   = errors.New("identity: init data has no hash")
	ErrBadSignature  = errors.New("identity: init data signature mismatch")
	ErrExpired       = errors.New("identity: init data expired")
	ErrNoUser        = errors.New("identity: init data has no user")
	ErrMalformedData = errors.New("identity: malformed init data")
)

// Anonymous returns a fresh local identity.
func Anonymous() Identity {
	return Identity{UserID: "anon-" + uuid.NewString(), DisplayName: "Player"}
}

// Local returns the identity for a named local player. The id is stable for
// the same name.
func Local(name string) Identity {
	name = strings.TrimSpace(name)
	if name == "" {
		return Anonymous()
	}
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte("snakeplus:"+name))
	return Identity{UserID: "local-" + id.String(), DisplayName: name}
}

type telegramUser struct {
	ID           int64  `json:"id"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	Username     string `json:"username"`
	LanguageCode string `json:"language_code"`
}

// VerifyInitData validates a Telegram Mini App init data string signed with
// botToken and returns the user it carries. maxAge of zero skips the
// auth_date freshness check.
func VerifyInitData(raw, botToken string, maxAge time.Duration, now time.Time) (Identity, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return Identity{}, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}
	hash := values.Get("hash")
	if hash == "" {
		return Identity{}, ErrMissingHash
	}

	want := Sign(values, botToken)
	if !hmac.Equal([]byte(want), []byte(strings.ToLower(hash))) {
		return Identity{}, ErrBadSignature
	}

	if maxAge > 0 {
		sec, err := strconv.ParseInt(values.Get("auth_date"), 10, 64)
		if err != nil {
			return Identity{}, fmt.Errorf("%w: auth_date: %v", ErrMalformedData, err)
		}
		if now.Sub(time.Unix(sec, 0)) > maxAge {
			return Identity{}, ErrExpired
		}
	}

	rawUser := values.Get("user")
	if rawUser == "" {
		return Identity{}, ErrNoUser
	}
	var u telegramUser
	if err := json.Unmarshal([]byte(rawUser), &u); err != nil {
		return Identity{}, fmt.Errorf("%w: user: %v", ErrMalformedData, err)
	}
	if u.ID == 0 {
		return Identity{}, ErrNoUser
	}
	return Identity{
		UserID:      strconv.FormatInt(u.ID, 10),
		DisplayName: displayName(u),
		Language:    u.LanguageCode,
	}, nil
}

// Sign computes the hex signature Telegram attaches to init data: an
// HMAC-SHA256 over the sorted key=value lines except hash, keyed by
// HMAC-SHA256("WebAppData", botToken).
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k != "hash" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmac.New(sha256.New, []byte("WebAppData"))
	secret.Write([]byte(botToken))
	mac := hmac.New(sha256.New, secret.Sum(nil))
	mac.Write([]byte(strings.Join(lines, "\n")))
	return hex.EncodeToString(mac.Sum(nil))
}

func displayName(u telegramUser) string {
	switch {
	case u.Username != "":
		return u.Username
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	default:
		return "Player"
	}
}
