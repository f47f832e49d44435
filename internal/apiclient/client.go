// Package apiclient talks to a remote Snake+ score backend so terminal
// players share the Mini App's leaderboard and profiles.
package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vovakirdan/snake-plus/internal/progression"
	"github.com/vovakirdan/snake-plus/internal/server"
	"github.com/vovakirdan/snake-plus/internal/storage"
)

// Error is a non-2xx reply from the backend.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("apiclient: %d: %s", e.Status, e.Message)
}

// Client is a progression.Backend over HTTP.
type Client struct {
	base     *url.URL
	http     *http.Client
	initData string
}

var _ progression.Backend = (*Client)(nil)

// New creates a client for the backend at baseURL.
func New(baseURL string) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("apiclient: invalid base url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("apiclient: unsupported scheme %q", u.Scheme)
	}
	return &Client{base: u, http: &http.Client{Timeout: 10 * time.Second}}, nil
}

// SetInitData attaches signed Telegram init data to every write.
func (c *Client) SetInitData(raw string) {
	c.initData = raw
}

// SetHTTPClient replaces the underlying transport.
func (c *Client) SetHTTPClient(h *http.Client) {
	if h != nil {
		c.http = h
	}
}

func (c *Client) SaveScore(ctx context.Context, rec progression.ScoreRecord) error {
	score := rec.Score
	req := server.SaveScoreRequest{
		UserID:   rec.UserID,
		Username: rec.Username,
		Score:    &score,
		Rank:     rec.Rank,
		Language: rec.Language,
	}
	return c.do(ctx, http.MethodPost, "/api/score", nil, req, nil)
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]progression.LeaderboardEntry, error) {
	var resp server.LeaderboardResponse
	if err := c.do(ctx, http.MethodGet, "/api/leaderboard", limitQuery(limit), nil, &resp); err != nil {
		return nil, err
	}
	return resp.Leaderboard, nil
}

func (c *Client) Profile(ctx context.Context, userID string) (progression.PlayerProfile, error) {
	var resp server.UserResponse
	if err := c.do(ctx, http.MethodGet, userPath(userID), nil, nil, &resp); err != nil {
		var e *Error
		if errors.As(err, &e) && e.Status == http.StatusNotFound {
			return progression.PlayerProfile{}, progression.ErrProfileNotFound
		}
		return progression.PlayerProfile{}, err
	}
	u := resp.User
	return progression.PlayerProfile{
		UserID:       u.UserID,
		Username:     u.Username,
		Stars:        u.Stars,
		Skins:        u.Skins,
		SelectedSkin: u.SelectedSkin,
		Stats:        u.Stats,
		Achievements: u.Achievements,
	}.Normalize(), nil
}

func (c *Client) SaveProfile(ctx context.Context, p progression.PlayerProfile) error {
	req := server.ProfileRequest{
		Username:     p.Username,
		Stars:        p.Stars,
		Skins:        p.Skins,
		SelectedSkin: p.SelectedSkin,
		Stats:        p.Stats,
		Achievements: p.Achievements,
	}
	return c.do(ctx, http.MethodPut, userPath(p.UserID), nil, req, nil)
}

func (c *Client) UpdateStars(ctx context.Context, userID string, stars int) error {
	return c.do(ctx, http.MethodPost, userPath(userID)+"/stars", nil, server.StarsRequest{Stars: &stars}, nil)
}

// RankPosition asks where score would place.
func (c *Client) RankPosition(ctx context.Context, score int) (server.RankResponse, error) {
	var resp server.RankResponse
	err := c.do(ctx, http.MethodGet, "/api/rank/"+strconv.Itoa(score), nil, nil, &resp)
	return resp, err
}

// GlobalStats fetches the server-wide aggregates.
func (c *Client) GlobalStats(ctx context.Context) (storage.GlobalStats, error) {
	var resp server.StatsResponse
	err := c.do(ctx, http.MethodGet, "/api/stats", nil, nil, &resp)
	return resp.GlobalStats, err
}

// LeaderboardCSV copies the backend's CSV export to w.
func (c *Client) LeaderboardCSV(ctx context.Context, w io.Writer, limit int) error {
	u := *c.base
	u.Path = c.base.Path + "/api/leaderboard.csv"
	u.RawQuery = limitQuery(limit).Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("apiclient: building request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: GET %s: %w", u.Path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &Error{Status: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("apiclient: reading csv: %w", err)
	}
	return nil
}

// Health reports whether the backend and its database answer.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil, nil)
}

func userPath(userID string) string {
	return "/api/user/" + userID
}

func limitQuery(limit int) url.Values {
	if limit <= 0 {
		return nil
	}
	return url.Values{"limit": {strconv.Itoa(limit)}}
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := *c.base
	u.Path = c.base.Path + path
	u.RawQuery = query.Encode()

	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("apiclient: encoding request: %w", err)
		}
		rd = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return fmt.Errorf("apiclient: building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.initData != "" && method != http.MethodGet {
		req.Header.Set(server.InitDataHeader, c.initData)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("apiclient: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e server.ErrorResponse
		if err := json.NewDecoder(resp.Body).Decode(&e); err != nil || e.Error == "" {
			e.Error = http.StatusText(resp.StatusCode)
		}
		return &Error{Status: resp.StatusCode, Message: e.Error}
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("apiclient: decoding response: %w", err)
	}
	return nil
}
