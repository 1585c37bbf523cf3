// Package client is a thin wrapper around the dashboard's REST backend.
package client

import (
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

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/wallet-dash/pkg/viewport"
)

var ErrStatus = errors.New("unexpected status")

// StatusError is returned for non-2xx responses.
type StatusError struct {
	Code int
	URL  string
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: status %d: %s", e.URL, e.Code, e.Body)
}

func (e *StatusError) Unwrap() error { return ErrStatus }

type Client struct {
	base       string
	http       *http.Client
	group      singleflight.Group
	retryDelay time.Duration
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		base:       strings.TrimRight(baseURL, "/"),
		http:       &http.Client{Timeout: timeout},
		retryDelay: 500 * time.Millisecond,
	}
}

// getJSON fetches path and decodes the body into out. Network errors and 5xx
// responses are retried once; 4xx responses are not. Identical concurrent
// requests share one round trip.
func (c *Client) getJSON(ctx context.Context, path string, q url.Values, out interface{}) error {
	u := c.base + path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}

	v, err, _ := c.group.Do(u, func() (interface{}, error) {
		body, err := c.fetch(ctx, u)
		if err != nil && retryable(err) && ctx.Err() == nil {
			log.Debug().Err(err).Str("url", u).Msg("retrying backend request")
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(c.retryDelay):
			}
			body, err = c.fetch(ctx, u)
		}
		return body, err
	})
	if err != nil {
		return err
	}
	if err := json.Unmarshal(v.([]byte), out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

func (c *Client) fetch(ctx context.Context, u string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 10<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(body)
		if len(msg) > 200 {
			msg = msg[:200]
		}
		return nil, &StatusError{Code: resp.StatusCode, URL: u, Body: msg}
	}
	return body, nil
}

func retryable(err error) bool {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code >= 500
	}
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// ---- Endpoints ----

// Series fetches the value history of subject (a wallet address or
// "portfolio") over r.
func (c *Client) Series(ctx context.Context, subject string, r viewport.Range) (viewport.Series, error) {
	var pts []viewport.Point
	q := url.Values{"range": {string(r)}}
	if err := c.getJSON(ctx, "/history/"+url.PathEscape(subject), q, &pts); err != nil {
		return nil, fmt.Errorf("series %s/%s: %w", subject, r, err)
	}
	return viewport.Series(pts), nil
}

// Prices returns USD prices keyed by upper-case symbol.
func (c *Client) Prices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	var raw map[string]decimal.Decimal
	q := url.Values{"symbols": {strings.Join(symbols, ",")}}
	if err := c.getJSON(ctx, "/prices", q, &raw); err != nil {
		return nil, fmt.Errorf("prices: %w", err)
	}
	out := make(map[string]decimal.Decimal, len(raw))
	for k, v := range raw {
		out[strings.ToUpper(k)] = v
	}
	return out, nil
}

type LeaderboardEntry struct {
	Rank    int    `json:"rank"`
	Address string `json:"address"`
	Points  int    `json:"points"`
	Streak  int    `json:"streak"`
}

func (c *Client) Leaderboard(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	var out []LeaderboardEntry
	q := url.Values{"limit": {strconv.Itoa(limit)}}
	if err := c.getJSON(ctx, "/leaderboard", q, &out); err != nil {
		return nil, fmt.Errorf("leaderboard: %w", err)
	}
	return out, nil
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

func (c *Client) Notifications(ctx context.Context, address string) ([]Notification, error) {
	var out []Notification
	if err := c.getJSON(ctx, "/notifications/"+url.PathEscape(address), nil, &out); err != nil {
		return nil, fmt.Errorf("notifications: %w", err)
	}
	return out, nil
}

type Referral struct {
	Code      string `json:"code"`
	Referred  int    `json:"referred"`
	PointsWon int    `json:"points_won"`
}

func (c *Client) Referral(ctx context.Context, address string) (*Referral, error) {
	var out Referral
	if err := c.getJSON(ctx, "/referrals/"+url.PathEscape(address), nil, &out); err != nil {
		return nil, fmt.Errorf("referral: %w", err)
	}
	return &out, nil
}
