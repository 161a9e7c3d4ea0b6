// Package api is the HTTP client for the review statistics service.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-cleanhttp"

	"robin/internal/config"
	"robin/internal/domain"
)

const maxErrorBody = 512

// StatusError is returned for non-2xx responses
type StatusError struct {
	Op         string
	URL        string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("%s: %s returned %d %s", e.Op, e.URL, e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

// Observer is notified after each request completes
type Observer interface {
	ObserveRequest(op string, status int, elapsed time.Duration)
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the pooled default client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithObserver reports request outcomes to o
func WithObserver(o Observer) Option {
	return func(c *Client) { c.observer = o }
}

// Client talks to the statistics service
type Client struct {
	base     *url.URL
	paths    config.APIConfig
	http     *http.Client
	logger   *slog.Logger
	observer Observer
}

// NewClient creates a client for the configured service
func NewClient(cfg config.APIConfig, logger *slog.Logger, opts ...Option) (*Client, error) {
	base, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base url: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}

	hc := cleanhttp.DefaultPooledClient()
	hc.Timeout = cfg.Timeout

	c := &Client{
		base:   base,
		paths:  cfg,
		http:   hc,
		logger: logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Repositories fetches a page of repositories. A non-empty cursor is used verbatim.
func (c *Client) Repositories(ctx context.Context, cursor string) (domain.Page[*domain.Repository], error) {
	var page domain.Page[*domain.Repository]
	err := c.getJSON(ctx, "repositories", c.target(cursor, c.paths.RepositoriesPath, nil), &page)
	return page, err
}

// Teams fetches a page of teams
func (c *Client) Teams(ctx context.Context, cursor string) (domain.Page[*domain.Team], error) {
	var page domain.Page[*domain.Team]
	err := c.getJSON(ctx, "teams", c.target(cursor, c.paths.TeamsPath, nil), &page)
	return page, err
}

// PendingPatches fetches open patches. params carries repository_id on the
// first request; cursors already embed it.
func (c *Client) PendingPatches(ctx context.Context, cursor string, params url.Values) (domain.Page[*domain.PendingPatch], error) {
	var page domain.Page[*domain.PendingPatch]
	err := c.getJSON(ctx, "pending", c.target(cursor, c.paths.PendingPath, params), &page)
	return page, err
}

// ClosedPatchStats runs a closed-patch statistics query. The raw body is kept
// as returned; the decoded page is best effort.
func (c *Client) ClosedPatchStats(ctx context.Context, in domain.QueryInput) (*domain.QueryResult, error) {
	raw, err := c.get(ctx, "stats", c.target("", c.paths.ClosedStatsPath, c.StatsParams(in)))
	if err != nil {
		return nil, err
	}

	result := &domain.QueryResult{Raw: json.RawMessage(raw)}
	if err := json.Unmarshal(raw, &result.Patches); err != nil {
		c.logger.Debug("stats response is not a patch page", "err", err)
	}
	return result, nil
}

// StatsParams builds the query string for a stats request
func (c *Client) StatsParams(in domain.QueryInput) url.Values {
	v := url.Values{}
	v.Set("repository_id", strconv.Itoa(in.RepositoryID))
	v.Set("stats_type", strconv.Itoa(int(in.StatsType)))
	v.Set(c.paths.MembersParam, strings.Join(in.MemberIDs, ","))
	if in.StatsType == domain.StatsTeam {
		v.Set("team_code", in.TeamCode)
	}
	v.Set("start_date", in.BeginDate)
	v.Set("end_date", in.EndDate)
	return v
}

func (c *Client) target(cursor, path string, params url.Values) string {
	if cursor != "" {
		return cursor
	}
	u := c.base.ResolveReference(&url.URL{Path: path})
	if len(params) > 0 {
		u.RawQuery = params.Encode()
	}
	return u.String()
}

func (c *Client) getJSON(ctx context.Context, op, target string, out any) error {
	body, err := c.get(ctx, op, target)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", op, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, op, target string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.observe(op, 0, start)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer resp.Body.Close()
	c.observe(op, resp.StatusCode, start)

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%s: read response: %w", op, err)
	}

	c.logger.Debug("api request", "op", op, "url", target, "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet := strings.TrimSpace(string(body))
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return nil, &StatusError{Op: op, URL: target, StatusCode: resp.StatusCode, Body: snippet}
	}
	return body, nil
}

func (c *Client) observe(op string, status int, start time.Time) {
	if c.observer != nil {
		c.observer.ObserveRequest(op, status, time.Since(start))
	}
}
