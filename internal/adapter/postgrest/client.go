package postgrest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"path"
	"time"

	domainErrors "github.com/kupfer451/poke-api/internal/domain/errors"
	"github.com/kupfer451/poke-api/internal/domain/repository"
)

const (
	restPrefix     = "rest/v1"
	defaultTimeout = 10 * time.Second
	maxErrorBody   = 4 << 10
)

var errUnfilteredDelete = errors.New("delete without filters")

// Client implements repository.RecordStore on top of a PostgREST endpoint
// such as Supabase.
type Client struct {
	baseURL    *url.URL
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
}

var _ repository.RecordStore = (*Client)(nil)

// NewClient creates a PostgREST client. A non-positive timeout falls back to ten seconds.
func NewClient(baseURL, apiKey string, timeout time.Duration, logger *slog.Logger) (*Client, error) {
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse store url: %w", err)
	}
	if !parsed.IsAbs() {
		return nil, fmt.Errorf("store url must be absolute")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("store api key must be provided")
	}
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL: parsed,
		apiKey:  apiKey,
		logger:  logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}, nil
}

func (c *Client) FetchAll(ctx context.Context, table string, dest any) error {
	return c.do(ctx, http.MethodGet, table, nil, nil, dest)
}

func (c *Client) FetchByID(ctx context.Context, table, id string, dest any) error {
	return c.do(ctx, http.MethodGet, table, []repository.Filter{repository.ByID(id)}, nil, dest)
}

func (c *Client) FetchFiltered(ctx context.Context, table string, dest any, filters ...repository.Filter) error {
	return c.do(ctx, http.MethodGet, table, filters, nil, dest)
}

func (c *Client) Insert(ctx context.Context, table string, record any, dest any) error {
	return c.do(ctx, http.MethodPost, table, nil, record, dest)
}

func (c *Client) Update(ctx context.Context, table, id string, patch any, dest any) error {
	return c.do(ctx, http.MethodPatch, table, []repository.Filter{repository.ByID(id)}, patch, dest)
}

// Delete removes the rows matching every filter. At least one filter is required.
func (c *Client) Delete(ctx context.Context, table string, filters ...repository.Filter) error {
	if len(filters) == 0 {
		return fmt.Errorf("%w: %s: %w", domainErrors.ErrPersistence, table, errUnfilteredDelete)
	}
	return c.do(ctx, http.MethodDelete, table, filters, nil, nil)
}

func (c *Client) endpoint(table string, filters []repository.Filter) string {
	endpoint := *c.baseURL
	endpoint.Path = path.Join("/", endpoint.Path, restPrefix, table)
	if len(filters) > 0 {
		query := url.Values{}
		for _, f := range filters {
			query.Add(f.Column, f.Expression())
		}
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String()
}

func (c *Client) do(ctx context.Context, method, table string, filters []repository.Filter, payload any, dest any) error {
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: encode %s payload: %w", domainErrors.ErrPersistence, table, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.endpoint(table, filters), body)
	if err != nil {
		return fmt.Errorf("%w: build %s %s request: %w", domainErrors.ErrPersistence, method, table, err)
	}
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")
	if method != http.MethodGet {
		req.Header.Set("Prefer", "return=representation")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("record store unreachable",
			slog.String("method", method),
			slog.String("table", table),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("%w: %s %s: %w", domainErrors.ErrPersistence, method, table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Error("record store request failed",
			slog.String("method", method),
			slog.String("table", table),
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(msg)),
		)
		if resp.StatusCode == http.StatusConflict {
			return fmt.Errorf("%w: %s %s: %s", domainErrors.ErrAlreadyExists, method, table, resp.Status)
		}
		return fmt.Errorf("%w: %s %s: %s", domainErrors.ErrPersistence, method, table, resp.Status)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s response: %w", domainErrors.ErrPersistence, table, err)
	}
	if dest == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("%w: decode %s response: %w", domainErrors.ErrPersistence, table, err)
	}
	return nil
}
