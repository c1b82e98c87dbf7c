package sendapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// DefaultTimeout bounds a single API request.
const DefaultTimeout = 30 * time.Second

// maxErrorBody caps how much of an error response is kept.
const maxErrorBody = 512

// Client calls the owner-token endpoints. The host comes from each ShareURL.
type Client struct {
	client *http.Client
	logger *zap.Logger
}

// NewClient creates a client. A zero timeout selects DefaultTimeout and a
// nil logger disables logging.
func NewClient(timeout time.Duration, logger *zap.Logger) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// ExistsResponse is the answer of the exists endpoint.
type ExistsResponse struct {
	Exists           bool `json:"-"`
	RequiresPassword bool `json:"requiresPassword"`
}

// InfoResponse is the answer of the info endpoint.
type InfoResponse struct {
	DownloadLimit int   `json:"dlimit"`
	Downloads     int   `json:"dtotal"`
	TTLMillis     int64 `json:"ttl"`
}

// TTL returns the time left until the file expires.
func (r InfoResponse) TTL() time.Duration {
	return time.Duration(r.TTLMillis) * time.Millisecond
}

type ownerRequest struct {
	OwnerToken    string `json:"owner_token"`
	DownloadLimit int    `json:"dlimit,omitempty"`
}

// Exists asks whether the file is still available. A file the server does
// not know is reported as not existing, not as an error.
func (c *Client) Exists(ctx context.Context, share *ShareURL) (ExistsResponse, error) {
	var resp ExistsResponse
	err := c.do(ctx, http.MethodGet, share.apiURL("exists"), nil, &resp)
	switch {
	case err == nil:
		resp.Exists = true
		return resp, nil
	case errors.Is(err, ErrNotFound):
		return ExistsResponse{}, nil
	default:
		return ExistsResponse{}, fmt.Errorf("failed to check whether file exists: %w", err)
	}
}

// Info fetches download counts and expiry for a file.
func (c *Client) Info(ctx context.Context, share *ShareURL, owner string) (InfoResponse, error) {
	var resp InfoResponse
	if err := c.do(ctx, http.MethodPost, share.apiURL("info"), ownerRequest{OwnerToken: owner}, &resp); err != nil {
		return InfoResponse{}, fmt.Errorf("failed to fetch file info: %w", err)
	}
	return resp, nil
}

// Delete removes a file from the server.
func (c *Client) Delete(ctx context.Context, share *ShareURL, owner string) error {
	if err := c.do(ctx, http.MethodPost, share.apiURL("delete"), ownerRequest{OwnerToken: owner}, nil); err != nil {
		return fmt.Errorf("failed to delete file: %w", err)
	}
	return nil
}

// SetParams changes the download limit of a file. The limit is sent as
// given; use ValidDownloadLimit to check it first.
func (c *Client) SetParams(ctx context.Context, share *ShareURL, owner string, downloadLimit int) error {
	if downloadLimit <= 0 {
		return fmt.Errorf("download limit must be positive, got %d", downloadLimit)
	}
	body := ownerRequest{OwnerToken: owner, DownloadLimit: downloadLimit}
	if err := c.do(ctx, http.MethodPost, share.apiURL("params"), body, nil); err != nil {
		return fmt.Errorf("failed to change file parameters: %w", err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request",
		zap.String("method", method),
		zap.String("url", endpoint),
		zap.Int("status", resp.StatusCode),
		zap.Duration("took", time.Since(start)))

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return ErrNotFound
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return ErrUnauthorized
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		data, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &StatusError{Code: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}
