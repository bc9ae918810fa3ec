package links

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"spatial-notepad/internal/model"
)

// Client talks to a remote registry. A Client with an empty BaseURL is
// disabled: Fetch returns no links and Push does nothing.
type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

func (c *Client) httpClient() *http.Client {
	if c.HTTP != nil {
		return c.HTTP
	}
	return http.DefaultClient
}

func (c *Client) Fetch(ctx context.Context) ([]model.Link, error) {
	if !c.Enabled() {
		return nil, nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+Path, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return nil, fmt.Errorf("links: fetch: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("links: fetch: unexpected status %d", resp.StatusCode)
	}
	var out []model.Link
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&out); err != nil {
		return nil, fmt.Errorf("links: fetch: %w", err)
	}
	return out, nil
}

func (c *Client) Push(ctx context.Context, links []model.Link) error {
	if !c.Enabled() {
		return nil
	}
	if links == nil {
		links = []model.Link{}
	}
	body, err := json.Marshal(links)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+Path, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("links: push: %w", err)
	}
	defer resp.Body.Close()
	var ack struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	_ = json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&ack)
	if resp.StatusCode != http.StatusOK || !ack.Success {
		if ack.Error != "" {
			return fmt.Errorf("links: push: %s", ack.Error)
		}
		return fmt.Errorf("links: push: unexpected status %d", resp.StatusCode)
	}
	return nil
}
