// Package client talks to the profile and interaction endpoints
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"swipe-match-backend/internal/apperr"
	"swipe-match-backend/internal/models"
)

// InteractionRequest is the body of POST /api/interactions
type InteractionRequest struct {
	FromUserID string `json:"fromUserId"`
	ToUserID   int    `json:"toUserId"`
	Action     string `json:"action"`
}

// Client calls the swipe API at a base URL
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client. A nil httpClient uses one with a 10s timeout.
func New(baseURL string, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
	}
}

// GetProfiles fetches the swipe stack. No content yields an empty list,
// which means the stack is exhausted rather than that the call failed.
func (c *Client) GetProfiles(ctx context.Context) ([]models.Profile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/profiles", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Cache-Control", "no-store")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profiles fetch failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNoContent:
		return []models.Profile{}, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return nil, fmt.Errorf("profiles fetch failed: status %d", resp.StatusCode)
	}

	var body models.ProfilesResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode profiles: %w", err)
	}
	if body.Data == nil {
		body.Data = []models.Profile{}
	}
	return body.Data, nil
}

// PostInteraction submits a like or dislike
func (c *Client) PostInteraction(ctx context.Context, in InteractionRequest) (models.InteractionResponse, error) {
	payload, err := json.Marshal(in)
	if err != nil {
		return models.InteractionResponse{}, fmt.Errorf("failed to encode interaction: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/interactions", bytes.NewReader(payload))
	if err != nil {
		return models.InteractionResponse{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return models.InteractionResponse{}, fmt.Errorf("interaction failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusConflict:
		return models.InteractionResponse{}, apperr.New(apperr.DuplicateLikeKind, "Duplicate like")
	case resp.StatusCode == http.StatusUnprocessableEntity:
		return models.InteractionResponse{}, apperr.New(apperr.InvalidBodyKind, "Invalid request")
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return models.InteractionResponse{}, fmt.Errorf("interaction failed: status %d", resp.StatusCode)
	}

	var out models.InteractionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return models.InteractionResponse{}, fmt.Errorf("failed to decode interaction response: %w", err)
	}
	return out, nil
}
