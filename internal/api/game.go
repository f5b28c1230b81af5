package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/rickgao/bingo-client/internal/model"
)

var (
	ErrMissingCSRFToken = errors.New("server did not set a csrf token")
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// Mark toggles the cell at position for the player. The result status is
// "marked", "already_marked" or "win".
func (c *Client) Mark(ctx context.Context, playerID string, position int) (*model.MarkResult, error) {
	path := fmt.Sprintf("/api/game/%s/mark/", url.PathEscape(playerID))

	var result model.MarkResult
	if err := c.post(ctx, path, model.MarkRequest{Position: position}, &result); err != nil {
		return nil, fmt.Errorf("mark position %d: %w", position, err)
	}

	switch result.Status {
	case model.MarkStatusMarked, model.MarkStatusAlreadyMarked, model.MarkStatusWin:
	default:
		return nil, fmt.Errorf("mark position %d: %w %q", position, ErrUnexpectedStatus, result.Status)
	}

	c.logger.Debug("position marked",
		"player", playerID,
		"position", position,
		"status", result.Status,
	)
	return &result, nil
}

// Clear resets the player's board and deals a new layout.
func (c *Client) Clear(ctx context.Context, playerID string) (*model.ClearResult, error) {
	path := fmt.Sprintf("/api/game/%s/clear/", url.PathEscape(playerID))

	var result model.ClearResult
	if err := c.post(ctx, path, nil, &result); err != nil {
		return nil, fmt.Errorf("clear board: %w", err)
	}

	if result.Status != model.ClearStatusCleared {
		return nil, fmt.Errorf("clear board: %w %q", ErrUnexpectedStatus, result.Status)
	}

	c.logger.Debug("board cleared",
		"player", playerID,
		"items", len(result.BoardItems),
	)
	return &result, nil
}

// PrimeCSRF loads the player's board page so the server sets the CSRF
// cookie. The page itself is discarded.
func (c *Client) PrimeCSRF(ctx context.Context, playerID string) error {
	path := fmt.Sprintf("/game/%s/", url.PathEscape(playerID))

	if _, err := c.doWithRetry(ctx, http.MethodGet, path); err != nil {
		return fmt.Errorf("load board page: %w", err)
	}

	if c.CSRFToken() == "" {
		return ErrMissingCSRFToken
	}
	return nil
}

// GameSocketURL derives the realtime channel URL for a player from the
// server's base URL: http becomes ws and https becomes wss.
func GameSocketURL(baseURL, playerID string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("parse base url: %w", err)
	}

	switch u.Scheme {
	case "https", "wss":
		u.Scheme = "wss"
	case "http", "ws":
		u.Scheme = "ws"
	default:
		return "", fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("base url %q has no host", baseURL)
	}

	u.Path = "/ws/game/" + playerID + "/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u.String(), nil
}
