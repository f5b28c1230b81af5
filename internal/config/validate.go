package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate checks that all required fields are set and values are valid.
func (c *Config) Validate() error {
	if err := validateURL("server.base_url", c.Server.BaseURL, "http", "https"); err != nil {
		return err
	}
	if c.Server.WSURL != "" {
		if err := validateURL("server.ws_url", c.Server.WSURL, "ws", "wss"); err != nil {
			return err
		}
	}
	if c.Server.Retries() < 0 {
		return errors.New("server.max_retries must be >= 0")
	}

	if c.Player.ID == "" {
		return errors.New("player.id is required")
	}

	if c.Connection.MaxReconnectAttempts < 1 {
		return errors.New("connection.max_reconnect_attempts must be >= 1")
	}
	if c.Connection.ReconnectBaseDelay <= 0 {
		return errors.New("connection.reconnect_base_delay must be positive")
	}
	if c.Connection.PingInterval <= 0 {
		return errors.New("connection.ping_interval must be positive")
	}
	if c.Connection.BufferSize < 1 {
		return errors.New("connection.buffer_size must be >= 1")
	}

	if c.Board.Size < 1 {
		return errors.New("board.size must be >= 1")
	}
	if c.Board.HasFreeSquare() && c.Board.Size%2 == 0 {
		return fmt.Errorf("board.free_square needs an odd board.size, got %d", c.Board.Size)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json, got %q", c.Log.Format)
	}

	return nil
}

func validateURL(field, raw string, schemes ...string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", field)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	for _, s := range schemes {
		if u.Scheme == s && u.Host != "" {
			return nil
		}
	}
	return fmt.Errorf("%s must be an absolute %s url, got %q", field, strings.Join(schemes, "/"), raw)
}
