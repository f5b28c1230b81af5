package config

import "time"

// Config is the root configuration for a bingo client.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Player     PlayerConfig     `yaml:"player"`
	Connection ConnectionConfig `yaml:"connection"`
	Board      BoardConfig      `yaml:"board"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig holds the game server endpoints.
type ServerConfig struct {
	BaseURL    string        `yaml:"base_url"`
	WSURL      string        `yaml:"ws_url"` // derived from base_url when empty
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries *int          `yaml:"max_retries"` // nil means the default; 0 disables retries
	CSRFCookie string        `yaml:"csrf_cookie"`
}

// Retries returns the number of GET retries, falling back to the default
// when max_retries is unset.
func (s ServerConfig) Retries() int {
	if s.MaxRetries == nil {
		return DefaultMaxRetries
	}
	return *s.MaxRetries
}

// PlayerConfig identifies whose board this client drives.
type PlayerConfig struct {
	ID string `yaml:"id"`
}

// ConnectionConfig holds realtime channel settings.
type ConnectionConfig struct {
	MaxReconnectAttempts int           `yaml:"max_reconnect_attempts"`
	ReconnectBaseDelay   time.Duration `yaml:"reconnect_base_delay"`
	PingInterval         time.Duration `yaml:"ping_interval"`
	HandshakeTimeout     time.Duration `yaml:"handshake_timeout"`
	WriteTimeout         time.Duration `yaml:"write_timeout"`
	BufferSize           int           `yaml:"buffer_size"`
}

// BoardConfig describes the board layout.
type BoardConfig struct {
	Size       int   `yaml:"size"`
	FreeSquare *bool `yaml:"free_square"`
}

// HasFreeSquare reports whether the centre cell is a free square.
func (b BoardConfig) HasFreeSquare() bool {
	return b.FreeSquare == nil || *b.FreeSquare
}

// LogConfig holds logger settings. Output goes to stderr unless File is set.
type LogConfig struct {
	Level      string `yaml:"level"`
	Format     string `yaml:"format"`
	File       string `yaml:"file"`
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
}
