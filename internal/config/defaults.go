package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL              = "http://localhost:8000"
	DefaultTimeout              = 30 * time.Second
	DefaultMaxRetries           = 3
	DefaultCSRFCookie           = "csrftoken"
	DefaultMaxReconnectAttempts = 5
	DefaultReconnectBaseDelay   = 1 * time.Second
	DefaultPingInterval         = 30 * time.Second
	DefaultHandshakeTimeout     = 10 * time.Second
	DefaultWriteTimeout         = 5 * time.Second
	DefaultBufferSize           = 256
	DefaultBoardSize            = 5
	DefaultLogLevel             = "info"
	DefaultLogFormat            = "text"
	DefaultLogMaxSizeMB         = 10
	DefaultLogMaxBackups        = 3
	DefaultLogMaxAgeDays        = 28
)

// Default returns a config with every default applied and no player set.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills every unset optional field.
func (c *Config) ApplyDefaults() {
	// Server defaults
	if c.Server.BaseURL == "" {
		c.Server.BaseURL = DefaultBaseURL
	}
	if c.Server.Timeout == 0 {
		c.Server.Timeout = DefaultTimeout
	}
	if c.Server.MaxRetries == nil {
		retries := DefaultMaxRetries
		c.Server.MaxRetries = &retries
	}
	if c.Server.CSRFCookie == "" {
		c.Server.CSRFCookie = DefaultCSRFCookie
	}

	// Connection defaults
	if c.Connection.MaxReconnectAttempts == 0 {
		c.Connection.MaxReconnectAttempts = DefaultMaxReconnectAttempts
	}
	if c.Connection.ReconnectBaseDelay == 0 {
		c.Connection.ReconnectBaseDelay = DefaultReconnectBaseDelay
	}
	if c.Connection.PingInterval == 0 {
		c.Connection.PingInterval = DefaultPingInterval
	}
	if c.Connection.HandshakeTimeout == 0 {
		c.Connection.HandshakeTimeout = DefaultHandshakeTimeout
	}
	if c.Connection.WriteTimeout == 0 {
		c.Connection.WriteTimeout = DefaultWriteTimeout
	}
	if c.Connection.BufferSize == 0 {
		c.Connection.BufferSize = DefaultBufferSize
	}

	if c.Board.Size == 0 {
		c.Board.Size = DefaultBoardSize
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = DefaultLogLevel
	}
	if c.Log.Format == "" {
		c.Log.Format = DefaultLogFormat
	}
	if c.Log.MaxSizeMB == 0 {
		c.Log.MaxSizeMB = DefaultLogMaxSizeMB
	}
	if c.Log.MaxBackups == 0 {
		c.Log.MaxBackups = DefaultLogMaxBackups
	}
	if c.Log.MaxAgeDays == 0 {
		c.Log.MaxAgeDays = DefaultLogMaxAgeDays
	}
}
