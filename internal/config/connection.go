package config

import "github.com/rickgao/bingo-client/internal/connection"

// GameConnection builds the realtime connection settings for the channel at
// wsURL from the connection section.
func (c *Config) GameConnection(wsURL string) connection.Config {
	cc := connection.DefaultConfig()
	cc.URL = wsURL
	cc.Origin = c.Server.BaseURL
	cc.MaxReconnectAttempts = c.Connection.MaxReconnectAttempts
	cc.ReconnectBaseDelay = c.Connection.ReconnectBaseDelay
	cc.PingInterval = c.Connection.PingInterval
	cc.HandshakeTimeout = c.Connection.HandshakeTimeout
	cc.WriteTimeout = c.Connection.WriteTimeout
	cc.BufferSize = c.Connection.BufferSize
	return cc
}
