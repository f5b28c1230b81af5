package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad(t *testing.T) {
	yaml := `
server:
  base_url: https://bingo.example.com
  timeout: 5s
player:
  id: "42"
connection:
  max_reconnect_attempts: 3
  reconnect_base_delay: 500ms
board:
  size: 5
  free_square: false
log:
  level: debug
  format: json
`
	path := writeTempFile(t, "config.yaml", yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Server.BaseURL != "https://bingo.example.com" {
		t.Errorf("Server.BaseURL = %q, want %q", cfg.Server.BaseURL, "https://bingo.example.com")
	}
	if cfg.Server.Timeout != 5*time.Second {
		t.Errorf("Server.Timeout = %v, want %v", cfg.Server.Timeout, 5*time.Second)
	}
	if cfg.Player.ID != "42" {
		t.Errorf("Player.ID = %q, want %q", cfg.Player.ID, "42")
	}
	if cfg.Connection.ReconnectBaseDelay != 500*time.Millisecond {
		t.Errorf("Connection.ReconnectBaseDelay = %v, want %v", cfg.Connection.ReconnectBaseDelay, 500*time.Millisecond)
	}
	if cfg.Board.HasFreeSquare() {
		t.Error("Board.HasFreeSquare() = true, want false")
	}
	if cfg.Log.Format != "json" {
		t.Errorf("Log.Format = %q, want %q", cfg.Log.Format, "json")
	}
}

func TestLoadWithEnvSubstitution(t *testing.T) {
	t.Setenv("TEST_BINGO_PLAYER", "player-7")

	yaml := `
server:
  base_url: http://localhost:8000
player:
  id: ${TEST_BINGO_PLAYER}
`
	path := writeTempFile(t, "config.yaml", yaml)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Player.ID != "player-7" {
		t.Errorf("Player.ID = %q, want %q", cfg.Player.ID, "player-7")
	}
}

func TestLoadEnvFile(t *testing.T) {
	t.Run("sets unset variables", func(t *testing.T) {
		t.Setenv("TEST_BINGO_ENV_A", "")
		os.Unsetenv("TEST_BINGO_ENV_A")

		path := writeTempFile(t, "test.env", "TEST_BINGO_ENV_A=from-file\n")
		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile failed: %v", err)
		}
		if got := os.Getenv("TEST_BINGO_ENV_A"); got != "from-file" {
			t.Errorf("TEST_BINGO_ENV_A = %q, want %q", got, "from-file")
		}
	})

	t.Run("does not override existing", func(t *testing.T) {
		t.Setenv("TEST_BINGO_ENV_B", "from-env")

		path := writeTempFile(t, "test.env", "TEST_BINGO_ENV_B=from-file\n")
		if err := LoadEnvFile(path); err != nil {
			t.Fatalf("LoadEnvFile failed: %v", err)
		}
		if got := os.Getenv("TEST_BINGO_ENV_B"); got != "from-env" {
			t.Errorf("TEST_BINGO_ENV_B = %q, want %q", got, "from-env")
		}
	})

	t.Run("missing explicit file", func(t *testing.T) {
		if err := LoadEnvFile(filepath.Join(t.TempDir(), "nope.env")); err == nil {
			t.Error("expected error for missing file, got nil")
		}
	})

	t.Run("missing default file", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		if err := os.Chdir(t.TempDir()); err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		if err := LoadEnvFile(""); err != nil {
			t.Errorf("LoadEnvFile(\"\") unexpected error: %v", err)
		}
	})
}

func TestLoadWithDefaults(t *testing.T) {
	yaml := `
player:
  id: "42"
`
	path := writeTempFile(t, "config.yaml", yaml)

	cfg, err := LoadWithDefaults(path)
	if err != nil {
		t.Fatalf("LoadWithDefaults failed: %v", err)
	}

	// Check defaults were applied
	if cfg.Server.Retries() != DefaultMaxRetries {
		t.Errorf("Server.Retries() = %d, want default %d", cfg.Server.Retries(), DefaultMaxRetries)
	}
	if cfg.Server.BaseURL != DefaultBaseURL {
		t.Errorf("Server.BaseURL = %q, want default %q", cfg.Server.BaseURL, DefaultBaseURL)
	}
	if cfg.Server.CSRFCookie != DefaultCSRFCookie {
		t.Errorf("Server.CSRFCookie = %q, want default %q", cfg.Server.CSRFCookie, DefaultCSRFCookie)
	}
	if cfg.Connection.MaxReconnectAttempts != DefaultMaxReconnectAttempts {
		t.Errorf("Connection.MaxReconnectAttempts = %d, want default %d", cfg.Connection.MaxReconnectAttempts, DefaultMaxReconnectAttempts)
	}
	if cfg.Connection.PingInterval != DefaultPingInterval {
		t.Errorf("Connection.PingInterval = %v, want default %v", cfg.Connection.PingInterval, DefaultPingInterval)
	}
	if cfg.Board.Size != DefaultBoardSize {
		t.Errorf("Board.Size = %d, want default %d", cfg.Board.Size, DefaultBoardSize)
	}
	if !cfg.Board.HasFreeSquare() {
		t.Error("Board.HasFreeSquare() = false, want true by default")
	}
	if cfg.Log.Level != DefaultLogLevel {
		t.Errorf("Log.Level = %q, want default %q", cfg.Log.Level, DefaultLogLevel)
	}
}

func TestLoadWithDefaults_ZeroRetriesKept(t *testing.T) {
	yaml := `
server:
  max_retries: 0
player:
  id: "42"
`
	path := writeTempFile(t, "config.yaml", yaml)

	cfg, err := LoadAndValidate(path)
	if err != nil {
		t.Fatalf("LoadAndValidate failed: %v", err)
	}
	if cfg.Server.Retries() != 0 {
		t.Errorf("Server.Retries() = %d, want 0", cfg.Server.Retries())
	}
}

func TestLoadAndValidate(t *testing.T) {
	path := writeTempFile(t, "config.yaml", "server:\n  base_url: http://localhost:8000\n")

	_, err := LoadAndValidate(path)
	if err == nil {
		t.Fatal("expected validation error, got nil")
	}
	if err.Error() != "validate config: player.id is required" {
		t.Errorf("error = %q, want %q", err.Error(), "validate config: player.id is required")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.Player.ID = "42"
		return cfg
	}
	noFree := false

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "valid config",
			mutate:  func(*Config) {},
			wantErr: "",
		},
		{
			name:    "missing player id",
			mutate:  func(c *Config) { c.Player.ID = "" },
			wantErr: "player.id is required",
		},
		{
			name:    "relative base url",
			mutate:  func(c *Config) { c.Server.BaseURL = "/game" },
			wantErr: `server.base_url must be an absolute http/https url, got "/game"`,
		},
		{
			name:    "http ws url",
			mutate:  func(c *Config) { c.Server.WSURL = "http://localhost:8000/ws/game/42/" },
			wantErr: `server.ws_url must be an absolute ws/wss url, got "http://localhost:8000/ws/game/42/"`,
		},
		{
			name: "negative max retries",
			mutate: func(c *Config) {
				retries := -1
				c.Server.MaxRetries = &retries
			},
			wantErr: "server.max_retries must be >= 0",
		},
		{
			name:    "zero reconnect attempts",
			mutate:  func(c *Config) { c.Connection.MaxReconnectAttempts = -1 },
			wantErr: "connection.max_reconnect_attempts must be >= 1",
		},
		{
			name:    "free square on even board",
			mutate:  func(c *Config) { c.Board.Size = 4 },
			wantErr: "board.free_square needs an odd board.size, got 4",
		},
		{
			name: "even board without free square",
			mutate: func(c *Config) {
				c.Board.Size = 4
				c.Board.FreeSquare = &noFree
			},
			wantErr: "",
		},
		{
			name:    "bad log level",
			mutate:  func(c *Config) { c.Log.Level = "loud" },
			wantErr: `log.level must be one of debug, info, warn, error, got "loud"`,
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: `log.format must be text or json, got "xml"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() unexpected error: %v", err)
				}
			} else {
				if err == nil {
					t.Errorf("Validate() expected error containing %q, got nil", tt.wantErr)
				} else if err.Error() != tt.wantErr {
					t.Errorf("Validate() error = %q, want %q", err.Error(), tt.wantErr)
				}
			}
		})
	}
}

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write temp file: %v", err)
	}
	return path
}

func TestGameConnection(t *testing.T) {
	cfg := Default()
	cfg.Connection.HandshakeTimeout = 3 * time.Second
	cfg.Connection.WriteTimeout = 2 * time.Second
	cfg.Connection.BufferSize = 32

	cc := cfg.GameConnection("ws://localhost:8000/ws/game/7/")

	if cc.URL != "ws://localhost:8000/ws/game/7/" {
		t.Errorf("URL = %q, want %q", cc.URL, "ws://localhost:8000/ws/game/7/")
	}
	if cc.Origin != DefaultBaseURL {
		t.Errorf("Origin = %q, want %q", cc.Origin, DefaultBaseURL)
	}
	if cc.MaxReconnectAttempts != DefaultMaxReconnectAttempts {
		t.Errorf("MaxReconnectAttempts = %d, want %d", cc.MaxReconnectAttempts, DefaultMaxReconnectAttempts)
	}
	if cc.ReconnectBaseDelay != DefaultReconnectBaseDelay {
		t.Errorf("ReconnectBaseDelay = %v, want %v", cc.ReconnectBaseDelay, DefaultReconnectBaseDelay)
	}
	if cc.PingInterval != DefaultPingInterval {
		t.Errorf("PingInterval = %v, want %v", cc.PingInterval, DefaultPingInterval)
	}
	if cc.HandshakeTimeout != 3*time.Second {
		t.Errorf("HandshakeTimeout = %v, want %v", cc.HandshakeTimeout, 3*time.Second)
	}
	if cc.WriteTimeout != 2*time.Second {
		t.Errorf("WriteTimeout = %v, want %v", cc.WriteTimeout, 2*time.Second)
	}
	if cc.BufferSize != 32 {
		t.Errorf("BufferSize = %d, want %d", cc.BufferSize, 32)
	}
}
