// bingo plays one player's bingo board from the terminal.
// Usage: go run ./cmd/bingo --config configs/bingo.yaml --player 42
//
// Commands are read from stdin: mark N, clear, refresh, status, show, help, quit.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/rickgao/bingo-client/internal/api"
	"github.com/rickgao/bingo-client/internal/board"
	"github.com/rickgao/bingo-client/internal/config"
	"github.com/rickgao/bingo-client/internal/connection"
	"github.com/rickgao/bingo-client/internal/logging"
	"github.com/rickgao/bingo-client/internal/session"
	"github.com/rickgao/bingo-client/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults are used when empty)")
	envFile := flag.String("env-file", "", "dotenv file to load before reading the config (default .env if present)")
	playerID := flag.String("player", "", "player id, overrides player.id")
	flag.Parse()

	if err := run(*configPath, *envFile, *playerID); err != nil {
		fmt.Fprintln(os.Stderr, "bingo:", err)
		os.Exit(1)
	}
}

func run(configPath, envFile, playerID string) error {
	if err := config.LoadEnvFile(envFile); err != nil {
		return err
	}

	cfg, err := loadConfig(configPath, playerID)
	if err != nil {
		return err
	}

	// Set up structured logging
	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer closer.Close()
	slog.SetDefault(logger)

	logger.Info("starting bingo",
		"version", version.String(),
		"config", configPath,
		"server", cfg.Server.BaseURL,
		"player", cfg.Player.ID,
	)

	wsURL := cfg.Server.WSURL
	if wsURL == "" {
		wsURL, err = api.GameSocketURL(cfg.Server.BaseURL, cfg.Player.ID)
		if err != nil {
			return fmt.Errorf("derive socket url: %w", err)
		}
	}

	apiClient := api.NewClient(
		cfg.Server.BaseURL,
		api.WithLogger(logger),
		api.WithTimeout(cfg.Server.Timeout),
		api.WithRetries(cfg.Server.Retries(), time.Second),
		api.WithCSRFCookieName(cfg.Server.CSRFCookie),
	)

	b := board.New(cfg.Board.Size, cfg.Board.HasFreeSquare(), board.WithLogger(logger))
	conn := connection.NewGameConnection(cfg.GameConnection(wsURL), b, connection.WithLogger(logger))
	sess := session.New(cfg.Player.ID, apiClient, conn, b, logger)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case sig := <-sigCh:
			logger.Info("received shutdown signal", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return sess.Run(gctx)
	})
	g.Go(func() error {
		defer cancel()
		return runCommands(gctx, os.Stdin, os.Stdout, sess)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}

	logger.Info("bingo stopped")
	return nil
}

func loadConfig(path, playerID string) (*config.Config, error) {
	var cfg *config.Config
	if path == "" {
		cfg = config.Default()
	} else {
		var err error
		if cfg, err = config.LoadWithDefaults(path); err != nil {
			return nil, err
		}
	}

	if playerID != "" {
		cfg.Player.ID = playerID
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
