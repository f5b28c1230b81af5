// bingowatch connects to a player's game channel and streams the decoded
// events to the console without touching the board.
// Usage: go run ./cmd/bingowatch --config configs/bingo.yaml --player 42
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rickgao/bingo-client/internal/api"
	"github.com/rickgao/bingo-client/internal/config"
	"github.com/rickgao/bingo-client/internal/connection"
	"github.com/rickgao/bingo-client/internal/feed"
	"github.com/rickgao/bingo-client/internal/logging"
	"github.com/rickgao/bingo-client/internal/version"
)

func main() {
	configPath := flag.String("config", "", "path to config file (defaults are used when empty)")
	envFile := flag.String("env-file", "", "dotenv file to load before reading the config")
	playerID := flag.String("player", "", "player id, overrides player.id")
	verbose := flag.Bool("verbose", false, "print full snapshot JSON")
	flag.Parse()

	if err := config.LoadEnvFile(*envFile); err != nil {
		fmt.Fprintln(os.Stderr, "bingowatch:", err)
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		var err error
		if cfg, err = config.LoadWithDefaults(*configPath); err != nil {
			fmt.Fprintln(os.Stderr, "bingowatch:", err)
			os.Exit(1)
		}
	}
	if *playerID != "" {
		cfg.Player.ID = *playerID
	}

	// Setup logger
	logger, closer, err := logging.New(cfg.Log, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bingowatch:", err)
		os.Exit(1)
	}
	defer closer.Close()

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid config", "error", err)
		os.Exit(1)
	}

	wsURL := cfg.Server.WSURL
	if wsURL == "" {
		if wsURL, err = api.GameSocketURL(cfg.Server.BaseURL, cfg.Player.ID); err != nil {
			logger.Error("failed to derive socket url", "error", err)
			os.Exit(1)
		}
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal")
		cancel()
	}()

	events := feed.NewQueue[feed.Event](64)
	conn := connection.NewGameConnection(cfg.GameConnection(wsURL), feed.NewRecorder(events), connection.WithLogger(logger))

	logger.Info("watching game", "version", version.String(), "url", wsURL)
	if err := conn.Open(ctx); err != nil {
		logger.Error("failed to open game connection", "error", err)
		os.Exit(1)
	}

	// Stop once the connection will not come back
	go func() {
		ticker := time.NewTicker(time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if conn.Terminal() {
					logger.Info("game connection ended")
					cancel()
					return
				}
			}
		}
	}()

	// Stats printer
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				stats := events.Stats()
				logger.Info("stats",
					"state", conn.State(),
					"game_active", conn.GameActive(),
					"attempt", conn.Attempt(),
					"events", stats.Pushed,
					"queued", stats.Len,
				)
			}
		}
	}()

	go func() {
		<-ctx.Done()
		conn.Close()
		events.Close()
	}()

	logger.Info("streaming started - press Ctrl+C to stop")
	printEvents(os.Stdout, events, *verbose)

	cancel()
	logger.Info("shutdown complete")
}

// printEvents prints events until the queue is closed and drained.
func printEvents(w io.Writer, events *feed.Queue[feed.Event], verbose bool) {
	for {
		ev, ok := events.Pop()
		if !ok {
			return
		}
		fmt.Fprintln(w, formatEvent(ev, verbose))
	}
}

func formatEvent(ev feed.Event, verbose bool) string {
	ts := ev.At.Format(time.TimeOnly)

	switch ev.Kind {
	case feed.KindGameState:
		if verbose {
			data, _ := json.MarshalIndent(ev.Snapshot, "", "  ")
			return fmt.Sprintf("%s [GAME STATE] %s", ts, data)
		}
		s := ev.Snapshot
		line := fmt.Sprintf("%s [GAME STATE] active=%t won=%t covered=%v players=%s events=%d",
			ts, s.IsActive, s.HasWon, s.CoveredPositions, strings.Join(s.ConnectedPlayers, ","), len(s.RecentEvents))
		if name := s.WinnerName(); name != "" {
			line += " winner=" + name
		}
		return line
	case feed.KindWinner:
		return fmt.Sprintf("%s [WINNER] %s has won the game!", ts, ev.Winner)
	case feed.KindFatal:
		return fmt.Sprintf("%s [FATAL] %v", ts, ev.Err)
	default:
		return fmt.Sprintf("%s [%s]", ts, ev.Kind)
	}
}
