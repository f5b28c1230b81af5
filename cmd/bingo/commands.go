package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/bingo-client/internal/board"
	"github.com/rickgao/bingo-client/internal/model"
	"github.com/rickgao/bingo-client/internal/session"
)

const helpText = `commands:
  mark N    toggle the cell at position N
  clear     clear the board and deal a new one
  refresh   ask the server for the game state
  status    print the session summary
  show      print the board
  quit      leave the game`

// player is the part of a session the command loop drives.
type player interface {
	Mark(ctx context.Context, position int) (*model.MarkResult, error)
	Clear(ctx context.Context) (*model.ClearResult, error)
	Refresh() error
	Status() session.Status
	Board() *board.Board
}

// runCommands reads commands from in until quit, EOF or ctx is done.
func runCommands(ctx context.Context, in io.Reader, out io.Writer, p player) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	readErr := make(chan error, 1)
	go func() {
		sc := bufio.NewScanner(in)
		for sc.Scan() {
			select {
			case lines <- sc.Text():
			case <-ctx.Done():
				return
			}
		}
		readErr <- sc.Err()
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case err := <-readErr:
			if err != nil {
				return fmt.Errorf("read commands: %w", err)
			}
			return nil
		case line := <-lines:
			if quit := execute(ctx, out, p, line); quit {
				return nil
			}
		}
	}
}

// execute runs one command line and reports whether the loop should stop.
func execute(ctx context.Context, out io.Writer, p player, line string) bool {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false
	}

	switch strings.ToLower(fields[0]) {
	case "mark", "m":
		if len(fields) != 2 {
			fmt.Fprintln(out, "usage: mark N")
			return false
		}
		pos, err := strconv.Atoi(fields[1])
		if err != nil {
			fmt.Fprintf(out, "invalid position %q\n", fields[1])
			return false
		}
		res, err := p.Mark(ctx, pos)
		switch {
		case errors.Is(err, session.ErrGameInactive):
			fmt.Fprintln(out, "the game is over, clear the board to play again")
		case err != nil:
			fmt.Fprintf(out, "mark failed: %v\n", err)
		default:
			fmt.Fprintf(out, "%d: %s\n", pos, res.Status)
			if res.Status == model.MarkStatusWin {
				fmt.Fprintf(out, "%s has won the game!\n", res.Winner)
			}
		}

	case "clear":
		if _, err := p.Clear(ctx); err != nil {
			fmt.Fprintf(out, "clear failed: %v\n", err)
			return false
		}
		fmt.Fprintln(out, "board cleared")

	case "refresh":
		if err := p.Refresh(); err != nil {
			fmt.Fprintf(out, "refresh failed: %v\n", err)
		}

	case "status":
		fmt.Fprintln(out, p.Status())

	case "show":
		if err := p.Board().Render(out, time.Now()); err != nil {
			fmt.Fprintf(out, "render failed: %v\n", err)
		}

	case "help", "?":
		fmt.Fprintln(out, helpText)

	case "quit", "exit", "q":
		return true

	default:
		fmt.Fprintf(out, "unknown command %q, try help\n", fields[0])
	}
	return false
}
