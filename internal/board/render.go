package board

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"
)

const maxCellWidth = 16

// Render writes a text view of the board as seen at now. Covered cells are
// marked with "x", cells on a completed line with "*" and the free cell
// with "F".
func (b *Board) Render(w io.Writer, now time.Time) error {
	b.mu.RLock()
	defer b.mu.RUnlock()

	tw := tabwriter.NewWriter(w, 0, 0, 1, ' ', tabwriter.Debug)
	for r := 0; r < b.size; r++ {
		for c := 0; c < b.size; c++ {
			fmt.Fprintf(tw, " %s\t", cellLabel(b.cells[r*b.size+c]))
		}
		fmt.Fprintln(tw)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("render grid: %w", err)
	}

	var sb strings.Builder
	if len(b.players) > 0 {
		fmt.Fprintf(&sb, "\nPlayers: %s\n", strings.Join(b.players, ", "))
	}
	if b.winner != "" {
		fmt.Fprintf(&sb, "\n%s has won the game!\n", b.winner)
	}
	if b.errMsg != "" {
		fmt.Fprintf(&sb, "\nError: %s\n", b.errMsg)
	}
	if len(b.events) > 0 {
		sb.WriteString("\nRecent events:\n")
		for _, ev := range b.events {
			fmt.Fprintf(&sb, "  %s (%s)\n", ev.Message, TimeAgo(ev.CreatedAt, now))
		}
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func cellLabel(c Cell) string {
	mark := " "
	switch {
	case c.Win:
		mark = "*"
	case c.Free:
		mark = "F"
	case c.Covered:
		mark = "x"
	}

	text := c.Text
	if text == "" {
		text = strconv.Itoa(c.Position)
	}
	if r := []rune(text); len(r) > maxCellWidth {
		text = string(r[:maxCellWidth-1]) + "~"
	}
	return mark + " " + text
}

// TimeAgo describes how long before now t was, in the largest whole unit
// that has been exceeded: "3 days ago", "1 hours ago", "just now".
func TimeAgo(t, now time.Time) string {
	seconds := float64(now.Sub(t) / time.Second)

	units := []struct {
		name    string
		seconds float64
	}{
		{"years", 31536000},
		{"months", 2592000},
		{"days", 86400},
		{"hours", 3600},
		{"minutes", 60},
	}
	for _, u := range units {
		if n := seconds / u.seconds; n > 1 {
			return fmt.Sprintf("%d %s ago", int(n), u.name)
		}
	}
	return "just now"
}
