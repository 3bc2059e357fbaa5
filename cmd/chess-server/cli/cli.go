// FILE: cmd/chess-server/cli/cli.go
package cli

import (
	"flag"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"chesssim/internal/storage"
)

// Run is the entry point for the CLI mini-app
func Run(args []string) error {
	return run(args, os.Stdout)
}

func run(args []string, out io.Writer) error {
	if len(args) == 0 {
		return fmt.Errorf("subcommand required: init, delete, query, moves, or tally")
	}

	switch args[0] {
	case "init":
		return runInit(args[1:], out)
	case "delete":
		return runDelete(args[1:], out)
	case "query":
		return runQuery(args[1:], out)
	case "moves":
		return runMoves(args[1:], out)
	case "tally":
		return runTally(args[1:], out)
	default:
		return fmt.Errorf("unknown subcommand: %s", args[0])
	}
}

// openStore parses the common -path flag plus any extra flags registered by setup
func openStore(name string, args []string, setup func(*flag.FlagSet)) (*storage.Store, string, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	path := fs.String("path", "", "Database file path (required)")
	if setup != nil {
		setup(fs)
	}

	if err := fs.Parse(args); err != nil {
		return nil, "", err
	}

	if *path == "" {
		return nil, "", fmt.Errorf("database path required")
	}

	store, err := storage.NewStore(*path, false)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open store: %w", err)
	}
	return store, *path, nil
}

func runInit(args []string, out io.Writer) error {
	store, path, err := openStore("init", args, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.InitDB(); err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}

	fmt.Fprintf(out, "Database initialized at: %s\n", path)
	return nil
}

func runDelete(args []string, out io.Writer) error {
	store, path, err := openStore("delete", args, nil)
	if err != nil {
		return err
	}

	if err := store.DeleteDB(); err != nil {
		return fmt.Errorf("failed to delete database: %w", err)
	}

	fmt.Fprintf(out, "Database deleted: %s\n", path)
	return nil
}

func runQuery(args []string, out io.Writer) error {
	var gameID, kind string
	store, _, err := openStore("query", args, func(fs *flag.FlagSet) {
		fs.StringVar(&gameID, "gameId", "", "Game ID to filter (optional, * for all)")
		fs.StringVar(&kind, "kind", "", "Player kind on either side to filter (optional, * for all)")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	games, err := store.QueryGames(gameID, kind)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}

	if len(games) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	// Print results in tabular format
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "Game ID\tSource\tSize\tWhite\tBlack\tState\tTurns\tStart Time")
	fmt.Fprintln(w, strings.Repeat("-", 100))

	for _, g := range games {
		fmt.Fprintf(w, "%s\t%s\t%dx%d\t%s\t%s\t%s\t%d\t%s\n",
			g.GameID,
			g.Source,
			g.Width, g.Height,
			g.WhiteKind,
			g.BlackKind,
			g.State,
			g.Turns,
			g.StartTimeUTC.Format(time.RFC3339),
		)
	}
	w.Flush()

	fmt.Fprintf(out, "\nTotal: %d game(s)\n", len(games))
	return nil
}

func runMoves(args []string, out io.Writer) error {
	var gameID string
	var showBoards bool
	store, _, err := openStore("moves", args, func(fs *flag.FlagSet) {
		fs.StringVar(&gameID, "gameId", "", "Game ID (required)")
		fs.BoolVar(&showBoards, "boards", false, "Print the board after every move")
	})
	if err != nil {
		return err
	}
	defer store.Close()

	if gameID == "" {
		return fmt.Errorf("game ID required")
	}

	moves, err := store.QueryMoves(gameID)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	if len(moves) == 0 {
		fmt.Fprintln(out, "No moves found")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tMove\tColor\tKind\tCaptured")
	for _, m := range moves {
		captured := m.Captured
		if captured == "" {
			captured = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", m.MoveNumber, m.Move, m.PlayerColor, m.PlayerKind, captured)
		if showBoards {
			w.Flush()
			fmt.Fprint(out, m.BoardAfterMove)
		}
	}
	return w.Flush()
}

func runTally(args []string, out io.Writer) error {
	store, _, err := openStore("tally", args, nil)
	if err != nil {
		return err
	}
	defer store.Close()

	tally, err := store.Tally()
	if err != nil {
		return fmt.Errorf("tally failed: %w", err)
	}
	if len(tally) == 0 {
		fmt.Fprintln(out, "No games found")
		return nil
	}

	states := make([]string, 0, len(tally))
	total := 0
	for state, n := range tally {
		states = append(states, state)
		total += n
	}
	sort.Strings(states)

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "State\tGames")
	for _, state := range states {
		fmt.Fprintf(w, "%s\t%d\n", state, tally[state])
	}
	fmt.Fprintf(w, "total\t%d\n", total)
	return w.Flush()
}
