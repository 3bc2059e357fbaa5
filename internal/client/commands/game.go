// FILE: internal/client/commands/game.go
package commands

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/client/display"
	"chesssim/internal/client/session"
	"chesssim/internal/core"
)

var errNoGame = errors.New("no current game (use 'new' or 'join')")

const computerMove = "cccc"

func (r *Registry) registerGameCommands() {
	r.Register(&Command{
		Name:        "new",
		ShortName:   "n",
		Description: "Create a new game",
		Usage:       "new",
		Handler:     newGameHandler,
	})

	r.Register(&Command{
		Name:        "join",
		ShortName:   "j",
		Description: "Join/set current game ID",
		Usage:       "join <gameId>",
		Handler:     joinGameHandler,
	})

	r.Register(&Command{
		Name:        "move",
		ShortName:   "m",
		Description: "Make a move",
		Usage:       "move <from><to>",
		Handler:     moveHandler,
	})

	r.Register(&Command{
		Name:        "computer",
		ShortName:   "c",
		Description: "Trigger computer move",
		Usage:       "computer",
		Handler:     computerMoveHandler,
	})

	r.Register(&Command{
		Name:        "moves",
		ShortName:   "l",
		Description: "List legal moves",
		Usage:       "moves",
		Handler:     legalMovesHandler,
	})

	r.Register(&Command{
		Name:        "players",
		ShortName:   "y",
		Description: "Change both players",
		Usage:       "players <white> <black>",
		Handler:     playersHandler,
	})

	r.Register(&Command{
		Name:        "undo",
		ShortName:   "u",
		Description: "Undo moves",
		Usage:       "undo [count]",
		Handler:     undoHandler,
	})

	r.Register(&Command{
		Name:        "show",
		ShortName:   "h",
		Description: "Show board and game state",
		Usage:       "show",
		Handler:     showBoardHandler,
	})

	r.Register(&Command{
		Name:        "board",
		ShortName:   "b",
		Description: "Fetch the board text",
		Usage:       "board",
		Handler:     boardTextHandler,
	})

	r.Register(&Command{
		Name:        "state",
		ShortName:   "s",
		Description: "Show raw game JSON",
		Usage:       "state",
		Handler:     gameStateHandler,
	})

	r.Register(&Command{
		Name:        "delete",
		ShortName:   "d",
		Description: "Delete a game",
		Usage:       "delete [gameId]",
		Handler:     deleteGameHandler,
	})

	r.Register(&Command{
		Name:        "poll",
		ShortName:   "p",
		Description: "Long-poll for game updates",
		Usage:       "poll",
		Handler:     pollHandler,
	})

	r.Register(&Command{
		Name:        "sim",
		ShortName:   "!",
		Description: "Run a batch of computer games on the server",
		Usage:       "sim <white> <black> <games> [maxTurns]",
		Handler:     simulateHandler,
	})
}

// ask prompts for a line, returning def for an empty answer
func ask(s *session.Session, prompt, def string) (string, error) {
	line, err := s.In.Line(fmt.Sprintf("%s%s [%s]: %s", display.Yellow, prompt, def, display.Reset))
	if err != nil {
		return "", err
	}
	if answer := strings.TrimSpace(line); answer != "" {
		return answer, nil
	}
	return def, nil
}

func askInt(s *session.Session, prompt string, def int) (int, error) {
	answer, err := ask(s, prompt, strconv.Itoa(def))
	if err != nil {
		return 0, err
	}
	n, err := strconv.Atoi(answer)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not a number", prompt, answer)
	}
	return n, nil
}

func newGameHandler(s *session.Session, args []string) error {
	display.Println(s.Out, display.Cyan, "\nCreating new game...")

	req := &core.CreateGameRequest{}
	var err error
	if req.White, err = ask(s, "White player (human/random/capture/kingcapture/ai)", string(core.PlayerHuman)); err != nil {
		return err
	}
	if req.Black, err = ask(s, "Black player (human/random/capture/kingcapture/ai)", string(core.PlayerAI)); err != nil {
		return err
	}
	for _, p := range []*string{&req.White, &req.Black} {
		kind, err := core.ParsePlayerKind(*p)
		if err != nil {
			return err
		}
		*p = string(kind)
	}

	// Starting position
	path, err := ask(s, "Board file", "standard")
	if err != nil {
		return err
	}
	if path != "standard" {
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		req.Board = string(data)
	} else {
		if req.Width, err = askInt(s, "Width", board.StandardSize); err != nil {
			return err
		}
		if req.Height, err = askInt(s, "Height", board.StandardSize); err != nil {
			return err
		}
	}
	if core.PlayerKind(req.White) == core.PlayerAI || core.PlayerKind(req.Black) == core.PlayerAI {
		if req.Depth, err = askInt(s, "Search depth (1-6)", 3); err != nil {
			return err
		}
	}

	resp, err := s.Client.CreateGame(req)
	if err != nil {
		return err
	}
	s.SetGame(resp)

	display.Println(s.Out, display.Green, "Game created: "+resp.GameID)
	display.Println(s.Out, display.Cyan, "Current game set to: "+resp.GameID)

	// If white is computer, trigger first move
	if core.PlayerKind(req.White).IsComputer() {
		display.Println(s.Out, display.Magenta, "\nTriggering white computer move...")
		return playComputer(s)
	}
	return nil
}

func joinGameHandler(s *session.Session, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: join <gameId>")
	}

	resp, err := s.Client.GetGame(args[0])
	if err != nil {
		return err
	}
	s.SetGame(resp)

	display.Println(s.Out, display.Green, "Joined game: "+resp.GameID)
	fmt.Fprintf(s.Out, "Turn: %s | State: %s | Moves: %d\n", resp.Turn, resp.State, len(resp.Moves))
	return nil
}

// computerToMove reports whether the side to move in resp is played by the server
func computerToMove(resp *core.GameResponse) bool {
	if resp.State != core.StateOngoing.Key() {
		return false
	}
	kind := resp.Players.White
	if resp.Turn == core.TeamBlack.Code() {
		kind = resp.Players.Black
	}
	return core.PlayerKind(kind).IsComputer()
}

func moveHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	if len(args) < 1 {
		return fmt.Errorf("usage: move <from><to>")
	}

	resp, err := s.Client.MakeMove(s.CurrentGame, strings.Join(args, ""))
	if err != nil {
		return err
	}
	s.SetGame(resp)
	display.Println(s.Out, display.Green, "Move accepted")
	reportEnd(s, resp)

	if computerToMove(resp) {
		display.Println(s.Out, display.Magenta, "\nComputer's turn, triggering move...")
		return playComputer(s)
	}
	return nil
}

func computerMoveHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	return playComputer(s)
}

func playComputer(s *session.Session) error {
	display.Println(s.Out, display.Magenta, "Computer is thinking...")
	resp, err := s.Client.MakeMove(s.CurrentGame, computerMove)
	if err != nil {
		return err
	}
	s.SetGame(resp)

	if last := resp.LastMove; last != nil {
		switch {
		case last.Stalled:
			display.Println(s.Out, display.Magenta, "Computer has no legal moves")
		default:
			display.Printf(s.Out, display.Magenta, "Computer played: %s", last.Move)
			if last.Depth > 0 {
				fmt.Fprintf(s.Out, " (depth %d, score %d, nodes %d)", last.Depth, last.Score, last.Nodes)
			}
			fmt.Fprintln(s.Out)
		}
	}
	reportEnd(s, resp)
	return nil
}

func reportEnd(s *session.Session, resp *core.GameResponse) {
	if resp.State != core.StateOngoing.Key() {
		display.Println(s.Out, display.Yellow, "Game over: "+resp.State)
	}
}

func legalMovesHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	resp, err := s.Client.LegalMoves(s.CurrentGame)
	if err != nil {
		return err
	}
	if len(resp.Moves) == 0 {
		fmt.Fprintf(s.Out, "%s has no legal moves\n", display.ColorForTurn(resp.Turn))
		return nil
	}
	fmt.Fprintf(s.Out, "%s to move (%d): %s\n", display.ColorForTurn(resp.Turn), len(resp.Moves), strings.Join(resp.Moves, " "))
	return nil
}

func playersHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	if len(args) != 2 {
		return fmt.Errorf("usage: players <white> <black>")
	}
	resp, err := s.Client.SetPlayers(s.CurrentGame, args[0], args[1])
	if err != nil {
		return err
	}
	s.SetGame(resp)
	display.Println(s.Out, display.Green,
		fmt.Sprintf("Players: White=%s Black=%s", resp.Players.White, resp.Players.Black))
	return nil
}

func undoHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	count := 1
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n < 1 {
			return fmt.Errorf("invalid count: %s", args[0])
		}
		count = n
	}

	resp, err := s.Client.UndoMoves(s.CurrentGame, count)
	if err != nil {
		return err
	}
	s.SetGame(resp)

	display.Println(s.Out, display.Green, fmt.Sprintf("Undid %d move(s)", count))
	return nil
}

func showBoardHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	game, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetGame(game)

	fmt.Fprintln(s.Out)
	display.RenderBoard(s.Out, game.Board)

	fmt.Fprintf(s.Out, "\n%dx%d | Turn: %s | State: %s | Moves: %d\n",
		game.Width, game.Height, display.ColorForTurn(game.Turn), game.State, len(game.Moves))
	fmt.Fprintf(s.Out, "Players: White=%s Black=%s\n", game.Players.White, game.Players.Black)

	if len(game.Moves) > 0 {
		fmt.Fprint(s.Out, "History:")
		for i, move := range game.Moves {
			if i%2 == 0 {
				fmt.Fprintf(s.Out, " %d.%s", (i/2)+1, move)
			} else {
				fmt.Fprintf(s.Out, " %s", move)
			}
		}
		fmt.Fprintln(s.Out)
	}

	if last := game.LastMove; last != nil && last.Move != "" {
		fmt.Fprintf(s.Out, "Last move: %s by %s", last.Move, display.ColorForTurn(last.PlayerColor))
		if last.Captured != "" {
			fmt.Fprintf(s.Out, " takes %s", last.Captured)
		}
		fmt.Fprintln(s.Out)
	}
	return nil
}

func boardTextHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}
	text, err := s.Client.GetBoard(s.CurrentGame)
	if err != nil {
		return err
	}
	fmt.Fprint(s.Out, text)
	return nil
}

func gameStateHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	resp, err := s.Client.GetGame(s.CurrentGame)
	if err != nil {
		return err
	}
	s.SetGame(resp)

	display.Println(s.Out, display.Cyan, "Game State:")
	display.PrettyPrintJSON(s.Out, resp)
	return nil
}

func deleteGameHandler(s *session.Session, args []string) error {
	gameID := s.CurrentGame
	if len(args) > 0 {
		gameID = args[0]
	}
	if gameID == "" {
		return errNoGame
	}

	if err := s.Client.DeleteGame(gameID); err != nil {
		return err
	}
	if gameID == s.CurrentGame {
		s.ClearGame()
	}

	display.Println(s.Out, display.Green, "Game deleted: "+gameID)
	return nil
}

func pollHandler(s *session.Session, args []string) error {
	if s.CurrentGame == "" {
		return errNoGame
	}

	display.Println(s.Out, display.Cyan, fmt.Sprintf("Long-polling for updates (move count: %d)...", s.LastMoveCount))
	display.Println(s.Out, display.Cyan, "This may take up to 25 seconds")

	before := s.LastMoveCount
	resp, err := s.Client.GetGameWithPoll(s.CurrentGame, before)
	if err != nil {
		return err
	}
	s.SetGame(resp)

	if len(resp.Moves) != before || resp.State != core.StateOngoing.Key() {
		display.Println(s.Out, display.Green, "Game updated!")
		if resp.LastMove != nil && resp.LastMove.Move != "" {
			fmt.Fprintf(s.Out, "Last move: %s\n", resp.LastMove.Move)
		}
		reportEnd(s, resp)
	} else {
		display.Println(s.Out, display.Yellow, "No updates (timeout)")
	}
	return nil
}

func simulateHandler(s *session.Session, args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: sim <white> <black> <games> [maxTurns]")
	}
	games, err := strconv.Atoi(args[2])
	if err != nil {
		return fmt.Errorf("invalid game count: %s", args[2])
	}
	req := &core.SimulationRequest{White: args[0], Black: args[1], Games: games}
	if len(args) > 3 {
		if req.MaxTurns, err = strconv.Atoi(args[3]); err != nil {
			return fmt.Errorf("invalid max turns: %s", args[3])
		}
	}

	resp, err := s.Client.Simulate(req)
	if err != nil {
		return err
	}
	display.Println(s.Out, display.Cyan, "Simulation:")
	fmt.Fprintf(s.Out, "  Games:       %d\n", resp.Games)
	fmt.Fprintf(s.Out, "  White wins:  %d\n", resp.WhiteWins)
	fmt.Fprintf(s.Out, "  Black wins:  %d\n", resp.BlackWins)
	fmt.Fprintf(s.Out, "  Draws:       %d\n", resp.Draws)
	fmt.Fprintf(s.Out, "  Total turns: %d\n", resp.TotalTurns)
	fmt.Fprintf(s.Out, "  Duration:    %dms\n", resp.DurationMs)
	return nil
}
