// FILE: internal/transport/cli/handler.go
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/config"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/service"
	"chesssim/internal/transport"
)

type CLIHandler struct {
	svc    *service.Service
	view   transport.Console
	cfg    config.Config
	gameID string
}

func New(svc *service.Service, view transport.Console, cfg config.Config) *CLIHandler {
	return &CLIHandler{
		svc:  svc,
		view: view,
		cfg:  cfg,
	}
}

// GameID returns the active game, or "" before the first game
func (h *CLIHandler) GameID() string { return h.gameID }

// Main game loop - simple command processing
func (h *CLIHandler) Run() {
	for {
		// Get command (blocking)
		cmd, err := h.view.GetCommand(h.getPrompt())
		if err != nil {
			break
		}

		// Process command - returns false to exit
		if !h.ProcessCommand(cmd) {
			break
		}
	}
}

// Generates the appropriate command prompt
func (h *CLIHandler) getPrompt() string {
	prompt := "> "
	if v := h.current(); v != nil && v.State == core.StateOngoing {
		// Always show whose turn it is
		prompt = fmt.Sprintf("[%s]> ", v.Board.Turn().Code())
		if h.computerToMove(v) {
			prompt = "ENTER to execute computer move\n" + prompt
		}
	}
	return prompt
}

func (h *CLIHandler) current() *service.GameView {
	if h.gameID == "" {
		return nil
	}
	v, err := h.svc.GetGame(h.gameID)
	if err != nil {
		return nil
	}
	return v
}

func (h *CLIHandler) computerToMove(v *service.GameView) bool {
	kind := v.White
	if v.Board.Turn() == core.TeamBlack {
		kind = v.Black
	}
	return kind.IsComputer()
}

// Handles user commands - returns false to exit
func (h *CLIHandler) ProcessCommand(cmd *transport.Command) bool {
	switch cmd.Type {
	case transport.CmdQuit:
		return false

	case transport.CmdNone:
		// Empty command triggers computer move if it's computer's turn
		if v := h.current(); v != nil && v.State == core.StateOngoing && h.computerToMove(v) {
			h.playTurn()
		}

	case transport.CmdNew:
		width, height := h.cfg.Width, h.cfg.Height
		if len(cmd.Args) > 0 {
			if len(cmd.Args) != 2 {
				h.view.ShowMessage("Usage: new [width height]")
				return true
			}
			w, errW := strconv.Atoi(cmd.Args[0])
			ht, errH := strconv.Atoi(cmd.Args[1])
			if errW != nil || errH != nil {
				h.view.ShowMessage("Usage: new [width height]")
				return true
			}
			width, height = w, ht
		}
		h.handleNewGame(service.GameConfig{Width: width, Height: height})

	case transport.CmdLoad:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: load <file>")
			return true
		}
		b, err := loadBoard(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.handleNewGame(service.GameConfig{Board: b})

	case transport.CmdSave:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage("Usage: save <file>")
			return true
		}
		v := h.requireGame()
		if v == nil {
			return true
		}
		if err := saveBoard(cmd.Args[0], v.Board); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Board saved to %s", cmd.Args[0]))

	case transport.CmdStep:
		if h.requireGame() != nil {
			h.playTurn()
		}

	case transport.CmdPlay:
		if h.requireGame() == nil {
			return true
		}
		for h.playTurn() {
		}

	case transport.CmdMoves:
		if h.requireGame() == nil {
			return true
		}
		turn, moves, err := h.svc.LegalMoves(h.gameID)
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMoves(turn, moves)

	case transport.CmdMove:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: move <from><to>, e.g. move a2a3")
			return true
		}
		v := h.requireGame()
		if v == nil {
			return true
		}
		if h.computerToMove(v) {
			h.view.ShowMessage("It's not a human player's turn. Press ENTER to execute computer move.")
			return true
		}

		result, err := h.svc.MakeHumanMove(h.gameID, strings.Join(cmd.Args, ""))
		if err != nil {
			h.view.ShowError(fmt.Errorf("invalid move: %v", err))
			return true
		}
		h.showResult(result)

	case transport.CmdPlayers:
		if len(cmd.Args) != 2 {
			h.view.ShowMessage("Usage: players <white> <black>")
			return true
		}
		white, err := core.ParsePlayerKind(cmd.Args[0])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		black, err := core.ParsePlayerKind(cmd.Args[1])
		if err != nil {
			h.view.ShowError(err)
			return true
		}
		h.cfg.White, h.cfg.Black = string(white), string(black)
		if h.gameID != "" {
			if err := h.svc.UpdatePlayers(h.gameID, white, black); err != nil {
				h.view.ShowError(err)
				return true
			}
		}
		h.view.ShowMessage(fmt.Sprintf("Players: White=%s Black=%s", white, black))

	case transport.CmdDepth:
		if len(cmd.Args) != 1 {
			h.view.ShowMessage(fmt.Sprintf("Search depth: %d. Usage: depth <n>", h.cfg.Depth))
			return true
		}
		depth, err := strconv.Atoi(cmd.Args[0])
		if err != nil || depth < 1 {
			h.view.ShowMessage("Invalid depth. Usage: depth <n>")
			return true
		}
		h.cfg.Depth = depth
		if h.gameID != "" {
			if err := h.svc.SetDepth(h.gameID, depth); err != nil {
				h.view.ShowError(err)
				return true
			}
		}
		h.view.ShowMessage(fmt.Sprintf("Search depth set to %d", depth))

	case transport.CmdUndo:
		if h.requireGame() == nil {
			return true
		}

		// Parse undo count
		count := 1
		if len(cmd.Args) > 0 {
			if n, err := strconv.Atoi(cmd.Args[0]); err == nil && n > 0 {
				count = n
			} else {
				h.view.ShowMessage("Invalid undo count. Usage: undo [count]")
				return true
			}
		}

		if err := h.svc.UndoMoves(h.gameID, count); err != nil {
			h.view.ShowError(err)
			return true
		}
		if count == 1 {
			h.view.ShowMessage("Move undone")
		} else {
			h.view.ShowMessage(fmt.Sprintf("%d moves undone", count))
		}
		h.displayBoard()

	case transport.CmdColor:
		if len(cmd.Args) < 1 {
			h.view.ShowMessage("Usage: color <off|brown|green|gray>")
			return true
		}

		if err := h.view.SetTheme(cmd.Args[0]); err != nil {
			h.view.ShowError(err)
			return true
		}
		h.view.ShowMessage(fmt.Sprintf("Color theme set to: %s", cmd.Args[0]))
		h.displayBoard()

	case transport.CmdVerbose:
		verbose := h.view.ToggleVerbose()
		h.view.ShowMessage(fmt.Sprintf("Verbose mode: %t", verbose))

	case transport.CmdHistory:
		if v := h.requireGame(); v != nil {
			h.view.ShowGameHistory(v.Moves, v.State)
		}

	case transport.CmdHelp:
		h.view.ShowHelp()
	}

	return true
}

func (h *CLIHandler) requireGame() *service.GameView {
	v := h.current()
	if v == nil {
		h.view.ShowMessage("No active game. Use 'new' or 'load <file>'.")
	}
	return v
}

func (h *CLIHandler) displayBoard() {
	if v := h.current(); v != nil {
		h.view.DisplayBoard(v.Board)
	}
}

// playTurn plays one turn for the side to move and reports whether the game goes on
func (h *CLIHandler) playTurn() bool {
	result, err := h.svc.PlayTurn(h.gameID)
	switch {
	case errors.Is(err, game.ErrGameOver):
		h.view.ShowMessage("The game is over.")
		return false
	case errors.Is(err, io.EOF):
		return false
	case err != nil:
		h.view.ShowError(fmt.Errorf("turn failed: %v", err))
		return false
	}
	return h.showResult(result)
}

func (h *CLIHandler) showResult(result *game.MoveResult) bool {
	h.view.ShowMove(result)
	h.displayBoard()

	if result.GameState != core.StateOngoing {
		h.view.ShowGameOver(result.GameState)
		return false
	}
	return true
}

// Starts a new game with player type selection
func (h *CLIHandler) handleNewGame(cfg service.GameConfig) {
	white, ok := h.askPlayer("White", h.cfg.White)
	if !ok {
		return
	}
	black, ok := h.askPlayer("Black", h.cfg.Black)
	if !ok {
		return
	}

	cfg.White, cfg.Black = white, black
	cfg.Depth = h.cfg.Depth
	cfg.MaxTurns = h.cfg.MaxTurns
	cfg.Seed = h.cfg.Seed
	cfg.Source = "cli"
	cfg.Input = h.view.Input()
	cfg.Output = h.view.Output()

	id, err := h.svc.NewGame(cfg)
	if err != nil {
		h.view.ShowError(fmt.Errorf("could not start the game: %v", err))
		return
	}
	if h.gameID != "" {
		_ = h.svc.DeleteGame(h.gameID)
	}
	h.gameID = id

	h.view.ShowMessage("Game started.")
	h.displayBoard()
}

// askPlayer reads a player kind, falling back to def on an empty answer
func (h *CLIHandler) askPlayer(side, def string) (core.PlayerKind, bool) {
	for {
		line, err := h.view.Input().Line(fmt.Sprintf("Select %s player (human/random/capture/kingcapture/ai) [%s]: ", side, def))
		if err != nil {
			return "", false
		}
		answer := strings.ToLower(strings.TrimSpace(line))
		if answer == "" {
			answer = def
		}
		kind, err := core.ParsePlayerKind(answer)
		if err == nil {
			return kind, true
		}
		h.view.ShowError(err)
	}
}

func loadBoard(path string) (*board.Board, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	b, err := board.NewDecoder(f).Decode()
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return b, nil
}

func saveBoard(path string, b *board.Board) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := board.NewEncoder(f).Encode(b); err != nil {
		f.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return f.Close()
}
