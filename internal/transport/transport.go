// FILE: internal/transport/transport.go
package transport

import (
	"io"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/player"
)

type CommandType int

const (
	CmdNone CommandType = iota
	CmdNew
	CmdLoad
	CmdSave
	CmdPlay
	CmdStep
	CmdMoves
	CmdMove
	CmdPlayers
	CmdDepth
	CmdUndo
	CmdColor
	CmdVerbose
	CmdHistory
	CmdHelp
	CmdQuit
)

// Command is one parsed line of user input
type Command struct {
	Type CommandType
	Args []string
	Raw  string
}

// View abstracts display/output operations
type View interface {
	DisplayBoard(b *board.Board)
	ShowMessage(msg string)
	ShowError(err error)
	ShowMoves(team core.Team, moves []board.Move)
	ShowGameHistory(moves []string, state core.State)
	ShowMove(r *game.MoveResult)
	ShowGameOver(state core.State)
	ShowPrompt(prompt string)
}

// Console is a View that also reads commands. Its Input and Output are shared with human
// players so move prompts and commands come from the same terminal.
type Console interface {
	View
	GetCommand(prompt string) (*Command, error)
	SetTheme(theme string) error
	ToggleVerbose() bool
	ShowHelp()
	Input() player.LineSource
	Output() io.Writer
}
