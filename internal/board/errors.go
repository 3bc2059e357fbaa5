package board

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfBounds is returned when a supplied move touches a cell outside the board.
	ErrOutOfBounds = errors.New("move leaves the board")
	// ErrRuleViolation means a piece rule generated an off-board move. It is a catalog defect,
	// never a result of user input.
	ErrRuleViolation  = errors.New("piece rule generated a move off the board")
	ErrUnknownGlyph   = errors.New("unknown piece glyph")
	ErrUnknownPiece   = errors.New("piece is not in the catalog")
	ErrMalformedBoard = errors.New("malformed board text")
	ErrDimensions     = errors.New("board dimensions out of range")
	ErrBadNotation    = errors.New("bad move notation")
)

// MoveError reports the move that caused a failure.
type MoveError struct {
	Op   string
	Move Move
	Err  error
}

func (e *MoveError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Move, e.Err)
}

func (e *MoveError) Unwrap() error { return e.Err }
