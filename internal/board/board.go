// FILE: internal/board/board.go
package board

import (
	"fmt"

	"chesssim/internal/core"
)

const (
	MinWidth  = 2
	MaxWidth  = 26
	MinHeight = 2
	MaxHeight = 99

	StandardSize = 8
)

// Board owns the game state: a grid of catalog pieces and the side to move.
// Copies made with Clone share nothing mutable with the original.
type Board struct {
	width, height int
	squares       []Piece // row-major, index y*width+x
	turn          core.Team
}

// New returns a board of the given size in the starting layout.
func New(width, height int) (*Board, error) {
	if width < MinWidth || width > MaxWidth || height < MinHeight || height > MaxHeight {
		return nil, fmt.Errorf("%w: %dx%d (width %d-%d, height %d-%d)",
			ErrDimensions, width, height, MinWidth, MaxWidth, MinHeight, MaxHeight)
	}
	b := &Board{width: width, height: height}
	b.Reset()
	return b, nil
}

// NewStandard returns an 8x8 board in the starting layout.
func NewStandard() *Board {
	b, _ := New(StandardSize, StandardSize)
	return b
}

// newEmpty allocates an all-empty board without validating dimensions.
func newEmpty(width, height int) *Board {
	return &Board{
		width:   width,
		height:  height,
		squares: make([]Piece, width*height),
		turn:    core.TeamWhite,
	}
}

func (b *Board) Width() int  { return b.width }
func (b *Board) Height() int { return b.height }

func (b *Board) Turn() core.Team { return b.turn }

func (b *Board) SetTurn(t core.Team) { b.turn = t }

func (b *Board) index(c Cell) int { return c.Y*b.width + c.X }

// Contains is the single authority on cell validity.
func (b *Board) Contains(c Cell) bool {
	return c.X >= 0 && c.X < b.width && c.Y >= 0 && c.Y < b.height
}

// At returns the piece on c, or Empty when c is off the board.
func (b *Board) At(c Cell) Piece {
	if !b.Contains(c) {
		return Empty
	}
	return b.squares[b.index(c)]
}

// Set places p on c. Used to build custom positions; games mutate only through MakeMove.
func (b *Board) Set(c Cell, p Piece) error {
	if !b.Contains(c) {
		return fmt.Errorf("set %s: %w", c, ErrOutOfBounds)
	}
	if !p.Valid() {
		return fmt.Errorf("set %s: %w: %d", c, ErrUnknownPiece, p)
	}
	b.squares[b.index(c)] = p
	return nil
}

// Clear empties every cell and hands the move to White.
func (b *Board) Clear() {
	b.squares = make([]Piece, b.width*b.height)
	b.turn = core.TeamWhite
}

// Reset restores the starting layout: pawns on the second ranks (when the board has at least
// four rows), king and queen in the middle of the back ranks, then bishops, knights and rooks
// filled outward while columns remain.
func (b *Board) Reset() {
	b.Clear()

	back, front := 0, b.height-1
	if b.height >= 4 {
		for x := 0; x < b.width; x++ {
			b.squares[b.index(Cell{x, 1})] = WhitePawn
			b.squares[b.index(Cell{x, b.height - 2})] = BlackPawn
		}
	}

	mid := b.width / 2
	b.squares[b.index(Cell{mid, back})] = WhiteKing
	b.squares[b.index(Cell{mid, front})] = BlackKing
	b.squares[b.index(Cell{mid - 1, back})] = WhiteQueen
	b.squares[b.index(Cell{mid - 1, front})] = BlackQueen

	outward := [][2]Piece{
		{WhiteBishop, BlackBishop},
		{WhiteKnight, BlackKnight},
		{WhiteRook, BlackRook},
	}
	for i, pair := range outward {
		right := mid + i + 1
		if right >= b.width {
			break
		}
		b.squares[b.index(Cell{right, back})] = pair[0]
		b.squares[b.index(Cell{right, front})] = pair[1]

		left := mid - 2 - i
		if left < 0 {
			break
		}
		b.squares[b.index(Cell{left, back})] = pair[0]
		b.squares[b.index(Cell{left, front})] = pair[1]
	}
}

// Clone returns an independent copy for exploring hypothetical positions.
func (b *Board) Clone() *Board {
	nb := *b
	nb.squares = make([]Piece, len(b.squares))
	copy(nb.squares, b.squares)
	return &nb
}

// Equal reports whether both boards have the same size, pieces and side to move.
func (b *Board) Equal(o *Board) bool {
	if b.width != o.width || b.height != o.height || b.turn != o.turn {
		return false
	}
	for i := range b.squares {
		if b.squares[i] != o.squares[i] {
			return false
		}
	}
	return true
}

// Moves generates every move for the side to move, scanning rows from y=0 and columns from x=0.
// A move that leaves the board is a catalog defect and is reported as ErrRuleViolation.
func (b *Board) Moves() ([]Move, error) {
	var moves []Move
	for y := 0; y < b.height; y++ {
		for x := 0; x < b.width; x++ {
			p := b.squares[b.index(Cell{x, y})]
			if p == Empty || p.Team() != b.turn {
				continue
			}
			moves = p.Rule().Generate(b, Cell{x, y}, moves)
		}
	}
	for _, m := range moves {
		if !b.Contains(m.From) || !b.Contains(m.To) {
			return nil, &MoveError{Op: "generate", Move: m, Err: ErrRuleViolation}
		}
	}
	return moves, nil
}

// MakeMove applies m through the rule of the piece standing on m.From.
// Off-board cells are rejected before anything changes.
func (b *Board) MakeMove(m Move) error {
	if !b.Contains(m.From) || !b.Contains(m.To) {
		return &MoveError{Op: "make move", Move: m, Err: ErrOutOfBounds}
	}
	b.At(m.From).Rule().Apply(b, m)
	return nil
}

// ClassicalMove is the default apply rule: the piece on From replaces whatever stands on To,
// From becomes empty and the turn passes. Callers guarantee both cells are on the board.
func (b *Board) ClassicalMove(m Move) {
	from, to := b.index(m.From), b.index(m.To)
	b.squares[to] = b.squares[from]
	b.squares[from] = Empty
	b.turn = b.turn.Opponent()
}

// IsCapture reports whether m lands on an opposing piece.
func (b *Board) IsCapture(m Move) bool {
	return b.At(m.From).IsOpponent(b.At(m.To))
}

func (b *Board) kings() (white, black bool) {
	for _, p := range b.squares {
		switch p {
		case WhiteKing:
			white = true
		case BlackKing:
			black = true
		}
	}
	return white, black
}

// Winner returns the side whose opponent has lost its king, or TeamNone while both kings
// stand. A board with no king at all also reports TeamNone; see Outcome.
func (b *Board) Winner() core.Team {
	white, black := b.kings()
	switch {
	case white && black:
		return core.TeamNone
	case !white && !black:
		return core.TeamNone
	case !white:
		return core.TeamBlack
	default:
		return core.TeamWhite
	}
}

// Outcome classifies the position; a board with neither king is a draw.
func (b *Board) Outcome() core.State {
	white, black := b.kings()
	switch {
	case white && black:
		return core.StateOngoing
	case !white && !black:
		return core.StateDraw
	case !white:
		return core.StateBlackWins
	default:
		return core.StateWhiteWins
	}
}

// Count returns how many cells hold p.
func (b *Board) Count(p Piece) int {
	n := 0
	for _, q := range b.squares {
		if q == p {
			n++
		}
	}
	return n
}
