package board

import (
	"fmt"

	"chesssim/internal/core"
)

// Kind is the movement family of a piece.
type Kind int8

const (
	KindNone Kind = iota
	KindPawn
	KindKnight
	KindBishop
	KindRook
	KindQueen
	KindKing
	KindCannon
	numKinds
)

func (k Kind) String() string {
	switch k {
	case KindPawn:
		return "pawn"
	case KindKnight:
		return "knight"
	case KindBishop:
		return "bishop"
	case KindRook:
		return "rook"
	case KindQueen:
		return "queen"
	case KindKing:
		return "king"
	case KindCannon:
		return "cannon"
	default:
		return "empty"
	}
}

// Piece identifies a catalog entry: 0 is the empty square, >0 white, <0 black, abs = Kind.
// Two cells hold the same piece iff their Piece values are equal.
type Piece int8

const Empty Piece = 0

// Catalog entries.
const (
	WhitePawn   = Piece(KindPawn)
	WhiteKnight = Piece(KindKnight)
	WhiteBishop = Piece(KindBishop)
	WhiteRook   = Piece(KindRook)
	WhiteQueen  = Piece(KindQueen)
	WhiteKing   = Piece(KindKing)
	WhiteCannon = Piece(KindCannon)

	BlackPawn   = -Piece(KindPawn)
	BlackKnight = -Piece(KindKnight)
	BlackBishop = -Piece(KindBishop)
	BlackRook   = -Piece(KindRook)
	BlackQueen  = -Piece(KindQueen)
	BlackKing   = -Piece(KindKing)
	BlackCannon = -Piece(KindCannon)
)

func Make(team core.Team, k Kind) Piece {
	if k == KindNone || team == core.TeamNone {
		return Empty
	}
	if team == core.TeamWhite {
		return Piece(k)
	}
	return -Piece(k)
}

func (p Piece) Kind() Kind {
	if p < 0 {
		return Kind(-p)
	}
	return Kind(p)
}

func (p Piece) Team() core.Team {
	switch {
	case p > 0:
		return core.TeamWhite
	case p < 0:
		return core.TeamBlack
	default:
		return core.TeamNone
	}
}

// IsOpponent reports whether other belongs to the opposing side. Empty is nobody's opponent.
func (p Piece) IsOpponent(other Piece) bool {
	return (p > 0 && other < 0) || (p < 0 && other > 0)
}

// Valid reports whether p is a catalog entry.
func (p Piece) Valid() bool {
	k := p.Kind()
	return k >= 0 && k < numKinds
}

func (p Piece) Rule() Rule {
	if !p.Valid() {
		return emptyRule{}
	}
	return rules[p.Kind()]
}

func (p Piece) Glyph() rune {
	if g, ok := pieceGlyphs[p]; ok {
		return g
	}
	return '?'
}

func (p Piece) String() string {
	if p == Empty {
		return "empty"
	}
	return fmt.Sprintf("%s %s", p.Team(), p.Kind())
}

const EmptyGlyph = '.'

var glyphPieces = map[rune]Piece{
	EmptyGlyph: Empty,
	'♔':        WhiteKing,
	'♚':        BlackKing,
	'♕':        WhiteQueen,
	'♛':        BlackQueen,
	'♗':        WhiteBishop,
	'♝':        BlackBishop,
	'♘':        WhiteKnight,
	'♞':        BlackKnight,
	'♖':        WhiteRook,
	'♜':        BlackRook,
	'♙':        WhitePawn,
	'♟':        BlackPawn,
	'▼':        WhiteCannon,
	'▽':        BlackCannon,
}

var pieceGlyphs = func() map[Piece]rune {
	m := make(map[Piece]rune, len(glyphPieces))
	for g, p := range glyphPieces {
		m[p] = g
	}
	return m
}()

// PieceFromGlyph looks a glyph up in the catalog.
func PieceFromGlyph(g rune) (Piece, error) {
	p, ok := glyphPieces[g]
	if !ok {
		return Empty, fmt.Errorf("%w: %q", ErrUnknownGlyph, g)
	}
	return p, nil
}
