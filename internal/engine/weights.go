package engine

import (
	"chesssim/internal/board"
	"chesssim/internal/core"
)

const (
	KingWeight     = 100
	FallbackWeight = 5
)

// Weights maps piece identities to material values. Pieces missing from Values, such as the
// cannon, are worth Fallback.
type Weights struct {
	Values   map[board.Piece]int
	Fallback int
}

func DefaultWeights() Weights {
	values := map[board.Kind]int{
		board.KindPawn:   1,
		board.KindKnight: 3,
		board.KindBishop: 3,
		board.KindRook:   5,
		board.KindQueen:  9,
		board.KindKing:   KingWeight,
	}
	w := Weights{Values: make(map[board.Piece]int, 2*len(values)), Fallback: FallbackWeight}
	for k, v := range values {
		w.Values[board.Make(core.TeamWhite, k)] = v
		w.Values[board.Make(core.TeamBlack, k)] = v
	}
	return w
}

func (w Weights) Weight(p board.Piece) int {
	if p == board.Empty {
		return 0
	}
	if v, ok := w.Values[p]; ok {
		return v
	}
	return w.Fallback
}

// Material sums the weights of every piece team owns on b.
func (w Weights) Material(b *board.Board, team core.Team) int {
	total := 0
	for y := 0; y < b.Height(); y++ {
		for x := 0; x < b.Width(); x++ {
			if p := b.At(board.Cell{X: x, Y: y}); p.Team() == team {
				total += w.Weight(p)
			}
		}
	}
	return total
}

// Evaluate scores b from team's side: its material minus the opponent's.
func (w Weights) Evaluate(b *board.Board, team core.Team) int {
	diff := w.Material(b, core.TeamWhite) - w.Material(b, core.TeamBlack)
	if team == core.TeamBlack {
		return -diff
	}
	return diff
}
