package board

import "chesssim/internal/core"

// Rule is the behaviour shared by every piece of a kind. Generate appends the moves of the
// piece standing on from; Apply performs a move of that piece and must pass the turn.
// Generated moves stay on the board and never land on a piece of the mover's own team.
type Rule interface {
	Generate(b *Board, from Cell, moves []Move) []Move
	Apply(b *Board, m Move)
}

var rules = [numKinds]Rule{
	KindNone:   emptyRule{},
	KindPawn:   pawnRule{},
	KindKnight: leaperRule{jumps: knightJumps},
	KindBishop: sliderRule{dirs: diagonalDirs},
	KindRook:   sliderRule{dirs: orthogonalDirs},
	KindQueen:  sliderRule{dirs: allDirs},
	KindKing:   leaperRule{jumps: allDirs},
	KindCannon: cannonRule{},
}

var (
	orthogonalDirs = []Cell{{0, 1}, {-1, 0}, {1, 0}, {0, -1}}
	diagonalDirs   = []Cell{{-1, 1}, {1, 1}, {-1, -1}, {1, -1}}
	allDirs        = []Cell{{-1, 1}, {0, 1}, {1, 1}, {-1, 0}, {1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	knightJumps    = []Cell{{-1, 2}, {1, 2}, {-2, 1}, {2, 1}, {-2, -1}, {2, -1}, {-1, -2}, {1, -2}}
)

func step(c, d Cell, n int) Cell {
	return Cell{c.X + n*d.X, c.Y + n*d.Y}
}

// classical supplies the default Apply.
type classical struct{}

func (classical) Apply(b *Board, m Move) { b.ClassicalMove(m) }

type emptyRule struct{ classical }

func (emptyRule) Generate(_ *Board, _ Cell, moves []Move) []Move { return moves }

// leaperRule moves exactly one offset from its list (king steps, knight jumps).
type leaperRule struct {
	classical
	jumps []Cell
}

func (r leaperRule) Generate(b *Board, from Cell, moves []Move) []Move {
	me := b.At(from)
	for _, j := range r.jumps {
		to := step(from, j, 1)
		if !b.Contains(to) {
			continue
		}
		if dst := b.At(to); dst == Empty || me.IsOpponent(dst) {
			moves = append(moves, Move{from, to})
		}
	}
	return moves
}

// sliderRule runs along each direction until the edge, stopping on the first occupied cell
// and capturing it when it is an opponent.
type sliderRule struct {
	classical
	dirs []Cell
}

func (r sliderRule) Generate(b *Board, from Cell, moves []Move) []Move {
	me := b.At(from)
	for _, d := range r.dirs {
		for n := 1; ; n++ {
			to := step(from, d, n)
			if !b.Contains(to) {
				break
			}
			dst := b.At(to)
			if dst == Empty {
				moves = append(moves, Move{from, to})
				continue
			}
			if me.IsOpponent(dst) {
				moves = append(moves, Move{from, to})
			}
			break
		}
	}
	return moves
}

// pawnRule steps one row toward the enemy side onto an empty cell and captures one row ahead
// diagonally. There is no double step and no promotion.
type pawnRule struct{ classical }

func pawnDir(t core.Team) int {
	if t == core.TeamBlack {
		return -1
	}
	return 1
}

func (pawnRule) Generate(b *Board, from Cell, moves []Move) []Move {
	me := b.At(from)
	dy := pawnDir(me.Team())

	if to := (Cell{from.X, from.Y + dy}); b.Contains(to) && b.At(to) == Empty {
		moves = append(moves, Move{from, to})
	}
	for _, dx := range []int{-1, 1} {
		to := Cell{from.X + dx, from.Y + dy}
		if b.Contains(to) && me.IsOpponent(b.At(to)) {
			moves = append(moves, Move{from, to})
		}
	}
	return moves
}

// cannonRule slides like a rook onto empty cells, and captures by jumping over exactly one
// piece of either team to hit the next occupied cell beyond it.
type cannonRule struct{ classical }

func (cannonRule) Generate(b *Board, from Cell, moves []Move) []Move {
	me := b.At(from)
	var screened []Cell
	for _, d := range orthogonalDirs {
		for n := 1; ; n++ {
			to := step(from, d, n)
			if !b.Contains(to) {
				break
			}
			if b.At(to) != Empty {
				screened = append(screened, d)
				break
			}
			moves = append(moves, Move{from, to})
		}
	}

	for _, d := range screened {
		to := step(from, d, 1)
		for b.Contains(to) && b.At(to) == Empty {
			to = step(to, d, 1)
		}
		to = step(to, d, 1)
		for b.Contains(to) && b.At(to) == Empty {
			to = step(to, d, 1)
		}
		if b.Contains(to) && me.IsOpponent(b.At(to)) {
			moves = append(moves, Move{from, to})
		}
	}
	return moves
}
