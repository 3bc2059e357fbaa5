package player

import (
	"math/rand"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

// The random-driven players own their generator and are not safe for concurrent use.

type Random struct {
	base
	rng *rand.Rand
}

func NewRandom(team core.Team, seed int64) *Random {
	return &Random{base: base{team: team, kind: core.PlayerRandom}, rng: rand.New(rand.NewSource(seed))}
}

func (p *Random) Move(_ *board.Board, moves []board.Move) (board.Move, error) {
	if len(moves) == 0 {
		return board.Move{}, ErrNoMoves
	}
	return moves[p.rng.Intn(len(moves))], nil
}

// Capture plays a random capturing move, or a random move when nothing can be taken.
type Capture struct {
	base
	rng *rand.Rand
}

func NewCapture(team core.Team, seed int64) *Capture {
	return &Capture{base: base{team: team, kind: core.PlayerCapture}, rng: rand.New(rand.NewSource(seed))}
}

func (p *Capture) Move(b *board.Board, moves []board.Move) (board.Move, error) {
	shuffled, err := shuffle(p.rng, moves)
	if err != nil {
		return board.Move{}, err
	}
	if m, ok := firstMatch(shuffled, b.IsCapture); ok {
		return m, nil
	}
	return shuffled[0], nil
}

// KingCapture takes a king when it can, otherwise plays like Capture.
type KingCapture struct {
	base
	rng *rand.Rand
}

func NewKingCapture(team core.Team, seed int64) *KingCapture {
	return &KingCapture{base: base{team: team, kind: core.PlayerKingCapture}, rng: rand.New(rand.NewSource(seed))}
}

func (p *KingCapture) Move(b *board.Board, moves []board.Move) (board.Move, error) {
	shuffled, err := shuffle(p.rng, moves)
	if err != nil {
		return board.Move{}, err
	}
	takesKing := func(m board.Move) bool {
		return b.IsCapture(m) && b.At(m.To).Kind() == board.KindKing
	}
	if m, ok := firstMatch(shuffled, takesKing); ok {
		return m, nil
	}
	if m, ok := firstMatch(shuffled, b.IsCapture); ok {
		return m, nil
	}
	return shuffled[0], nil
}

func shuffle(rng *rand.Rand, moves []board.Move) ([]board.Move, error) {
	if len(moves) == 0 {
		return nil, ErrNoMoves
	}
	out := make([]board.Move, len(moves))
	copy(out, moves)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out, nil
}

func firstMatch(moves []board.Move, pred func(board.Move) bool) (board.Move, bool) {
	for _, m := range moves {
		if pred(m) {
			return m, true
		}
	}
	return board.Move{}, false
}
