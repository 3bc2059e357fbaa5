package engine

import (
	"errors"
	"fmt"
	"math"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

const DefaultDepth = 3

var ErrNoMoves = errors.New("engine: no legal moves to search")

// Searcher picks moves for Team by depth-limited minimax over board copies.
// A Searcher holds no state between calls and is safe for concurrent use.
type Searcher struct {
	Team    core.Team
	Depth   int
	Weights Weights
}

func NewSearcher(team core.Team, depth int) Searcher {
	return Searcher{Team: team, Depth: depth, Weights: DefaultWeights()}
}

type Result struct {
	Move  board.Move
	Index int // position of Move in the list given to Search
	Score int
	Nodes int
}

// Search returns the best of moves for the position on b. b is never modified.
func (s Searcher) Search(b *board.Board, moves []board.Move) (Result, error) {
	if len(moves) == 0 {
		return Result{}, ErrNoMoves
	}
	st := s.newSearch()
	score, idx, err := st.minimax(b.Clone(), moves, st.depth, s.Team)
	if err != nil {
		return Result{}, fmt.Errorf("search: %w", err)
	}
	return Result{Move: moves[idx], Index: idx, Score: score, Nodes: st.nodes}, nil
}

// Minimax scores the position with cur to move. The returned index refers to moves on a
// maximizing ply and to the capture subset on a minimizing ply that has captures.
func (s Searcher) Minimax(b *board.Board, moves []board.Move, depth int, cur core.Team) (score, index int, err error) {
	return s.newSearch().minimax(b, moves, depth, cur)
}

type search struct {
	team    core.Team
	depth   int
	weights Weights
	nodes   int
}

func (s Searcher) newSearch() *search {
	st := &search{team: s.Team, depth: s.Depth, weights: s.Weights}
	if st.depth <= 0 {
		st.depth = DefaultDepth
	}
	if st.weights.Values == nil {
		st.weights = DefaultWeights()
	}
	return st
}

func (s *search) minimax(b *board.Board, moves []board.Move, depth int, cur core.Team) (int, int, error) {
	s.nodes++
	// A side with no moves left is scored where it stands.
	if depth == 0 || b.Outcome() != core.StateOngoing || len(moves) == 0 {
		return s.weights.Evaluate(b, s.team), 0, nil
	}

	maximize := cur == s.team
	choices := moves
	best := math.MaxInt
	if maximize {
		best = math.MinInt
	} else if caps := captures(b, moves); len(caps) > 0 {
		// The opponent is assumed to take material whenever it can.
		choices = caps
	}

	bestIdx := 0
	for i, m := range choices {
		child := b.Clone()
		if err := child.MakeMove(m); err != nil {
			return 0, 0, err
		}
		next, err := child.Moves()
		if err != nil {
			return 0, 0, err
		}
		score, _, err := s.minimax(child, next, depth-1, cur.Opponent())
		if err != nil {
			return 0, 0, err
		}
		if (maximize && score > best) || (!maximize && score < best) {
			best, bestIdx = score, i
		}
	}
	return best, bestIdx, nil
}

func captures(b *board.Board, moves []board.Move) []board.Move {
	var caps []board.Move
	for _, m := range moves {
		if b.IsCapture(m) {
			caps = append(caps, m)
		}
	}
	return caps
}
