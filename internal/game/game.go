// FILE: internal/game/game.go
package game

import (
	"context"
	"errors"
	"fmt"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/player"
)

var ErrGameOver = errors.New("game is over")

type Snapshot struct {
	Board        *board.Board // position after PreviousMove
	PreviousMove string       // empty for the initial position
}

// MoveResult describes one played turn.
type MoveResult struct {
	Number    int // 1-based turn count
	Move      board.Move
	Player    core.Team
	Kind      core.PlayerKind
	Captured  board.Piece
	GameState core.State
	Stalled   bool // the side to move had no legal moves; nothing was played
	Resigned  bool
	Score     int // search details, ai players only
	Depth     int
	Nodes     int
}

type Options struct {
	MaxTurns int // 0 means unlimited
}

type Game struct {
	board      *board.Board
	snapshots  []Snapshot
	players    map[core.Team]player.Player
	state      core.State
	maxTurns   int
	lastResult *MoveResult

	// OnMove, when set, observes every completed turn.
	OnMove func(*MoveResult)
}

func New(b *board.Board, white, black player.Player, opts Options) (*Game, error) {
	if white == nil || black == nil {
		return nil, errors.New("game needs two players")
	}
	if white.Team() != core.TeamWhite || black.Team() != core.TeamBlack {
		return nil, fmt.Errorf("players play %v and %v, want White and Black", white.Team(), black.Team())
	}
	g := &Game{
		board:     b,
		snapshots: []Snapshot{{Board: b.Clone()}},
		players: map[core.Team]player.Player{
			core.TeamWhite: white,
			core.TeamBlack: black,
		},
		maxTurns: opts.MaxTurns,
	}
	g.state = b.Outcome()
	return g, nil
}

// Board returns the live board. Callers must not mutate it.
func (g *Game) Board() *board.Board { return g.board }

func (g *Game) State() core.State { return g.state }

func (g *Game) Turns() int { return len(g.snapshots) - 1 }

func (g *Game) MaxTurns() int { return g.maxTurns }

func (g *Game) LastResult() *MoveResult { return g.lastResult }

func (g *Game) Player(t core.Team) player.Player { return g.players[t] }

func (g *Game) NextPlayer() player.Player { return g.players[g.board.Turn()] }

// SetPlayer swaps the policy for p's team mid-game.
func (g *Game) SetPlayer(p player.Player) {
	g.players[p.Team()] = p
}

// LegalMoves lists the moves for the side to move.
func (g *Game) LegalMoves() ([]board.Move, error) {
	return g.board.Moves()
}

// Moves returns the played moves in order.
func (g *Game) Moves() []string {
	moves := make([]string, 0, len(g.snapshots)-1)
	for _, s := range g.snapshots[1:] {
		moves = append(moves, s.PreviousMove)
	}
	return moves
}

// PlayTurn asks the side to move for a move and applies it. A move outside the legal list is
// rejected with player.ErrInvalidMove and leaves the game untouched.
func (g *Game) PlayTurn() (*MoveResult, error) {
	if g.state != core.StateOngoing {
		return nil, ErrGameOver
	}
	moves, err := g.board.Moves()
	if err != nil {
		return nil, err
	}
	mover := g.board.Turn()
	p := g.players[mover]

	if len(moves) == 0 {
		g.state = core.StateDraw
		return g.finish(&MoveResult{Number: g.Turns(), Player: mover, Kind: p.Kind(), Stalled: true}), nil
	}

	m, err := p.Move(g.board, moves)
	if errors.Is(err, player.ErrResigned) {
		g.state = core.StateFromWinner(mover.Opponent())
		return g.finish(&MoveResult{Number: g.Turns(), Player: mover, Kind: p.Kind(), Resigned: true}), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", p.Name(), err)
	}
	if !board.ContainsMove(moves, m) {
		return nil, fmt.Errorf("%s chose %s: %w", p.Name(), m, player.ErrInvalidMove)
	}
	return g.apply(m, p)
}

// ApplyMove plays m for the side to move without consulting its player.
func (g *Game) ApplyMove(m board.Move) (*MoveResult, error) {
	if g.state != core.StateOngoing {
		return nil, ErrGameOver
	}
	moves, err := g.board.Moves()
	if err != nil {
		return nil, err
	}
	if !board.ContainsMove(moves, m) {
		return nil, fmt.Errorf("%s: %w", m, player.ErrInvalidMove)
	}
	return g.apply(m, g.players[g.board.Turn()])
}

func (g *Game) apply(m board.Move, p player.Player) (*MoveResult, error) {
	captured := g.board.At(m.To)
	if err := g.board.MakeMove(m); err != nil {
		return nil, err
	}
	g.snapshots = append(g.snapshots, Snapshot{Board: g.board.Clone(), PreviousMove: m.String()})

	g.state = g.board.Outcome()
	if g.state == core.StateOngoing && g.maxTurns > 0 && g.Turns() >= g.maxTurns {
		g.state = core.StateDraw
	}

	result := &MoveResult{
		Number:   g.Turns(),
		Move:     m,
		Player:   p.Team(),
		Kind:     p.Kind(),
		Captured: captured,
	}
	if ai, ok := p.(*player.AI); ok && ai.LastResult().Move == m {
		res := ai.LastResult()
		result.Score, result.Depth, result.Nodes = res.Score, ai.Depth(), res.Nodes
	}
	return g.finish(result), nil
}

func (g *Game) finish(r *MoveResult) *MoveResult {
	r.GameState = g.state
	g.lastResult = r
	if g.OnMove != nil {
		g.OnMove(r)
	}
	return r
}

// Run plays turns until the game ends or ctx is done.
func (g *Game) Run(ctx context.Context) (core.State, error) {
	for g.state == core.StateOngoing {
		if err := ctx.Err(); err != nil {
			return g.state, err
		}
		if _, err := g.PlayTurn(); err != nil {
			return g.state, err
		}
	}
	return g.state, nil
}

func (g *Game) UndoMoves(count int) error {
	if count < 1 {
		return fmt.Errorf("invalid undo count: %d", count)
	}

	availableMoves := len(g.snapshots) - 1
	if availableMoves < count {
		return fmt.Errorf("cannot undo %d moves: only %d moves available", count, availableMoves)
	}

	g.snapshots = g.snapshots[:len(g.snapshots)-count]
	restored := g.snapshots[len(g.snapshots)-1].Board.Clone()
	*g.board = *restored
	g.state = g.board.Outcome()
	g.lastResult = nil
	return nil
}
