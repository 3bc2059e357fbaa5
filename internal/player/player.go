package player

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/engine"
)

var (
	ErrInvalidMove = errors.New("move is not legal in this position")
	ErrResigned    = errors.New("player resigned")
	ErrNoMoves     = errors.New("no legal moves")
)

// Player chooses one of the legal moves for the position on b. Implementations must not
// modify b and must return a member of moves unless they return an error.
type Player interface {
	Move(b *board.Board, moves []board.Move) (board.Move, error)
	Team() core.Team
	Kind() core.PlayerKind
	Name() string
}

type Options struct {
	Depth int   // search depth for ai players; 0 means engine.DefaultDepth
	Seed  int64 // 0 seeds from the clock
	In    LineSource
	Out   io.Writer
}

// New builds the player of the given kind for team.
func New(kind core.PlayerKind, team core.Team, opts Options) (Player, error) {
	if team != core.TeamWhite && team != core.TeamBlack {
		return nil, fmt.Errorf("player for team %v", team)
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	switch kind {
	case core.PlayerRandom:
		return NewRandom(team, seed), nil
	case core.PlayerCapture:
		return NewCapture(team, seed), nil
	case core.PlayerKingCapture:
		return NewKingCapture(team, seed), nil
	case core.PlayerAI:
		return NewAI(team, opts.Depth), nil
	case core.PlayerHuman:
		if opts.In == nil {
			return nil, fmt.Errorf("human player for %v needs an input source", team)
		}
		out := opts.Out
		if out == nil {
			out = os.Stdout
		}
		return NewHuman(team, opts.In, out), nil
	default:
		return nil, fmt.Errorf("unknown player kind %q", kind)
	}
}

type base struct {
	team core.Team
	kind core.PlayerKind
}

func (p base) Team() core.Team       { return p.team }
func (p base) Kind() core.PlayerKind { return p.kind }
func (p base) Name() string          { return fmt.Sprintf("%s (%s)", p.team, p.kind) }

// AI searches with engine.Searcher.
type AI struct {
	base
	searcher engine.Searcher
	last     engine.Result
}

func NewAI(team core.Team, depth int) *AI {
	return &AI{
		base:     base{team: team, kind: core.PlayerAI},
		searcher: engine.NewSearcher(team, depth),
	}
}

func (p *AI) Move(b *board.Board, moves []board.Move) (board.Move, error) {
	if len(moves) == 0 {
		return board.Move{}, ErrNoMoves
	}
	res, err := p.searcher.Search(b, moves)
	if err != nil {
		return board.Move{}, err
	}
	p.last = res
	return res.Move, nil
}

func (p *AI) Depth() int {
	if p.searcher.Depth <= 0 {
		return engine.DefaultDepth
	}
	return p.searcher.Depth
}

// SetDepth changes the search depth for later moves.
func (p *AI) SetDepth(depth int) { p.searcher.Depth = depth }

// LastResult reports the search behind the most recent move.
func (p *AI) LastResult() engine.Result { return p.last }
