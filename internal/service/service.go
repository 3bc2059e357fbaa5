// FILE: internal/service/service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/player"
	"chesssim/internal/storage"

	"github.com/google/uuid"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrNotHumanTurn    = errors.New("side to move is not a human player")
	ErrNotComputerTurn = errors.New("side to move is not a computer player")
)

// errRemoteInput is what a service-hosted human player reports if asked to pick a move itself.
var errRemoteInput = errors.New("moves for this player arrive through MakeHumanMove")

type remoteInput struct{}

func (remoteInput) Line(string) (string, error) { return "", errRemoteInput }

// GameConfig describes a game to create. Zero values fall back to an 8x8 board and depth 3.
type GameConfig struct {
	White    core.PlayerKind
	Black    core.PlayerKind
	Width    int
	Height   int
	Depth    int
	MaxTurns int
	Board    *board.Board // custom start position; overrides Width and Height
	Seed     int64
	Source   string // recorded with the game: "api", "cli" or "sim"
	// Input feeds human players; nil leaves their moves to MakeHumanMove.
	Input  player.LineSource
	Output io.Writer
}

// GameView is a consistent copy of a game's state for presentation.
type GameView struct {
	ID         string
	Board      *board.Board
	State      core.State
	Moves      []string
	White      core.PlayerKind
	Black      core.PlayerKind
	MaxTurns   int
	LastResult *game.MoveResult
}

type entry struct {
	mu     sync.Mutex
	game   *game.Game
	depth  int
	input  player.LineSource
	output io.Writer
}

// Service is the state manager for live games with optional persistence
type Service struct {
	games  map[string]*entry
	mu     sync.RWMutex
	store  *storage.Store // nil if persistence disabled
	waiter *WaitRegistry
}

// New creates a new service instance with optional storage
func New(store *storage.Store) *Service {
	return &Service{
		games:  make(map[string]*entry),
		store:  store,
		waiter: NewWaitRegistry(),
	}
}

func buildBoard(cfg GameConfig) (*board.Board, error) {
	if cfg.Board != nil {
		return cfg.Board.Clone(), nil
	}
	w, h := cfg.Width, cfg.Height
	if w == 0 {
		w = board.StandardSize
	}
	if h == 0 {
		h = board.StandardSize
	}
	return board.New(w, h)
}

func newPlayers(cfg GameConfig) (white, black player.Player, err error) {
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	opts := player.Options{Depth: cfg.Depth, In: remoteInput{}, Out: io.Discard}
	if cfg.Input != nil {
		opts.In = cfg.Input
	}
	if cfg.Output != nil {
		opts.Out = cfg.Output
	}

	opts.Seed = seed
	if white, err = player.New(cfg.White, core.TeamWhite, opts); err != nil {
		return nil, nil, err
	}
	opts.Seed = seed + 1
	if black, err = player.New(cfg.Black, core.TeamBlack, opts); err != nil {
		return nil, nil, err
	}
	return white, black, nil
}

// NewGame creates and registers a game, returning its id
func (s *Service) NewGame(cfg GameConfig) (string, error) {
	b, err := buildBoard(cfg)
	if err != nil {
		return "", err
	}
	white, black, err := newPlayers(cfg)
	if err != nil {
		return "", err
	}
	g, err := game.New(b, white, black, game.Options{MaxTurns: cfg.MaxTurns})
	if err != nil {
		return "", err
	}

	depth := depthOrDefault(cfg.Depth)
	if cfg.Source == "" {
		cfg.Source = "api"
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.generateGameID()
	s.games[id] = &entry{game: g, depth: depth, input: cfg.Input, output: cfg.Output}
	g.OnMove = s.moveObserver(id, g)

	if s.store != nil {
		s.store.RecordNewGame(storage.GameRecord{
			GameID:       id,
			Source:       cfg.Source,
			Width:        b.Width(),
			Height:       b.Height(),
			InitialBoard: b.String(),
			WhiteKind:    string(cfg.White),
			BlackKind:    string(cfg.Black),
			Depth:        depth,
			StartTimeUTC: time.Now().UTC(),
		})
	}
	return id, nil
}

// generateGameID returns an unused UUID; callers hold s.mu
func (s *Service) generateGameID() string {
	for {
		id := uuid.New().String()
		if _, exists := s.games[id]; !exists {
			return id
		}
	}
}

// moveObserver persists each turn and wakes waiting clients
func (s *Service) moveObserver(id string, g *game.Game) func(*game.MoveResult) {
	return func(r *game.MoveResult) {
		if s.store != nil {
			recordTurn(s.store, id, g, r)
		}
		s.waiter.NotifyGame(id)
	}
}

func recordTurn(store *storage.Store, id string, g *game.Game, r *game.MoveResult) {
	now := time.Now().UTC()
	if !r.Stalled && !r.Resigned {
		captured := ""
		if r.Captured != board.Empty {
			captured = string(r.Captured.Glyph())
		}
		store.RecordMove(storage.MoveRecord{
			GameID:         id,
			MoveNumber:     r.Number,
			Move:           r.Move.String(),
			BoardAfterMove: g.Board().String(),
			PlayerColor:    r.Player.Code(),
			PlayerKind:     string(r.Kind),
			Captured:       captured,
			MoveTimeUTC:    now,
		})
	}
	if r.GameState != core.StateOngoing {
		store.RecordResult(storage.ResultRecord{
			GameID:     id,
			State:      r.GameState.Key(),
			Winner:     r.GameState.Winner().Code(),
			Turns:      g.Turns(),
			FinalBoard: g.Board().String(),
			EndTimeUTC: now,
		})
	}
}

func (s *Service) entry(id string) (*entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.games[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	return e, nil
}

// GetGame returns a snapshot of the game
func (s *Service) GetGame(id string) (*GameView, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return view(id, e.game), nil
}

func view(id string, g *game.Game) *GameView {
	v := &GameView{
		ID:       id,
		Board:    g.Board().Clone(),
		State:    g.State(),
		Moves:    g.Moves(),
		White:    g.Player(core.TeamWhite).Kind(),
		Black:    g.Player(core.TeamBlack).Kind(),
		MaxTurns: g.MaxTurns(),
	}
	if r := g.LastResult(); r != nil {
		last := *r
		v.LastResult = &last
	}
	return v
}

// LegalMoves lists the moves available to the side to move
func (s *Service) LegalMoves(id string) (core.Team, []board.Move, error) {
	e, err := s.entry(id)
	if err != nil {
		return core.TeamNone, nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.State() != core.StateOngoing {
		return e.game.Board().Turn(), nil, nil
	}
	moves, err := e.game.LegalMoves()
	return e.game.Board().Turn(), moves, err
}

// MakeHumanMove plays a move given in "a2a3" notation for a human side
func (s *Service) MakeHumanMove(id, text string) (*game.MoveResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.State() != core.StateOngoing {
		return nil, game.ErrGameOver
	}
	if e.game.NextPlayer().Kind().IsComputer() {
		return nil, ErrNotHumanTurn
	}
	m, err := board.ParseMove(text)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", player.ErrInvalidMove, err)
	}
	return e.game.ApplyMove(m)
}

// MakeComputerMove lets the computer side to move choose and play
func (s *Service) MakeComputerMove(id string) (*game.MoveResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.game.State() != core.StateOngoing {
		return nil, game.ErrGameOver
	}
	if !e.game.NextPlayer().Kind().IsComputer() {
		return nil, ErrNotComputerTurn
	}
	return e.game.PlayTurn()
}

// PlayTurn lets whichever player is to move choose. Human players read from the game's Input.
func (s *Service) PlayTurn(id string) (*game.MoveResult, error) {
	e, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.game.PlayTurn()
}

// SetDepth changes the search depth of the game's ai players
func (s *Service) SetDepth(id string, depth int) error {
	if depth < 1 {
		return fmt.Errorf("invalid depth: %d", depth)
	}
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	e.depth = depth
	for _, t := range []core.Team{core.TeamWhite, core.TeamBlack} {
		if ai, ok := e.game.Player(t).(*player.AI); ok {
			ai.SetDepth(depth)
		}
	}
	return nil
}

// UpdatePlayers replaces both policies of a running game
func (s *Service) UpdatePlayers(id string, white, black core.PlayerKind) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	w, b, err := newPlayers(GameConfig{
		White: white, Black: black, Depth: e.depth, Input: e.input, Output: e.output,
	})
	if err != nil {
		return err
	}
	e.game.SetPlayer(w)
	e.game.SetPlayer(b)
	return nil
}

// UndoMoves takes back count turns
func (s *Service) UndoMoves(id string, count int) error {
	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	original := e.game.Turns()
	if err := e.game.UndoMoves(count); err != nil {
		return err
	}
	if s.store != nil {
		s.store.DeleteUndoneMoves(id, original-count)
	}
	s.waiter.NotifyGame(id)
	return nil
}

// WaitForChange blocks until the game no longer has moveCount moves, the game ends, ctx
// ends, or WaitTimeout passes.
func (s *Service) WaitForChange(ctx context.Context, id string, moveCount int) error {
	ch := s.waiter.channel(id)

	e, err := s.entry(id)
	if err != nil {
		return err
	}
	e.mu.Lock()
	changed := e.game.Turns() != moveCount || e.game.State() != core.StateOngoing
	e.mu.Unlock()
	if changed {
		return nil
	}
	return s.waiter.Wait(ctx, ch)
}

// DeleteGame removes a game from memory
func (s *Service) DeleteGame(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.games[id]; !ok {
		return fmt.Errorf("%w: %s", ErrGameNotFound, id)
	}
	delete(s.games, id)
	s.waiter.NotifyGame(id)
	return nil
}

// GetStorageHealth returns the storage component status
func (s *Service) GetStorageHealth() string {
	if s.store == nil {
		return "disabled"
	}
	if s.store.IsHealthy() {
		return "ok"
	}
	return "degraded"
}

// Close releases waiters, drops all games and closes storage
func (s *Service) Close() error {
	s.waiter.Shutdown()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.games = make(map[string]*entry)

	if s.store != nil {
		return s.store.Close()
	}
	return nil
}
