package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/engine"
	"chesssim/internal/game"
	"chesssim/internal/storage"

	"github.com/google/uuid"
)

// DefaultSimMaxTurns caps simulated games that set no limit; two deterministic searchers can
// otherwise shuffle forever.
const DefaultSimMaxTurns = 500

type SimConfig struct {
	White    core.PlayerKind
	Black    core.PlayerKind
	Games    int
	Width    int
	Height   int
	Depth    int
	MaxTurns int
	Workers  int
	Seed     int64
	Board    *board.Board // custom start position shared by every game
	Record   bool         // persist every game when storage is enabled
}

// Tally aggregates finished games.
type Tally struct {
	Games      int
	WhiteWins  int
	BlackWins  int
	Draws      int
	TotalTurns int
	Duration   time.Duration
}

func (t *Tally) Add(state core.State, turns int) {
	t.Games++
	t.TotalTurns += turns
	switch state {
	case core.StateWhiteWins:
		t.WhiteWins++
	case core.StateBlackWins:
		t.BlackWins++
	default:
		t.Draws++
	}
}

func (t Tally) String() string {
	avg := 0.0
	if t.Games > 0 {
		avg = float64(t.TotalTurns) / float64(t.Games)
	}
	return fmt.Sprintf("games=%d white=%d black=%d draws=%d avg_turns=%.1f time=%s",
		t.Games, t.WhiteWins, t.BlackWins, t.Draws, avg, t.Duration.Round(time.Millisecond))
}

// Simulate plays cfg.Games independent computer-vs-computer games on a worker pool.
func (s *Service) Simulate(ctx context.Context, cfg SimConfig) (*Tally, error) {
	if cfg.Games < 1 {
		return nil, fmt.Errorf("simulation needs at least one game, got %d", cfg.Games)
	}
	if !cfg.White.IsComputer() || !cfg.Black.IsComputer() {
		return nil, errors.New("simulation needs computer players on both sides")
	}
	if cfg.MaxTurns == 0 {
		cfg.MaxTurns = DefaultSimMaxTurns
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	start := time.Now()
	results := make(chan SimResult, cfg.Games)
	q := NewSimQueue(ctx, cfg.Workers, s.runSimulated(cfg.Record))
	defer q.Shutdown(5 * time.Second)

	go func() {
		defer q.Close()
		for i := 0; i < cfg.Games; i++ {
			task := SimTask{
				Index: i,
				Config: GameConfig{
					White:    cfg.White,
					Black:    cfg.Black,
					Width:    cfg.Width,
					Height:   cfg.Height,
					Depth:    cfg.Depth,
					MaxTurns: cfg.MaxTurns,
					Board:    cfg.Board,
					Seed:     seed + int64(2*i),
					Source:   "sim",
				},
				Response: results,
			}
			if err := q.Submit(task); err != nil {
				results <- SimResult{Index: i, Error: err}
				return
			}
		}
	}()

	tally := &Tally{}
	var firstErr error
	for i := 0; i < cfg.Games; i++ {
		select {
		case r := <-results:
			if r.Error != nil {
				if firstErr == nil {
					firstErr = fmt.Errorf("game %d: %w", r.Index, r.Error)
				}
				continue
			}
			tally.Add(r.State, r.Turns)
		case <-ctx.Done():
			tally.Duration = time.Since(start)
			return tally, ctx.Err()
		}
	}
	tally.Duration = time.Since(start)
	return tally, firstErr
}

// runSimulated plays one game to the end. Simulated games are not registered with the service.
func (s *Service) runSimulated(record bool) func(context.Context, SimTask) SimResult {
	return func(ctx context.Context, task SimTask) SimResult {
		result := SimResult{Index: task.Index, GameID: uuid.New().String()}

		b, err := buildBoard(task.Config)
		if err != nil {
			result.Error = err
			return result
		}
		white, black, err := newPlayers(task.Config)
		if err != nil {
			result.Error = err
			return result
		}
		g, err := game.New(b, white, black, game.Options{MaxTurns: task.Config.MaxTurns})
		if err != nil {
			result.Error = err
			return result
		}

		if record && s.store != nil {
			s.store.RecordNewGame(storage.GameRecord{
				GameID:       result.GameID,
				Source:       task.Config.Source,
				Width:        b.Width(),
				Height:       b.Height(),
				InitialBoard: b.String(),
				WhiteKind:    string(task.Config.White),
				BlackKind:    string(task.Config.Black),
				Depth:        depthOrDefault(task.Config.Depth),
				StartTimeUTC: time.Now().UTC(),
			})
			g.OnMove = func(r *game.MoveResult) { recordTurn(s.store, result.GameID, g, r) }
		}

		result.State, result.Error = g.Run(ctx)
		result.Turns = g.Turns()
		return result
	}
}

func depthOrDefault(depth int) int {
	if depth == 0 {
		return engine.DefaultDepth
	}
	return depth
}
