package service

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/player"
	"chesssim/internal/storage"
)

func newStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.NewStore(filepath.Join(t.TempDir(), "svc.db"), false)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.InitDB(); err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	return store
}

func syncStore(t *testing.T, store *storage.Store) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := store.Sync(ctx); err != nil {
		t.Fatalf("Sync: %v", err)
	}
}

func hangingKing(t *testing.T) *board.Board {
	t.Helper()
	b, err := board.Parse("   abc\n 3 ♚.. 3\n 2 ... 2\n 1 ♖.♔ 1\n   abc\n")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return b
}

func TestHumanAndComputerTurns(t *testing.T) {
	svc := New(nil)
	defer svc.Close()

	id, err := svc.NewGame(GameConfig{White: core.PlayerHuman, Black: core.PlayerAI, Depth: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	v, err := svc.GetGame(id)
	if err != nil {
		t.Fatalf("GetGame: %v", err)
	}
	if !v.Board.Equal(board.NewStandard()) || v.State != core.StateOngoing || v.White != core.PlayerHuman || v.Black != core.PlayerAI {
		t.Fatalf("view = %+v", v)
	}

	if _, err := svc.MakeComputerMove(id); !errors.Is(err, ErrNotComputerTurn) {
		t.Errorf("MakeComputerMove on human turn: %v", err)
	}
	for _, bad := range []string{"a2a5", "zz"} {
		if _, err := svc.MakeHumanMove(id, bad); !errors.Is(err, player.ErrInvalidMove) {
			t.Errorf("MakeHumanMove(%q) = %v, want ErrInvalidMove", bad, err)
		}
	}
	if _, err := svc.MakeHumanMove(id, "a2a3"); err != nil {
		t.Fatalf("MakeHumanMove: %v", err)
	}
	if _, err := svc.MakeHumanMove(id, "a7a6"); !errors.Is(err, ErrNotHumanTurn) {
		t.Errorf("MakeHumanMove on computer turn: %v", err)
	}
	r, err := svc.MakeComputerMove(id)
	if err != nil {
		t.Fatalf("MakeComputerMove: %v", err)
	}
	if r.Player != core.TeamBlack || r.Kind != core.PlayerAI {
		t.Errorf("computer result = %+v", r)
	}

	turn, moves, err := svc.LegalMoves(id)
	if err != nil {
		t.Fatalf("LegalMoves: %v", err)
	}
	if turn != core.TeamWhite || len(moves) == 0 {
		t.Errorf("LegalMoves = %v, %d moves", turn, len(moves))
	}

	if err := svc.UndoMoves(id, 2); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	v, _ = svc.GetGame(id)
	if len(v.Moves) != 0 || !v.Board.Equal(board.NewStandard()) {
		t.Errorf("after undo: %v\n%s", v.Moves, v.Board)
	}
}

func TestUnknownGame(t *testing.T) {
	svc := New(nil)
	if _, err := svc.GetGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame = %v, want ErrGameNotFound", err)
	}
	if _, err := svc.MakeHumanMove("nope", "a2a3"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("MakeHumanMove = %v, want ErrGameNotFound", err)
	}
	if err := svc.DeleteGame("nope"); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("DeleteGame = %v, want ErrGameNotFound", err)
	}
}

func TestDeleteGame(t *testing.T) {
	svc := New(nil)
	id, err := svc.NewGame(GameConfig{White: core.PlayerRandom, Black: core.PlayerRandom})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := svc.DeleteGame(id); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := svc.GetGame(id); !errors.Is(err, ErrGameNotFound) {
		t.Errorf("GetGame after delete = %v", err)
	}
}

func TestFinishedGameIsPersisted(t *testing.T) {
	store := newStore(t)
	svc := New(store)
	defer svc.Close()

	id, err := svc.NewGame(GameConfig{White: core.PlayerAI, Black: core.PlayerRandom, Board: hangingKing(t)})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	r, err := svc.MakeComputerMove(id)
	if err != nil {
		t.Fatalf("MakeComputerMove: %v", err)
	}
	if r.GameState != core.StateWhiteWins {
		t.Fatalf("state = %v, want WhiteWins", r.GameState)
	}
	if _, err := svc.MakeComputerMove(id); !errors.Is(err, game.ErrGameOver) {
		t.Errorf("move after end = %v, want ErrGameOver", err)
	}

	syncStore(t, store)
	games, err := store.QueryGames(id, "")
	if err != nil || len(games) != 1 {
		t.Fatalf("QueryGames = %v, %v", games, err)
	}
	if g := games[0]; g.State != "white_wins" || g.Winner != "w" || g.Turns != 1 || g.Width != 3 {
		t.Errorf("record = %+v", g)
	}
	moves, err := store.QueryMoves(id)
	if err != nil || len(moves) != 1 {
		t.Fatalf("QueryMoves = %v, %v", moves, err)
	}
	if moves[0].Move != "a1a3" || moves[0].Captured != "♚" || moves[0].PlayerKind != "ai" {
		t.Errorf("move record = %+v", moves[0])
	}
	if svc.GetStorageHealth() != "ok" {
		t.Errorf("storage health = %s", svc.GetStorageHealth())
	}
}

func TestUndoReopensPersistedGame(t *testing.T) {
	store := newStore(t)
	svc := New(store)
	defer svc.Close()

	id, err := svc.NewGame(GameConfig{White: core.PlayerAI, Black: core.PlayerRandom, Board: hangingKing(t)})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if r, err := svc.MakeComputerMove(id); err != nil || r.GameState != core.StateWhiteWins {
		t.Fatalf("MakeComputerMove = %+v, %v", r, err)
	}
	if err := svc.UndoMoves(id, 1); err != nil {
		t.Fatalf("UndoMoves: %v", err)
	}
	if v, _ := svc.GetGame(id); v.State != core.StateOngoing {
		t.Fatalf("state after undo = %v", v.State)
	}

	syncStore(t, store)
	games, err := store.QueryGames(id, "")
	if err != nil || len(games) != 1 {
		t.Fatalf("QueryGames = %v, %v", games, err)
	}
	if g := games[0]; g.State != "ongoing" || g.Winner != "-" || g.EndTimeUTC != nil || g.FinalBoard != "" {
		t.Errorf("record after undo = %+v", g)
	}
	if moves, err := store.QueryMoves(id); err != nil || len(moves) != 0 {
		t.Errorf("QueryMoves after undo = %v, %v", moves, err)
	}
}

func TestWaitForChange(t *testing.T) {
	svc := New(nil)
	defer svc.Close()
	id, err := svc.NewGame(GameConfig{White: core.PlayerHuman, Black: core.PlayerRandom})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	go func() {
		time.Sleep(50 * time.Millisecond)
		svc.MakeHumanMove(id, "b1c3")
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := svc.WaitForChange(ctx, id, 0); err != nil {
		t.Fatalf("WaitForChange: %v", err)
	}
	v, _ := svc.GetGame(id)
	if len(v.Moves) != 1 {
		t.Errorf("woke with %d moves, want 1", len(v.Moves))
	}

	// Already stale: returns without waiting.
	if err := svc.WaitForChange(context.Background(), id, 0); err != nil {
		t.Errorf("WaitForChange on stale count: %v", err)
	}
}

func TestSimulateIsReproducible(t *testing.T) {
	svc := New(nil)
	cfg := SimConfig{
		White: core.PlayerRandom, Black: core.PlayerCapture,
		Games: 12, Width: 5, Height: 5, MaxTurns: 60, Seed: 99,
	}

	cfg.Workers = 1
	first, err := svc.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	cfg.Workers = 4
	second, err := svc.Simulate(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}

	if first.Games != 12 || first.WhiteWins+first.BlackWins+first.Draws != 12 {
		t.Errorf("tally = %+v", first)
	}
	if first.WhiteWins != second.WhiteWins || first.BlackWins != second.BlackWins ||
		first.Draws != second.Draws || first.TotalTurns != second.TotalTurns {
		t.Errorf("tallies differ: %v vs %v", first, second)
	}
}

func TestSimulateRecordsGames(t *testing.T) {
	store := newStore(t)
	svc := New(store)
	defer svc.Close()

	tally, err := svc.Simulate(context.Background(), SimConfig{
		White: core.PlayerKingCapture, Black: core.PlayerRandom,
		Games: 4, Width: 4, Height: 4, MaxTurns: 30, Workers: 2, Seed: 5, Record: true,
	})
	if err != nil {
		t.Fatalf("Simulate: %v", err)
	}
	syncStore(t, store)

	counts, err := store.Tally()
	if err != nil {
		t.Fatalf("Tally: %v", err)
	}
	if counts["white_wins"] != tally.WhiteWins || counts["black_wins"] != tally.BlackWins || counts["draw"] != tally.Draws {
		t.Errorf("stored %v, simulated %v", counts, tally)
	}
	games, err := store.QueryGames("*", "kingcapture")
	if err != nil || len(games) != 4 {
		t.Fatalf("QueryGames = %d games, %v", len(games), err)
	}
	if games[0].Source != "sim" {
		t.Errorf("source = %s, want sim", games[0].Source)
	}
}

func TestSimulateRejects(t *testing.T) {
	svc := New(nil)
	if _, err := svc.Simulate(context.Background(), SimConfig{White: core.PlayerHuman, Black: core.PlayerAI, Games: 1}); err == nil {
		t.Error("human players accepted")
	}
	if _, err := svc.Simulate(context.Background(), SimConfig{White: core.PlayerAI, Black: core.PlayerAI}); err == nil {
		t.Error("zero games accepted")
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := svc.Simulate(ctx, SimConfig{White: core.PlayerRandom, Black: core.PlayerRandom, Games: 8, Workers: 2})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Simulate on cancelled context = %v, want context.Canceled", err)
	}
}

func TestPlayTurnReadsInput(t *testing.T) {
	svc := New(nil)
	defer svc.Close()

	var out bytes.Buffer
	id, err := svc.NewGame(GameConfig{
		White:  core.PlayerHuman,
		Black:  core.PlayerHuman,
		Board:  hangingKing(t),
		Input:  player.NewLineSource(strings.NewReader("b1b2\na1a3\n"), &out),
		Output: &out,
	})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}

	r, err := svc.PlayTurn(id)
	if err != nil {
		t.Fatalf("PlayTurn: %v", err)
	}
	if r.Move.String() != "a1a3" || r.GameState != core.StateWhiteWins {
		t.Fatalf("result = %+v", r)
	}
	if !strings.Contains(out.String(), "b1b2 is not a valid move!") {
		t.Fatalf("output = %q", out.String())
	}
	if _, err := svc.PlayTurn(id); !errors.Is(err, game.ErrGameOver) {
		t.Fatalf("PlayTurn after end: %v", err)
	}
}

func TestPlayTurnWithoutInput(t *testing.T) {
	svc := New(nil)
	defer svc.Close()

	id, err := svc.NewGame(GameConfig{White: core.PlayerHuman, Black: core.PlayerRandom})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if _, err := svc.PlayTurn(id); !errors.Is(err, errRemoteInput) {
		t.Fatalf("PlayTurn = %v, want remote input error", err)
	}
	if _, err := svc.PlayTurn("missing"); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("PlayTurn unknown = %v", err)
	}
}

func TestSetDepth(t *testing.T) {
	svc := New(nil)
	defer svc.Close()

	id, err := svc.NewGame(GameConfig{White: core.PlayerAI, Black: core.PlayerAI, Depth: 1})
	if err != nil {
		t.Fatalf("NewGame: %v", err)
	}
	if err := svc.SetDepth(id, 0); err == nil {
		t.Fatal("depth 0 accepted")
	}
	if err := svc.SetDepth("missing", 2); !errors.Is(err, ErrGameNotFound) {
		t.Fatalf("SetDepth unknown = %v", err)
	}
	if err := svc.SetDepth(id, 2); err != nil {
		t.Fatalf("SetDepth: %v", err)
	}

	r, err := svc.MakeComputerMove(id)
	if err != nil {
		t.Fatalf("MakeComputerMove: %v", err)
	}
	if r.Depth != 2 || r.Kind != core.PlayerAI {
		t.Fatalf("result = %+v, want depth 2", r)
	}
}
