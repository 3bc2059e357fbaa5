package player

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

func position(t *testing.T, turn core.Team, pieces map[string]board.Piece) (*board.Board, []board.Move) {
	t.Helper()
	b, err := board.New(4, 4)
	if err != nil {
		t.Fatalf("board.New: %v", err)
	}
	b.Clear()
	for s, p := range pieces {
		c, err := board.ParseCell(s)
		if err != nil {
			t.Fatalf("ParseCell(%q): %v", s, err)
		}
		if err := b.Set(c, p); err != nil {
			t.Fatalf("Set: %v", err)
		}
	}
	b.SetTurn(turn)
	moves, err := b.Moves()
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	return b, moves
}

func TestNewBuildsEveryKind(t *testing.T) {
	opts := Options{Seed: 7, In: NewLineSource(strings.NewReader(""), io.Discard)}
	for _, kind := range []core.PlayerKind{core.PlayerHuman, core.PlayerRandom, core.PlayerCapture, core.PlayerKingCapture, core.PlayerAI} {
		p, err := New(kind, core.TeamBlack, opts)
		if err != nil {
			t.Fatalf("New(%s): %v", kind, err)
		}
		if p.Kind() != kind || p.Team() != core.TeamBlack {
			t.Errorf("New(%s) = %s", kind, p.Name())
		}
	}

	if _, err := New(core.PlayerHuman, core.TeamWhite, Options{}); err == nil {
		t.Error("human without input should fail")
	}
	if _, err := New("stockfish", core.TeamWhite, Options{}); err == nil {
		t.Error("unknown kind should fail")
	}
	if _, err := New(core.PlayerAI, core.TeamNone, Options{}); err == nil {
		t.Error("team None should fail")
	}
}

func TestPoliciesReturnLegalMoves(t *testing.T) {
	b := board.NewStandard()
	moves, err := b.Moves()
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	players := []Player{
		NewRandom(core.TeamWhite, 1),
		NewCapture(core.TeamWhite, 2),
		NewKingCapture(core.TeamWhite, 3),
		NewAI(core.TeamWhite, 1),
	}
	for _, p := range players {
		for i := 0; i < 10; i++ {
			m, err := p.Move(b, moves)
			if err != nil {
				t.Fatalf("%s: %v", p.Name(), err)
			}
			if !board.ContainsMove(moves, m) {
				t.Errorf("%s chose illegal %s", p.Name(), m)
			}
		}
		if _, err := p.Move(b, nil); !errors.Is(err, ErrNoMoves) {
			t.Errorf("%s with no moves: error = %v, want ErrNoMoves", p.Name(), err)
		}
	}
}

func TestRandomIsReproducibleFromSeed(t *testing.T) {
	b := board.NewStandard()
	moves, _ := b.Moves()
	a, c := NewRandom(core.TeamWhite, 42), NewRandom(core.TeamWhite, 42)
	for i := 0; i < 20; i++ {
		ma, _ := a.Move(b, moves)
		mc, _ := c.Move(b, moves)
		if ma != mc {
			t.Fatalf("draw %d: %s != %s", i, ma, mc)
		}
	}
}

func TestCaptureAlwaysTakes(t *testing.T) {
	b, moves := position(t, core.TeamWhite, map[string]board.Piece{
		"a1": board.WhiteRook, "a4": board.BlackKnight, "c1": board.WhiteKing, "d4": board.BlackKing,
	})
	p := NewCapture(core.TeamWhite, 5)
	for i := 0; i < 20; i++ {
		m, err := p.Move(b, moves)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if m.String() != "a1a4" {
			t.Fatalf("Move = %s, want a1a4", m)
		}
	}
}

func TestKingCapturePrefersKing(t *testing.T) {
	b, moves := position(t, core.TeamWhite, map[string]board.Piece{
		"a1": board.WhiteRook, "a4": board.BlackKnight, "d1": board.BlackKing,
		"b2": board.WhiteKing,
	})
	p := NewKingCapture(core.TeamWhite, 9)
	for i := 0; i < 20; i++ {
		m, err := p.Move(b, moves)
		if err != nil {
			t.Fatalf("Move: %v", err)
		}
		if m.String() != "a1d1" {
			t.Fatalf("Move = %s, want a1d1", m)
		}
	}
}

func TestAIRecordsSearch(t *testing.T) {
	b, moves := position(t, core.TeamBlack, map[string]board.Piece{
		"a1": board.WhiteKing, "a4": board.BlackRook, "d4": board.BlackKing,
	})
	p := NewAI(core.TeamBlack, 0)
	if p.Depth() != 3 {
		t.Errorf("Depth = %d, want 3", p.Depth())
	}
	m, err := p.Move(b, moves)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if m.String() != "a4a1" {
		t.Errorf("Move = %s, want a4a1", m)
	}
	if p.LastResult().Move != m || p.LastResult().Nodes == 0 {
		t.Errorf("LastResult = %+v", p.LastResult())
	}
}

func TestHumanRepromptsUntilLegal(t *testing.T) {
	b := board.NewStandard()
	moves, _ := b.Moves()
	var out bytes.Buffer
	in := NewLineSource(strings.NewReader("zz\na2a5\n  a2a3 \n"), &out)
	p := NewHuman(core.TeamWhite, in, &out)

	m, err := p.Move(b, moves)
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if m.String() != "a2a3" {
		t.Errorf("Move = %s, want a2a3", m)
	}
	text := out.String()
	if n := strings.Count(text, movePrompt); n != 3 {
		t.Errorf("prompted %d times, want 3", n)
	}
	if !strings.Contains(text, "a2a5 is not a valid move! Please choose one of the following moves:\n"+board.FormatMoves(moves)) {
		t.Errorf("missing rejection message in:\n%s", text)
	}
}

func TestHumanResignAndEOF(t *testing.T) {
	b := board.NewStandard()
	moves, _ := b.Moves()

	p := NewHuman(core.TeamWhite, NewLineSource(strings.NewReader("Resign\n"), io.Discard), io.Discard)
	if _, err := p.Move(b, moves); !errors.Is(err, ErrResigned) {
		t.Errorf("error = %v, want ErrResigned", err)
	}

	p = NewHuman(core.TeamWhite, NewLineSource(strings.NewReader("b7b6\n"), io.Discard), io.Discard)
	if _, err := p.Move(b, moves); !errors.Is(err, io.EOF) {
		t.Errorf("error = %v, want io.EOF", err)
	}
}
