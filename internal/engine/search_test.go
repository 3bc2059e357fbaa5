package engine

import (
	"errors"
	"testing"

	"chesssim/internal/board"
	"chesssim/internal/core"
)

func setup(t *testing.T, w, h int, turn core.Team, pieces map[string]board.Piece) *board.Board {
	t.Helper()
	b, err := board.New(w, h)
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
			t.Fatalf("Set(%s): %v", s, err)
		}
	}
	b.SetTurn(turn)
	return b
}

func legal(t *testing.T, b *board.Board) []board.Move {
	t.Helper()
	moves, err := b.Moves()
	if err != nil {
		t.Fatalf("Moves: %v", err)
	}
	return moves
}

func TestDefaultWeights(t *testing.T) {
	w := DefaultWeights()
	tests := []struct {
		piece board.Piece
		want  int
	}{
		{board.WhitePawn, 1},
		{board.BlackKnight, 3},
		{board.WhiteBishop, 3},
		{board.BlackRook, 5},
		{board.WhiteQueen, 9},
		{board.BlackKing, KingWeight},
		{board.WhiteCannon, FallbackWeight},
		{board.Empty, 0},
	}
	for _, tt := range tests {
		if got := w.Weight(tt.piece); got != tt.want {
			t.Errorf("Weight(%v) = %d, want %d", tt.piece, got, tt.want)
		}
	}

	b := board.NewStandard()
	if got := w.Material(b, core.TeamWhite); got != 139 {
		t.Errorf("Material(White) = %d, want 139", got)
	}
	if got := w.Evaluate(b, core.TeamBlack); got != 0 {
		t.Errorf("Evaluate(start) = %d, want 0", got)
	}
}

func TestMaterialCoversWholeBoard(t *testing.T) {
	b := setup(t, 10, 12, core.TeamWhite, map[string]board.Piece{
		"j12": board.WhiteRook, "a9": board.WhiteCannon, "e1": board.BlackQueen,
	})
	w := DefaultWeights()
	if got := w.Material(b, core.TeamWhite); got != 10 {
		t.Errorf("Material(White) = %d, want 10", got)
	}
	if got := w.Evaluate(b, core.TeamBlack); got != -1 {
		t.Errorf("Evaluate(Black) = %d, want -1", got)
	}
}

func TestSearchTakesHangingKing(t *testing.T) {
	tests := []struct {
		name   string
		team   core.Team
		pieces map[string]board.Piece
		want   string
	}{
		{
			name:   "white",
			team:   core.TeamWhite,
			pieces: map[string]board.Piece{"a1": board.WhiteRook, "a3": board.BlackKing, "c1": board.WhiteKing},
			want:   "a1a3",
		},
		{
			name:   "black",
			team:   core.TeamBlack,
			pieces: map[string]board.Piece{"a3": board.BlackRook, "a1": board.WhiteKing, "c3": board.BlackKing},
			want:   "a3a1",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := setup(t, 3, 3, tt.team, tt.pieces)
			res, err := NewSearcher(tt.team, DefaultDepth).Search(b, legal(t, b))
			if err != nil {
				t.Fatalf("Search: %v", err)
			}
			if res.Move.String() != tt.want {
				t.Errorf("Move = %s, want %s", res.Move, tt.want)
			}
			if res.Score != KingWeight+5 {
				t.Errorf("Score = %d, want %d", res.Score, KingWeight+5)
			}
		})
	}
}

func TestSearchIsDeterministicAndPure(t *testing.T) {
	b := board.NewStandard()
	before := b.Clone()
	moves := legal(t, b)
	s := NewSearcher(core.TeamWhite, 2)

	first, err := s.Search(b, moves)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	for i := 0; i < 3; i++ {
		again, err := s.Search(b, moves)
		if err != nil {
			t.Fatalf("Search: %v", err)
		}
		if again.Move != first.Move || again.Score != first.Score {
			t.Errorf("run %d = %+v, want %+v", i, again, first)
		}
	}
	if !b.Equal(before) {
		t.Error("Search modified the board")
	}
	if moves[first.Index] != first.Move {
		t.Errorf("Index %d does not point at %s", first.Index, first.Move)
	}
	if first.Nodes <= len(moves) {
		t.Errorf("Nodes = %d, want more than %d", first.Nodes, len(moves))
	}
}

func TestSearchTiesKeepFirstMove(t *testing.T) {
	// b1c2 and d1d3 each win a pawn; the king steps and quiet rook moves win nothing.
	b := setup(t, 4, 4, core.TeamWhite, map[string]board.Piece{
		"a1": board.WhiteKing, "b1": board.WhitePawn, "d1": board.WhiteRook,
		"c2": board.BlackPawn, "d3": board.BlackPawn, "a4": board.BlackKing,
	})
	moves := legal(t, b)
	if got := board.FormatMoves(moves); got != "a1a2 a1b2 b1b2 b1c2 d1d2 d1d3 d1c1" {
		t.Fatalf("moves = %s", got)
	}
	s := NewSearcher(core.TeamWhite, 1)

	res, err := s.Search(b, moves)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Index != 3 || res.Move.String() != "b1c2" || res.Score != 5 {
		t.Errorf("Search = %+v, want b1c2 at index 3 with score 5", res)
	}

	// Reordering the list moves the winner with it.
	reordered := []board.Move{moves[0], moves[5], moves[3], moves[4]}
	res, err = s.Search(b, reordered)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Index != 1 || res.Move.String() != "d1d3" {
		t.Errorf("Search on reordered list = %+v, want d1d3 at index 1", res)
	}
}

func TestMinimaxOpponentPlyPrefersCaptures(t *testing.T) {
	b := setup(t, 3, 3, core.TeamBlack, map[string]board.Piece{
		"a1": board.WhiteKing, "c1": board.WhiteKnight, "c3": board.BlackRook, "a3": board.BlackKing,
	})
	moves := legal(t, b)
	if len(moves) != 6 {
		t.Fatalf("moves = %s, want 6", board.FormatMoves(moves))
	}

	score, idx, err := NewSearcher(core.TeamWhite, 1).Minimax(b, moves, 1, core.TeamBlack)
	if err != nil {
		t.Fatalf("Minimax: %v", err)
	}
	if idx != 0 {
		t.Errorf("index = %d, want 0 (the only capture)", idx)
	}
	if score != KingWeight-(KingWeight+5) {
		t.Errorf("score = %d, want %d", score, KingWeight-(KingWeight+5))
	}
}

func TestMinimaxWithoutMovesScoresStatically(t *testing.T) {
	b := setup(t, 4, 4, core.TeamWhite, map[string]board.Piece{
		"a1": board.WhiteKing, "d4": board.BlackKing, "b2": board.WhiteQueen,
	})
	score, idx, err := NewSearcher(core.TeamWhite, 3).Minimax(b, nil, 3, core.TeamWhite)
	if err != nil {
		t.Fatalf("Minimax: %v", err)
	}
	if score != 9 || idx != 0 {
		t.Errorf("Minimax = (%d, %d), want (9, 0)", score, idx)
	}
}

func TestSearchWithoutMoves(t *testing.T) {
	if _, err := NewSearcher(core.TeamWhite, 3).Search(board.NewStandard(), nil); !errors.Is(err, ErrNoMoves) {
		t.Errorf("Search error = %v, want ErrNoMoves", err)
	}
}
