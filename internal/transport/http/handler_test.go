package http

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/service"

	"github.com/gofiber/fiber/v2"
)

const hangingKing = "   abc\n 3 ♚.. 3\n 2 ... 2\n 1 ♖.♔ 1\n   abc\n"

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	svc := service.New(nil)
	t.Cleanup(func() { svc.Close() })
	return NewFiberApp(svc, Options{RateLimit: -1, Quiet: true})
}

func request(t *testing.T, app *fiber.App, method, path string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		t.Fatalf("unmarshal %s: %v", data, err)
	}
	return v
}

func createGame(t *testing.T, app *fiber.App, req core.CreateGameRequest) core.GameResponse {
	t.Helper()
	status, data := request(t, app, fiber.MethodPost, "/api/v1/games", req)
	if status != fiber.StatusCreated {
		t.Fatalf("create game: status %d body %s", status, data)
	}
	return decode[core.GameResponse](t, data)
}

func expectError(t *testing.T, status int, data []byte, wantStatus int, wantCode string) {
	t.Helper()
	if status != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", status, wantStatus, data)
	}
	if got := decode[core.ErrorResponse](t, data); got.Code != wantCode {
		t.Fatalf("code = %q, want %q", got.Code, wantCode)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(t)
	status, data := request(t, app, fiber.MethodGet, "/health", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status = %d", status)
	}
	got := decode[map[string]any](t, data)
	if got["status"] != "healthy" || got["storage"] != "disabled" {
		t.Fatalf("health = %v", got)
	}
}

func TestCreateGameAndPlay(t *testing.T) {
	app := newTestApp(t)
	g := createGame(t, app, core.CreateGameRequest{White: "human", Black: "ai", Depth: 1})

	if g.Width != 8 || g.Height != 8 || g.Turn != "w" || g.State != "ongoing" || len(g.Moves) != 0 {
		t.Fatalf("new game = %+v", g)
	}
	if g.Board != board.NewStandard().String() {
		t.Fatalf("board =\n%s", g.Board)
	}
	if g.Players.White != "human" || g.Players.Black != "ai" {
		t.Fatalf("players = %+v", g.Players)
	}

	base := "/api/v1/games/" + g.GameID

	status, data := request(t, app, fiber.MethodGet, base+"/moves", nil)
	if status != fiber.StatusOK {
		t.Fatalf("legal moves: status %d", status)
	}
	legal := decode[core.LegalMovesResponse](t, data)
	if legal.Turn != "w" || len(legal.Moves) != 12 {
		t.Fatalf("legal moves = %+v", legal)
	}

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "a2a3"})
	if status != fiber.StatusOK {
		t.Fatalf("human move: status %d body %s", status, data)
	}
	g = decode[core.GameResponse](t, data)
	if g.Turn != "b" || len(g.Moves) != 1 || g.Moves[0] != "a2a3" {
		t.Fatalf("after human move = %+v", g)
	}
	if g.LastMove == nil || g.LastMove.Move != "a2a3" || g.LastMove.PlayerColor != "w" {
		t.Fatalf("last move = %+v", g.LastMove)
	}

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "cccc"})
	if status != fiber.StatusOK {
		t.Fatalf("computer move: status %d body %s", status, data)
	}
	g = decode[core.GameResponse](t, data)
	if g.Turn != "w" || len(g.Moves) != 2 {
		t.Fatalf("after computer move = %+v", g)
	}
	if g.LastMove == nil || g.LastMove.PlayerColor != "b" || g.LastMove.Depth != 1 || g.LastMove.Nodes == 0 {
		t.Fatalf("computer last move = %+v", g.LastMove)
	}

	status, data = request(t, app, fiber.MethodPost, base+"/undo", core.UndoRequest{Count: 2})
	if status != fiber.StatusOK {
		t.Fatalf("undo: status %d body %s", status, data)
	}
	g = decode[core.GameResponse](t, data)
	if len(g.Moves) != 0 || g.Turn != "w" || g.Board != board.NewStandard().String() {
		t.Fatalf("after undo = %+v", g)
	}
}

func TestMoveErrors(t *testing.T) {
	app := newTestApp(t)
	g := createGame(t, app, core.CreateGameRequest{White: "human", Black: "ai", Depth: 1})
	base := "/api/v1/games/" + g.GameID

	status, data := request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "a2a5"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidMove)

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "zz99"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidMove)

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "cccc"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrNotComputerTurn)

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "a2"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)

	status, data = request(t, app, fiber.MethodPost, base+"/undo", core.UndoRequest{Count: 3})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)
}

func TestCustomBoardGameEnds(t *testing.T) {
	app := newTestApp(t)
	g := createGame(t, app, core.CreateGameRequest{White: "ai", Black: "ai", Board: hangingKing, Depth: 2})
	if g.Width != 3 || g.Height != 3 || g.Board != hangingKing {
		t.Fatalf("custom game = %+v", g)
	}
	base := "/api/v1/games/" + g.GameID

	status, data := request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "cccc"})
	if status != fiber.StatusOK {
		t.Fatalf("computer move: status %d body %s", status, data)
	}
	g = decode[core.GameResponse](t, data)
	if g.State != "white_wins" || g.LastMove == nil || g.LastMove.Move != "a1a3" || g.LastMove.Captured != "♚" {
		t.Fatalf("after capture = %+v %+v", g, g.LastMove)
	}

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "cccc"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrGameOver)

	status, data = request(t, app, fiber.MethodGet, base+"/moves", nil)
	if status != fiber.StatusOK {
		t.Fatalf("legal moves: status %d", status)
	}
	if legal := decode[core.LegalMovesResponse](t, data); len(legal.Moves) != 0 {
		t.Fatalf("finished game has moves %v", legal.Moves)
	}
}

func TestCreateGameRejects(t *testing.T) {
	app := newTestApp(t)

	status, data := request(t, app, fiber.MethodPost, "/api/v1/games", core.CreateGameRequest{White: "wizard", Black: "ai"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)

	status, data = request(t, app, fiber.MethodPost, "/api/v1/games", core.CreateGameRequest{White: "ai", Black: "ai", Width: 40})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)

	status, data = request(t, app, fiber.MethodPost, "/api/v1/games", core.CreateGameRequest{White: "ai", Black: "ai", Board: "   ab\n 2 .. 2\n"})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidBoard)

	req := httptest.NewRequest(fiber.MethodPost, "/api/v1/games", strings.NewReader("white=ai"))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMETextPlain)
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != fiber.StatusUnsupportedMediaType {
		t.Fatalf("status = %d, want 415", resp.StatusCode)
	}
}

func TestUnknownGame(t *testing.T) {
	app := newTestApp(t)
	for _, path := range []string{"/api/v1/games/nope", "/api/v1/games/nope/moves", "/api/v1/games/nope/board"} {
		status, data := request(t, app, fiber.MethodGet, path, nil)
		expectError(t, status, data, fiber.StatusNotFound, core.ErrGameNotFound)
	}
	status, data := request(t, app, fiber.MethodPost, "/api/v1/games/nope/moves", core.MoveRequest{Move: "a2a3"})
	expectError(t, status, data, fiber.StatusNotFound, core.ErrGameNotFound)

	status, data = request(t, app, fiber.MethodPost, "/api/v1/games/nope/undo", core.UndoRequest{Count: 1})
	expectError(t, status, data, fiber.StatusNotFound, core.ErrGameNotFound)
}

func TestBoardPlayersAndDelete(t *testing.T) {
	app := newTestApp(t)
	g := createGame(t, app, core.CreateGameRequest{White: "human", Black: "human", Width: 5, Height: 3})
	base := "/api/v1/games/" + g.GameID

	status, data := request(t, app, fiber.MethodGet, base+"/board", nil)
	if status != fiber.StatusOK || string(data) != g.Board {
		t.Fatalf("board: status %d body\n%s", status, data)
	}

	status, data = request(t, app, fiber.MethodPut, base+"/players", core.ConfigurePlayersRequest{White: "random", Black: "kingcapture"})
	if status != fiber.StatusOK {
		t.Fatalf("players: status %d body %s", status, data)
	}
	if got := decode[core.GameResponse](t, data).Players; got.White != "random" || got.Black != "kingcapture" {
		t.Fatalf("players = %+v", got)
	}

	status, data = request(t, app, fiber.MethodPost, base+"/moves", core.MoveRequest{Move: "cccc"})
	if status != fiber.StatusOK {
		t.Fatalf("computer move after reconfigure: status %d body %s", status, data)
	}

	status, _ = request(t, app, fiber.MethodDelete, base, nil)
	if status != fiber.StatusNoContent {
		t.Fatalf("delete: status %d", status)
	}
	status, data = request(t, app, fiber.MethodGet, base, nil)
	expectError(t, status, data, fiber.StatusNotFound, core.ErrGameNotFound)
}

func TestLongPollReturnsOnStaleCount(t *testing.T) {
	app := newTestApp(t)
	g := createGame(t, app, core.CreateGameRequest{White: "human", Black: "human"})

	status, data := request(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=3", nil)
	if status != fiber.StatusOK {
		t.Fatalf("status %d body %s", status, data)
	}
	if got := decode[core.GameResponse](t, data); got.GameID != g.GameID {
		t.Fatalf("game = %+v", got)
	}

	status, data = request(t, app, fiber.MethodGet, "/api/v1/games/"+g.GameID+"?wait=true&moveCount=x", nil)
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)
}

func TestSimulation(t *testing.T) {
	app := newTestApp(t)
	status, data := request(t, app, fiber.MethodPost, "/api/v1/simulations", core.SimulationRequest{
		White: "random", Black: "capture", Games: 6, MaxTurns: 60, Workers: 3, Seed: 11,
	})
	if status != fiber.StatusOK {
		t.Fatalf("status %d body %s", status, data)
	}
	got := decode[core.SimulationResponse](t, data)
	if got.Games != 6 || got.WhiteWins+got.BlackWins+got.Draws != 6 {
		t.Fatalf("tally = %+v", got)
	}
	if got.TotalTurns < 6 || got.TotalTurns > 6*60 {
		t.Fatalf("total turns = %d", got.TotalTurns)
	}

	status, data = request(t, app, fiber.MethodPost, "/api/v1/simulations", core.SimulationRequest{White: "human", Black: "ai", Games: 1})
	expectError(t, status, data, fiber.StatusBadRequest, core.ErrInvalidRequest)
}

func TestRateLimit(t *testing.T) {
	svc := service.New(nil)
	defer svc.Close()
	app := NewFiberApp(svc, Options{RateLimit: 1, Quiet: true})

	status, _ := request(t, app, fiber.MethodGet, "/api/v1/games/nope", nil)
	if status != fiber.StatusNotFound {
		t.Fatalf("first request: status %d", status)
	}
	status, data := request(t, app, fiber.MethodGet, "/api/v1/games/nope", nil)
	expectError(t, status, data, fiber.StatusTooManyRequests, core.ErrRateLimitExceeded)

	// health is outside the limited group
	if status, _ := request(t, app, fiber.MethodGet, "/health", nil); status != fiber.StatusOK {
		t.Fatalf("health: status %d", status)
	}
}
