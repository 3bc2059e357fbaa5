// FILE: internal/transport/http/types.go
package http

import (
	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/service"
)

// computerMoveToken in a move request asks the computer side to play
const computerMoveToken = "cccc"

func buildGameResponse(v *service.GameView) core.GameResponse {
	moves := v.Moves
	if moves == nil {
		moves = []string{}
	}
	return core.GameResponse{
		GameID:   v.ID,
		Width:    v.Board.Width(),
		Height:   v.Board.Height(),
		Board:    v.Board.String(),
		Turn:     v.Board.Turn().Code(),
		State:    v.State.Key(),
		Moves:    moves,
		MaxTurns: v.MaxTurns,
		Players: core.PlayersResponse{
			White: string(v.White),
			Black: string(v.Black),
		},
		LastMove: moveInfo(v.LastResult),
	}
}

func moveInfo(r *game.MoveResult) *core.MoveInfo {
	if r == nil {
		return nil
	}
	info := &core.MoveInfo{
		PlayerColor: r.Player.Code(),
		Resigned:    r.Resigned,
		Stalled:     r.Stalled,
		Score:       r.Score,
		Depth:       r.Depth,
		Nodes:       r.Nodes,
	}
	if !r.Stalled && !r.Resigned {
		info.Move = r.Move.String()
	}
	if r.Captured != board.Empty {
		info.Captured = string(r.Captured.Glyph())
	}
	return info
}

func simConfig(req *core.SimulationRequest) service.SimConfig {
	return service.SimConfig{
		White:    core.PlayerKind(req.White),
		Black:    core.PlayerKind(req.Black),
		Games:    req.Games,
		Width:    req.Width,
		Height:   req.Height,
		Depth:    req.Depth,
		MaxTurns: req.MaxTurns,
		Workers:  req.Workers,
		Seed:     req.Seed,
		Record:   req.Record,
	}
}
