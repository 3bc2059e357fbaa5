// FILE: internal/transport/http/game_handler.go
package http

import (
	"context"
	"strconv"
	"strings"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/service"

	"github.com/gofiber/fiber/v2"
)

// CreateGame creates a new game with the requested players and board
func (h *HTTPHandler) CreateGame(c *fiber.Ctx) error {
	req, ok := validated[core.CreateGameRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}

	cfg := service.GameConfig{
		White:    core.PlayerKind(req.White),
		Black:    core.PlayerKind(req.Black),
		Width:    req.Width,
		Height:   req.Height,
		Depth:    req.Depth,
		MaxTurns: req.MaxTurns,
		Seed:     req.Seed,
		Source:   "api",
	}
	if req.Board != "" {
		b, err := board.Parse(req.Board)
		if err != nil {
			return fail(c, err)
		}
		cfg.Board = b
	}

	id, err := h.svc.NewGame(cfg)
	if err != nil {
		return fail(c, err)
	}
	v, err := h.svc.GetGame(id)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(buildGameResponse(v))
}

// GetGame returns the game. With ?wait=true&moveCount=N it long-polls until the game has
// moved past N moves or WaitTimeout passes.
func (h *HTTPHandler) GetGame(c *fiber.Ctx) error {
	gameID := c.Params("gameId")

	if c.QueryBool("wait") {
		moveCount, err := strconv.Atoi(c.Query("moveCount", "-1"))
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "moveCount must be an integer")
		}
		if err := h.svc.WaitForChange(c.UserContext(), gameID, moveCount); err != nil {
			return fail(c, err)
		}
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(buildGameResponse(v))
}

// DeleteGame drops a game from memory
func (h *HTTPHandler) DeleteGame(c *fiber.Ctx) error {
	if err := h.svc.DeleteGame(c.Params("gameId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ConfigurePlayers swaps the policies of both sides
func (h *HTTPHandler) ConfigurePlayers(c *fiber.Ctx) error {
	req, ok := validated[core.ConfigurePlayersRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}
	gameID := c.Params("gameId")
	if err := h.svc.UpdatePlayers(gameID, core.PlayerKind(req.White), core.PlayerKind(req.Black)); err != nil {
		return fail(c, err)
	}
	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(buildGameResponse(v))
}

// LegalMoves lists the moves of the side to move
func (h *HTTPHandler) LegalMoves(c *fiber.Ctx) error {
	turn, moves, err := h.svc.LegalMoves(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	resp := core.LegalMovesResponse{Turn: turn.Code(), Moves: make([]string, len(moves))}
	for i, m := range moves {
		resp.Moves[i] = m.String()
	}
	return c.JSON(resp)
}

// MakeMove plays a human move, or the computer's move when the body is "cccc"
func (h *HTTPHandler) MakeMove(c *fiber.Ctx) error {
	req, ok := validated[core.MoveRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}
	gameID := c.Params("gameId")

	var err error
	if strings.EqualFold(req.Move, computerMoveToken) {
		_, err = h.svc.MakeComputerMove(gameID)
	} else {
		_, err = h.svc.MakeHumanMove(gameID, req.Move)
	}
	if err != nil {
		return fail(c, err)
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(buildGameResponse(v))
}

// UndoMove takes back one or more turns
func (h *HTTPHandler) UndoMove(c *fiber.Ctx) error {
	req, ok := validated[core.UndoRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}
	gameID := c.Params("gameId")

	if err := h.svc.UndoMoves(gameID, req.Count); err != nil {
		if _, lookupErr := h.svc.GetGame(gameID); lookupErr != nil {
			return fail(c, lookupErr)
		}
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "cannot undo moves",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	v, err := h.svc.GetGame(gameID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(buildGameResponse(v))
}

// GetBoard returns the board in its text layout
func (h *HTTPHandler) GetBoard(c *fiber.Ctx) error {
	v, err := h.svc.GetGame(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.SendString(v.Board.String())
}

// Simulate runs a batch of computer games and returns the tally
func (h *HTTPHandler) Simulate(c *fiber.Ctx) error {
	req, ok := validated[core.SimulationRequest](c)
	if !ok {
		return fiber.NewError(fiber.StatusBadRequest, "missing request body")
	}

	ctx, cancel := context.WithTimeout(c.UserContext(), SimulationTimeout)
	defer cancel()

	tally, err := h.svc.Simulate(ctx, simConfig(req))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(core.SimulationResponse{
		Games:      tally.Games,
		WhiteWins:  tally.WhiteWins,
		BlackWins:  tally.BlackWins,
		Draws:      tally.Draws,
		TotalTurns: tally.TotalTurns,
		DurationMs: tally.Duration.Milliseconds(),
	})
}
