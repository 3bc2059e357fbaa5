// FILE: internal/transport/http/handler.go
package http

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"chesssim/internal/board"
	"chesssim/internal/core"
	"chesssim/internal/game"
	"chesssim/internal/player"
	"chesssim/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// SimulationTimeout bounds one POST /simulations request
const SimulationTimeout = 55 * time.Second

type Options struct {
	DevMode bool
	// RateLimit is requests per second per client on /api/v1; 0 picks 1 (10 in dev mode),
	// negative disables the limiter.
	RateLimit int
	// Quiet drops the access log.
	Quiet bool
}

type HTTPHandler struct {
	svc *service.Service
}

func NewHTTPHandler(svc *service.Service) *HTTPHandler {
	return &HTTPHandler{svc: svc}
}

func NewFiberApp(svc *service.Service, opts Options) *fiber.App {
	h := NewHTTPHandler(svc)

	app := fiber.New(fiber.Config{
		ErrorHandler: customErrorHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: SimulationTimeout + 5*time.Second,
		IdleTimeout:  30 * time.Second,
	})

	// Global middleware (order matters)
	app.Use(recover.New())
	if !opts.Quiet {
		app.Use(logger.New(logger.Config{
			Format: "${time} ${status} ${method} ${path} ${latency}\n",
		}))
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept",
	}))

	// Health check (no rate limit)
	app.Get("/health", h.Health)

	api := app.Group("/api/v1")

	maxReq := opts.RateLimit
	if maxReq == 0 {
		maxReq = 1
		if opts.DevMode {
			maxReq = 10
		}
	}
	if maxReq > 0 {
		api.Use(limiter.New(limiter.Config{
			Max:        maxReq,
			Expiration: 1 * time.Second,
			KeyGenerator: func(c *fiber.Ctx) string {
				// X-Forwarded-For first, then the remote address
				if xff := c.Get("X-Forwarded-For"); xff != "" {
					if idx := strings.Index(xff, ","); idx != -1 {
						return strings.TrimSpace(xff[:idx])
					}
					return xff
				}
				return c.IP()
			},
			LimitReached: func(c *fiber.Ctx) error {
				return c.Status(fiber.StatusTooManyRequests).JSON(core.ErrorResponse{
					Error:   "rate limit exceeded",
					Code:    core.ErrRateLimitExceeded,
					Details: fmt.Sprintf("%d requests per second allowed", maxReq),
				})
			},
		}))
	}

	api.Use(contentTypeValidator)
	api.Use(validationMiddleware)

	api.Post("/games", h.CreateGame)
	api.Get("/games/:gameId", h.GetGame)
	api.Delete("/games/:gameId", h.DeleteGame)
	api.Put("/games/:gameId/players", h.ConfigurePlayers)
	api.Get("/games/:gameId/moves", h.LegalMoves)
	api.Post("/games/:gameId/moves", h.MakeMove)
	api.Post("/games/:gameId/undo", h.UndoMove)
	api.Get("/games/:gameId/board", h.GetBoard)
	api.Post("/simulations", h.Simulate)

	return app
}

// contentTypeValidator ensures bodies are JSON
func contentTypeValidator(c *fiber.Ctx) error {
	if c.Method() == fiber.MethodPost || c.Method() == fiber.MethodPut {
		contentType := c.Get(fiber.HeaderContentType)
		if contentType != "" && !strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
			return c.Status(fiber.StatusUnsupportedMediaType).JSON(core.ErrorResponse{
				Error:   "unsupported media type",
				Code:    core.ErrInvalidContent,
				Details: "Content-Type must be application/json",
			})
		}
	}
	return c.Next()
}

// customErrorHandler provides consistent error responses
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	response := core.ErrorResponse{
		Error: "internal server error",
		Code:  core.ErrInternalError,
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		response.Error = fe.Message

		switch code {
		case fiber.StatusNotFound:
			response.Code = core.ErrGameNotFound
		case fiber.StatusBadRequest:
			response.Code = core.ErrInvalidRequest
		case fiber.StatusTooManyRequests:
			response.Code = core.ErrRateLimitExceeded
		}
	}

	return c.Status(code).JSON(response)
}

// fail maps domain errors onto status codes and error codes
func fail(c *fiber.Ctx, err error) error {
	status, response := fiber.StatusInternalServerError, core.ErrorResponse{
		Error:   "internal server error",
		Code:    core.ErrInternalError,
		Details: err.Error(),
	}

	switch {
	case errors.Is(err, service.ErrGameNotFound):
		status, response.Error, response.Code = fiber.StatusNotFound, "game not found", core.ErrGameNotFound
		response.Details = ""
	case errors.Is(err, game.ErrGameOver):
		status, response.Error, response.Code = fiber.StatusBadRequest, "game is over", core.ErrGameOver
	case errors.Is(err, service.ErrNotHumanTurn):
		status, response.Error, response.Code = fiber.StatusBadRequest, "not human player's turn", core.ErrNotHumanTurn
	case errors.Is(err, service.ErrNotComputerTurn):
		status, response.Error, response.Code = fiber.StatusBadRequest, "not computer player's turn", core.ErrNotComputerTurn
	case errors.Is(err, player.ErrInvalidMove):
		status, response.Error, response.Code = fiber.StatusBadRequest, "invalid move", core.ErrInvalidMove
	case errors.Is(err, board.ErrDimensions), errors.Is(err, board.ErrMalformedBoard), errors.Is(err, board.ErrUnknownGlyph):
		status, response.Error, response.Code = fiber.StatusBadRequest, "invalid board", core.ErrInvalidBoard
	}

	return c.Status(status).JSON(response)
}

// Health check endpoint
func (h *HTTPHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"time":    time.Now().Unix(),
		"storage": h.svc.GetStorageHealth(),
	})
}
