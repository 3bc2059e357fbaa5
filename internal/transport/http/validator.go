// FILE: internal/transport/http/validator.go
package http

import (
	"strings"

	"chesssim/internal/core"

	"github.com/gofiber/fiber/v2"
)

const validatedBodyKey = "validatedBody"

// validationMiddleware parses and validates JSON bodies by route, storing the result for the
// handler under validatedBodyKey
func validationMiddleware(c *fiber.Ctx) error {
	method := c.Method()
	if method == fiber.MethodGet || method == fiber.MethodDelete || method == fiber.MethodOptions {
		return c.Next()
	}

	path := strings.TrimSuffix(c.Path(), "/")
	var requestType interface{}

	switch {
	case strings.HasSuffix(path, "/games") && method == fiber.MethodPost:
		requestType = &core.CreateGameRequest{}
	case strings.HasSuffix(path, "/players") && method == fiber.MethodPut:
		requestType = &core.ConfigurePlayersRequest{}
	case strings.HasSuffix(path, "/moves") && method == fiber.MethodPost:
		requestType = &core.MoveRequest{}
	case strings.HasSuffix(path, "/undo") && method == fiber.MethodPost:
		requestType = &core.UndoRequest{}
	case strings.HasSuffix(path, "/simulations") && method == fiber.MethodPost:
		requestType = &core.SimulationRequest{}
	default:
		return c.Next()
	}

	if err := c.BodyParser(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "invalid request body",
			Code:    core.ErrInvalidRequest,
			Details: err.Error(),
		})
	}

	if err := core.Validate.Struct(requestType); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(core.ErrorResponse{
			Error:   "validation failed",
			Code:    core.ErrInvalidRequest,
			Details: core.DescribeValidation(err),
		})
	}

	c.Locals(validatedBodyKey, requestType)
	return c.Next()
}

// validated returns the body stored by validationMiddleware
func validated[T any](c *fiber.Ctx) (*T, bool) {
	body, ok := c.Locals(validatedBodyKey).(*T)
	return body, ok
}
