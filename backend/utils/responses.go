package utils

import "github.com/gofiber/fiber/v2"

// ErrorResponse is the body of every non-2xx reply. Details carries the
// diagnostic message for operators; Error stays user-facing.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// Error writes an error body with the given status.
func Error(c *fiber.Ctx, status int, message string, details ...string) error {
	response := ErrorResponse{Error: message}
	if len(details) > 0 {
		response.Details = details[0]
	}
	return c.Status(status).JSON(response)
}

// Success wraps a payload for mutation endpoints; report endpoints return
// their document bodies directly.
func Success(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(fiber.Map{
		"success": true,
		"data":    data,
	})
}

func BadRequest(c *fiber.Ctx, message string, details ...string) error {
	return Error(c, fiber.StatusBadRequest, message, details...)
}

func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

func Forbidden(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusForbidden, message)
}

func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

func InternalServerError(c *fiber.Ctx, message string, details ...string) error {
	return Error(c, fiber.StatusInternalServerError, message, details...)
}
