package serverutils

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandlerMiddleware converts unhandled errors and panics into the
// standard response envelope so clients always get JSON.
func ErrorHandlerMiddleware() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"success": false,
					"code":    fiber.StatusInternalServerError,
					"message": "Internal server error",
				})
			}
		}()

		err := ctx.Next()
		if err == nil {
			return nil
		}

		code := fiber.StatusInternalServerError
		message := err.Error()

		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			code = fiberErr.Code
			message = fiberErr.Message
		}

		return ctx.Status(code).JSON(fiber.Map{
			"success": false,
			"code":    code,
			"message": message,
		})
	}
}
