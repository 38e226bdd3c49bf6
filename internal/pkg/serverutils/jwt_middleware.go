package serverutils

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// TokenVerifier checks an access token and returns the authenticated user.
type TokenVerifier func(token string) (uuid.UUID, error)

// JwtMiddleware authenticates requests with a bearer token. File and
// websocket endpoints may pass the token as a "token" query parameter
// instead, since browser APIs for those cannot set headers.
func JwtMiddleware(verify TokenVerifier) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		tokenStr := ""
		authHeader := ctx.Get("Authorization")
		if len(authHeader) >= 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		} else if q := ctx.Query("token"); q != "" {
			tokenStr = q
		}
		if tokenStr == "" {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "Missing token",
			})
		}

		userId, err := verify(tokenStr)
		if err != nil {
			return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"code":    fiber.StatusUnauthorized,
				"message": "Invalid token",
			})
		}

		ctx.Locals("user_id", userId)
		return ctx.Next()
	}
}

// UserID reads the authenticated user id set by JwtMiddleware.
func UserID(ctx *fiber.Ctx) uuid.UUID {
	if id, ok := ctx.Locals("user_id").(uuid.UUID); ok {
		return id
	}
	return uuid.Nil
}
