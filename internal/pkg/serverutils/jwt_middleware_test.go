package serverutils

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthedApp(userId uuid.UUID) *fiber.App {
	verify := func(token string) (uuid.UUID, error) {
		if token == "valid-token" {
			return userId, nil
		}
		return uuid.Nil, errors.New("invalid or expired token")
	}

	app := fiber.New()
	app.Get("/me", JwtMiddleware(verify), func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{"user_id": UserID(ctx).String()})
	})
	return app
}

func TestJwtMiddlewareBearerHeader(t *testing.T) {
	userId := uuid.New()
	app := newAuthedApp(userId)

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer valid-token")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareQueryToken(t *testing.T) {
	app := newAuthedApp(uuid.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me?token=valid-token", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestJwtMiddlewareMissingToken(t *testing.T) {
	app := newAuthedApp(uuid.New())

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/me", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestJwtMiddlewareInvalidToken(t *testing.T) {
	app := newAuthedApp(uuid.New())

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("Authorization", "Bearer forged")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
