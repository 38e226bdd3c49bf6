package handler

import (
	"medvault-be/internal/pkg/logger"
	"medvault-be/internal/pkg/serverutils"
	internalWS "medvault-be/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
)

// NotificationHandler upgrades authenticated clients to a websocket fed by
// the hub.
type NotificationHandler struct {
	verify serverutils.TokenVerifier
	hub    *internalWS.Hub
	logger logger.ILogger
}

func NewNotificationHandler(verify serverutils.TokenVerifier, hub *internalWS.Hub, log logger.ILogger) *NotificationHandler {
	return &NotificationHandler{
		verify: verify,
		hub:    hub,
		logger: log,
	}
}

func (h *NotificationHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/notifications", h.ServeWs)
}

// ServeWs authenticates the handshake and hands the connection to the hub.
// Browsers cannot set headers on WebSocket requests, so the token may come
// in as a query parameter.
func (h *NotificationHandler) ServeWs(c *fiber.Ctx) error {
	tokenStr := c.Query("token")
	if tokenStr == "" {
		authHeader := c.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}
	if tokenStr == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (query 'token' or Authorization header)"})
	}

	userID, err := h.verify(tokenStr)
	if err != nil {
		h.logger.Warn("NotificationHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err.Error()})
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	if websocket.IsWebSocketUpgrade(c) {
		return websocket.New(func(conn *websocket.Conn) {
			h.logger.Info("NotificationHandler", "Starting WebSocket session", map[string]interface{}{"user_id": userID})
			internalWS.ServeWs(h.hub, conn, userID)
			h.logger.Info("NotificationHandler", "WebSocket session ended", map[string]interface{}{"user_id": userID})
		})(c)
	}
	return fiber.ErrUpgradeRequired
}
