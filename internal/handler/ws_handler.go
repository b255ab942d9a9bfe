package handler

import (
	"go-ppm-dashboard/internal/service"
	"go-ppm-dashboard/internal/ws"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// WSHandler streams dashboard session events and product list changes to browsers
type WSHandler struct {
	hub      *ws.Hub
	sessions service.DashboardService
}

func NewWSHandler(hub *ws.Hub, sessions service.DashboardService) *WSHandler {
	return &WSHandler{hub: hub, sessions: sessions}
}

// RequireSession only lets websocket handshakes for open sessions through
func (h *WSHandler) RequireSession(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	if _, err := h.sessions.Get(c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.Next()
}

// RequireUpgrade rejects plain HTTP requests
func (h *WSHandler) RequireUpgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.SendStatus(fiber.StatusUpgradeRequired)
	}
	return c.Next()
}

// SessionStream subscribes the connection to the session named by :id
func (h *WSHandler) SessionStream() fiber.Handler {
	return h.stream(func(c *websocket.Conn) string { return c.Params("id") })
}

// ProductStream subscribes the connection to product list changes
func (h *WSHandler) ProductStream() fiber.Handler {
	return h.stream(func(*websocket.Conn) string { return ProductsTopic })
}

func (h *WSHandler) stream(topicOf func(*websocket.Conn) string) fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		topic := topicOf(c)
		h.hub.Subscribe(topic, c)
		defer h.hub.Unsubscribe(topic, c)

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
