package handler

import (
	"net/http"

	gorillaws "github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"teachersgallery/internal/adapter/api/middleware"
	ws "teachersgallery/internal/infrastructure/websocket"
	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
)

type WebSocketHandler struct {
	wsManager       *ws.Manager
	authMiddleware  *middleware.AuthMiddleware
	eventHandler    ws.MessageHandler
	presenceUseCase *usecase.PresenceUseCase
}

var upgrader = gorillaws.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // You should restrict this in production
	},
}

func NewWebSocketHandler(
	wsManager *ws.Manager,
	authMiddleware *middleware.AuthMiddleware,
	eventHandler ws.MessageHandler,
	presenceUseCase *usecase.PresenceUseCase,
) *WebSocketHandler {
	return &WebSocketHandler{
		wsManager:       wsManager,
		authMiddleware:  authMiddleware,
		eventHandler:    eventHandler,
		presenceUseCase: presenceUseCase,
	}
}

func (h *WebSocketHandler) HandleWebSocket(c echo.Context) error {
	// Browsers cannot set headers on the upgrade request, so the token rides
	// in a query parameter.
	token := c.QueryParam("token")
	if token == "" {
		return errors.Unauthorized("Authentication token required", nil)
	}

	userID, err := h.authMiddleware.GetUIDFromToken(c.Request().Context(), token)
	if err != nil {
		return errors.Unauthorized("Invalid or expired token", err)
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return errors.Internal("Failed to upgrade connection", err)
	}

	client := &ws.Client{
		UserID:  userID,
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Handler: h.eventHandler,
	}

	h.wsManager.Register <- client

	// A fresh socket counts as a heartbeat; the client's ticker takes over
	// from here.
	h.presenceUseCase.SetOnline(c.Request().Context(), userID, true)

	go client.ReadPump(h.wsManager)
	go client.WritePump()

	return nil
}
