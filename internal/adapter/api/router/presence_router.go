package router

import (
	"teachersgallery/internal/adapter/api/handler"
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupPresenceRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	presenceHandler := handler.GetPresenceHandler()

	presence := e.Group("/v1/presence")
	presence.Use(authMiddleware.Authenticate)

	presence.GET("/:id", presenceHandler.GetPresence)
	presence.POST("/heartbeat", presenceHandler.Heartbeat)
	presence.POST("/offline", presenceHandler.GoOffline)
}
