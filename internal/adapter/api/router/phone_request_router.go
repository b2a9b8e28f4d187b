package router

import (
	"teachersgallery/internal/adapter/api/handler"
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupPhoneRequestRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	phoneRequestHandler := handler.GetPhoneRequestHandler()

	requests := e.Group("/v1/phone-requests")
	requests.Use(authMiddleware.Authenticate)

	requests.POST("", phoneRequestHandler.Create)
	requests.GET("", phoneRequestHandler.List)
	requests.GET("/:id", phoneRequestHandler.Get)
	requests.POST("/:id/respond", phoneRequestHandler.Respond)
}
