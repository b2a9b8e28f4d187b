package router

import (
	"teachersgallery/internal/adapter/api/handler"
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupTeacherRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware) {
	teacherHandler := handler.GetTeacherHandler()

	// Public listing and detail
	e.GET("/v1/teachers", teacherHandler.ListTeachers)
	e.GET("/v1/teachers/:id", teacherHandler.GetProfile)

	protected := e.Group("/v1/teachers")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", teacherHandler.CreateProfile)
	protected.GET("/me/profile", teacherHandler.GetMyProfile)
	protected.PUT("/:id", teacherHandler.UpdateProfile)
}
