package router

import (
	"teachersgallery/internal/adapter/api/handler"
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupReviewRouter(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	reviewHandler := handler.GetReviewHandler()

	e.GET("/v1/teachers/:teacherId/reviews", reviewHandler.GetTeacherReviews)

	protected := e.Group("/v1/teachers/:teacherId/reviews")
	protected.Use(authMiddleware.Authenticate)

	protected.POST("", reviewHandler.CreateReview)

	admin := e.Group("/v1/admin/reviews")
	admin.Use(authMiddleware.Authenticate)
	admin.Use(adminMiddleware.AdminOnly)

	admin.POST("/:reviewId/hide", reviewHandler.HideReview)
}
