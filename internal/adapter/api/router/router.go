package router

import (
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func Setup(e *echo.Echo, authMiddleware *middleware.AuthMiddleware, adminMiddleware *middleware.AdminMiddleware) {
	SetupAuthRouter(e, authMiddleware)
	SetupUserRouter(e, authMiddleware)
	SetupTeacherRouter(e, authMiddleware)
	SetupReviewRouter(e, authMiddleware, adminMiddleware)
	SetupPhoneRequestRouter(e, authMiddleware)
	SetupPresenceRouter(e, authMiddleware)
	SetupNotificationRouter(e, authMiddleware)
	SetupHealthRouter(e)
}
