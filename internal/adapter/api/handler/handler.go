package handler

import (
	"teachersgallery/internal/usecase"
)

var (
	authHandler         *AuthHandler
	userHandler         *UserHandler
	teacherHandler      *TeacherHandler
	reviewHandler       *ReviewHandler
	phoneRequestHandler *PhoneRequestHandler
	presenceHandler     *PresenceHandler
	notificationHandler *NotificationHandler
)

func Setup(
	authUseCase *usecase.AuthUseCase,
	userUseCase *usecase.UserUseCase,
	teacherProfileUseCase *usecase.TeacherProfileUseCase,
	reviewUseCase *usecase.ReviewUseCase,
	phoneRequestUseCase *usecase.PhoneRequestUseCase,
	presenceUseCase *usecase.PresenceUseCase,
	notificationUseCase *usecase.NotificationUseCase,
) {
	authHandler = NewAuthHandler(authUseCase)
	userHandler = NewUserHandler(userUseCase)
	teacherHandler = NewTeacherHandler(teacherProfileUseCase)
	reviewHandler = NewReviewHandler(reviewUseCase)
	phoneRequestHandler = NewPhoneRequestHandler(phoneRequestUseCase)
	presenceHandler = NewPresenceHandler(presenceUseCase)
	notificationHandler = NewNotificationHandler(notificationUseCase)
}

func GetAuthHandler() *AuthHandler {
	return authHandler
}

func GetUserHandler() *UserHandler {
	return userHandler
}

func GetTeacherHandler() *TeacherHandler {
	return teacherHandler
}

func GetReviewHandler() *ReviewHandler {
	return reviewHandler
}

func GetPhoneRequestHandler() *PhoneRequestHandler {
	return phoneRequestHandler
}

func GetPresenceHandler() *PresenceHandler {
	return presenceHandler
}

func GetNotificationHandler() *NotificationHandler {
	return notificationHandler
}
