package router

import (
	"teachersgallery/internal/adapter/api/handler"
	"teachersgallery/internal/adapter/api/middleware"

	"github.com/labstack/echo/v4"
)

func SetupChatRouter(e *echo.Echo, chatHandler *handler.ChatHandler, authMiddleware *middleware.AuthMiddleware) {
	chats := e.Group("/v1/conversations")
	chats.Use(authMiddleware.Authenticate)

	chats.POST("", chatHandler.CreateConversation)
	chats.GET("", chatHandler.ListConversations)
	chats.GET("/:id", chatHandler.GetConversation)
	chats.GET("/:id/messages", chatHandler.GetMessages)
	chats.POST("/:id/messages", chatHandler.SendMessage)
	chats.POST("/:id/read", chatHandler.MarkAsRead)
	chats.GET("/:id/typing", chatHandler.GetTyping)
}
