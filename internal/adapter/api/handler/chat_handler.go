package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"teachersgallery/internal/domain/entity"
	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
	"teachersgallery/pkg/utils"
)

type ChatHandler struct {
	chatUseCase *usecase.ChatUseCase
}

func NewChatHandler(chatUseCase *usecase.ChatUseCase) *ChatHandler {
	return &ChatHandler{
		chatUseCase: chatUseCase,
	}
}

type createConversationRequest struct {
	RecipientID    string `json:"recipient_id" validate:"required"`
	InitialMessage string `json:"initial_message" validate:"max=2000"`
}

func (h *ChatHandler) CreateConversation(c echo.Context) error {
	var req createConversationRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.CreateConversation(c.Request().Context(), userID, usecase.CreateConversationInput{
		RecipientID:    req.RecipientID,
		InitialMessage: req.InitialMessage,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, conversation)
}

func (h *ChatHandler) ListConversations(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	userID := c.Get("uid").(string)

	conversations, total, err := h.chatUseCase.GetUserConversations(c.Request().Context(), userID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, conversations, total, pagination.Page, pagination.PageSize)
}

func (h *ChatHandler) GetConversation(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.GetConversationByID(c.Request().Context(), userID, conversationID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, conversation)
}

func (h *ChatHandler) GetMessages(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	userID := c.Get("uid").(string)

	messages, total, err := h.chatUseCase.GetConversationMessages(c.Request().Context(), userID, conversationID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, messages, total, pagination.Page, pagination.PageSize)
}

type sendMessageRequest struct {
	Content string `json:"content" validate:"required,max=2000"`
}

func (h *ChatHandler) SendMessage(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	message, err := h.chatUseCase.SendMessage(c.Request().Context(), userID, usecase.SendMessageInput{
		ConversationID: conversationID,
		Content:        req.Content,
		Type:           "text",
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, message)
}

func (h *ChatHandler) MarkAsRead(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	userID := c.Get("uid").(string)

	if err := h.chatUseCase.MarkConversationAsRead(c.Request().Context(), userID, conversationID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Conversation marked as read",
	})
}

// GetTyping is the REST fallback for the typing indicator; socket clients get
// pushes instead. Staleness is applied at read time so an unswept flag from a
// crashed client cannot stick.
func (h *ChatHandler) GetTyping(c echo.Context) error {
	conversationID := c.Param("id")
	if conversationID == "" {
		return response.Error(c, errors.BadRequest("Conversation ID is required", nil))
	}

	userID := c.Get("uid").(string)

	conversation, err := h.chatUseCase.GetConversationByID(c.Request().Context(), userID, conversationID)
	if err != nil {
		return response.Error(c, err)
	}

	now := time.Now()
	typing := []string{}
	for participantID := range conversation.Typing {
		if participantID != userID && entity.TypingAt(conversation.Typing, participantID, now) {
			typing = append(typing, participantID)
		}
	}

	return response.Success(c, map[string]interface{}{
		"conversation_id": conversationID,
		"typing":          typing,
	})
}
