package handler

import (
	"github.com/labstack/echo/v4"

	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
	"teachersgallery/pkg/utils"
)

type NotificationHandler struct {
	notificationUseCase *usecase.NotificationUseCase
}

func NewNotificationHandler(notificationUseCase *usecase.NotificationUseCase) *NotificationHandler {
	return &NotificationHandler{
		notificationUseCase: notificationUseCase,
	}
}

func (h *NotificationHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)
	unreadOnly := c.QueryParam("unread") == "true"

	userID := c.Get("uid").(string)

	notifications, total, err := h.notificationUseCase.ListForUser(c.Request().Context(), userID, unreadOnly, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, notifications, total, pagination.Page, pagination.PageSize)
}

func (h *NotificationHandler) MarkRead(c echo.Context) error {
	notificationID := c.Param("id")
	if notificationID == "" {
		return response.Error(c, errors.BadRequest("Notification ID is required", nil))
	}

	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.MarkRead(c.Request().Context(), userID, notificationID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Notification marked as read",
	})
}

func (h *NotificationHandler) MarkAllRead(c echo.Context) error {
	userID := c.Get("uid").(string)

	if err := h.notificationUseCase.MarkAllRead(c.Request().Context(), userID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "All notifications marked as read",
	})
}
