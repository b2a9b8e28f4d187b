package handler

import (
	"github.com/labstack/echo/v4"

	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
)

type PresenceHandler struct {
	presenceUseCase *usecase.PresenceUseCase
}

func NewPresenceHandler(presenceUseCase *usecase.PresenceUseCase) *PresenceHandler {
	return &PresenceHandler{
		presenceUseCase: presenceUseCase,
	}
}

// GetPresence reports whether a participant currently reads as online.
func (h *PresenceHandler) GetPresence(c echo.Context) error {
	participantID := c.Param("id")
	if participantID == "" {
		return response.Error(c, errors.BadRequest("Participant ID is required", nil))
	}

	online, err := h.presenceUseCase.IsOnline(c.Request().Context(), participantID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"participant_id": participantID,
		"online":         online,
	})
}

// Heartbeat is the REST fallback for clients without a live socket. The write
// is best effort, so the endpoint always acknowledges.
func (h *PresenceHandler) Heartbeat(c echo.Context) error {
	userID := c.Get("uid").(string)

	h.presenceUseCase.SetOnline(c.Request().Context(), userID, true)

	return response.Success(c, map[string]string{
		"status": "ok",
	})
}

// GoOffline lets a client mark itself offline ahead of the threshold, e.g.
// on an explicit logout.
func (h *PresenceHandler) GoOffline(c echo.Context) error {
	userID := c.Get("uid").(string)

	h.presenceUseCase.SetOnline(c.Request().Context(), userID, false)

	return response.Success(c, map[string]string{
		"status": "ok",
	})
}
