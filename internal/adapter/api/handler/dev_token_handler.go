package handler

import (
	"time"

	"github.com/labstack/echo/v4"

	"teachersgallery/internal/domain/repository"
	"teachersgallery/internal/infrastructure/firebase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
)

type DevTokenHandler struct {
	jwtSecret string
	jwtExpiry time.Duration
	userRepo  repository.UserRepository
}

var devTokenHandler *DevTokenHandler

func SetupDevTokenHandler(jwtSecret string, jwtExpirySeconds int64, userRepo repository.UserRepository) {
	devTokenHandler = &DevTokenHandler{
		jwtSecret: jwtSecret,
		jwtExpiry: time.Duration(jwtExpirySeconds) * time.Second,
		userRepo:  userRepo,
	}
}

func GetDevTokenHandler() *DevTokenHandler {
	return devTokenHandler
}

// GenerateToken mints a local dev token for an arbitrary existing user.
func (h *DevTokenHandler) GenerateToken(c echo.Context) error {
	userID := c.QueryParam("uid")
	if userID == "" {
		return response.Error(c, errors.BadRequest("uid query parameter is required", nil))
	}

	user, err := h.userRepo.GetByID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, errors.NotFound("User", err))
	}

	token, err := firebase.GenerateDevToken(h.jwtSecret, user.ID, h.jwtExpiry)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]interface{}{
		"token": token,
		"user": map[string]interface{}{
			"id":    user.ID,
			"email": user.Email,
			"role":  user.Role,
		},
	})
}
