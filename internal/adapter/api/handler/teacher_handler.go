package handler

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
	"teachersgallery/pkg/utils"
)

type TeacherHandler struct {
	teacherProfileUseCase *usecase.TeacherProfileUseCase
}

func NewTeacherHandler(teacherProfileUseCase *usecase.TeacherProfileUseCase) *TeacherHandler {
	return &TeacherHandler{
		teacherProfileUseCase: teacherProfileUseCase,
	}
}

func (h *TeacherHandler) CreateProfile(c echo.Context) error {
	var req usecase.TeacherProfileInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	profile, err := h.teacherProfileUseCase.CreateProfile(c.Request().Context(), userID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, profile)
}

func (h *TeacherHandler) GetProfile(c echo.Context) error {
	profileID := c.Param("id")
	if profileID == "" {
		return response.Error(c, errors.BadRequest("Profile ID is required", nil))
	}

	profile, err := h.teacherProfileUseCase.GetProfile(c.Request().Context(), profileID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *TeacherHandler) GetMyProfile(c echo.Context) error {
	userID := c.Get("uid").(string)

	profile, err := h.teacherProfileUseCase.GetProfileByUserID(c.Request().Context(), userID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *TeacherHandler) UpdateProfile(c echo.Context) error {
	profileID := c.Param("id")
	if profileID == "" {
		return response.Error(c, errors.BadRequest("Profile ID is required", nil))
	}

	var req usecase.TeacherProfileInput
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	profile, err := h.teacherProfileUseCase.UpdateProfile(c.Request().Context(), userID, profileID, req)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, profile)
}

func (h *TeacherHandler) ListTeachers(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	var maxFee int64
	if maxFeeStr := c.QueryParam("max_fee"); maxFeeStr != "" {
		parsed, err := strconv.ParseInt(maxFeeStr, 10, 64)
		if err != nil || parsed < 0 {
			return response.Error(c, errors.BadRequest("Invalid max_fee value", nil))
		}
		maxFee = parsed
	}

	teachers, total, err := h.teacherProfileUseCase.ListTeachers(c.Request().Context(), usecase.ListTeachersParams{
		Subject:      c.QueryParam("subject"),
		Location:     c.QueryParam("location"),
		TeachingMode: c.QueryParam("mode"),
		MaxFee:       maxFee,
		Sort:         c.QueryParam("sort"),
		Limit:        pagination.PageSize,
		Offset:       pagination.Offset,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, teachers, total, pagination.Page, pagination.PageSize)
}
