package handler

import (
	"github.com/labstack/echo/v4"

	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
	"teachersgallery/pkg/utils"
)

type ReviewHandler struct {
	reviewUseCase *usecase.ReviewUseCase
}

func NewReviewHandler(reviewUseCase *usecase.ReviewUseCase) *ReviewHandler {
	return &ReviewHandler{
		reviewUseCase: reviewUseCase,
	}
}

type createReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Content string `json:"content" validate:"max=2000"`
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	teacherID := c.Param("teacherId")
	if teacherID == "" {
		return response.Error(c, errors.BadRequest("Teacher ID is required", nil))
	}

	var req createReviewRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	review, err := h.reviewUseCase.CreateReview(c.Request().Context(), userID, usecase.CreateReviewInput{
		TeacherID: teacherID,
		Rating:    req.Rating,
		Content:   req.Content,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, review)
}

func (h *ReviewHandler) GetTeacherReviews(c echo.Context) error {
	teacherID := c.Param("teacherId")
	if teacherID == "" {
		return response.Error(c, errors.BadRequest("Teacher ID is required", nil))
	}

	pagination := utils.GetPaginationParams(c)

	reviews, total, err := h.reviewUseCase.ListByTeacher(c.Request().Context(), teacherID, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, reviews, total, pagination.Page, pagination.PageSize)
}

func (h *ReviewHandler) HideReview(c echo.Context) error {
	reviewID := c.Param("reviewId")
	if reviewID == "" {
		return response.Error(c, errors.BadRequest("Review ID is required", nil))
	}

	if err := h.reviewUseCase.HideReview(c.Request().Context(), reviewID); err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, map[string]string{
		"message": "Review hidden",
	})
}
