package handler

import (
	"github.com/labstack/echo/v4"

	"teachersgallery/internal/usecase"
	"teachersgallery/pkg/errors"
	"teachersgallery/pkg/response"
	"teachersgallery/pkg/utils"
)

type PhoneRequestHandler struct {
	phoneRequestUseCase *usecase.PhoneRequestUseCase
}

func NewPhoneRequestHandler(phoneRequestUseCase *usecase.PhoneRequestUseCase) *PhoneRequestHandler {
	return &PhoneRequestHandler{
		phoneRequestUseCase: phoneRequestUseCase,
	}
}

type createPhoneRequestRequest struct {
	GranterID      string `json:"granter_id" validate:"required"`
	ConversationID string `json:"conversation_id"`
}

func (h *PhoneRequestHandler) Create(c echo.Context) error {
	var req createPhoneRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.phoneRequestUseCase.Create(c.Request().Context(), userID, usecase.CreatePhoneRequestInput{
		GranterID:      req.GranterID,
		ConversationID: req.ConversationID,
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Created(c, request)
}

type respondPhoneRequestRequest struct {
	Action string `json:"action" validate:"required,oneof=approve reject"`
}

func (h *PhoneRequestHandler) Respond(c echo.Context) error {
	requestID := c.Param("id")
	if requestID == "" {
		return response.Error(c, errors.BadRequest("Request ID is required", nil))
	}

	var req respondPhoneRequestRequest
	if err := c.Bind(&req); err != nil {
		return response.Error(c, err)
	}

	if err := c.Validate(&req); err != nil {
		return response.Error(c, err)
	}

	userID := c.Get("uid").(string)

	request, err := h.phoneRequestUseCase.Respond(c.Request().Context(), userID, usecase.RespondPhoneRequestInput{
		RequestID: requestID,
		Approve:   req.Action == "approve",
	})
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *PhoneRequestHandler) Get(c echo.Context) error {
	requestID := c.Param("id")
	if requestID == "" {
		return response.Error(c, errors.BadRequest("Request ID is required", nil))
	}

	userID := c.Get("uid").(string)

	request, err := h.phoneRequestUseCase.Get(c.Request().Context(), userID, requestID)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Success(c, request)
}

func (h *PhoneRequestHandler) List(c echo.Context) error {
	pagination := utils.GetPaginationParams(c)

	role := c.QueryParam("role")
	if role != "granter" {
		role = "requester"
	}

	userID := c.Get("uid").(string)

	requests, total, err := h.phoneRequestUseCase.ListForUser(c.Request().Context(), userID, role, pagination.PageSize, pagination.Offset)
	if err != nil {
		return response.Error(c, err)
	}

	return response.Paginated(c, requests, total, pagination.Page, pagination.PageSize)
}
