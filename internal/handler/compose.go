package handler

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/script"
	"github.com/vidyamath/api/internal/service"
	"github.com/vidyamath/api/pkg/response"
)

type ComposeHandler struct {
	service   *service.ComposeService
	validator *validator.Validate
}

func NewComposeHandler(svc *service.ComposeService, v *validator.Validate) *ComposeHandler {
	return &ComposeHandler{
		service:   svc,
		validator: v,
	}
}

// Draft handles POST /api/compose/draft
// @Summary      Draft an animation script
// @Description  Compose a standalone animation script for a math problem without rendering it
// @Tags         Compose
// @Accept       json
// @Produce      json
// @Param        request body model.ComposeDraftRequest true "Draft request"
// @Success      200 {object} model.ComposeDraftResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      422 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      502 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/compose/draft [post]
func (h *ComposeHandler) Draft(c *fiber.Ctx) error {
	var req model.ComposeDraftRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.Draft(c.Context(), &req)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return problemError(c, err)
		}
		if errors.Is(err, script.ErrUnsafeEmbedding) {
			return response.CompositionError(c, err.Error())
		}
		if strings.HasPrefix(err.Error(), "AI draft failed") {
			return response.AIError(c, err.Error())
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}
