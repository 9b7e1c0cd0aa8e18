package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/service"
	"github.com/vidyamath/api/pkg/response"
)

type VideoHandler struct {
	service   *service.VideoService
	validator *validator.Validate
}

func NewVideoHandler(svc *service.VideoService, v *validator.Validate) *VideoHandler {
	return &VideoHandler{
		service:   svc,
		validator: v,
	}
}

// Start handles POST /api/videos/generate
// @Summary      Start video generation
// @Description  Queue an asynchronous job that narrates, animates and renders a math problem
// @Tags         Videos
// @Accept       json
// @Produce      json
// @Param        request body model.GenerateStartRequest true "Generation request"
// @Success      202 {object} model.GenerateStartResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/videos/generate [post]
func (h *VideoHandler) Start(c *fiber.Ctx) error {
	var req model.GenerateStartRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	result, err := h.service.StartGenerate(c.Context(), &req)
	if err != nil {
		return problemError(c, err)
	}

	return response.Accepted(c, result)
}

// Status handles GET /api/videos/status/:jobId
// @Summary      Get generation job status
// @Description  Get the current status and progress of a generation job
// @Tags         Videos
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.GenerateStatusResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/videos/status/{jobId} [get]
func (h *VideoHandler) Status(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetStatus(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Result handles GET /api/videos/result/:jobId
// @Summary      Get generation job result
// @Description  Get the result of a completed generation job including artifact paths
// @Tags         Videos
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.GenerateResultResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/videos/result/{jobId} [get]
func (h *VideoHandler) Result(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.GetResult(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		if err.Error() == "job not completed" {
			return response.ValidationError(c, "Job not completed yet", nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Cancel handles POST /api/videos/cancel/:jobId
// @Summary      Cancel generation job
// @Description  Cancel a running or queued generation job
// @Tags         Videos
// @Produce      json
// @Param        jobId path string true "Job ID"
// @Success      200 {object} model.GenerateCancelResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/videos/cancel/{jobId} [post]
func (h *VideoHandler) Cancel(c *fiber.Ctx) error {
	jobID := c.Params("jobId")
	if jobID == "" {
		return response.ValidationError(c, "Job ID is required", nil)
	}

	result, err := h.service.Cancel(c.Context(), jobID)
	if err != nil {
		if err.Error() == "job not found" {
			return response.NotFound(c, "Job not found")
		}
		if err.Error() == "job already completed" {
			return response.ValidationError(c, "Job already completed", nil)
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}
