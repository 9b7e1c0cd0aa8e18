package handler

import (
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/vidyamath/api/internal/model"
	"github.com/vidyamath/api/internal/service"
	"github.com/vidyamath/api/pkg/response"
)

type LibraryHandler struct {
	service   *service.LibraryService
	validator *validator.Validate
	grades    model.GradeBounds
}

func NewLibraryHandler(svc *service.LibraryService, v *validator.Validate, grades model.GradeBounds) *LibraryHandler {
	return &LibraryHandler{
		service:   svc,
		validator: v,
		grades:    grades,
	}
}

// ListBooks handles GET /api/library/books/:grade
// @Summary      List NCERT textbooks
// @Description  List NCERT math textbook PDFs for a grade
// @Tags         Library
// @Produce      json
// @Param        grade path int true "Grade (6-10)"
// @Success      200 {object} model.BookListResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      404 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/library/books/{grade} [get]
func (h *LibraryHandler) ListBooks(c *fiber.Ctx) error {
	grade, err := strconv.Atoi(c.Params("grade"))
	if err != nil || grade < h.grades.Min || grade > h.grades.Max {
		return response.ValidationError(c, "Grade out of range", map[string]int{
			"min": h.grades.Min,
			"max": h.grades.Max,
		})
	}

	result, err := h.service.ListBooks(c.Context(), grade)
	if err != nil {
		if strings.HasPrefix(err.Error(), "no folder configured") {
			return response.NotFound(c, err.Error())
		}
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// ListVideos handles GET /api/library/videos
// @Summary      List generated videos
// @Description  List recently generated video packages, newest first
// @Tags         Library
// @Produce      json
// @Param        limit query int false "Maximum entries (default 20)"
// @Success      200 {object} model.VideoListResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      500 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/library/videos [get]
func (h *LibraryHandler) ListVideos(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	if limit < 1 || limit > 100 {
		limit = 20
	}

	result, err := h.service.ListVideos(c.Context(), int64(limit))
	if err != nil {
		return response.ServiceError(c, err.Error())
	}

	return response.OK(c, result)
}

// Search handles POST /api/library/search
// @Summary      Search textbook content
// @Description  Search extracted textbook text for terms and return scored hits with context
// @Tags         Library
// @Accept       json
// @Produce      json
// @Param        request body model.SearchRequest true "Search request"
// @Success      200 {object} model.SearchResponse
// @Failure      400 {object} response.ErrorResponse
// @Failure      401 {object} response.ErrorResponse
// @Failure      429 {object} response.ErrorResponse
// @Security     BearerAuth
// @Router       /api/library/search [post]
func (h *LibraryHandler) Search(c *fiber.Ctx) error {
	var req model.SearchRequest
	if err := c.BodyParser(&req); err != nil {
		return response.ValidationError(c, "Invalid request body", nil)
	}

	if err := h.validator.Struct(&req); err != nil {
		return response.ValidationError(c, "Validation failed", formatValidationErrors(err))
	}

	return response.OK(c, h.service.SearchTextbook(req.Content, req.Terms))
}
