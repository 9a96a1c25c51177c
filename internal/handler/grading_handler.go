package handler

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/service"
	"github.com/anikeev-dev/gradehub-api/internal/utils"
)

// GradingHandler wires grading HTTP routes onto the homework group.
type GradingHandler struct {
	service service.GradingService
	logger  zerolog.Logger
}

// NewGradingHandler constructs the handler.
func NewGradingHandler(service service.GradingService, logger zerolog.Logger) *GradingHandler {
	return &GradingHandler{
		service: service,
		logger:  logger.With().Str("component", "grading_handler").Logger(),
	}
}

// Register attaches grading endpoints to the router group.
func (h *GradingHandler) Register(router fiber.Router) {
	router.Post("/:id/grade", h.applyGrade)
	router.Post("/:id/revision", h.requestRevision)
}

func (h *GradingHandler) applyGrade(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.ApplyGradeRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	homework, err := h.service.ApplyGrade(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "grade applied", homework)
}

func (h *GradingHandler) requestRevision(c *fiber.Ctx) error {
	id, err := parseUintParam(c, "id")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	var payload dto.RequestRevisionRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	homework, err := h.service.RequestRevision(c.Context(), id, payload, activityActorFromContext(c))
	if err != nil {
		return h.handleError(c, err)
	}

	return utils.SendSuccess(c, "revision requested", homework)
}

func (h *GradingHandler) handleError(c *fiber.Ctx, err error) error {
	var validationErrors validator.ValidationErrors
	switch {
	case errors.Is(err, service.ErrHomeworkNotFound):
		return utils.SendError(c, fiber.StatusNotFound, "homework not found")
	case errors.Is(err, service.ErrGradeValueOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "grade value out of range")
	case errors.Is(err, service.ErrPointsOutOfRange):
		return utils.SendError(c, fiber.StatusBadRequest, "points out of range")
	case errors.Is(err, service.ErrGradeMissingValue):
		return utils.SendError(c, fiber.StatusBadRequest, "grade value or points required")
	case errors.Is(err, service.ErrEmptyRevisionComment):
		return utils.SendError(c, fiber.StatusBadRequest, "revision comment must not be empty")
	case errors.Is(err, service.ErrInvalidTransition):
		return utils.SendError(c, fiber.StatusUnprocessableEntity, "invalid homework status transition")
	case errors.Is(err, service.ErrGradingConflict):
		return utils.SendError(c, fiber.StatusConflict, "homework was graded concurrently")
	case errors.As(err, &validationErrors):
		return utils.SendError(c, fiber.StatusBadRequest, validationErrors.Error())
	default:
		return h.internalError(c, err)
	}
}

func (h *GradingHandler) internalError(c *fiber.Ctx, err error) error {
	requestLogger(h.logger, c).Error().Err(err).Msg("internal server error")
	return utils.SendError(c, fiber.StatusInternalServerError, "internal server error")
}
