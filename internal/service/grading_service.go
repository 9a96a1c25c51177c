package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

// ErrHomeworkNotFound indicates the homework was not located within the
// acting teacher's courses.
var ErrHomeworkNotFound = errors.New("homework not found")

// ErrGradeValueOutOfRange indicates a grade value outside the 1..5 scale.
var ErrGradeValueOutOfRange = errors.New("grade value out of range")

// ErrPointsOutOfRange indicates points outside [0, assignment max].
var ErrPointsOutOfRange = errors.New("points out of range")

// ErrGradeMissingValue indicates a grading payload with neither grade value
// nor points.
var ErrGradeMissingValue = errors.New("grade value or points required")

// ErrEmptyRevisionComment indicates a revision request without feedback.
var ErrEmptyRevisionComment = errors.New("revision comment must not be empty")

// ErrGradingConflict indicates the homework changed under a concurrent writer.
var ErrGradingConflict = errors.New("homework was graded concurrently")

// GradebookInvalidator drops cached gradebook aggregates after grade writes.
type GradebookInvalidator interface {
	Invalidate(ctx context.Context, courseID uint)
}

// GradingService encapsulates the grading engine: numeric grade application
// and revision requests, each an atomic read-modify-write on one homework.
type GradingService interface {
	ApplyGrade(ctx context.Context, homeworkID uint, payload dto.ApplyGradeRequest, actor ActivityActor) (dto.HomeworkResponse, error)
	RequestRevision(ctx context.Context, homeworkID uint, payload dto.RequestRevisionRequest, actor ActivityActor) (dto.HomeworkResponse, error)
}

type gradingService struct {
	repo      repository.GradingRepository
	validator *validator.Validate
	activity  ActivityRecorder
	gradebook GradebookInvalidator
	sanitizer *bluemonday.Policy
	logger    zerolog.Logger
	now       func() time.Time
}

// NewGradingService constructs the grading service.
func NewGradingService(repo repository.GradingRepository, validator *validator.Validate, activity ActivityRecorder, gradebook GradebookInvalidator, logger zerolog.Logger) GradingService {
	return &gradingService{
		repo:      repo,
		validator: validator,
		activity:  activity,
		gradebook: gradebook,
		sanitizer: bluemonday.StrictPolicy(),
		logger:    logger.With().Str("component", "grading_service").Logger(),
		now:       time.Now,
	}
}

func (s *gradingService) ApplyGrade(ctx context.Context, homeworkID uint, payload dto.ApplyGradeRequest, actor ActivityActor) (dto.HomeworkResponse, error) {
	tracer := otel.Tracer("github.com/anikeev-dev/gradehub-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.apply")
	span.SetAttributes(
		attribute.Int64("grading.homework_id", int64(homeworkID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	if err := s.validator.Struct(payload); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "validation_failed")
		return dto.HomeworkResponse{}, err
	}

	if payload.GradeValue == nil && payload.Points == nil {
		span.SetStatus(codes.Error, "grade_missing_value")
		return dto.HomeworkResponse{}, ErrGradeMissingValue
	}

	homework, err := s.repo.GetHomeworkForTeacher(ctx, homeworkID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "homework_not_found")
			return dto.HomeworkResponse{}, ErrHomeworkNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "homework_lookup_failed")
		return dto.HomeworkResponse{}, err
	}

	if payload.GradeValue != nil && (*payload.GradeValue < models.GradeValueMin || *payload.GradeValue > models.GradeValueMax) {
		span.SetStatus(codes.Error, "grade_value_out_of_range")
		return dto.HomeworkResponse{}, ErrGradeValueOutOfRange
	}

	if payload.Points != nil && (*payload.Points < 0 || *payload.Points > homework.Assignment.MaxPoints) {
		span.SetStatus(codes.Error, "points_out_of_range")
		return dto.HomeworkResponse{}, ErrPointsOutOfRange
	}

	comment := s.sanitizer.Sanitize(strings.TrimSpace(payload.Comment))

	current := homework.CurrentGrade()
	if current != nil && current.TeacherID == actor.ID &&
		intPtrEqual(current.GradeValue, payload.GradeValue) &&
		intPtrEqual(current.Points, payload.Points) &&
		strings.TrimSpace(current.Comment) == comment {
		span.SetAttributes(attribute.Bool("grading.idempotent", true))
		return dto.NewHomeworkResponse(homework), nil
	}

	grade := models.Grade{
		HomeworkID: homework.ID,
		TeacherID:  actor.ID,
		GradeValue: payload.GradeValue,
		Points:     payload.Points,
		Comment:    comment,
		GradedAt:   s.now(),
	}
	// Re-grading rewrites the existing numeric slot instead of appending.
	if current != nil {
		grade.ID = current.ID
		grade.CreatedAt = current.CreatedAt
	}

	if err := s.repo.SaveGrade(ctx, &homework, &grade); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			span.SetStatus(codes.Error, "grading_conflict")
			return dto.HomeworkResponse{}, ErrGradingConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "grade_write_failed")
		return dto.HomeworkResponse{}, err
	}

	homework.Grades = replaceNumericGrade(homework.Grades, grade)

	s.recordActivity(ctx, actor, "homework.graded", homework, map[string]interface{}{
		"grade_value": payload.GradeValue,
		"points":      payload.Points,
	})
	s.invalidateGradebook(ctx, homework)

	span.SetAttributes(attribute.String("grading.status", homework.Status))

	return dto.NewHomeworkResponse(homework), nil
}

func (s *gradingService) RequestRevision(ctx context.Context, homeworkID uint, payload dto.RequestRevisionRequest, actor ActivityActor) (dto.HomeworkResponse, error) {
	tracer := otel.Tracer("github.com/anikeev-dev/gradehub-api/internal/service/grading")
	ctx, span := tracer.Start(ctx, "grading.revision")
	span.SetAttributes(
		attribute.Int64("grading.homework_id", int64(homeworkID)),
		attribute.Int64("grading.actor_id", int64(actor.ID)),
	)
	defer span.End()

	comment := s.sanitizer.Sanitize(strings.TrimSpace(payload.Comment))
	if comment == "" {
		span.SetStatus(codes.Error, "empty_revision_comment")
		return dto.HomeworkResponse{}, ErrEmptyRevisionComment
	}

	homework, err := s.repo.GetHomeworkForTeacher(ctx, homeworkID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			span.SetStatus(codes.Error, "homework_not_found")
			return dto.HomeworkResponse{}, ErrHomeworkNotFound
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "homework_lookup_failed")
		return dto.HomeworkResponse{}, err
	}

	if !models.ValidTransition(homework.Status, models.HomeworkStatusRevision) {
		span.SetStatus(codes.Error, "invalid_transition")
		return dto.HomeworkResponse{}, ErrInvalidTransition
	}

	grade := models.Grade{
		HomeworkID:        homework.ID,
		TeacherID:         actor.ID,
		Comment:           comment,
		IsRevisionRequest: true,
		GradedAt:          s.now(),
	}

	if err := s.repo.SaveRevisionRequest(ctx, &homework, &grade); err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			span.SetStatus(codes.Error, "grading_conflict")
			return dto.HomeworkResponse{}, ErrGradingConflict
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "revision_write_failed")
		return dto.HomeworkResponse{}, err
	}

	homework.Grades = append([]models.Grade{grade}, homework.Grades...)

	s.recordActivity(ctx, actor, "homework.revision_requested", homework, map[string]interface{}{
		"comment": comment,
	})
	s.invalidateGradebook(ctx, homework)

	return dto.NewHomeworkResponse(homework), nil
}

func (s *gradingService) recordActivity(ctx context.Context, actor ActivityActor, action string, homework models.Homework, extra map[string]interface{}) {
	if s.activity == nil {
		return
	}

	metadata := map[string]interface{}{
		"homework_id":   homework.ID,
		"assignment_id": homework.AssignmentID,
		"student_id":    homework.StudentID,
	}
	for key, value := range extra {
		metadata[key] = value
	}

	homeworkID := homework.ID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "homework",
		EntityID:   &homeworkID,
		Metadata:   metadata,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("homework_id", homework.ID).Msg("failed to record grading activity")
	}
}

func (s *gradingService) invalidateGradebook(ctx context.Context, homework models.Homework) {
	if s.gradebook == nil {
		return
	}
	s.gradebook.Invalidate(ctx, homework.Assignment.CourseID)
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func replaceNumericGrade(grades []models.Grade, grade models.Grade) []models.Grade {
	replaced := false
	result := make([]models.Grade, 0, len(grades)+1)
	for _, existing := range grades {
		if !existing.IsRevisionRequest {
			result = append(result, grade)
			replaced = true
			continue
		}
		result = append(result, existing)
	}
	if !replaced {
		result = append(result, grade)
	}
	return result
}
