package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

// ErrStudentNotFound indicates the student profile was not located.
var ErrStudentNotFound = errors.New("student not found")

// ErrAlreadyEnrolled indicates the student already has an enrollment row.
var ErrAlreadyEnrolled = errors.New("student already enrolled")

// CourseService manages courses and enrollments for a teacher.
type CourseService interface {
	List(ctx context.Context, actor ActivityActor) ([]dto.CourseResponse, error)
	Get(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error)
	Create(ctx context.Context, payload dto.CourseCreateRequest, actor ActivityActor) (dto.CourseResponse, error)
	Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest, actor ActivityActor) (dto.CourseResponse, error)
	Delete(ctx context.Context, id uint, actor ActivityActor) error
	Enroll(ctx context.Context, courseID uint, payload dto.EnrollStudentRequest, actor ActivityActor) error
	Withdraw(ctx context.Context, courseID, studentID uint, actor ActivityActor) error
}

type courseService struct {
	courses   repository.CourseRepository
	students  repository.StudentRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewCourseService constructs the course service.
func NewCourseService(courses repository.CourseRepository, students repository.StudentRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) CourseService {
	return &courseService{
		courses:   courses,
		students:  students,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "course_service").Logger(),
	}
}

func (s *courseService) List(ctx context.Context, actor ActivityActor) ([]dto.CourseResponse, error) {
	courses, err := s.courses.ListByTeacher(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return dto.NewCourseResponseSlice(courses), nil
}

func (s *courseService) Get(ctx context.Context, id uint, actor ActivityActor) (dto.CourseResponse, error) {
	course, err := s.courses.GetByIDForTeacher(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Create(ctx context.Context, payload dto.CourseCreateRequest, actor ActivityActor) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course := models.Course{
		Title:       payload.Title,
		Description: payload.Description,
		TeacherID:   actor.ID,
		IsActive:    true,
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if err := s.courses.Create(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	s.record(ctx, actor, "course.created", course.ID)

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Update(ctx context.Context, id uint, payload dto.CourseUpdateRequest, actor ActivityActor) (dto.CourseResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CourseResponse{}, err
	}

	course, err := s.courses.GetByIDForTeacher(ctx, id, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.CourseResponse{}, ErrCourseNotFound
		}
		return dto.CourseResponse{}, err
	}

	if payload.Title != nil {
		course.Title = *payload.Title
	}
	if payload.Description != nil {
		course.Description = *payload.Description
	}
	if payload.IsActive != nil {
		course.IsActive = *payload.IsActive
	}

	if err := s.courses.Update(ctx, &course); err != nil {
		return dto.CourseResponse{}, err
	}

	return dto.NewCourseResponse(course), nil
}

func (s *courseService) Delete(ctx context.Context, id uint, actor ActivityActor) error {
	if _, err := s.courses.GetByIDForTeacher(ctx, id, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.courses.Delete(ctx, id); err != nil {
		return err
	}

	s.record(ctx, actor, "course.deleted", id)

	return nil
}

func (s *courseService) Enroll(ctx context.Context, courseID uint, payload dto.EnrollStudentRequest, actor ActivityActor) error {
	if err := s.validator.Struct(payload); err != nil {
		return err
	}

	course, err := s.courses.GetByIDForTeacher(ctx, courseID, actor.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if _, err := s.students.GetByID(ctx, payload.StudentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	for _, enrollment := range course.Enrollments {
		if enrollment.StudentID == payload.StudentID {
			if enrollment.IsActive {
				return ErrAlreadyEnrolled
			}
			// Re-activating a withdrawn student reuses the existing row.
			return s.courses.SetEnrollmentActive(ctx, courseID, payload.StudentID, true)
		}
	}

	return s.courses.Enroll(ctx, &models.Enrollment{
		CourseID:  courseID,
		StudentID: payload.StudentID,
		IsActive:  true,
	})
}

// Withdraw deactivates an enrollment without deleting it, so past grades
// stay attached to the homework history.
func (s *courseService) Withdraw(ctx context.Context, courseID, studentID uint, actor ActivityActor) error {
	if _, err := s.courses.GetByIDForTeacher(ctx, courseID, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCourseNotFound
		}
		return err
	}

	if err := s.courses.SetEnrollmentActive(ctx, courseID, studentID, false); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStudentNotFound
		}
		return err
	}

	return nil
}

func (s *courseService) record(ctx context.Context, actor ActivityActor, action string, courseID uint) {
	if s.activity == nil {
		return
	}

	id := courseID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "course",
		EntityID:   &id,
	}); err != nil {
		s.logger.Warn().Err(err).Uint("course_id", courseID).Msg("failed to record course activity")
	}
}
