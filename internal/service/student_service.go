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

// ErrGroupNotFound is returned when a student group does not exist.
var ErrGroupNotFound = errors.New("student group not found")

// StudentService manages the student roster and its groups.
type StudentService interface {
	ListStudents(ctx context.Context) ([]dto.StudentResponse, error)
	CreateStudent(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentResponse, error)
	ListGroups(ctx context.Context) ([]dto.GroupResponse, error)
	CreateGroup(ctx context.Context, payload dto.GroupCreateRequest, actor ActivityActor) (dto.GroupResponse, error)
	DeleteGroup(ctx context.Context, id uint, actor ActivityActor) error
}

type studentService struct {
	students  repository.StudentRepository
	groups    repository.StudentGroupRepository
	validator *validator.Validate
	activity  ActivityRecorder
	logger    zerolog.Logger
}

// NewStudentService constructs the student roster service.
func NewStudentService(students repository.StudentRepository, groups repository.StudentGroupRepository, validator *validator.Validate, activity ActivityRecorder, logger zerolog.Logger) StudentService {
	return &studentService{
		students:  students,
		groups:    groups,
		validator: validator,
		activity:  activity,
		logger:    logger.With().Str("component", "student_service").Logger(),
	}
}

func (s *studentService) ListStudents(ctx context.Context) ([]dto.StudentResponse, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewStudentResponseSlice(students), nil
}

func (s *studentService) CreateStudent(ctx context.Context, payload dto.StudentCreateRequest, actor ActivityActor) (dto.StudentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.StudentResponse{}, err
	}

	student := models.StudentProfile{
		FirstName:   payload.FirstName,
		LastName:    payload.LastName,
		Email:       payload.Email,
		StudentCode: payload.StudentCode,
		Phone:       payload.Phone,
	}

	if payload.GroupCode != "" {
		group, err := s.groups.GetByCode(ctx, payload.GroupCode)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return dto.StudentResponse{}, ErrGroupNotFound
			}
			return dto.StudentResponse{}, err
		}
		student.GroupID = &group.ID
		student.Group = &group
	}

	if err := s.students.Create(ctx, &student); err != nil {
		return dto.StudentResponse{}, err
	}

	s.recordActivity(ctx, actor, "student_created", student.ID)

	return dto.NewStudentResponse(student), nil
}

func (s *studentService) ListGroups(ctx context.Context) ([]dto.GroupResponse, error) {
	groups, err := s.groups.List(ctx)
	if err != nil {
		return nil, err
	}

	return dto.NewGroupResponseSlice(groups), nil
}

func (s *studentService) CreateGroup(ctx context.Context, payload dto.GroupCreateRequest, actor ActivityActor) (dto.GroupResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.GroupResponse{}, err
	}

	group := models.StudentGroup{
		Name: payload.Name,
		Code: payload.Code,
	}
	if err := s.groups.Create(ctx, &group); err != nil {
		return dto.GroupResponse{}, err
	}

	s.recordActivity(ctx, actor, "group_created", group.ID)

	return dto.NewGroupResponse(group), nil
}

func (s *studentService) DeleteGroup(ctx context.Context, id uint, actor ActivityActor) error {
	if _, err := s.groups.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrGroupNotFound
		}
		return err
	}

	if err := s.groups.Delete(ctx, id); err != nil {
		return err
	}

	s.recordActivity(ctx, actor, "group_deleted", id)

	return nil
}

func (s *studentService) recordActivity(ctx context.Context, actor ActivityActor, action string, entityID uint) {
	if s.activity == nil {
		return
	}

	id := entityID
	if _, err := s.activity.Record(ctx, ActivityEntry{
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		EntityType: "roster",
		EntityID:   &id,
	}); err != nil {
		s.logger.Warn().Err(err).Str("action", action).Msg("failed to record activity")
	}
}
