package service

import (
	"context"
	"errors"
	"io"
	"strconv"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/dto"
	"github.com/anikeev-dev/gradehub-api/internal/models"
	"github.com/anikeev-dev/gradehub-api/internal/repository"
)

// ErrAssignmentNotFound indicates the assignment was not located.
var ErrAssignmentNotFound = errors.New("assignment not found")

// ErrHomeworkExists indicates the student already has homework for the assignment.
var ErrHomeworkExists = errors.New("homework already issued for this student")

// ErrInvalidTransition indicates a lifecycle move the state machine forbids.
var ErrInvalidTransition = errors.New("invalid homework status transition")

// ErrDeadlineNotPassed indicates a late/missed sweep ran before the due date.
var ErrDeadlineNotPassed = errors.New("assignment deadline has not passed")

// ErrHomeworkConflict indicates a concurrent writer modified the homework.
var ErrHomeworkConflict = errors.New("homework was modified concurrently")

// HomeworkService governs the homework lifecycle outside of grading:
// issuing, submission, due-date sweeps and attachment metadata.
type HomeworkService interface {
	Issue(ctx context.Context, payload dto.IssueHomeworkRequest, actor ActivityActor) (dto.HomeworkResponse, error)
	List(ctx context.Context, filter dto.HomeworkFilter) ([]dto.HomeworkResponse, error)
	Get(ctx context.Context, id uint) (dto.HomeworkResponse, error)
	Submit(ctx context.Context, id uint, payload dto.SubmitHomeworkRequest) (dto.HomeworkResponse, error)
	MarkLate(ctx context.Context, id uint, actor ActivityActor) (dto.HomeworkResponse, error)
	MarkMissed(ctx context.Context, id uint, actor ActivityActor) (dto.HomeworkResponse, error)
	RecordAttachment(ctx context.Context, id uint, fileName string, content io.Reader) (dto.AttachmentResponse, error)
	BundleManifest(ctx context.Context, id uint) (dto.BundleManifestResponse, error)
}

type homeworkService struct {
	homeworks   repository.HomeworkRepository
	assignments repository.AssignmentRepository
	validator   *validator.Validate
	logger      zerolog.Logger
	now         func() time.Time
}

// NewHomeworkService constructs the homework lifecycle service.
func NewHomeworkService(homeworks repository.HomeworkRepository, assignments repository.AssignmentRepository, validator *validator.Validate, logger zerolog.Logger) HomeworkService {
	return &homeworkService{
		homeworks:   homeworks,
		assignments: assignments,
		validator:   validator,
		logger:      logger.With().Str("component", "homework_service").Logger(),
		now:         time.Now,
	}
}

func (s *homeworkService) Issue(ctx context.Context, payload dto.IssueHomeworkRequest, actor ActivityActor) (dto.HomeworkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HomeworkResponse{}, err
	}

	if _, err := s.assignments.GetByIDForTeacher(ctx, payload.AssignmentID, actor.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HomeworkResponse{}, ErrAssignmentNotFound
		}
		return dto.HomeworkResponse{}, err
	}

	if _, err := s.homeworks.FindByAssignmentAndStudent(ctx, payload.AssignmentID, payload.StudentID); err == nil {
		return dto.HomeworkResponse{}, ErrHomeworkExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return dto.HomeworkResponse{}, err
	}

	priority := payload.Priority
	if priority == "" {
		priority = models.HomeworkPriorityMedium
	}

	homework := models.Homework{
		AssignmentID: payload.AssignmentID,
		StudentID:    payload.StudentID,
		Status:       models.HomeworkStatusAssigned,
		Priority:     priority,
		Version:      1,
	}
	if err := s.homeworks.Create(ctx, &homework); err != nil {
		return dto.HomeworkResponse{}, err
	}

	created, err := s.homeworks.GetByID(ctx, homework.ID)
	if err != nil {
		return dto.HomeworkResponse{}, err
	}

	return dto.NewHomeworkResponse(created), nil
}

func (s *homeworkService) List(ctx context.Context, filter dto.HomeworkFilter) ([]dto.HomeworkResponse, error) {
	if err := s.validator.Struct(filter); err != nil {
		return nil, err
	}

	homeworks, err := s.homeworks.List(ctx, repository.HomeworkFilter{
		AssignmentID: filter.AssignmentID,
		StudentID:    filter.StudentID,
		CourseID:     filter.CourseID,
		Status:       filter.Status,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewHomeworkResponseSlice(homeworks), nil
}

func (s *homeworkService) Get(ctx context.Context, id uint) (dto.HomeworkResponse, error) {
	homework, err := s.homeworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HomeworkResponse{}, ErrHomeworkNotFound
		}
		return dto.HomeworkResponse{}, err
	}

	return dto.NewHomeworkResponse(homework), nil
}

// Submit moves assigned or revision homework to submitted, stamping the
// submission time. Resubmission after a revision request re-applies the
// same logic.
func (s *homeworkService) Submit(ctx context.Context, id uint, payload dto.SubmitHomeworkRequest) (dto.HomeworkResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.HomeworkResponse{}, err
	}

	homework, err := s.homeworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HomeworkResponse{}, ErrHomeworkNotFound
		}
		return dto.HomeworkResponse{}, err
	}

	if !models.ValidTransition(homework.Status, models.HomeworkStatusSubmitted) {
		return dto.HomeworkResponse{}, ErrInvalidTransition
	}

	submittedAt := s.now()
	homework.SubmittedAt = &submittedAt
	if payload.TextContent != "" {
		homework.TextContent = payload.TextContent
	}

	err = s.homeworks.UpdateStatus(ctx, &homework, models.HomeworkStatusSubmitted, &models.HomeworkHistory{
		HomeworkID: homework.ID,
		FromStatus: homework.Status,
		ToStatus:   models.HomeworkStatusSubmitted,
		ActorID:    homework.StudentID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return dto.HomeworkResponse{}, ErrHomeworkConflict
		}
		return dto.HomeworkResponse{}, err
	}

	return dto.NewHomeworkResponse(homework), nil
}

// MarkLate flags unsubmitted or ungraded work past the deadline. The sweep
// that decides when to call this lives outside the engine.
func (s *homeworkService) MarkLate(ctx context.Context, id uint, actor ActivityActor) (dto.HomeworkResponse, error) {
	return s.sweep(ctx, id, models.HomeworkStatusLate, actor)
}

// MarkMissed flags work never submitted once the deadline has passed.
func (s *homeworkService) MarkMissed(ctx context.Context, id uint, actor ActivityActor) (dto.HomeworkResponse, error) {
	return s.sweep(ctx, id, models.HomeworkStatusMissed, actor)
}

func (s *homeworkService) sweep(ctx context.Context, id uint, toStatus string, actor ActivityActor) (dto.HomeworkResponse, error) {
	homework, err := s.homeworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.HomeworkResponse{}, ErrHomeworkNotFound
		}
		return dto.HomeworkResponse{}, err
	}

	if !homework.Assignment.IsOverdue(s.now()) {
		return dto.HomeworkResponse{}, ErrDeadlineNotPassed
	}

	if !models.ValidTransition(homework.Status, toStatus) {
		return dto.HomeworkResponse{}, ErrInvalidTransition
	}

	fromStatus := homework.Status
	err = s.homeworks.UpdateStatus(ctx, &homework, toStatus, &models.HomeworkHistory{
		HomeworkID: homework.ID,
		FromStatus: fromStatus,
		ToStatus:   toStatus,
		ActorID:    actor.ID,
	})
	if err != nil {
		if errors.Is(err, repository.ErrVersionConflict) {
			return dto.HomeworkResponse{}, ErrHomeworkConflict
		}
		return dto.HomeworkResponse{}, err
	}

	return dto.NewHomeworkResponse(homework), nil
}

// RecordAttachment stores attachment metadata for a homework. The bytes are
// inspected for size and content type, then discarded; storing them is the
// blob store's job.
func (s *homeworkService) RecordAttachment(ctx context.Context, id uint, fileName string, content io.Reader) (dto.AttachmentResponse, error) {
	homework, err := s.homeworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.AttachmentResponse{}, ErrHomeworkNotFound
		}
		return dto.AttachmentResponse{}, err
	}

	data, err := io.ReadAll(content)
	if err != nil {
		return dto.AttachmentResponse{}, err
	}

	attachment := models.Attachment{
		HomeworkID:  homework.ID,
		FileName:    fileName,
		FilePath:    attachmentPath(homework.ID, fileName),
		ContentType: mimetype.Detect(data).String(),
		SizeBytes:   int64(len(data)),
		UploadedAt:  s.now(),
	}
	if err := s.homeworks.CreateAttachment(ctx, &attachment); err != nil {
		return dto.AttachmentResponse{}, err
	}

	return dto.AttachmentResponse{
		ID:          attachment.ID,
		FileName:    attachment.FileName,
		ContentType: attachment.ContentType,
		SizeBytes:   attachment.SizeBytes,
		UploadedAt:  attachment.UploadedAt,
	}, nil
}

// BundleManifest composes the info manifest for a homework download bundle
// from attachment metadata.
func (s *homeworkService) BundleManifest(ctx context.Context, id uint) (dto.BundleManifestResponse, error) {
	homework, err := s.homeworks.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.BundleManifestResponse{}, ErrHomeworkNotFound
		}
		return dto.BundleManifestResponse{}, err
	}

	attachments, err := s.homeworks.ListAttachments(ctx, id)
	if err != nil {
		return dto.BundleManifestResponse{}, err
	}

	manifest := dto.BundleManifestResponse{
		HomeworkID:      homework.ID,
		StudentName:     homework.Student.FullName(),
		AssignmentTitle: homework.Assignment.Title,
		Files:           make([]dto.AttachmentResponse, 0, len(attachments)),
		GeneratedAt:     s.now(),
	}
	for _, attachment := range attachments {
		manifest.Files = append(manifest.Files, dto.AttachmentResponse{
			ID:          attachment.ID,
			FileName:    attachment.FileName,
			ContentType: attachment.ContentType,
			SizeBytes:   attachment.SizeBytes,
			UploadedAt:  attachment.UploadedAt,
		})
		manifest.TotalSizeBytes += attachment.SizeBytes
	}

	return manifest, nil
}

func attachmentPath(homeworkID uint, fileName string) string {
	return "homework/" + strconv.FormatUint(uint64(homeworkID), 10) + "/" + fileName
}
