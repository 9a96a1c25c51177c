package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// HomeworkFilter narrows homework queries.
type HomeworkFilter struct {
	AssignmentID *uint
	StudentID    *uint
	CourseID     *uint
	Status       *string
}

// HomeworkRepository defines data operations for homework records.
type HomeworkRepository interface {
	List(ctx context.Context, filter HomeworkFilter) ([]models.Homework, error)
	ListByCourse(ctx context.Context, courseID uint) ([]models.Homework, error)
	GetByID(ctx context.Context, id uint) (models.Homework, error)
	FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Homework, error)
	Create(ctx context.Context, homework *models.Homework) error
	UpdateStatus(ctx context.Context, homework *models.Homework, toStatus string, history *models.HomeworkHistory) error
	CreateAttachment(ctx context.Context, attachment *models.Attachment) error
	ListAttachments(ctx context.Context, homeworkID uint) ([]models.Attachment, error)
}

type homeworkRepository struct {
	db *gorm.DB
}

// NewHomeworkRepository constructs a homework repository.
func NewHomeworkRepository(db *gorm.DB) HomeworkRepository {
	return &homeworkRepository{db: db}
}

func (r *homeworkRepository) baseQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(&models.Homework{}).
		Preload("Assignment").
		Preload("Student").
		Preload("Student.Group").
		Preload("Grades", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("graded_at DESC")
		})
}

func (r *homeworkRepository) List(ctx context.Context, filter HomeworkFilter) ([]models.Homework, error) {
	query := r.baseQuery(ctx)

	if filter.AssignmentID != nil {
		query = query.Where("homeworks.assignment_id = ?", *filter.AssignmentID)
	}

	if filter.StudentID != nil {
		query = query.Where("homeworks.student_id = ?", *filter.StudentID)
	}

	if filter.Status != nil {
		query = query.Where("homeworks.status = ?", *filter.Status)
	}

	if filter.CourseID != nil {
		query = query.
			Joins("JOIN assignments ON assignments.id = homeworks.assignment_id").
			Where("assignments.course_id = ?", *filter.CourseID)
	}

	var homeworks []models.Homework
	if err := query.Order("homeworks.created_at DESC").Find(&homeworks).Error; err != nil {
		return nil, err
	}

	return homeworks, nil
}

func (r *homeworkRepository) ListByCourse(ctx context.Context, courseID uint) ([]models.Homework, error) {
	id := courseID
	return r.List(ctx, HomeworkFilter{CourseID: &id})
}

func (r *homeworkRepository) GetByID(ctx context.Context, id uint) (models.Homework, error) {
	var homework models.Homework
	if err := r.baseQuery(ctx).
		Preload("Attachments").
		First(&homework, id).Error; err != nil {
		return models.Homework{}, err
	}

	return homework, nil
}

func (r *homeworkRepository) FindByAssignmentAndStudent(ctx context.Context, assignmentID, studentID uint) (models.Homework, error) {
	var homework models.Homework
	if err := r.baseQuery(ctx).
		Where("homeworks.assignment_id = ?", assignmentID).
		Where("homeworks.student_id = ?", studentID).
		First(&homework).Error; err != nil {
		return models.Homework{}, err
	}

	return homework, nil
}

func (r *homeworkRepository) Create(ctx context.Context, homework *models.Homework) error {
	return r.db.WithContext(ctx).Create(homework).Error
}

// UpdateStatus persists a lifecycle transition and its history entry in one
// transaction, guarded by the homework version to serialize concurrent writers.
func (r *homeworkRepository) UpdateStatus(ctx context.Context, homework *models.Homework, toStatus string, history *models.HomeworkHistory) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Homework{}).
			Where("id = ? AND version = ?", homework.ID, homework.Version).
			Updates(map[string]interface{}{
				"status":       toStatus,
				"submitted_at": homework.SubmittedAt,
				"text_content": homework.TextContent,
				"version":      homework.Version + 1,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrVersionConflict
		}

		homework.Status = toStatus
		homework.Version++

		if history != nil {
			if err := tx.Create(history).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

func (r *homeworkRepository) CreateAttachment(ctx context.Context, attachment *models.Attachment) error {
	return r.db.WithContext(ctx).Create(attachment).Error
}

func (r *homeworkRepository) ListAttachments(ctx context.Context, homeworkID uint) ([]models.Attachment, error) {
	var attachments []models.Attachment
	if err := r.db.WithContext(ctx).
		Where("homework_id = ?", homeworkID).
		Order("uploaded_at").
		Find(&attachments).Error; err != nil {
		return nil, err
	}

	return attachments, nil
}
