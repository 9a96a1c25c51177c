package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// ErrVersionConflict signals that a concurrent writer modified the homework
// between read and write.
var ErrVersionConflict = errors.New("homework modified concurrently")

// GradingRepository provides persistence helpers for the grading engine.
// Writes couple the grade row and the homework status change in a single
// transaction so a failed validation or conflict leaves no partial state.
type GradingRepository interface {
	GetHomeworkForTeacher(ctx context.Context, homeworkID, teacherID uint) (models.Homework, error)
	SaveGrade(ctx context.Context, homework *models.Homework, grade *models.Grade) error
	SaveRevisionRequest(ctx context.Context, homework *models.Homework, grade *models.Grade) error
	CountByStatusForTeacher(ctx context.Context, teacherID uint, status string) (int64, error)
}

type gradingRepository struct {
	db *gorm.DB
}

// NewGradingRepository builds a grading-aware homework repository.
func NewGradingRepository(db *gorm.DB) GradingRepository {
	return &gradingRepository{db: db}
}

// GetHomeworkForTeacher loads a homework with its assignment, student and
// grade history, scoped to homeworks belonging to the teacher's courses.
func (r *gradingRepository) GetHomeworkForTeacher(ctx context.Context, homeworkID, teacherID uint) (models.Homework, error) {
	var homework models.Homework
	if err := r.db.WithContext(ctx).
		Joins("JOIN assignments ON assignments.id = homeworks.assignment_id").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Preload("Assignment").
		Preload("Student").
		Preload("Student.Group").
		Preload("Grades", func(tx *gorm.DB) *gorm.DB {
			return tx.Order("graded_at DESC")
		}).
		First(&homework, "homeworks.id = ?", homeworkID).Error; err != nil {
		return models.Homework{}, err
	}

	return homework, nil
}

// SaveGrade upserts the numeric grade slot and moves the homework to graded.
// The homework version guards against a concurrent grading or revision write.
func (r *gradingRepository) SaveGrade(ctx context.Context, homework *models.Homework, grade *models.Grade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(grade).Error; err != nil {
			return err
		}

		return r.transitionTx(tx, homework, models.HomeworkStatusGraded, &models.HomeworkHistory{
			HomeworkID: homework.ID,
			FromStatus: homework.Status,
			ToStatus:   models.HomeworkStatusGraded,
			ActorID:    grade.TeacherID,
		})
	})
}

// SaveRevisionRequest appends a revision-request grade row and moves the
// homework to revision.
func (r *gradingRepository) SaveRevisionRequest(ctx context.Context, homework *models.Homework, grade *models.Grade) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(grade).Error; err != nil {
			return err
		}

		return r.transitionTx(tx, homework, models.HomeworkStatusRevision, &models.HomeworkHistory{
			HomeworkID: homework.ID,
			FromStatus: homework.Status,
			ToStatus:   models.HomeworkStatusRevision,
			ActorID:    grade.TeacherID,
			Note:       grade.Comment,
		})
	})
}

func (r *gradingRepository) transitionTx(tx *gorm.DB, homework *models.Homework, toStatus string, history *models.HomeworkHistory) error {
	result := tx.Model(&models.Homework{}).
		Where("id = ? AND version = ?", homework.ID, homework.Version).
		Updates(map[string]interface{}{
			"status":  toStatus,
			"version": homework.Version + 1,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrVersionConflict
	}

	homework.Status = toStatus
	homework.Version++

	return tx.Create(history).Error
}

// CountByStatusForTeacher counts homeworks in a given lifecycle state across
// the teacher's courses.
func (r *gradingRepository) CountByStatusForTeacher(ctx context.Context, teacherID uint, status string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Homework{}).
		Joins("JOIN assignments ON assignments.id = homeworks.assignment_id").
		Joins("JOIN courses ON courses.id = assignments.course_id").
		Where("courses.teacher_id = ?", teacherID).
		Where("homeworks.status = ?", status).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}
