package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// StudentRepository provides access to student records.
type StudentRepository interface {
	GetByID(ctx context.Context, id uint) (models.StudentProfile, error)
	List(ctx context.Context) ([]models.StudentProfile, error)
	Create(ctx context.Context, student *models.StudentProfile) error
}

type studentRepository struct {
	db *gorm.DB
}

// NewStudentRepository constructs a student repository.
func NewStudentRepository(db *gorm.DB) StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id uint) (models.StudentProfile, error) {
	var student models.StudentProfile
	if err := r.db.WithContext(ctx).Preload("Group").First(&student, id).Error; err != nil {
		return models.StudentProfile{}, err
	}

	return student, nil
}

func (r *studentRepository) List(ctx context.Context) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	if err := r.db.WithContext(ctx).
		Preload("Group").
		Order("last_name, first_name").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}

func (r *studentRepository) Create(ctx context.Context, student *models.StudentProfile) error {
	return r.db.WithContext(ctx).Create(student).Error
}

// StudentGroupRepository provides access to student groups.
type StudentGroupRepository interface {
	List(ctx context.Context) ([]models.StudentGroup, error)
	GetByID(ctx context.Context, id uint) (models.StudentGroup, error)
	GetByCode(ctx context.Context, code string) (models.StudentGroup, error)
	Create(ctx context.Context, group *models.StudentGroup) error
	Delete(ctx context.Context, id uint) error
}

type studentGroupRepository struct {
	db *gorm.DB
}

// NewStudentGroupRepository constructs a student group repository.
func NewStudentGroupRepository(db *gorm.DB) StudentGroupRepository {
	return &studentGroupRepository{db: db}
}

func (r *studentGroupRepository) List(ctx context.Context) ([]models.StudentGroup, error) {
	var groups []models.StudentGroup
	if err := r.db.WithContext(ctx).Order("name").Find(&groups).Error; err != nil {
		return nil, err
	}

	return groups, nil
}

func (r *studentGroupRepository) GetByID(ctx context.Context, id uint) (models.StudentGroup, error) {
	var group models.StudentGroup
	if err := r.db.WithContext(ctx).First(&group, id).Error; err != nil {
		return models.StudentGroup{}, err
	}

	return group, nil
}

func (r *studentGroupRepository) GetByCode(ctx context.Context, code string) (models.StudentGroup, error) {
	var group models.StudentGroup
	if err := r.db.WithContext(ctx).Where("code = ?", code).First(&group).Error; err != nil {
		return models.StudentGroup{}, err
	}

	return group, nil
}

func (r *studentGroupRepository) Create(ctx context.Context, group *models.StudentGroup) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// Delete removes a group; members keep their profiles with a cleared group
// reference.
func (r *studentGroupRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.StudentProfile{}).
			Where("group_id = ?", id).
			Update("group_id", nil).Error; err != nil {
			return err
		}

		return tx.Delete(&models.StudentGroup{}, id).Error
	})
}
