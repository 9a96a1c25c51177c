package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// CourseRepository provides persistence for courses and their enrollments.
// Lookups are teacher-scoped: a course that exists but belongs to another
// teacher behaves like a missing record.
type CourseRepository interface {
	ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error)
	GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Course, error)
	CountByTeacher(ctx context.Context, teacherID uint) (int64, error)
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	Delete(ctx context.Context, id uint) error
	Enroll(ctx context.Context, enrollment *models.Enrollment) error
	SetEnrollmentActive(ctx context.Context, courseID, studentID uint, active bool) error
	ListActiveStudents(ctx context.Context, courseID uint) ([]models.StudentProfile, error)
}

type courseRepository struct {
	db *gorm.DB
}

// NewCourseRepository constructs a course repository.
func NewCourseRepository(db *gorm.DB) CourseRepository {
	return &courseRepository{db: db}
}

func (r *courseRepository) ListByTeacher(ctx context.Context, teacherID uint) ([]models.Course, error) {
	var courses []models.Course
	if err := r.db.WithContext(ctx).
		Preload("Enrollments").
		Where("teacher_id = ?", teacherID).
		Order("created_at DESC").
		Find(&courses).Error; err != nil {
		return nil, err
	}

	return courses, nil
}

func (r *courseRepository) GetByIDForTeacher(ctx context.Context, id, teacherID uint) (models.Course, error) {
	var course models.Course
	if err := r.db.WithContext(ctx).
		Preload("Enrollments").
		Preload("Enrollments.Student").
		Preload("Enrollments.Student.Group").
		Where("teacher_id = ?", teacherID).
		First(&course, id).Error; err != nil {
		return models.Course{}, err
	}

	return course, nil
}

func (r *courseRepository) CountByTeacher(ctx context.Context, teacherID uint) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.Course{}).
		Where("teacher_id = ?", teacherID).
		Count(&count).Error; err != nil {
		return 0, err
	}

	return count, nil
}

func (r *courseRepository) Create(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Create(course).Error
}

func (r *courseRepository) Update(ctx context.Context, course *models.Course) error {
	return r.db.WithContext(ctx).Save(course).Error
}

func (r *courseRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Course{}, id).Error
}

func (r *courseRepository) Enroll(ctx context.Context, enrollment *models.Enrollment) error {
	return r.db.WithContext(ctx).Create(enrollment).Error
}

func (r *courseRepository) SetEnrollmentActive(ctx context.Context, courseID, studentID uint, active bool) error {
	result := r.db.WithContext(ctx).
		Model(&models.Enrollment{}).
		Where("course_id = ? AND student_id = ?", courseID, studentID).
		Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *courseRepository) ListActiveStudents(ctx context.Context, courseID uint) ([]models.StudentProfile, error) {
	var students []models.StudentProfile
	if err := r.db.WithContext(ctx).
		Joins("JOIN enrollments ON enrollments.student_id = student_profiles.id").
		Where("enrollments.course_id = ? AND enrollments.is_active = ?", courseID, true).
		Preload("Group").
		Order("student_profiles.last_name, student_profiles.first_name").
		Find(&students).Error; err != nil {
		return nil, err
	}

	return students, nil
}
