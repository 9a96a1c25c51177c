package dto

import (
	"time"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// CourseCreateRequest creates a course owned by the acting teacher.
type CourseCreateRequest struct {
	Title       string `json:"title" validate:"required,max=255"`
	Description string `json:"description" validate:"omitempty,max=65535"`
	IsActive    *bool  `json:"is_active"`
}

// CourseUpdateRequest applies partial course updates.
type CourseUpdateRequest struct {
	Title       *string `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string `json:"description" validate:"omitempty,max=65535"`
	IsActive    *bool   `json:"is_active"`
}

// EnrollStudentRequest adds a student to a course.
type EnrollStudentRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
}

// CourseResponse serializes a course for API clients.
type CourseResponse struct {
	ID                  uint      `json:"id"`
	Title               string    `json:"title"`
	Description         string    `json:"description"`
	TeacherID           uint      `json:"teacher_id"`
	IsActive            bool      `json:"is_active"`
	ActiveStudentsCount int       `json:"active_students_count"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

// NewCourseResponse converts a course model into a DTO.
func NewCourseResponse(model models.Course) CourseResponse {
	return CourseResponse{
		ID:                  model.ID,
		Title:               model.Title,
		Description:         model.Description,
		TeacherID:           model.TeacherID,
		IsActive:            model.IsActive,
		ActiveStudentsCount: model.ActiveStudentsCount(),
		CreatedAt:           model.CreatedAt,
		UpdatedAt:           model.UpdatedAt,
	}
}

// NewCourseResponseSlice converts course models into DTOs.
func NewCourseResponseSlice(courses []models.Course) []CourseResponse {
	responses := make([]CourseResponse, 0, len(courses))
	for _, course := range courses {
		responses = append(responses, NewCourseResponse(course))
	}

	return responses
}
