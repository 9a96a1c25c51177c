package dto

import (
	"time"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// AssignmentCreateRequest creates an assignment within a course.
type AssignmentCreateRequest struct {
	CourseID    uint      `json:"course_id" validate:"required,gt=0"`
	Title       string    `json:"title" validate:"required,max=255"`
	Description string    `json:"description" validate:"omitempty,max=65535"`
	Type        string    `json:"type" validate:"required,oneof=test homework project exam"`
	MaxPoints   int       `json:"max_points" validate:"required,gt=0"`
	DueDate     time.Time `json:"due_date" validate:"required"`
}

// AssignmentUpdateRequest applies partial assignment updates.
type AssignmentUpdateRequest struct {
	Title       *string    `json:"title" validate:"omitempty,min=1,max=255"`
	Description *string    `json:"description" validate:"omitempty,max=65535"`
	Type        *string    `json:"type" validate:"omitempty,oneof=test homework project exam"`
	MaxPoints   *int       `json:"max_points" validate:"omitempty,gt=0"`
	DueDate     *time.Time `json:"due_date"`
}

// AssignmentResponse serializes an assignment for API clients.
type AssignmentResponse struct {
	ID          uint      `json:"id"`
	CourseID    uint      `json:"course_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	MaxPoints   int       `json:"max_points"`
	DueDate     time.Time `json:"due_date"`
	IsOverdue   bool      `json:"is_overdue"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAssignmentResponse converts an assignment model into a DTO. Overdue is
// derived from the reference time, never stored.
func NewAssignmentResponse(model models.Assignment, reference time.Time) AssignmentResponse {
	return AssignmentResponse{
		ID:          model.ID,
		CourseID:    model.CourseID,
		Title:       model.Title,
		Description: model.Description,
		Type:        model.Type,
		MaxPoints:   model.MaxPoints,
		DueDate:     model.DueDate,
		IsOverdue:   model.IsOverdue(reference),
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

// NewAssignmentResponseSlice converts assignment models into DTOs.
func NewAssignmentResponseSlice(assignments []models.Assignment, reference time.Time) []AssignmentResponse {
	responses := make([]AssignmentResponse, 0, len(assignments))
	for _, assignment := range assignments {
		responses = append(responses, NewAssignmentResponse(assignment, reference))
	}

	return responses
}
