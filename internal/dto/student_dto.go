package dto

import (
	"time"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// StudentCreateRequest registers a student profile.
type StudentCreateRequest struct {
	FirstName   string `json:"first_name" validate:"required,max=100"`
	LastName    string `json:"last_name" validate:"required,max=100"`
	Email       string `json:"email" validate:"required,email,max=255"`
	StudentCode string `json:"student_code" validate:"omitempty,max=32"`
	Phone       string `json:"phone" validate:"omitempty,max=20"`
	GroupCode   string `json:"group_code" validate:"omitempty,max=32"`
}

// StudentResponse serializes a student profile.
type StudentResponse struct {
	ID          uint      `json:"id"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	StudentCode string    `json:"student_code"`
	Phone       string    `json:"phone"`
	GroupName   string    `json:"group_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewStudentResponse converts a student model into a DTO.
func NewStudentResponse(model models.StudentProfile) StudentResponse {
	return StudentResponse{
		ID:          model.ID,
		FirstName:   model.FirstName,
		LastName:    model.LastName,
		FullName:    model.FullName(),
		Email:       model.Email,
		StudentCode: model.StudentCode,
		Phone:       model.Phone,
		GroupName:   model.GroupName(),
		CreatedAt:   model.CreatedAt,
	}
}

// NewStudentResponseSlice converts student models into DTOs.
func NewStudentResponseSlice(students []models.StudentProfile) []StudentResponse {
	responses := make([]StudentResponse, 0, len(students))
	for _, student := range students {
		responses = append(responses, NewStudentResponse(student))
	}

	return responses
}

// GroupCreateRequest registers a student group.
type GroupCreateRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Code string `json:"code" validate:"required,max=32"`
}

// GroupResponse serializes a student group.
type GroupResponse struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Code      string    `json:"code"`
	CreatedAt time.Time `json:"created_at"`
}

// NewGroupResponse converts a group model into a DTO.
func NewGroupResponse(model models.StudentGroup) GroupResponse {
	return GroupResponse{
		ID:        model.ID,
		Name:      model.Name,
		Code:      model.Code,
		CreatedAt: model.CreatedAt,
	}
}

// NewGroupResponseSlice converts group models into DTOs.
func NewGroupResponseSlice(groups []models.StudentGroup) []GroupResponse {
	responses := make([]GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, NewGroupResponse(group))
	}

	return responses
}
