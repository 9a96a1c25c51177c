package dto

import (
	"time"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// ApplyGradeRequest carries a numeric grading payload. At least one of
// GradeValue and Points must be present; range checks against the assignment
// maximum happen in the grading engine.
type ApplyGradeRequest struct {
	GradeValue *int   `json:"grade_value" validate:"omitempty,gte=1,lte=5"`
	Points     *int   `json:"points" validate:"omitempty,gte=0"`
	Comment    string `json:"comment" validate:"omitempty,max=2000"`
}

// RequestRevisionRequest carries the mandatory feedback for returning work.
type RequestRevisionRequest struct {
	Comment string `json:"comment" validate:"required,max=2000"`
}

// GradeResponse serializes a grade row.
type GradeResponse struct {
	ID                uint      `json:"id"`
	HomeworkID        uint      `json:"homework_id"`
	TeacherID         uint      `json:"teacher_id"`
	GradeValue        *int      `json:"grade_value"`
	GradeLabel        string    `json:"grade_label,omitempty"`
	Points            *int      `json:"points"`
	Comment           string    `json:"comment"`
	IsRevisionRequest bool      `json:"is_revision_request"`
	GradedAt          time.Time `json:"graded_at"`
}

// NewGradeResponse converts a grade model into a DTO.
func NewGradeResponse(model models.Grade) GradeResponse {
	response := GradeResponse{
		ID:                model.ID,
		HomeworkID:        model.HomeworkID,
		TeacherID:         model.TeacherID,
		GradeValue:        model.GradeValue,
		Points:            model.Points,
		Comment:           model.Comment,
		IsRevisionRequest: model.IsRevisionRequest,
		GradedAt:          model.GradedAt,
	}

	if model.GradeValue != nil {
		response.GradeLabel = models.GradeLabel(*model.GradeValue)
	}

	return response
}

// NewGradeResponseSlice converts grade models into DTOs.
func NewGradeResponseSlice(grades []models.Grade) []GradeResponse {
	responses := make([]GradeResponse, 0, len(grades))
	for _, grade := range grades {
		responses = append(responses, NewGradeResponse(grade))
	}

	return responses
}
