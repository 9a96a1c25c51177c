package dto

import (
	"time"

	"github.com/anikeev-dev/gradehub-api/internal/models"
)

// IssueHomeworkRequest creates a homework record for a student.
type IssueHomeworkRequest struct {
	AssignmentID uint   `json:"assignment_id" validate:"required,gt=0"`
	StudentID    uint   `json:"student_id" validate:"required,gt=0"`
	Priority     string `json:"priority" validate:"omitempty,oneof=low medium high"`
}

// SubmitHomeworkRequest carries the student's submitted work.
type SubmitHomeworkRequest struct {
	TextContent string `json:"text_content" validate:"omitempty,max=65535"`
}

// HomeworkFilter describes query string filters for listing homework.
type HomeworkFilter struct {
	AssignmentID *uint   `query:"assignment_id"`
	StudentID    *uint   `query:"student_id"`
	CourseID     *uint   `query:"course_id"`
	Status       *string `query:"status" validate:"omitempty,oneof=assigned submitted graded revision late missed"`
}

// AssignmentLite summarizes an assignment in homework responses.
type AssignmentLite struct {
	ID        uint      `json:"id"`
	Title     string    `json:"title"`
	Type      string    `json:"type"`
	MaxPoints int       `json:"max_points"`
	DueDate   time.Time `json:"due_date"`
}

// StudentLite summarizes a student without exposing full profile data.
type StudentLite struct {
	ID        uint   `json:"id"`
	FullName  string `json:"full_name"`
	GroupName string `json:"group_name"`
}

// HomeworkResponse is returned to API clients when viewing homework.
type HomeworkResponse struct {
	ID               uint            `json:"id"`
	AssignmentID     uint            `json:"assignment_id"`
	StudentID        uint            `json:"student_id"`
	Status           string          `json:"status"`
	Priority         string          `json:"priority"`
	TextContent      string          `json:"text_content"`
	SubmittedAt      *time.Time      `json:"submitted_at"`
	SubmissionStatus string          `json:"submission_status"`
	IsOnTime         bool            `json:"is_on_time"`
	Grade            *GradeResponse  `json:"grade"`
	Grades           []GradeResponse `json:"grades,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
	Assignment       AssignmentLite  `json:"assignment"`
	Student          StudentLite     `json:"student"`
}

// NewHomeworkResponse converts a homework model into a DTO.
func NewHomeworkResponse(model models.Homework) HomeworkResponse {
	response := HomeworkResponse{
		ID:           model.ID,
		AssignmentID: model.AssignmentID,
		StudentID:    model.StudentID,
		Status:       model.Status,
		Priority:     model.Priority,
		TextContent:  model.TextContent,
		SubmittedAt:  model.SubmittedAt,
		CreatedAt:    model.CreatedAt,
		UpdatedAt:    model.UpdatedAt,
	}

	if model.Assignment.ID != 0 {
		response.Assignment = AssignmentLite{
			ID:        model.Assignment.ID,
			Title:     model.Assignment.Title,
			Type:      model.Assignment.Type,
			MaxPoints: model.Assignment.MaxPoints,
			DueDate:   model.Assignment.DueDate,
		}
		response.SubmissionStatus = model.SubmissionStatus(model.Assignment.DueDate)
		response.IsOnTime = model.IsOnTime(model.Assignment.DueDate)
	}

	if model.Student.ID != 0 {
		response.Student = StudentLite{
			ID:        model.Student.ID,
			FullName:  model.Student.FullName(),
			GroupName: model.Student.GroupName(),
		}
	}

	if current := model.CurrentGrade(); current != nil {
		grade := NewGradeResponse(*current)
		response.Grade = &grade
	}

	if len(model.Grades) > 0 {
		response.Grades = NewGradeResponseSlice(model.Grades)
	}

	return response
}

// NewHomeworkResponseSlice converts homework models into DTOs.
func NewHomeworkResponseSlice(homeworks []models.Homework) []HomeworkResponse {
	responses := make([]HomeworkResponse, 0, len(homeworks))
	for _, homework := range homeworks {
		responses = append(responses, NewHomeworkResponse(homework))
	}

	return responses
}

// AttachmentResponse serializes attachment metadata.
type AttachmentResponse struct {
	ID          uint      `json:"id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	UploadedAt  time.Time `json:"uploaded_at"`
}

// BundleManifestResponse describes the contents of a homework download bundle.
// It enumerates attachment metadata only; the bytes live in the blob store.
type BundleManifestResponse struct {
	HomeworkID      uint                 `json:"homework_id"`
	StudentName     string               `json:"student_name"`
	AssignmentTitle string               `json:"assignment_title"`
	Files           []AttachmentResponse `json:"files"`
	TotalSizeBytes  int64                `json:"total_size_bytes"`
	GeneratedAt     time.Time            `json:"generated_at"`
}
