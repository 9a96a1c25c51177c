package models

import "time"

// Homework lifecycle states.
const (
	// HomeworkStatusAssigned means the work has been issued but nothing submitted yet.
	HomeworkStatusAssigned = "assigned"
	// HomeworkStatusSubmitted means the student has handed in work awaiting review.
	HomeworkStatusSubmitted = "submitted"
	// HomeworkStatusGraded means a numeric grade has been recorded.
	HomeworkStatusGraded = "graded"
	// HomeworkStatusRevision means the teacher returned the work for rework.
	HomeworkStatusRevision = "revision"
	// HomeworkStatusLate marks work handed in past the deadline by an external sweep.
	HomeworkStatusLate = "late"
	// HomeworkStatusMissed marks work never handed in once the deadline passed.
	HomeworkStatusMissed = "missed"
)

// Homework priorities.
const (
	HomeworkPriorityLow    = "low"
	HomeworkPriorityMedium = "medium"
	HomeworkPriorityHigh   = "high"
)

// Submission timing classification returned by SubmissionStatus.
const (
	SubmissionNotSubmitted = "not_submitted"
	SubmissionLate         = "late"
	SubmissionOnTime       = "on_time"
)

// Homework is one student's work product against one assignment.
// The (assignment, student) pair is unique: a student has at most one
// homework record per assignment.
type Homework struct {
	ID           uint              `gorm:"primaryKey" json:"id"`
	AssignmentID uint              `gorm:"not null;uniqueIndex:idx_homework_assignment_student" json:"assignment_id"`
	StudentID    uint              `gorm:"not null;uniqueIndex:idx_homework_assignment_student" json:"student_id"`
	Status       string            `gorm:"size:32;not null;default:assigned" json:"status"`
	Priority     string            `gorm:"size:32;not null;default:medium" json:"priority"`
	TextContent  string            `gorm:"type:text" json:"text_content"`
	SubmittedAt  *time.Time        `json:"submitted_at"`
	Version      int               `gorm:"not null;default:1" json:"version"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
	Assignment   Assignment        `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"assignment"`
	Student      StudentProfile    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
	Grades       []Grade           `json:"grades,omitempty"`
	Attachments  []Attachment      `json:"attachments,omitempty"`
	History      []HomeworkHistory `json:"history,omitempty"`
}

// IsOnTime reports whether the work was submitted at or before the deadline.
// Unsubmitted work is never on time.
func (h Homework) IsOnTime(dueDate time.Time) bool {
	return h.SubmittedAt != nil && !h.SubmittedAt.After(dueDate)
}

// SubmissionStatus classifies the submission timing against the deadline.
func (h Homework) SubmissionStatus(dueDate time.Time) string {
	switch {
	case h.SubmittedAt == nil:
		return SubmissionNotSubmitted
	case h.SubmittedAt.After(dueDate):
		return SubmissionLate
	default:
		return SubmissionOnTime
	}
}

// CurrentGrade returns the numeric grade slot for a homework with preloaded
// grades, or nil when the work has never been graded. Revision-request rows
// never occupy the slot.
func (h Homework) CurrentGrade() *Grade {
	for i := range h.Grades {
		if !h.Grades[i].IsRevisionRequest {
			return &h.Grades[i]
		}
	}
	return nil
}

// IsGraded reports whether a numeric grade has been recorded.
func (h Homework) IsGraded() bool {
	return h.Status == HomeworkStatusGraded
}

// homeworkTransitions enumerates the legal lifecycle edges. Grading may land
// from any state, so graded targets are handled separately in ValidTransition.
// The late and missed edges are driven by external due-date sweeps, never by
// the grading engine itself; neither has outgoing edges besides grading.
var homeworkTransitions = map[string][]string{
	HomeworkStatusAssigned:  {HomeworkStatusSubmitted, HomeworkStatusLate, HomeworkStatusMissed},
	HomeworkStatusSubmitted: {HomeworkStatusGraded, HomeworkStatusRevision, HomeworkStatusLate},
	HomeworkStatusRevision:  {HomeworkStatusSubmitted},
}

// ValidTransition reports whether moving a homework from one lifecycle state
// to another is allowed.
func ValidTransition(from, to string) bool {
	if to == HomeworkStatusGraded {
		return true
	}
	for _, candidate := range homeworkTransitions[from] {
		if candidate == to {
			return true
		}
	}
	return false
}
