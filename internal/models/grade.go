package models

import "time"

// Bounds for the qualitative grade scale.
const (
	GradeValueMin = 1
	GradeValueMax = 5
)

// gradeLabels is the single lookup table shared by grading and presentation.
var gradeLabels = map[int]string{
	5: "excellent",
	4: "good",
	3: "satisfactory",
	2: "poor",
	1: "fail",
}

// GradeLabel returns the display label for a grade value, or "" when unknown.
func GradeLabel(value int) string {
	return gradeLabels[value]
}

// Grade is a teacher's evaluation of a homework. Rows form an append-only
// history per homework: exactly one non-revision row holds the current numeric
// grade and is updated in place on re-grading, while every revision request
// appends a comment-only row with IsRevisionRequest set.
type Grade struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	HomeworkID        uint      `gorm:"not null;index" json:"homework_id"`
	TeacherID         uint      `gorm:"not null" json:"teacher_id"`
	GradeValue        *int      `json:"grade_value"`
	Points            *int      `json:"points"`
	Comment           string    `gorm:"type:text" json:"comment"`
	IsRevisionRequest bool      `gorm:"not null;default:false" json:"is_revision_request"`
	GradedAt          time.Time `gorm:"not null" json:"graded_at"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
	Teacher           Teacher   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
}

// HasNumericValue reports whether the grade carries a grade value or points.
// Revision-request rows carry neither.
func (g Grade) HasNumericValue() bool {
	return g.GradeValue != nil || g.Points != nil
}
