package models

import "time"

// Assignment kinds supported by a course.
const (
	AssignmentTypeTest     = "test"
	AssignmentTypeHomework = "homework"
	AssignmentTypeProject  = "project"
	AssignmentTypeExam     = "exam"
)

// Assignment is a gradable unit of work scoped to a single course.
type Assignment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	CourseID    uint      `gorm:"not null;index" json:"course_id"`
	Title       string    `gorm:"size:255;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Type        string    `gorm:"size:32;not null;default:homework" json:"type"`
	MaxPoints   int       `gorm:"not null" json:"max_points"`
	DueDate     time.Time `gorm:"not null" json:"due_date"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Course      Course    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"course"`
}

// IsOverdue reports whether the deadline has passed at the reference time.
// Never stored; always derived from the clock.
func (a Assignment) IsOverdue(reference time.Time) bool {
	return reference.After(a.DueDate)
}
