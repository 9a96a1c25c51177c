package models

import "time"

// Course is a unit of teaching owned by exactly one teacher.
type Course struct {
	ID          uint         `gorm:"primaryKey" json:"id"`
	Title       string       `gorm:"size:255;not null" json:"title"`
	Description string       `gorm:"type:text" json:"description"`
	TeacherID   uint         `gorm:"not null;index" json:"teacher_id"`
	IsActive    bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
	Teacher     Teacher      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"teacher"`
	Enrollments []Enrollment `json:"enrollments,omitempty"`
	Assignments []Assignment `json:"assignments,omitempty"`
}

// Enrollment links a student to a course. A student is enrolled at most once
// per course; only active enrollments count toward course membership.
type Enrollment struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CourseID  uint           `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"course_id"`
	StudentID uint           `gorm:"not null;uniqueIndex:idx_enrollment_course_student" json:"student_id"`
	IsActive  bool           `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	Student   StudentProfile `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"student"`
}

// ActiveStudentsCount counts enrollments marked active on a preloaded course.
func (c Course) ActiveStudentsCount() int {
	count := 0
	for _, enrollment := range c.Enrollments {
		if enrollment.IsActive {
			count++
		}
	}
	return count
}
