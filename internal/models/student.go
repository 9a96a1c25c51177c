package models

import (
	"strings"
	"time"
)

// StudentGroup is a named cohort of students identified by a unique code.
type StudentGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Code      string    `gorm:"size:32;uniqueIndex;not null" json:"code"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StudentProfile represents a learner that receives assignments and submits homework.
// A student belongs to at most one group; deleting the group detaches its members.
type StudentProfile struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	FirstName   string        `gorm:"size:100;not null" json:"first_name"`
	LastName    string        `gorm:"size:100;not null" json:"last_name"`
	Email       string        `gorm:"size:255;uniqueIndex;not null" json:"email"`
	StudentCode string        `gorm:"size:32;uniqueIndex" json:"student_code"`
	Phone       string        `gorm:"size:20" json:"phone"`
	GroupID     *uint         `json:"group_id"`
	Group       *StudentGroup `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"group,omitempty"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// FullName renders the display name as "LastName FirstName".
func (s StudentProfile) FullName() string {
	return strings.TrimSpace(s.LastName + " " + s.FirstName)
}

// GroupName returns the group display name or an empty string for ungrouped students.
func (s StudentProfile) GroupName() string {
	if s.Group == nil {
		return ""
	}
	return s.Group.Name
}
