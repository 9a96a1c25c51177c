package models

import (
	"strings"
	"time"
)

// Teacher owns courses and issues grades. Authentication happens upstream;
// this profile only carries identity needed for grading and display.
type Teacher struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	FirstName  string    `gorm:"size:100;not null" json:"first_name"`
	LastName   string    `gorm:"size:100;not null" json:"last_name"`
	Patronymic string    `gorm:"size:100" json:"patronymic"`
	Email      string    `gorm:"size:255;uniqueIndex;not null" json:"email"`
	Phone      string    `gorm:"size:20" json:"phone"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// FullName renders the display name as "LastName FirstName Patronymic".
func (t Teacher) FullName() string {
	return strings.TrimSpace(strings.Join([]string{t.LastName, t.FirstName, t.Patronymic}, " "))
}
