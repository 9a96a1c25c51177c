package models

import "time"

// Attachment records metadata for a file attached to a homework. The bytes
// themselves live in an external blob store addressed by FilePath; only the
// metadata is kept here for manifest composition.
type Attachment struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	HomeworkID  uint      `gorm:"not null;index" json:"homework_id"`
	FileName    string    `gorm:"size:255;not null" json:"file_name"`
	FilePath    string    `gorm:"size:512;not null" json:"file_path"`
	ContentType string    `gorm:"size:255" json:"content_type"`
	SizeBytes   int64     `gorm:"not null" json:"size_bytes"`
	UploadedAt  time.Time `gorm:"not null" json:"uploaded_at"`
}

// HomeworkHistory is an append-only record of a homework status transition.
type HomeworkHistory struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	HomeworkID uint      `gorm:"not null;index" json:"homework_id"`
	FromStatus string    `gorm:"size:32;not null" json:"from_status"`
	ToStatus   string    `gorm:"size:32;not null" json:"to_status"`
	ActorID    uint      `json:"actor_id"`
	Note       string    `gorm:"type:text" json:"note"`
	CreatedAt  time.Time `json:"created_at"`
}
