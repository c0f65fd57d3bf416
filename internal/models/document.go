package models

import "time"

// Document stores metadata about an uploaded file attached to a resident's
// student file (rotation certificates, attestations, scans).
type Document struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  *uint     `gorm:"index" json:"student_id"`
	UploaderID uint      `gorm:"index;not null" json:"uploader_id"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	URL        string    `gorm:"size:512;not null" json:"url"`
	MimeType   string    `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes  int64     `gorm:"not null" json:"size_bytes"`
	Checksum   string    `gorm:"size:128;index" json:"checksum"`
	CreatedAt  time.Time `json:"created_at"`
}
