package models

import "time"

// SubmissionType is the kind of uploaded evidence
type SubmissionType string

const (
	TypeImage SubmissionType = "image"
	TypeVideo SubmissionType = "video"
)

// SubmissionStatus is the admin review state of an upload
type SubmissionStatus string

const (
	SubmissionPending  SubmissionStatus = "pending"
	SubmissionApproved SubmissionStatus = "approved"
	SubmissionRejected SubmissionStatus = "rejected"
)

// Submission is a photo or video uploaded as evidence for a photo task
type Submission struct {
	ID              string           `json:"id" gorm:"primaryKey"`
	TeamID          string           `json:"teamId" gorm:"not null;index"`
	TaskID          string           `json:"taskId" gorm:"not null;index"`
	Type            SubmissionType   `json:"type" gorm:"not null"`
	StoragePath     string           `json:"storagePath" gorm:"not null"`
	DownloadURL     string           `json:"downloadURL,omitempty" gorm:"-"`
	Caption         string           `json:"caption,omitempty"`
	Status          SubmissionStatus `json:"status" gorm:"not null;default:'pending';index"`
	Points          *int             `json:"points,omitempty"`
	RejectionReason string           `json:"rejectionReason,omitempty"`
	ReviewedBy      string           `json:"reviewedBy,omitempty"`
	ReviewedAt      *time.Time       `json:"reviewedAt,omitempty"`
	CreatedAt       time.Time        `json:"createdAt" gorm:"index"`
}

// TableName specifies the table name for Submission Model
func (Submission) TableName() string {
	return "submissions"
}
