package models

import "time"

// ProgressStatus represents where a team stands on one task
type ProgressStatus string

const (
	StatusTodo     ProgressStatus = "todo"
	StatusInReview ProgressStatus = "in_review"
	StatusDone     ProgressStatus = "done"
)

// Progress is a team's record for one task, keyed by (TeamID, TaskID)
type Progress struct {
	TeamID    string         `json:"teamId" gorm:"primaryKey"`
	TaskID    string         `json:"taskId" gorm:"primaryKey"`
	Status    ProgressStatus `json:"status" gorm:"not null;default:'todo'"`
	Points    *int           `json:"points"`
	Attempts  int            `json:"attempts" gorm:"not null;default:0"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// TableName specifies the table name for Progress Model
func (Progress) TableName() string {
	return "progress"
}

// EarnedPoints returns the awarded points, or 0 when nothing has been awarded
func (p Progress) EarnedPoints() int {
	if p.Points == nil {
		return 0
	}
	return *p.Points
}
