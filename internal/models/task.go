package models

import (
	"time"

	"scavenger-hunt-api/internal/rules"
)

// Task is one step of the hunt. Tasks are seeded before a game and never deleted;
// only Active is toggled during play.
type Task struct {
	ID          string           `json:"id" gorm:"primaryKey"`
	Title       string           `json:"title" gorm:"not null"`
	Description string           `json:"description"`
	Order       int              `json:"order" gorm:"column:sort_order;not null;index"`
	Points      int              `json:"points" gorm:"not null;default:0"`
	Active      bool             `json:"active" gorm:"not null;index"`
	Validation  rules.Validation `json:"validation" gorm:"serializer:json"`
	CreatedAt   time.Time        `json:"createdAt"`
	UpdatedAt   time.Time        `json:"updatedAt"`
}

// TableName specifies the table name for Task Model
func (Task) TableName() string {
	return "tasks"
}
