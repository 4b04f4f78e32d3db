package models

import "time"

// Role separates players from the organisers reviewing their work
type Role string

const (
	RoleTeam  Role = "team"
	RoleAdmin Role = "admin"
)

// Account is a login. Team accounts point at their team; admin accounts have no team.
type Account struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"unique;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"not null;default:'team'"`
	TeamID       string    `json:"teamId,omitempty" gorm:"index"`
	CreatedAt    time.Time `json:"createdAt"`
}

// TableName specifies the table name for Account Model
func (Account) TableName() string {
	return "accounts"
}

// Team is a registered group of players
type Team struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;uniqueIndex"`
	Description  string    `json:"description"`
	MemberCount  int       `json:"memberCount" gorm:"not null;default:1"`
	ProfilePhoto string    `json:"profilePhoto,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Team Model
func (Team) TableName() string {
	return "teams"
}
