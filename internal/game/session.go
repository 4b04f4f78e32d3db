package game

import (
	"fmt"

	"scavenger-hunt-api/internal/models"
)

// Session is the authenticated caller, passed explicitly into every engine operation.
type Session struct {
	UserID string
	TeamID string
	Role   models.Role
}

// IsAdmin reports whether the session may review submissions and read every team.
func (s Session) IsAdmin() bool {
	return s.Role == models.RoleAdmin
}

func (s Session) requireTeam() error {
	if s.Role != models.RoleTeam || s.TeamID == "" {
		return fmt.Errorf("%w: a team session is required", ErrForbidden)
	}
	return nil
}

func (s Session) requireAdmin() error {
	if !s.IsAdmin() {
		return fmt.Errorf("%w: admin access required", ErrForbidden)
	}
	return nil
}

// canRead reports whether the session may read the given team's records.
func (s Session) canRead(teamID string) bool {
	return s.IsAdmin() || (s.TeamID != "" && s.TeamID == teamID)
}
