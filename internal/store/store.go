package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"scavenger-hunt-api/internal/game"
	"scavenger-hunt-api/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrDuplicate is returned when a unique field (team name, account email) is taken.
var ErrDuplicate = errors.New("already exists")

// Store persists the game on gorm. It implements game.Store plus the account,
// team and seeding operations used by the HTTP handlers and the CLI.
type Store struct {
	db *gorm.DB
}

// New wraps an open gorm connection.
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

var _ game.Store = (*Store)(nil)

func translate(err error, what string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %s", game.ErrNotFound, what)
	case errors.Is(err, gorm.ErrDuplicatedKey), strings.Contains(err.Error(), "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %s", ErrDuplicate, what)
	}
	return fmt.Errorf("%s: %w", what, err)
}

// ListActiveTasks returns active tasks ascending by order.
func (s *Store) ListActiveTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Where("active = ?", true).Order("sort_order asc").Find(&tasks).Error
	return tasks, translate(err, "list tasks")
}

// ListAllTasks returns every task, active or not, ascending by order.
func (s *Store) ListAllTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).Order("sort_order asc").Find(&tasks).Error
	return tasks, translate(err, "list tasks")
}

func (s *Store) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&task).Error
	return task, translate(err, "task "+id)
}

// SetTaskActive soft-deletes or restores a task. Restoring is refused with
// game.ErrOrderTaken while another active task holds the same order.
func (s *Store) SetTaskActive(ctx context.Context, id string, active bool) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.Where("id = ?", id).First(&task).Error; err != nil {
			return translate(err, "task "+id)
		}
		if active && !task.Active {
			var holder models.Task
			err := tx.Where("active = ? AND sort_order = ? AND id <> ?", true, task.Order, id).
				Limit(1).Find(&holder).Error
			if err != nil {
				return translate(err, "task "+id)
			}
			if holder.ID != "" {
				return fmt.Errorf("%w: %s has order %d", game.ErrOrderTaken, holder.ID, task.Order)
			}
		}
		if err := tx.Model(&models.Task{}).Where("id = ?", id).Update("active", active).Error; err != nil {
			return translate(err, "task "+id)
		}
		return nil
	})
}

// UpsertTask creates a task or overwrites every field of an existing one with the same ID.
func (s *Store) UpsertTask(ctx context.Context, task *models.Task) error {
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(task).Error
	return translate(err, "task "+task.ID)
}

// DeactivateTasksExcept soft-deletes every task whose ID is not in keep.
func (s *Store) DeactivateTasksExcept(ctx context.Context, keep []string) (int64, error) {
	q := s.db.WithContext(ctx).Model(&models.Task{}).Where("active = ?", true)
	if len(keep) > 0 {
		q = q.Where("id NOT IN ?", keep)
	}
	res := q.Update("active", false)
	return res.RowsAffected, translate(res.Error, "deactivate tasks")
}

func (s *Store) GetProgress(ctx context.Context, teamID, taskID string) (models.Progress, error) {
	var p models.Progress
	err := s.db.WithContext(ctx).Where("team_id = ? AND task_id = ?", teamID, taskID).First(&p).Error
	return p, translate(err, "progress "+teamID+"/"+taskID)
}

func (s *Store) ListProgress(ctx context.Context, teamID string) ([]models.Progress, error) {
	var out []models.Progress
	err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Find(&out).Error
	return out, translate(err, "list progress")
}

// SaveProgress upserts on (team_id, task_id), so a team has at most one record per task.
func (s *Store) SaveProgress(ctx context.Context, p *models.Progress) error {
	return translate(saveProgress(s.db.WithContext(ctx), p), "save progress")
}

func saveProgress(tx *gorm.DB, p *models.Progress) error {
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "team_id"}, {Name: "task_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"status", "points", "attempts", "updated_at"}),
	}).Create(p).Error
}

func (s *Store) CreateSubmission(ctx context.Context, sub *models.Submission) error {
	return translate(s.db.WithContext(ctx).Create(sub).Error, "create submission")
}

func (s *Store) GetSubmission(ctx context.Context, id string) (models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&sub).Error
	return sub, translate(err, "submission "+id)
}

// ListSubmissions returns matching submissions, newest first.
func (s *Store) ListSubmissions(ctx context.Context, f game.SubmissionFilter) ([]models.Submission, error) {
	q := s.db.WithContext(ctx).Model(&models.Submission{})
	if f.TeamID != "" {
		q = q.Where("team_id = ?", f.TeamID)
	}
	if f.TaskID != "" {
		q = q.Where("task_id = ?", f.TaskID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	var out []models.Submission
	err := q.Order("created_at desc").Find(&out).Error
	return out, translate(err, "list submissions")
}

func (s *Store) DeleteSubmission(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Submission{})
	if res.Error != nil {
		return translate(res.Error, "submission "+id)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: submission %s", game.ErrNotFound, id)
	}
	return nil
}

// SaveReview writes the reviewed submission and the progress it drives in one transaction.
func (s *Store) SaveReview(ctx context.Context, sub *models.Submission, p *models.Progress) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(sub).Error; err != nil {
			return err
		}
		if p != nil {
			return saveProgress(tx, p)
		}
		return nil
	})
	return translate(err, "save review")
}

func (s *Store) GetTeam(ctx context.Context, id string) (models.Team, error) {
	var team models.Team
	err := s.db.WithContext(ctx).Where("id = ?", id).First(&team).Error
	return team, translate(err, "team "+id)
}

func (s *Store) ListTeams(ctx context.Context) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.WithContext(ctx).Order("name asc").Find(&teams).Error
	return teams, translate(err, "list teams")
}

// UpdateTeam saves profile fields of an existing team.
func (s *Store) UpdateTeam(ctx context.Context, team *models.Team) error {
	res := s.db.WithContext(ctx).Model(team).Select("name", "description", "member_count", "profile_photo").Updates(team)
	if res.Error != nil {
		return translate(res.Error, "team "+team.ID)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: team %s", game.ErrNotFound, team.ID)
	}
	return nil
}

// RegisterTeam creates a team and its login account together.
func (s *Store) RegisterTeam(ctx context.Context, team *models.Team, account *models.Account) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		account.TeamID = team.ID
		return tx.Create(account).Error
	})
	return translate(err, "register team "+team.Name)
}

// CreateAccount stores a login that is not tied to a new team (admins).
func (s *Store) CreateAccount(ctx context.Context, account *models.Account) error {
	return translate(s.db.WithContext(ctx).Create(account).Error, "account "+account.Email)
}

// GetAccountByEmail looks an account up by its (lowercased) email.
func (s *Store) GetAccountByEmail(ctx context.Context, email string) (models.Account, error) {
	var account models.Account
	err := s.db.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&account).Error
	return account, translate(err, "account "+email)
}
