package game

import (
	"context"
	"fmt"
	"sort"
	"time"

	"scavenger-hunt-api/internal/models"
)

// TeamSummary is the admin dashboard rollup of one team.
type TeamSummary struct {
	TeamID         string              `json:"teamId"`
	TeamName       string              `json:"teamName"`
	ProfilePhoto   string              `json:"profilePhoto,omitempty"`
	CompletedCount int                 `json:"completedTasks"`
	PendingCount   int                 `json:"pendingSubmissions"`
	TotalPoints    int                 `json:"totalPoints"`
	TotalTasks     int                 `json:"totalTasks"`
	LastActivity   *time.Time          `json:"lastActivity,omitempty"`
	Submissions    []models.Submission `json:"submissions"`
}

// DashboardStats are the headline numbers of the admin page.
type DashboardStats struct {
	TotalTeams       int `json:"totalTeams"`
	ActiveTeams      int `json:"activeTeams"`
	TotalSubmissions int `json:"totalSubmissions"`
	PendingReviews   int `json:"pendingReviews"`
}

// Summarize folds a team's records into a TeamSummary. Points only count for done
// progress and come from the progress record itself, never from the task's maximum.
func Summarize(team models.Team, tasks []models.Task, progress []models.Progress, subs []models.Submission) TeamSummary {
	s := TeamSummary{
		TeamID:       team.ID,
		TeamName:     team.Name,
		ProfilePhoto: team.ProfilePhoto,
		TotalTasks:   len(tasks),
		Submissions:  make([]models.Submission, 0, len(subs)),
	}
	touch := func(ts time.Time) {
		if ts.IsZero() {
			return
		}
		if s.LastActivity == nil || ts.After(*s.LastActivity) {
			t := ts
			s.LastActivity = &t
		}
	}
	for _, p := range progress {
		if p.Status == models.StatusDone {
			s.CompletedCount++
			s.TotalPoints += p.EarnedPoints()
		}
		touch(p.UpdatedAt)
	}
	for _, sub := range subs {
		if sub.Status == models.SubmissionPending {
			s.PendingCount++
		}
		touch(sub.CreatedAt)
		s.Submissions = append(s.Submissions, sub)
	}
	return s
}

// TeamSummary builds the rollup for one team. Admins may read any team, a team only itself.
func (e *Engine) TeamSummary(ctx context.Context, sess Session, teamID string) (TeamSummary, error) {
	if !sess.canRead(teamID) {
		return TeamSummary{}, fmt.Errorf("%w: cannot read team %s", ErrForbidden, teamID)
	}
	team, err := e.store.GetTeam(ctx, teamID)
	if err != nil {
		return TeamSummary{}, err
	}
	tasks, err := e.catalog.ListActiveTasks(ctx)
	if err != nil {
		return TeamSummary{}, err
	}
	return e.summarizeTeam(ctx, team, tasks)
}

// AllTeamSummaries returns every team's rollup, best-scoring team first. Admin only.
func (e *Engine) AllTeamSummaries(ctx context.Context, sess Session) ([]TeamSummary, error) {
	if err := sess.requireAdmin(); err != nil {
		return nil, err
	}
	teams, err := e.store.ListTeams(ctx)
	if err != nil {
		return nil, err
	}
	tasks, err := e.catalog.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]TeamSummary, 0, len(teams))
	for _, team := range teams {
		s, err := e.summarizeTeam(ctx, team, tasks)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].TotalPoints != out[j].TotalPoints {
			return out[i].TotalPoints > out[j].TotalPoints
		}
		return out[i].TeamName < out[j].TeamName
	})
	return out, nil
}

// DashboardStats counts teams and submissions for the admin overview. Admin only.
func (e *Engine) DashboardStats(ctx context.Context, sess Session) (DashboardStats, error) {
	if err := sess.requireAdmin(); err != nil {
		return DashboardStats{}, err
	}
	teams, err := e.store.ListTeams(ctx)
	if err != nil {
		return DashboardStats{}, err
	}
	subs, err := e.store.ListSubmissions(ctx, SubmissionFilter{})
	if err != nil {
		return DashboardStats{}, err
	}
	stats := DashboardStats{TotalTeams: len(teams), TotalSubmissions: len(subs)}
	active := make(map[string]struct{})
	for _, s := range subs {
		active[s.TeamID] = struct{}{}
		if s.Status == models.SubmissionPending {
			stats.PendingReviews++
		}
	}
	stats.ActiveTeams = len(active)
	return stats, nil
}

func (e *Engine) summarizeTeam(ctx context.Context, team models.Team, tasks []models.Task) (TeamSummary, error) {
	progress, err := e.store.ListProgress(ctx, team.ID)
	if err != nil {
		return TeamSummary{}, err
	}
	subs, err := e.store.ListSubmissions(ctx, SubmissionFilter{TeamID: team.ID})
	if err != nil {
		return TeamSummary{}, err
	}
	for i := range subs {
		e.attachURL(ctx, &subs[i])
	}
	return Summarize(team, tasks, progress, subs), nil
}
