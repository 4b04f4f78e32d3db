package game

import (
	"context"
	"fmt"

	"scavenger-hunt-api/internal/models"
	"scavenger-hunt-api/internal/rules"
)

// TaskView is a task as a team sees it: no expected answers, plus the team's own progress.
type TaskView struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Order       int                   `json:"order"`
	Points      int                   `json:"points"`
	Kind        rules.Kind            `json:"kind"`
	Questions   []string              `json:"questions,omitempty"`
	Target      *rules.GeoPoint       `json:"target,omitempty"`
	Status      models.ProgressStatus `json:"status"`
	Attempts    int                   `json:"attempts"`
	Earned      *int                  `json:"earned,omitempty"`
	Remaining   *int                  `json:"remaining,omitempty"`
	Current     bool                  `json:"current"`
	Locked      bool                  `json:"locked"`
}

func newTaskView(t models.Task, p models.Progress, current *models.Task) TaskView {
	v := TaskView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Order:       t.Order,
		Points:      t.Points,
		Kind:        t.Validation.Kind,
		Target:      t.Validation.Target,
		Status:      p.Status,
		Attempts:    p.Attempts,
		Earned:      p.Points,
	}
	if v.Kind == "" {
		v.Kind = rules.KindNone
	}
	if v.Status == "" {
		v.Status = models.StatusTodo
	}
	for _, q := range t.Validation.Questions {
		v.Questions = append(v.Questions, q.Prompt)
	}
	if t.Validation.IsText() && v.Status != models.StatusDone {
		v.Remaining = intPtr(rules.Remaining(t.Points, t.Validation.Floor, p.Attempts))
	}
	if current != nil {
		v.Current = current.ID == t.ID
		v.Locked = t.Order > current.Order
	}
	return v
}

// Board returns every active task with the team's status, in play order.
func (e *Engine) Board(ctx context.Context, sess Session) ([]TaskView, error) {
	if err := sess.requireTeam(); err != nil {
		return nil, err
	}
	tasks, err := e.catalog.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := e.store.ListProgress(ctx, sess.TeamID)
	if err != nil {
		return nil, err
	}
	current := CurrentTask(tasks, progress, e.opts.InReviewAdvances)
	byTask := indexProgress(progress)
	views := make([]TaskView, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, newTaskView(t, byTask[t.ID], current))
	}
	return views, nil
}

// TaskDetail returns one active task with the team's progress on it.
func (e *Engine) TaskDetail(ctx context.Context, sess Session, taskID string) (TaskView, error) {
	views, err := e.Board(ctx, sess)
	if err != nil {
		return TaskView{}, err
	}
	for _, v := range views {
		if v.ID == taskID {
			return v, nil
		}
	}
	return TaskView{}, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
}
