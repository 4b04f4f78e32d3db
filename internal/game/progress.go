package game

import (
	"fmt"

	"scavenger-hunt-api/internal/models"
)

// CanTransition reports whether a progress record may move from one status to another.
// Status only moves forward; done is terminal.
func CanTransition(from, to models.ProgressStatus) bool {
	switch from {
	case models.StatusTodo:
		return to == models.StatusInReview || to == models.StatusDone
	case models.StatusInReview:
		return to == models.StatusDone
	}
	return false
}

// advance moves p to status `to`, setting points when given. It refuses backward moves.
func advance(p *models.Progress, to models.ProgressStatus, points *int) error {
	if !CanTransition(p.Status, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, p.Status, to)
	}
	p.Status = to
	if points != nil {
		v := *points
		p.Points = &v
	}
	return nil
}

// Terminal reports whether a status lets the team move past the task. With
// inReviewAdvances, a submitted task no longer blocks while it waits for review.
func Terminal(status models.ProgressStatus, inReviewAdvances bool) bool {
	if status == models.StatusDone {
		return true
	}
	return inReviewAdvances && status == models.StatusInReview
}

// CurrentTask returns the first task, in catalog order, whose progress is not terminal.
// Informational tasks accept no submissions and never block. tasks must already be sorted
// ascending by Order. It returns nil when every task is terminal.
func CurrentTask(tasks []models.Task, progress []models.Progress, inReviewAdvances bool) *models.Task {
	status := indexProgress(progress)
	for i := range tasks {
		if !tasks[i].Validation.Submittable() {
			continue
		}
		st := models.StatusTodo
		if p, ok := status[tasks[i].ID]; ok {
			st = p.Status
		}
		if !Terminal(st, inReviewAdvances) {
			return &tasks[i]
		}
	}
	return nil
}

func indexProgress(progress []models.Progress) map[string]models.Progress {
	byTask := make(map[string]models.Progress, len(progress))
	for _, p := range progress {
		byTask[p.TaskID] = p
	}
	return byTask
}

func intPtr(v int) *int {
	return &v
}
