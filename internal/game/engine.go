package game

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"scavenger-hunt-api/internal/metrics"
	"scavenger-hunt-api/internal/models"

	"github.com/google/uuid"
)

// DefaultMaxUploadBytes caps photo and video uploads.
const DefaultMaxUploadBytes = 10 << 20

// Options tunes the engine. The zero value is usable.
type Options struct {
	// InReviewAdvances lets a team move on as soon as a photo is submitted,
	// without waiting for admin review.
	InReviewAdvances bool
	// MaxUploadBytes caps uploads; zero means DefaultMaxUploadBytes.
	MaxUploadBytes int64
	// CatalogTTL is how long the active task list may be served from memory.
	CatalogTTL time.Duration
	// Now and NewID are replaceable in tests.
	Now   func() time.Time
	NewID func() string
}

// Engine runs the game rules: it judges submissions, scores them, and moves each
// team's progress forward. Every transition is persisted and re-read before it is
// reported, so callers never see a status the store has not acknowledged.
type Engine struct {
	store    Store
	blobs    Blobs
	catalog  *Catalog
	notifier Notifier
	opts     Options
}

// NewEngine wires an engine to its store and blob storage. blobs may be nil for
// read-only uses; uploads then fail.
func NewEngine(store Store, blobs Blobs, opts Options) *Engine {
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = DefaultMaxUploadBytes
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = func() string { return uuid.NewString() }
	}
	return &Engine{
		store:    store,
		blobs:    blobs,
		catalog:  NewCatalog(store, opts.CatalogTTL),
		notifier: nopNotifier{},
		opts:     opts,
	}
}

// SetNotifier registers where persisted changes are announced.
func (e *Engine) SetNotifier(n Notifier) {
	if n == nil {
		n = nopNotifier{}
	}
	e.notifier = n
}

// Catalog exposes the task catalog the engine plays from.
func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// InReviewAdvances reports the active current-task policy.
func (e *Engine) InReviewAdvances() bool {
	return e.opts.InReviewAdvances
}

// Tasks lists the active tasks in play order.
func (e *Engine) Tasks(ctx context.Context) ([]models.Task, error) {
	return e.catalog.ListActiveTasks(ctx)
}

// CurrentTask returns the task the team should work on next, or nil when the team
// has finished every task.
func (e *Engine) CurrentTask(ctx context.Context, sess Session, teamID string) (*models.Task, error) {
	if !sess.canRead(teamID) {
		return nil, fmt.Errorf("%w: cannot read team %s", ErrForbidden, teamID)
	}
	tasks, err := e.catalog.ListActiveTasks(ctx)
	if err != nil {
		return nil, err
	}
	progress, err := e.store.ListProgress(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return CurrentTask(tasks, progress, e.opts.InReviewAdvances), nil
}

// SetTaskActive soft-deletes or restores a task. Admin only.
func (e *Engine) SetTaskActive(ctx context.Context, sess Session, taskID string, active bool) error {
	if err := sess.requireAdmin(); err != nil {
		return err
	}
	if err := e.store.SetTaskActive(ctx, taskID, active); err != nil {
		return err
	}
	e.catalog.Invalidate()
	return nil
}

// playableTask loads an active task a team session may submit to.
func (e *Engine) playableTask(ctx context.Context, sess Session, taskID string) (models.Task, error) {
	if err := sess.requireTeam(); err != nil {
		return models.Task{}, err
	}
	task, err := e.store.GetTask(ctx, taskID)
	if err != nil {
		return models.Task{}, err
	}
	if !task.Active {
		return models.Task{}, fmt.Errorf("%w: task %s", ErrNotFound, taskID)
	}
	if !task.Validation.Submittable() {
		return models.Task{}, fmt.Errorf("%w: task %s is informational", ErrNotSubmittable, taskID)
	}
	return task, nil
}

// ensureUnlocked refuses tasks ordered after the team's current task.
func (e *Engine) ensureUnlocked(ctx context.Context, teamID string, task models.Task) error {
	tasks, err := e.catalog.ListActiveTasks(ctx)
	if err != nil {
		return err
	}
	progress, err := e.store.ListProgress(ctx, teamID)
	if err != nil {
		return err
	}
	current := CurrentTask(tasks, progress, e.opts.InReviewAdvances)
	if current != nil && task.Order > current.Order {
		return fmt.Errorf("%w: finish %q first", ErrTaskLocked, current.Title)
	}
	return nil
}

// loadProgress returns the stored record or a fresh todo record that is not yet persisted.
func (e *Engine) loadProgress(ctx context.Context, teamID, taskID string) (models.Progress, error) {
	p, err := e.store.GetProgress(ctx, teamID, taskID)
	if errors.Is(err, ErrNotFound) {
		return models.Progress{TeamID: teamID, TaskID: taskID, Status: models.StatusTodo}, nil
	}
	return p, err
}

// commit persists p, re-reads it and announces the confirmed record to the team.
func (e *Engine) commit(ctx context.Context, p *models.Progress, from models.ProgressStatus) (models.Progress, error) {
	p.UpdatedAt = e.opts.Now()
	if err := e.store.SaveProgress(ctx, p); err != nil {
		return models.Progress{}, err
	}
	saved, err := e.store.GetProgress(ctx, p.TeamID, p.TaskID)
	if err != nil {
		return models.Progress{}, err
	}
	e.announceProgress(saved, from)
	return saved, nil
}

func (e *Engine) announceProgress(p models.Progress, from models.ProgressStatus) {
	metrics.RecordTransition(string(from), string(p.Status))
	if from != p.Status {
		log.Printf("team %s task %s: %s -> %s", p.TeamID, p.TaskID, from, p.Status)
	}
	e.notifier.NotifyTeam(p.TeamID, Event{
		Type:   EventProgressUpdated,
		TeamID: p.TeamID,
		TaskID: p.TaskID,
		Status: p.Status,
		Points: p.Points,
	})
}
