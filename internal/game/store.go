package game

import (
	"context"
	"io"

	"scavenger-hunt-api/internal/models"
)

// SubmissionFilter narrows a submission listing. Empty fields match everything.
type SubmissionFilter struct {
	TeamID string
	TaskID string
	Status models.SubmissionStatus
}

// Store is the document store the engine persists to. Missing records are reported
// with ErrNotFound. Implementations need not give read-after-write consistency across
// processes, but a write that returns nil must be visible to the same store.
type Store interface {
	ListActiveTasks(ctx context.Context) ([]models.Task, error)
	GetTask(ctx context.Context, id string) (models.Task, error)
	SetTaskActive(ctx context.Context, id string, active bool) error

	GetProgress(ctx context.Context, teamID, taskID string) (models.Progress, error)
	ListProgress(ctx context.Context, teamID string) ([]models.Progress, error)
	SaveProgress(ctx context.Context, p *models.Progress) error

	CreateSubmission(ctx context.Context, s *models.Submission) error
	GetSubmission(ctx context.Context, id string) (models.Submission, error)
	ListSubmissions(ctx context.Context, f SubmissionFilter) ([]models.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error
	// SaveReview writes the reviewed submission and, when non-nil, the progress it drives,
	// atomically.
	SaveReview(ctx context.Context, s *models.Submission, p *models.Progress) error

	GetTeam(ctx context.Context, id string) (models.Team, error)
	ListTeams(ctx context.Context) ([]models.Team, error)
}

// Blobs stores uploaded files. The engine never looks inside them.
type Blobs interface {
	Upload(ctx context.Context, path string, body io.Reader, contentType string) (string, error)
	DownloadURL(ctx context.Context, path string) (string, error)
	Delete(ctx context.Context, path string) error
}

// Event is pushed to connected clients after a change has been persisted.
type Event struct {
	Type         string                `json:"type"`
	TeamID       string                `json:"teamId"`
	TaskID       string                `json:"taskId,omitempty"`
	SubmissionID string                `json:"submissionId,omitempty"`
	Status       models.ProgressStatus `json:"status,omitempty"`
	Points       *int                  `json:"points,omitempty"`
}

const (
	EventProgressUpdated    = "progress_updated"
	EventSubmissionCreated  = "submission_created"
	EventSubmissionReviewed = "submission_reviewed"
	EventSubmissionDeleted  = "submission_deleted"
)

// Notifier fans events out to a team and to the admins.
type Notifier interface {
	NotifyTeam(teamID string, evt Event)
	NotifyAdmins(evt Event)
}

type nopNotifier struct{}

func (nopNotifier) NotifyTeam(string, Event) {}
func (nopNotifier) NotifyAdmins(Event) {}
