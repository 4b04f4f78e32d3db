package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"path"
	"strings"

	"scavenger-hunt-api/internal/metrics"
	"scavenger-hunt-api/internal/models"
	"scavenger-hunt-api/internal/rules"
)

// Upload is a photo or video handed to SubmitPhoto.
type Upload struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
	Caption     string
}

// ReviewDecision is an admin's verdict on a submission. Points is required when approving
// an admin-reviewed task and optional (defaulting to the task's points) otherwise.
type ReviewDecision struct {
	Approve bool
	Points  *int
	Reason  string
}

// submissionType classifies an upload by its content type.
func submissionType(contentType string) (models.SubmissionType, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case strings.HasPrefix(ct, "image/"):
		return models.TypeImage, true
	case strings.HasPrefix(ct, "video/"):
		return models.TypeVideo, true
	}
	return "", false
}

// SubmitPhoto stores an upload for a photo task and moves the task to in_review. The file
// is uploaded first and the record written after; if the record write fails the upload is
// left in place and the team may simply submit again.
func (e *Engine) SubmitPhoto(ctx context.Context, sess Session, taskID string, up Upload) (models.Submission, error) {
	task, err := e.playableTask(ctx, sess, taskID)
	if err != nil {
		return models.Submission{}, err
	}
	if !task.Validation.IsPhoto() {
		return models.Submission{}, fmt.Errorf("%w: task %s does not take photos", ErrNotSubmittable, taskID)
	}
	kind, ok := submissionType(up.ContentType)
	if !ok {
		return models.Submission{}, fmt.Errorf("%w: only images and videos are accepted", ErrInvalidInput)
	}
	if up.Body == nil || up.Size <= 0 {
		return models.Submission{}, fmt.Errorf("%w: file is empty", ErrInvalidInput)
	}
	if up.Size > e.opts.MaxUploadBytes {
		return models.Submission{}, fmt.Errorf("%w: file exceeds %d bytes", ErrInvalidInput, e.opts.MaxUploadBytes)
	}
	if err := e.ensureUnlocked(ctx, sess.TeamID, task); err != nil {
		return models.Submission{}, err
	}
	p, err := e.loadProgress(ctx, sess.TeamID, taskID)
	if err != nil {
		return models.Submission{}, err
	}
	if p.Status == models.StatusDone {
		return models.Submission{}, fmt.Errorf("%w: task %s is already done", ErrInvalidTransition, taskID)
	}

	id := e.opts.NewID()
	objectPath := fmt.Sprintf("teams/%s/submissions/%s%s", sess.TeamID, id, strings.ToLower(path.Ext(up.Filename)))
	if e.blobs == nil {
		return models.Submission{}, errors.New("upload submission: no blob storage configured")
	}
	stored, err := e.blobs.Upload(ctx, objectPath, up.Body, up.ContentType)
	if err != nil {
		return models.Submission{}, fmt.Errorf("upload submission: %w", err)
	}

	sub := models.Submission{
		ID:          id,
		TeamID:      sess.TeamID,
		TaskID:      taskID,
		Type:        kind,
		StoragePath: stored,
		Caption:     strings.TrimSpace(up.Caption),
		Status:      models.SubmissionPending,
		CreatedAt:   e.opts.Now(),
	}
	if err := e.store.CreateSubmission(ctx, &sub); err != nil {
		return models.Submission{}, fmt.Errorf("record submission: %w", err)
	}
	metrics.RecordSubmission(string(kind))
	e.notifier.NotifyAdmins(Event{
		Type:         EventSubmissionCreated,
		TeamID:       sub.TeamID,
		TaskID:       sub.TaskID,
		SubmissionID: sub.ID,
	})

	if p.Status == models.StatusTodo {
		from := p.Status
		if err := advance(&p, models.StatusInReview, nil); err != nil {
			return models.Submission{}, err
		}
		if _, err := e.commit(ctx, &p, from); err != nil {
			return models.Submission{}, err
		}
	}
	e.attachURL(ctx, &sub)
	return sub, nil
}

// Continue completes a photo_upload task that has a submission, awarding its fixed points.
// Continuing a done task returns it unchanged.
func (e *Engine) Continue(ctx context.Context, sess Session, taskID string) (models.Progress, error) {
	task, err := e.playableTask(ctx, sess, taskID)
	if err != nil {
		return models.Progress{}, err
	}
	if task.Validation.Kind != rules.KindPhotoUpload {
		return models.Progress{}, fmt.Errorf("%w: task %s completes on review, not on continue", ErrNotSubmittable, taskID)
	}
	p, err := e.loadProgress(ctx, sess.TeamID, taskID)
	if err != nil {
		return models.Progress{}, err
	}
	switch p.Status {
	case models.StatusDone:
		return p, nil
	case models.StatusTodo:
		return models.Progress{}, fmt.Errorf("%w: submit a photo first", ErrInvalidTransition)
	}
	from := p.Status
	if err := advance(&p, models.StatusDone, intPtr(task.Points)); err != nil {
		return models.Progress{}, err
	}
	return e.commit(ctx, &p, from)
}

// Review records an admin decision. Approval completes the task's progress with the approved
// points (and updates the points of an already-done admin-reviewed task). Rejection only marks
// the submission; progress is never moved backwards.
func (e *Engine) Review(ctx context.Context, sess Session, submissionID string, d ReviewDecision) (models.Submission, error) {
	if err := sess.requireAdmin(); err != nil {
		return models.Submission{}, err
	}
	sub, err := e.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return models.Submission{}, err
	}
	task, err := e.store.GetTask(ctx, sub.TaskID)
	if err != nil {
		return models.Submission{}, err
	}

	now := e.opts.Now()
	var progress *models.Progress
	var from models.ProgressStatus
	decision := "rejected"

	if d.Approve {
		decision = "approved"
		points := task.Points
		if d.Points != nil {
			if *d.Points < 0 || *d.Points > task.Points {
				return models.Submission{}, fmt.Errorf("%w: points must be between 0 and %d", ErrInvalidInput, task.Points)
			}
			points = *d.Points
		} else if task.Validation.Kind == rules.KindPhotoAdminReview {
			return models.Submission{}, fmt.Errorf("%w: points are required to approve this task", ErrInvalidInput)
		}
		sub.Status = models.SubmissionApproved
		sub.Points = intPtr(points)
		sub.RejectionReason = ""

		p, err := e.loadProgress(ctx, sub.TeamID, sub.TaskID)
		if err != nil {
			return models.Submission{}, err
		}
		from = p.Status
		switch p.Status {
		case models.StatusTodo, models.StatusInReview:
			if err := advance(&p, models.StatusDone, intPtr(points)); err != nil {
				return models.Submission{}, err
			}
			progress = &p
		case models.StatusDone:
			if task.Validation.Kind == rules.KindPhotoAdminReview {
				p.Points = intPtr(points)
				progress = &p
			}
		}
		if progress != nil {
			progress.UpdatedAt = now
		}
	} else {
		sub.Status = models.SubmissionRejected
		sub.Points = nil
		sub.RejectionReason = strings.TrimSpace(d.Reason)
	}
	sub.ReviewedBy = sess.UserID
	sub.ReviewedAt = &now

	if err := e.store.SaveReview(ctx, &sub, progress); err != nil {
		return models.Submission{}, err
	}
	saved, err := e.store.GetSubmission(ctx, sub.ID)
	if err != nil {
		return models.Submission{}, err
	}
	metrics.RecordReview(decision)
	if progress != nil {
		confirmed, err := e.store.GetProgress(ctx, progress.TeamID, progress.TaskID)
		if err != nil {
			return models.Submission{}, err
		}
		e.announceProgress(confirmed, from)
	}
	evt := Event{
		Type:         EventSubmissionReviewed,
		TeamID:       saved.TeamID,
		TaskID:       saved.TaskID,
		SubmissionID: saved.ID,
		Points:       saved.Points,
	}
	e.notifier.NotifyTeam(saved.TeamID, evt)
	e.notifier.NotifyAdmins(evt)

	e.attachURL(ctx, &saved)
	return saved, nil
}

// DeleteSubmission removes a submission record and, best effort, its file. Progress is untouched.
func (e *Engine) DeleteSubmission(ctx context.Context, sess Session, submissionID string) error {
	if err := sess.requireAdmin(); err != nil {
		return err
	}
	sub, err := e.store.GetSubmission(ctx, submissionID)
	if err != nil {
		return err
	}
	if e.blobs != nil {
		if err := e.blobs.Delete(ctx, sub.StoragePath); err != nil {
			log.Printf("delete blob %s: %v", sub.StoragePath, err)
		}
	}
	if err := e.store.DeleteSubmission(ctx, submissionID); err != nil {
		return err
	}
	e.notifier.NotifyAdmins(Event{
		Type:         EventSubmissionDeleted,
		TeamID:       sub.TeamID,
		TaskID:       sub.TaskID,
		SubmissionID: sub.ID,
	})
	return nil
}

// Submissions lists submissions newest first with download URLs. Teams only ever see their own.
func (e *Engine) Submissions(ctx context.Context, sess Session, f SubmissionFilter) ([]models.Submission, error) {
	if !sess.IsAdmin() {
		if err := sess.requireTeam(); err != nil {
			return nil, err
		}
		f.TeamID = sess.TeamID
	}
	subs, err := e.store.ListSubmissions(ctx, f)
	if err != nil {
		return nil, err
	}
	for i := range subs {
		e.attachURL(ctx, &subs[i])
	}
	return subs, nil
}

// attachURL resolves a download URL; a storage failure leaves the URL empty.
func (e *Engine) attachURL(ctx context.Context, sub *models.Submission) {
	if e.blobs == nil {
		return
	}
	url, err := e.blobs.DownloadURL(ctx, sub.StoragePath)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			log.Printf("download url for %s: %v", sub.StoragePath, err)
		}
		return
	}
	sub.DownloadURL = url
}
