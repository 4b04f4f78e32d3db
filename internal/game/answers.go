package game

import (
	"context"
	"errors"
	"fmt"

	"scavenger-hunt-api/internal/metrics"
	"scavenger-hunt-api/internal/models"
	"scavenger-hunt-api/internal/rules"
)

// AnswerResult reports the outcome of a riddle attempt. Solved is true once the riddle
// is done, by a correct answer or by exhausting its points.
type AnswerResult struct {
	Correct   bool            `json:"correct"`
	Solved    bool            `json:"solved"`
	Exhausted bool            `json:"exhausted"`
	Attempts  int             `json:"attempts"`
	Awarded   int             `json:"awarded"`
	Remaining int             `json:"remaining"`
	Progress  models.Progress `json:"progress"`
}

// QuizResult reports per-question correctness and the score.
type QuizResult struct {
	Results  []bool          `json:"results,omitempty"`
	Score    int             `json:"score"`
	Progress models.Progress `json:"progress"`
}

// LocationResult reports whether the team reached a gps task's target.
type LocationResult struct {
	Arrived  bool            `json:"arrived"`
	Distance float64         `json:"distanceMeters"`
	Progress models.Progress `json:"progress"`
}

// SubmitAnswer judges one riddle attempt. Blank answers are rejected without counting an
// attempt. A correct answer on attempt k scores max(floor, points-(k-1)); once wrong answers
// have used up the budget the riddle completes with 0 points. Answers to a done riddle are
// judged but change nothing.
func (e *Engine) SubmitAnswer(ctx context.Context, sess Session, taskID, answer string) (AnswerResult, error) {
	task, err := e.playableTask(ctx, sess, taskID)
	if err != nil {
		return AnswerResult{}, err
	}
	v := task.Validation
	if !v.IsText() {
		return AnswerResult{}, fmt.Errorf("%w: task %s is not a riddle", ErrNotSubmittable, taskID)
	}
	if rules.Blank(answer) {
		return AnswerResult{}, fmt.Errorf("%w: answer is empty", ErrInvalidInput)
	}
	if err := e.ensureUnlocked(ctx, sess.TeamID, task); err != nil {
		return AnswerResult{}, err
	}
	p, err := e.loadProgress(ctx, sess.TeamID, taskID)
	if err != nil {
		return AnswerResult{}, err
	}

	correct, err := v.JudgeText(answer)
	if err != nil {
		return AnswerResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if p.Status == models.StatusDone {
		return AnswerResult{
			Correct:   correct,
			Solved:    true,
			Attempts:  p.Attempts,
			Awarded:   p.EarnedPoints(),
			Remaining: p.EarnedPoints(),
			Progress:  p,
		}, nil
	}

	from := p.Status
	p.Attempts++
	res := AnswerResult{Correct: correct, Attempts: p.Attempts}
	outcome := "wrong"
	switch {
	case correct:
		outcome = "correct"
		if err := advance(&p, models.StatusDone, intPtr(rules.Award(task.Points, v.Floor, p.Attempts))); err != nil {
			return AnswerResult{}, err
		}
	case rules.Exhausted(task.Points, v.Floor, p.Attempts):
		outcome = "exhausted"
		res.Exhausted = true
		if err := advance(&p, models.StatusDone, intPtr(0)); err != nil {
			return AnswerResult{}, err
		}
	}

	saved, err := e.commit(ctx, &p, from)
	if err != nil {
		return AnswerResult{}, err
	}
	metrics.RecordAttempt(string(v.Kind), outcome)

	res.Progress = saved
	res.Solved = saved.Status == models.StatusDone
	if res.Solved {
		res.Awarded = saved.EarnedPoints()
		res.Remaining = res.Awarded
	} else {
		res.Remaining = rules.Remaining(task.Points, v.Floor, saved.Attempts)
	}
	return res, nil
}

// SubmitQuiz scores a quiz in one go. Every question needs a non-blank answer. The quiz
// completes with the sum of its correct questions' points; later submissions return the
// stored result unchanged.
func (e *Engine) SubmitQuiz(ctx context.Context, sess Session, taskID string, answers []string) (QuizResult, error) {
	task, err := e.playableTask(ctx, sess, taskID)
	if err != nil {
		return QuizResult{}, err
	}
	v := task.Validation
	if v.Kind != rules.KindQuiz {
		return QuizResult{}, fmt.Errorf("%w: task %s is not a quiz", ErrNotSubmittable, taskID)
	}
	results, err := v.JudgeQuiz(answers)
	if err != nil {
		return QuizResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := e.ensureUnlocked(ctx, sess.TeamID, task); err != nil {
		return QuizResult{}, err
	}
	p, err := e.loadProgress(ctx, sess.TeamID, taskID)
	if err != nil {
		return QuizResult{}, err
	}
	if p.Status == models.StatusDone {
		return QuizResult{Score: p.EarnedPoints(), Progress: p}, nil
	}

	score := v.QuizScore(results)
	if score > task.Points {
		score = task.Points
	}
	from := p.Status
	p.Attempts++
	if err := advance(&p, models.StatusDone, intPtr(score)); err != nil {
		return QuizResult{}, err
	}
	saved, err := e.commit(ctx, &p, from)
	if err != nil {
		return QuizResult{}, err
	}
	for _, ok := range results {
		if ok {
			metrics.RecordAttempt(string(v.Kind), "correct")
		} else {
			metrics.RecordAttempt(string(v.Kind), "wrong")
		}
	}
	return QuizResult{Results: results, Score: saved.EarnedPoints(), Progress: saved}, nil
}

// SubmitLocation checks in at a gps task. Arriving inside the radius completes the task
// with its full points; reports from further away are recorded as attempts only.
func (e *Engine) SubmitLocation(ctx context.Context, sess Session, taskID string, at rules.GeoPoint) (LocationResult, error) {
	task, err := e.playableTask(ctx, sess, taskID)
	if err != nil {
		return LocationResult{}, err
	}
	v := task.Validation
	if v.Kind != rules.KindGPS {
		return LocationResult{}, fmt.Errorf("%w: task %s has no location check", ErrNotSubmittable, taskID)
	}
	arrived, err := v.JudgeLocation(at)
	if err != nil {
		if errors.Is(err, rules.ErrWrongStrategy) {
			return LocationResult{}, fmt.Errorf("%w: %v", ErrNotSubmittable, err)
		}
		return LocationResult{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := e.ensureUnlocked(ctx, sess.TeamID, task); err != nil {
		return LocationResult{}, err
	}
	p, err := e.loadProgress(ctx, sess.TeamID, taskID)
	if err != nil {
		return LocationResult{}, err
	}
	dist := rules.Distance(*v.Target, at)
	if p.Status == models.StatusDone {
		return LocationResult{Arrived: arrived, Distance: dist, Progress: p}, nil
	}

	from := p.Status
	p.Attempts++
	if arrived {
		if err := advance(&p, models.StatusDone, intPtr(task.Points)); err != nil {
			return LocationResult{}, err
		}
	}
	saved, err := e.commit(ctx, &p, from)
	if err != nil {
		return LocationResult{}, err
	}
	if arrived {
		metrics.RecordAttempt(string(v.Kind), "correct")
	} else {
		metrics.RecordAttempt(string(v.Kind), "wrong")
	}
	return LocationResult{Arrived: arrived, Distance: dist, Progress: saved}, nil
}
