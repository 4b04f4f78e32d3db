package game

import "errors"

var (
	// ErrInvalidInput rejects a request before any state changes (blank answer, bad file, bad points).
	ErrInvalidInput = errors.New("invalid input")
	// ErrForbidden is returned when the session may not perform the operation.
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound is returned by stores for missing records.
	ErrNotFound = errors.New("not found")
	// ErrTaskLocked is returned when a team submits to a task after its current one.
	ErrTaskLocked = errors.New("task is locked")
	// ErrNotSubmittable is returned when a task does not accept this kind of submission.
	ErrNotSubmittable = errors.New("task does not accept this submission")
	// ErrInvalidTransition is returned when a progress record cannot move to the requested status.
	ErrInvalidTransition = errors.New("invalid progress transition")
	// ErrOrderTaken is returned when activating a task would give two active tasks the same order.
	ErrOrderTaken = errors.New("task order already taken")
)
