package rules

import (
	"errors"
	"fmt"
	"strings"
)

// Kind identifies how a task judges a submission
type Kind string

const (
	KindNone             Kind = "none"
	KindTextEquals       Kind = "text_equals"
	KindTextContains     Kind = "text_contains"
	KindQuiz             Kind = "quiz"
	KindPhotoUpload      Kind = "photo_upload"
	KindPhotoAdminReview Kind = "photo_admin_review"
	KindGPS              Kind = "gps"
)

// DefaultQuestionPoints is what a quiz question is worth when the catalog does not say
const DefaultQuestionPoints = 5

// ErrMalformed is returned for a validation that cannot judge anything
var ErrMalformed = errors.New("malformed validation")

// QuizQuestion is one question of a quiz task
type QuizQuestion struct {
	Prompt   string   `json:"prompt" yaml:"prompt"`
	Answer   string   `json:"answer" yaml:"answer"`
	Accepted []string `json:"accepted,omitempty" yaml:"accepted,omitempty"`
	Points   int      `json:"points" yaml:"points"`
}

// GeoPoint is a WGS84 coordinate
type GeoPoint struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

// Validation is the per-task strategy. Only the fields relevant to Kind are set.
type Validation struct {
	Kind         Kind           `json:"kind" yaml:"kind"`
	Expected     string         `json:"expected,omitempty" yaml:"expected,omitempty"`
	Questions    []QuizQuestion `json:"questions,omitempty" yaml:"questions,omitempty"`
	Floor        int            `json:"floor,omitempty" yaml:"floor,omitempty"`
	Target       *GeoPoint      `json:"target,omitempty" yaml:"target,omitempty"`
	RadiusMeters float64        `json:"radiusMeters,omitempty" yaml:"radiusMeters,omitempty"`
}

// Submittable reports whether a team can submit anything for this strategy
func (v Validation) Submittable() bool {
	return v.Kind != KindNone && v.Kind != ""
}

// IsText reports whether the strategy is a deduction-scored riddle
func (v Validation) IsText() bool {
	return v.Kind == KindTextEquals || v.Kind == KindTextContains
}

// IsPhoto reports whether judgement is deferred to an uploaded file
func (v Validation) IsPhoto() bool {
	return v.Kind == KindPhotoUpload || v.Kind == KindPhotoAdminReview
}

// QuestionPoints returns the value of question i, applying the default
func (v Validation) QuestionPoints(i int) int {
	if i < 0 || i >= len(v.Questions) {
		return 0
	}
	if p := v.Questions[i].Points; p > 0 {
		return p
	}
	return DefaultQuestionPoints
}

// MaxQuizScore is the score of a fully correct quiz
func (v Validation) MaxQuizScore() int {
	total := 0
	for i := range v.Questions {
		total += v.QuestionPoints(i)
	}
	return total
}

// Check verifies the strategy is well-formed for a task worth maxPoints
func (v Validation) Check(maxPoints int) error {
	if maxPoints < 0 {
		return fmt.Errorf("%w: negative points", ErrMalformed)
	}
	switch v.Kind {
	case KindNone, "":
		return nil
	case KindTextEquals, KindTextContains:
		if Normalize(v.Expected) == "" {
			return fmt.Errorf("%w: %s needs an expected answer", ErrMalformed, v.Kind)
		}
		if v.Floor < 0 || v.Floor > maxPoints {
			return fmt.Errorf("%w: floor %d outside [0, %d]", ErrMalformed, v.Floor, maxPoints)
		}
	case KindQuiz:
		if len(v.Questions) == 0 {
			return fmt.Errorf("%w: quiz without questions", ErrMalformed)
		}
		for i, q := range v.Questions {
			if len(q.acceptedAnswers()) == 0 {
				return fmt.Errorf("%w: question %d has no accepted answer", ErrMalformed, i+1)
			}
			if q.Points < 0 {
				return fmt.Errorf("%w: question %d has negative points", ErrMalformed, i+1)
			}
		}
		if total := v.MaxQuizScore(); total > maxPoints {
			return fmt.Errorf("%w: quiz is worth %d but the task only %d", ErrMalformed, total, maxPoints)
		}
	case KindPhotoUpload, KindPhotoAdminReview:
		return nil
	case KindGPS:
		if v.Target == nil || v.RadiusMeters <= 0 {
			return fmt.Errorf("%w: gps needs a target and a positive radius", ErrMalformed)
		}
	default:
		return fmt.Errorf("%w: unknown kind %q", ErrMalformed, v.Kind)
	}
	return nil
}

// ParseRule converts the compact rule strings used by seed files
// ("text:equals:13", "text:contains:ZAJIC", "photo", "workflow:photo_admin_review", ...)
func ParseRule(rule string) (Validation, error) {
	rule = strings.TrimSpace(rule)
	switch {
	case rule == "" || rule == "none":
		return Validation{Kind: KindNone}, nil
	case strings.HasPrefix(rule, "text:equals:"):
		return Validation{Kind: KindTextEquals, Expected: strings.TrimPrefix(rule, "text:equals:")}, nil
	case strings.HasPrefix(rule, "text:contains:"):
		return Validation{Kind: KindTextContains, Expected: strings.TrimPrefix(rule, "text:contains:")}, nil
	case rule == "photo", rule == "workflow:photo_upload":
		return Validation{Kind: KindPhotoUpload}, nil
	case rule == "manual", rule == "workflow:photo_admin_review":
		return Validation{Kind: KindPhotoAdminReview}, nil
	case rule == "gps":
		return Validation{Kind: KindGPS}, nil
	}
	return Validation{}, fmt.Errorf("%w: unrecognised rule %q", ErrMalformed, rule)
}
