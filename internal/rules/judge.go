package rules

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrBlankAnswer is returned when an answer is empty after trimming
var ErrBlankAnswer = errors.New("answer is empty")

// ErrWrongStrategy is returned when a judge is called for a strategy it does not handle
var ErrWrongStrategy = errors.New("strategy does not judge this kind of answer")

const earthRadiusMeters = 6371000.0

// Blank reports whether an answer carries no content
func Blank(answer string) bool {
	return strings.TrimSpace(answer) == ""
}

// JudgeText decides a riddle answer for text_equals and text_contains strategies
func (v Validation) JudgeText(answer string) (bool, error) {
	if !v.IsText() {
		return false, fmt.Errorf("%w: %s", ErrWrongStrategy, v.Kind)
	}
	if Blank(answer) {
		return false, ErrBlankAnswer
	}
	got, want := Normalize(answer), Normalize(v.Expected)
	if v.Kind == KindTextEquals {
		return got == want, nil
	}
	return strings.Contains(got, want), nil
}

// acceptedAnswers is the canonical answer plus its synonyms, lowercased and trimmed
func (q QuizQuestion) acceptedAnswers() []string {
	out := make([]string, 0, len(q.Accepted)+1)
	for _, a := range append([]string{q.Answer}, q.Accepted...) {
		a = strings.ToLower(strings.TrimSpace(a))
		if a != "" {
			out = append(out, a)
		}
	}
	return out
}

// Accepts checks one quiz answer. Besides exact matches it accepts any answer containing
// the last word of an accepted string, since names are written in many ways ("T. G. Masaryk").
func (q QuizQuestion) Accepts(answer string) bool {
	got := strings.ToLower(strings.TrimSpace(answer))
	if got == "" {
		return false
	}
	for _, accepted := range q.acceptedAnswers() {
		if got == accepted {
			return true
		}
		fields := strings.Fields(accepted)
		if strings.Contains(got, fields[len(fields)-1]) {
			return true
		}
	}
	return false
}

// JudgeQuiz returns per-question correctness. Every question must be answered.
func (v Validation) JudgeQuiz(answers []string) ([]bool, error) {
	if v.Kind != KindQuiz {
		return nil, fmt.Errorf("%w: %s", ErrWrongStrategy, v.Kind)
	}
	if len(answers) != len(v.Questions) {
		return nil, fmt.Errorf("%w: expected %d answers, got %d", ErrBlankAnswer, len(v.Questions), len(answers))
	}
	results := make([]bool, len(v.Questions))
	for i, q := range v.Questions {
		if Blank(answers[i]) {
			return nil, fmt.Errorf("%w: question %d", ErrBlankAnswer, i+1)
		}
		results[i] = q.Accepts(answers[i])
	}
	return results, nil
}

// JudgeLocation decides a gps task: the reported position must be inside the target radius
func (v Validation) JudgeLocation(at GeoPoint) (bool, error) {
	if v.Kind != KindGPS || v.Target == nil {
		return false, fmt.Errorf("%w: %s", ErrWrongStrategy, v.Kind)
	}
	if math.Abs(at.Lat) > 90 || math.Abs(at.Lng) > 180 {
		return false, fmt.Errorf("%w: coordinate out of range", ErrBlankAnswer)
	}
	return Distance(*v.Target, at) <= v.RadiusMeters, nil
}

// Distance is the great-circle distance in meters (haversine)
func Distance(a, b GeoPoint) float64 {
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(b.Lat - a.Lat)
	dLng := toRad(b.Lng - a.Lng)
	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(a.Lat))*math.Cos(toRad(b.Lat))*math.Sin(dLng/2)*math.Sin(dLng/2)
	return 2 * earthRadiusMeters * math.Asin(math.Min(1, math.Sqrt(h)))
}
