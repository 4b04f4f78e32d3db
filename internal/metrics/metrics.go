package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds the game collectors. A dedicated registry keeps tests independent of
// whatever else registers on the default one.
var Registry = prometheus.NewRegistry()

var (
	answerAttempts = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hunt_answer_attempts_total",
		Help: "Judged answers by validation kind and outcome (correct, wrong, exhausted).",
	}, []string{"kind", "outcome"})

	submissionsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hunt_submissions_total",
		Help: "Uploaded photo/video submissions.",
	}, []string{"type"})

	reviews = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hunt_reviews_total",
		Help: "Admin decisions on submissions.",
	}, []string{"decision"})

	transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "hunt_progress_transitions_total",
		Help: "Persisted progress status changes.",
	}, []string{"from", "to"})
)

func init() {
	Registry.MustRegister(
		answerAttempts,
		submissionsCreated,
		reviews,
		transitions,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
}

// RecordAttempt counts one judged answer.
func RecordAttempt(kind, outcome string) {
	answerAttempts.WithLabelValues(kind, outcome).Inc()
}

// RecordSubmission counts one stored upload.
func RecordSubmission(submissionType string) {
	submissionsCreated.WithLabelValues(submissionType).Inc()
}

// RecordReview counts one admin decision.
func RecordReview(decision string) {
	reviews.WithLabelValues(decision).Inc()
}

// RecordTransition counts a progress status change.
func RecordTransition(from, to string) {
	if from == to {
		return
	}
	transitions.WithLabelValues(from, to).Inc()
}

// Handler exposes the registry in the prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
