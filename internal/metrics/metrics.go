// Package metrics collects and exposes Prometheus metrics for both services.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics surface used by services and middleware.
type Recorder interface {
	RecordScoreSubmitted(mode string, rank int)
	RecordSignup(result string)
	RecordLogin(result string)
	RecordTodoTransition(transition string, ok bool)
	RecordSessionEvent(event string)
	RecordHTTPRequest(method, route string, status int, latency time.Duration)
}

// Collector is the Prometheus implementation of Recorder.
type Collector struct {
	scoresSubmitted  *prometheus.CounterVec
	topRankSubmitted *prometheus.CounterVec
	signups          *prometheus.CounterVec
	logins           *prometheus.CounterVec
	todoTransitions  *prometheus.CounterVec
	sessionEvents    *prometheus.CounterVec
	httpRequests     *prometheus.CounterVec
	httpLatency      *prometheus.HistogramVec
}

var _ Recorder = (*Collector)(nil)

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		scoresSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_scores_submitted_total",
			Help: "Scores appended to the leaderboard.",
		}, []string{"mode"}),
		topRankSubmitted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_top_rank_submissions_total",
			Help: "Score submissions that ranked first in their mode.",
		}, []string{"mode"}),
		signups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_signups_total",
			Help: "Signup attempts by result.",
		}, []string{"result"}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		todoTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "todos_transitions_total",
			Help: "TODO status transitions by kind and outcome.",
		}, []string{"transition", "outcome"}),
		sessionEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "arena_session_events_total",
			Help: "Game session lifecycle events.",
		}, []string{"event"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.scoresSubmitted,
		c.topRankSubmitted,
		c.signups,
		c.logins,
		c.todoTransitions,
		c.sessionEvents,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

// RecordScoreSubmitted counts a leaderboard submission.
func (c *Collector) RecordScoreSubmitted(mode string, rank int) {
	c.scoresSubmitted.WithLabelValues(mode).Inc()
	if rank == 1 {
		c.topRankSubmitted.WithLabelValues(mode).Inc()
	}
}

// RecordSignup counts a signup attempt.
func (c *Collector) RecordSignup(result string) {
	c.signups.WithLabelValues(result).Inc()
}

// RecordLogin counts a login attempt.
func (c *Collector) RecordLogin(result string) {
	c.logins.WithLabelValues(result).Inc()
}

// RecordTodoTransition counts a resolve/reopen attempt.
func (c *Collector) RecordTodoTransition(transition string, ok bool) {
	outcome := "applied"
	if !ok {
		outcome = "rejected"
	}
	c.todoTransitions.WithLabelValues(transition, outcome).Inc()
}

// RecordSessionEvent counts a session create/update/close.
func (c *Collector) RecordSessionEvent(event string) {
	c.sessionEvents.WithLabelValues(event).Inc()
}

// RecordHTTPRequest counts a served request and observes its latency.
func (c *Collector) RecordHTTPRequest(method, route string, status int, latency time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(latency.Seconds())
}

// Handler returns the exposition handler for the given gatherer.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}

// Nop discards every measurement.
type Nop struct{}

var _ Recorder = Nop{}

func (Nop) RecordScoreSubmitted(string, int)                     {}
func (Nop) RecordSignup(string)                                  {}
func (Nop) RecordLogin(string)                                   {}
func (Nop) RecordTodoTransition(string, bool)                    {}
func (Nop) RecordSessionEvent(string)                            {}
func (Nop) RecordHTTPRequest(string, string, int, time.Duration) {}
