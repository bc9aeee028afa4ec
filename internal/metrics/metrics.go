// Package metrics exposes Prometheus collectors for the practice service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var scoreBuckets = []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

var (
	SessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "practice_sessions_active",
		Help: "Currently active practice sessions",
	})

	SessionsStarted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practice_sessions_started_total",
		Help: "Practice sessions started by scenario and persona",
	}, []string{"scenario", "persona"})

	SessionsEnded = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practice_sessions_ended_total",
		Help: "Practice sessions ended by reason",
	}, []string{"reason"})

	SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "practice_session_duration_seconds",
		Help:    "Wall-clock length of ended sessions",
		Buckets: []float64{30, 60, 120, 300, 600, 1200, 1800, 3600},
	})

	Messages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practice_messages_total",
		Help: "Messages appended to sessions by sender",
	}, []string{"sender"})

	RepliesDropped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "practice_replies_dropped_total",
		Help: "Scheduled partner replies discarded because their session ended",
	})

	FeedbackScore = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "practice_feedback_score",
		Help:    "Per-message analyzer scores by category",
		Buckets: scoreBuckets,
	}, []string{"category"})

	FeedbackItems = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practice_feedback_items_total",
		Help: "Feedback items emitted by rule and type",
	}, []string{"rule", "type"})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "practice_errors_total",
		Help: "Rejected engine operations by operation and kind",
	}, []string{"op", "kind"})

	HistoryWriteFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "practice_history_write_failures_total",
		Help: "Failed writes of archived sessions to persistence",
	})

	RateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "practice_rate_limited_total",
		Help: "Requests rejected by the per-user rate limiter",
	})

	WebsocketConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "practice_websocket_connections",
		Help: "Open live-feed websocket connections",
	})
)
