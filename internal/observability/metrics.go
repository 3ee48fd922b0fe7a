package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// NotificationsCreated counts notification rows written by the fan-out engine.
	NotificationsCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_notifications_created_total",
		Help: "Total number of notifications created by type",
	}, []string{"notif_type"})

	// FanoutFailures counts fan-out runs that failed after the triggering write committed.
	FanoutFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_fanout_failures_total",
		Help: "Total number of failed notification fan-outs by trigger",
	}, []string{"trigger"})

	// FanoutDuration records how long each fan-out trigger takes.
	FanoutDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "inkwell_fanout_duration_seconds",
		Help:    "Notification fan-out latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"trigger"})

	// TransitionDetectionFailures counts story writes whose previous state could not be read.
	TransitionDetectionFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "inkwell_transition_detection_failures_total",
		Help: "Total number of story writes where publish-transition detection failed",
	})

	// EventsPublished counts domain events handed to the event bus by result.
	EventsPublished = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_events_published_total",
		Help: "Total number of domain events published by type and result",
	}, []string{"event_type", "result"})

	// WebSocketBackpressureDrops counts messages dropped because a client could not keep up.
	WebSocketBackpressureDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "inkwell_websocket_backpressure_drops_total",
		Help: "Total number of WebSocket messages dropped due to backpressure",
	}, []string{"reason"})
)

// TrackFanout returns a function that records the trigger's latency when called (e.g. defer).
func TrackFanout(trigger string) func() {
	start := time.Now()
	return func() {
		FanoutDuration.WithLabelValues(trigger).Observe(time.Since(start).Seconds())
	}
}
