package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "portal"

var (
	// Registry holds the application collectors. The default registry is not used.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10),
		},
		[]string{"method", "route"},
	)

	webhookDeliveries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "webhooks",
			Name:      "deliveries_total",
			Help:      "Outbound webhook deliveries by event type and outcome.",
		},
		[]string{"event_type", "outcome"},
	)

	webhookAttempts = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "webhooks",
			Name:      "attempts",
			Help:      "Attempts needed per outbound webhook delivery.",
			Buckets:   []float64{1, 2, 3, 4, 5, 10},
		},
		[]string{"event_type"},
	)

	scenarioRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenarios",
			Name:      "runs_total",
			Help:      "Finished scenario runs by final status.",
		},
		[]string{"status"},
	)

	scenarioRunDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scenarios",
			Name:      "run_duration_seconds",
			Help:      "Wall time of scenario runs.",
			Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
		},
	)

	nodeExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scenarios",
			Name:      "node_executions_total",
			Help:      "Node executions by node type and result kind.",
		},
		[]string{"node_type", "result"},
	)

	queueTasks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "queue",
			Name:      "tasks_total",
			Help:      "Queue tasks processed by type and outcome.",
		},
		[]string{"task_type", "outcome"},
	)

	accessDecisions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "access",
			Name:      "decisions_total",
			Help:      "Content access decisions by reason.",
		},
		[]string{"granted", "reason"},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		webhookDeliveries,
		webhookAttempts,
		scenarioRuns,
		scenarioRunDuration,
		nodeExecutions,
		queueTasks,
		accessDecisions,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes Registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

func ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func RecordWebhookDelivery(eventType string, success bool, attempts int) {
	outcome := "failed"
	if success {
		outcome = "succeeded"
	}
	webhookDeliveries.WithLabelValues(eventType, outcome).Inc()
	webhookAttempts.WithLabelValues(eventType).Observe(float64(attempts))
}

func RecordScenarioRun(status string, elapsed time.Duration) {
	scenarioRuns.WithLabelValues(status).Inc()
	scenarioRunDuration.Observe(elapsed.Seconds())
}

func RecordNodeExecution(nodeType, result string) {
	nodeExecutions.WithLabelValues(nodeType, result).Inc()
}

func RecordQueueTask(taskType, outcome string) {
	queueTasks.WithLabelValues(taskType, outcome).Inc()
}

func RecordAccessDecision(granted bool, reason string) {
	accessDecisions.WithLabelValues(strconv.FormatBool(granted), reason).Inc()
}
