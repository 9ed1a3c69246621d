package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueleu",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "path", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fueleu",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "path"},
	)

	bankingOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueleu",
			Subsystem: "banking",
			Name:      "operations_total",
			Help:      "Bank and apply operations by outcome.",
		},
		[]string{"op", "result"},
	)

	poolsCreated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fueleu",
			Subsystem: "pools",
			Name:      "created_total",
			Help:      "Pool creation attempts by outcome.",
		},
		[]string{"result"},
	)

	ledgerOverdrawn = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fueleu",
			Subsystem: "banking",
			Name:      "ledger_overdrawn_total",
			Help:      "Ship-years found with a negative available banked balance by the ledger audit.",
		},
	)

	cbComputations = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "fueleu",
			Subsystem: "compliance",
			Name:      "cb_computations_total",
			Help:      "Compliance balances computed and stored.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpRequests,
		httpDuration,
		bankingOperations,
		poolsCreated,
		ledgerOverdrawn,
		cbComputations,
	)
}

// Handler exposes the registry in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency keyed by the matched route template.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}
		httpRequests.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		httpDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Result converts an operation error into a metric label.
func Result(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordBankingOperation(op string, err error) {
	bankingOperations.WithLabelValues(op, Result(err)).Inc()
}

func RecordPoolCreated(err error) {
	poolsCreated.WithLabelValues(Result(err)).Inc()
}

func RecordLedgerOverdrawn(n int) {
	ledgerOverdrawn.Add(float64(n))
}

func RecordCBComputed() {
	cbComputations.Inc()
}
