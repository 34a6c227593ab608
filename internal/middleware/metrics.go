package middleware

import (
	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RedisErrors counts Redis errors by operation type.
	RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_redis_errors_total",
		Help: "Total number of Redis errors by operation type",
	}, []string{"operation"})

	// ActiveChatConnections is the gauge of live chat WebSocket connections.
	ActiveChatConnections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "quill_chat_connections",
		Help: "Number of active chat WebSocket connections",
	})

	// ChatMessages counts chat messages by processing outcome.
	ChatMessages = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "quill_chat_messages_total",
		Help: "Total number of chat messages by outcome",
	}, []string{"outcome"})

	// ChatBackpressureDrops counts messages dropped because a client's send
	// buffer was full.
	ChatBackpressureDrops = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_chat_backpressure_drops_total",
		Help: "Total number of chat messages dropped due to backpressure",
	})

	// SearchQueries counts full-text search requests.
	SearchQueries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "quill_search_queries_total",
		Help: "Total number of post search queries",
	})
)

// InitMetrics creates the HTTP metrics collector for the given service name.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	return fiberprometheus.New(serviceName)
}

// MetricsMiddleware returns the request instrumentation handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
