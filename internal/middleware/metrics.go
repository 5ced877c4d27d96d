package middleware

import (
	"sync"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// RedisErrors counts Redis command failures by command name. Session and flash
// lookups tolerate Redis outages, so errors here are the only signal of a
// degraded store.
var RedisErrors = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "creatorr_redis_errors_total",
	Help: "Total number of Redis command errors.",
}, []string{"command"})

// MailSendFailures counts outbound mail dispatch failures. Mail is
// fire-and-forget, so this counter and the log line are the only traces.
var MailSendFailures = promauto.NewCounter(prometheus.CounterOpts{
	Name: "creatorr_mail_send_failures_total",
	Help: "Total number of failed outbound mail deliveries.",
})

var (
	promOnce sync.Once
	promInst *fiberprometheus.FiberPrometheus
)

// InitMetrics creates the Prometheus middleware for the given service name.
// The HTTP collectors live in the process-wide default registry, so repeated
// calls return the same instance.
func InitMetrics(serviceName string) *fiberprometheus.FiberPrometheus {
	promOnce.Do(func() {
		promInst = fiberprometheus.New(serviceName)
	})
	return promInst
}

// MetricsMiddleware wraps the fiberprometheus middleware handler.
func MetricsMiddleware(prom *fiberprometheus.FiberPrometheus) fiber.Handler {
	return prom.Middleware
}
