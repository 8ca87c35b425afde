package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics хранит коллекторы одного экземпляра сервиса. У каждого экземпляра
// свой реестр, поэтому в одном процессе может жить несколько роутеров (тесты).
type Metrics struct {
	ServiceName string
	registry    *prometheus.Registry

	requests             *prometheus.CounterVec
	duration             *prometheus.HistogramVec
	collaboratorFailures *prometheus.CounterVec
	quotesSubmitted      prometheus.Counter
	statusUpdates        prometheus.Counter
}

func New(serviceName string) *Metrics {
	m := &Metrics{
		ServiceName: serviceName,
		registry:    prometheus.NewRegistry(),
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"service", "method", "path", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"service", "method", "path", "status"},
		),
		collaboratorFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "collaborator_failures_total",
				Help: "Failed best-effort side effects (spreadsheet, email)",
			},
			[]string{"service", "collaborator"},
		),
		quotesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quotes_submitted_total",
			Help: "Quotes persisted",
		}),
		statusUpdates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "status_updates_total",
			Help: "Status entries appended by the administrator",
		}),
	}

	m.registry.MustRegister(
		m.requests,
		m.duration,
		m.collaboratorFailures,
		m.quotesSubmitted,
		m.statusUpdates,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *Metrics) CollaboratorFailed(collaborator string) {
	m.collaboratorFailures.WithLabelValues(m.ServiceName, collaborator).Inc()
}

func (m *Metrics) QuoteSubmitted() { m.quotesSubmitted.Inc() }

func (m *Metrics) StatusUpdated() { m.statusUpdates.Inc() }

// Middleware считает запросы и задержку по маршрутам.
func (m *Metrics) Middleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			if err := next(c); err != nil {
				// пишем ответ сейчас, иначе статус еще не известен
				c.Error(err)
			}

			status := strconv.Itoa(c.Response().Status)
			method := c.Request().Method
			path := c.Path()

			m.requests.WithLabelValues(m.ServiceName, method, path, status).Inc()
			m.duration.WithLabelValues(m.ServiceName, method, path, status).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// Handler отдает реестр в текстовом формате Prometheus.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
