// Package metrics объявляет метрики Prometheus портала.
//
// Методы Metrics допускают nil-получатель, поэтому сервисы можно собирать без метрик.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "staycation"

// Значения метки result для импорта.
const (
	ImportCreated = "created"
	ImportSkipped = "skipped"
)

// Metrics набор коллекторов портала.
type Metrics struct {
	requests         *prometheus.CounterVec
	requestDuration  *prometheus.HistogramVec
	bookingsCreated  prometheus.Counter
	aggregations     *prometheus.CounterVec
	skippedBookings  *prometheus.CounterVec
	importRows       *prometheus.CounterVec
	notificationSent *prometheus.CounterVec
}

// New регистрирует коллекторы в reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP requests by method, route pattern and status.",
		}, []string{"method", "route", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		bookingsCreated: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_created_total",
			Help:      "Bookings created through the API.",
		}),
		aggregations: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregations_total",
			Help:      "Dashboard aggregation passes by chart kind.",
		}, []string{"chart"}),
		skippedBookings: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "aggregation_skipped_bookings_total",
			Help:      "Bookings skipped by aggregation because the customer or package is gone.",
		}, []string{"chart"}),
		importRows: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "import_rows_total",
			Help:      "CSV rows processed by data type and result.",
		}, []string{"datatype", "result"}),
		notificationSent: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Booking confirmation emails by result.",
		}, []string{"result"}),
	}
}

// BookingCreated учитывает новое бронирование.
func (m *Metrics) BookingCreated() {
	if m == nil {
		return
	}
	m.bookingsCreated.Inc()
}

// Aggregated учитывает проход агрегации для графика chart и пропущенные бронирования.
func (m *Metrics) Aggregated(chart string, skipped int) {
	if m == nil {
		return
	}
	m.aggregations.WithLabelValues(chart).Inc()
	if skipped > 0 {
		m.skippedBookings.WithLabelValues(chart).Add(float64(skipped))
	}
}

// ImportRows учитывает n строк импорта типа dataType с результатом result.
func (m *Metrics) ImportRows(dataType, result string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.importRows.WithLabelValues(dataType, result).Add(float64(n))
}

// Notification учитывает попытку отправки письма.
func (m *Metrics) Notification(ok bool) {
	if m == nil {
		return
	}
	result := "sent"
	if !ok {
		result = "failed"
	}
	m.notificationSent.WithLabelValues(result).Inc()
}

// Middleware считает запросы и их длительность по шаблону маршрута chi.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		m.requests.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.requestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}
