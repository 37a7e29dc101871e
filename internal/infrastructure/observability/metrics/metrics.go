package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dreschagin/rai-dashboard/internal/application/port"
)

// Metrics Prometheus-коллекторы дашборда
type Metrics struct {
	SectionChanges     *prometheus.CounterVec
	Interactions       *prometheus.CounterVec
	RangeWarnings      *prometheus.CounterVec
	PageBuilds         *prometheus.CounterVec
	Scores             *prometheus.GaugeVec
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	BreakerState       *prometheus.GaugeVec
	WebSocketClients   prometheus.Gauge
}

var _ port.DashboardMetrics = (*Metrics)(nil)

// New регистрирует коллекторы в reg. Без реестра используется локальный.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	return &Metrics{
		SectionChanges: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rai_dashboard_section_changes_total",
			Help: "Section selections by origin section, target section and source.",
		}, []string{"from", "to", "source"}),
		Interactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rai_dashboard_interactions_total",
			Help: "Card and row interactions, split by whether they navigated.",
		}, []string{"kind", "routed"}),
		RangeWarnings: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rai_dashboard_range_warnings_total",
			Help: "Input values clamped into their valid range during derivation.",
		}, []string{"page"}),
		PageBuilds: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rai_dashboard_page_builds_total",
			Help: "Section page builds by outcome.",
		}, []string{"section", "status"}),
		Scores: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rai_dashboard_score",
			Help: "Latest derived dashboard scores.",
		}, []string{"name"}),
		RequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "rai_dashboard_http_requests_total",
			Help: "Total number of HTTP requests.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rai_dashboard_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		BreakerState: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "rai_dashboard_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open).",
		}, []string{"name"}),
		WebSocketClients: factory.NewGauge(prometheus.GaugeOpts{
			Name: "rai_dashboard_websocket_clients",
			Help: "Currently connected WebSocket clients.",
		}),
	}
}

func (m *Metrics) ObserveSectionChange(from, to, source string) {
	if from == "" {
		from = "none"
	}
	m.SectionChanges.WithLabelValues(from, to, source).Inc()
}

func (m *Metrics) ObserveInteraction(kind string, routed bool) {
	m.Interactions.WithLabelValues(kind, strconv.FormatBool(routed)).Inc()
}

func (m *Metrics) ObserveRangeWarnings(page string, count int) {
	if count <= 0 {
		return
	}
	m.RangeWarnings.WithLabelValues(page).Add(float64(count))
}

func (m *Metrics) ObservePageBuild(section string, failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	m.PageBuilds.WithLabelValues(section, status).Inc()
}

func (m *Metrics) SetScore(name string, value float64) {
	m.Scores.WithLabelValues(name).Set(value)
}

// SetBreakerState публикует состояние автомата (gobreaker.State как число)
func (m *Metrics) SetBreakerState(name string, state int) {
	m.BreakerState.WithLabelValues(name).Set(float64(state))
}

func (m *Metrics) SetWebSocketClients(n int) {
	m.WebSocketClients.Set(float64(n))
}

// Middleware считает запросы и их длительность по нормализованному маршруту
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute ограничивает кардинальность меток
func normalizeRoute(path string) string {
	switch {
	case path == "/" || path == "/ws" || path == "/metrics" || path == "/healthz" || path == "/readyz":
		return path
	case strings.HasPrefix(path, "/sections/"):
		return "/sections/*"
	case strings.HasPrefix(path, "/static/"):
		return "/static/*"
	case strings.HasPrefix(path, "/api/v1/snapshots"):
		return "/api/v1/snapshots/*"
	case strings.HasPrefix(path, "/api/v1/navigation"):
		return "/api/v1/navigation/*"
	case strings.HasPrefix(path, "/api/v1/"):
		return "/api/v1/*"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack нужен для апгрейда WebSocket
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
