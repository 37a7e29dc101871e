package http

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dreschagin/rai-dashboard/internal/infrastructure/observability/metrics"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/handler"
	"github.com/dreschagin/rai-dashboard/internal/interfaces/http/middleware"
	"github.com/dreschagin/rai-dashboard/pkg/config"
	"github.com/dreschagin/rai-dashboard/pkg/logger"
)

const readyTimeout = 2 * time.Second

// Handlers набор обработчиков, которые монтирует Router
type Handlers struct {
	Dashboard  *handler.DashboardHandler
	Sections   *handler.SectionAPIHandler
	Navigation *handler.NavigationAPIHandler
	Reports    *handler.ReportAPIHandler
	Snapshots  *handler.SnapshotAPIHandler
	Auth       *handler.AuthAPIHandler
	WebSocket  *handler.WebSocketHandler
}

// ReadyCheck проверяет внешнюю зависимость для /readyz
type ReadyCheck func(ctx context.Context) error

// Router настраивает маршруты приложения
type Router struct {
	handlers Handlers
	security config.SecurityConfig
	limiter  *middleware.IPRateLimiter
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]ReadyCheck
	logger   *logger.Logger
}

// RouterOption дополнительная настройка Router
type RouterOption func(*Router)

// WithMetrics подключает HTTP метрики и /metrics
func WithMetrics(m *metrics.Metrics, gatherer prometheus.Gatherer) RouterOption {
	return func(rt *Router) {
		rt.metrics = m
		rt.gatherer = gatherer
	}
}

// WithRateLimiter ограничивает мутирующие маршруты по IP
func WithRateLimiter(limiter *middleware.IPRateLimiter) RouterOption {
	return func(rt *Router) {
		rt.limiter = limiter
	}
}

// WithReadyCheck добавляет проверку готовности
func WithReadyCheck(name string, check ReadyCheck) RouterOption {
	return func(rt *Router) {
		rt.checks[name] = check
	}
}

// NewRouter создает новый router
func NewRouter(handlers Handlers, security config.SecurityConfig, logger *logger.Logger, opts ...RouterOption) *Router {
	rt := &Router{
		handlers: handlers,
		security: security,
		checks:   make(map[string]ReadyCheck),
		logger:   logger,
	}
	for _, opt := range opts {
		opt(rt)
	}
	return rt
}

// Setup настраивает все маршруты
func (rt *Router) Setup() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Logger(rt.logger))
	r.Use(middleware.Recovery(rt.logger))
	if rt.metrics != nil {
		r.Use(rt.metrics.Middleware)
	}

	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServerFS(staticAssets())))

	// Пробы и метрики без авторизации
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", rt.ready)
	if rt.gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(rt.gatherer, promhttp.HandlerOpts{}))
	}

	authMiddleware := middleware.Auth(middleware.AuthConfig{
		Enabled:     rt.security.AuthEnabled,
		BearerToken: rt.security.AuthToken,
	}, rt.logger)

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", rt.handlers.Auth.Login)
		r.Post("/logout", rt.handlers.Auth.Logout)
		r.Get("/status", rt.handlers.Auth.Status)
	})

	// WebSocket проверяет токен сам, до upgrade
	r.Get("/ws", rt.handlers.WebSocket.HandleConnection)

	r.Group(func(r chi.Router) {
		r.Use(authMiddleware)
		r.Use(chimw.Compress(5, "text/html", "text/css", "application/javascript", "application/json"))

		r.Get("/", rt.handlers.Dashboard.ShowDashboard)
		r.Get("/sections/{section}", rt.handlers.Dashboard.ShowSection)

		r.Route("/api/v1", func(r chi.Router) {
			r.Get("/sections", rt.handlers.Sections.ListSections)
			r.Get("/sections/{section}", rt.handlers.Sections.GetSection)
			r.Get("/rai-score", rt.handlers.Reports.RAIScore)
			r.Get("/esg", rt.handlers.Reports.ESG)
			r.Get("/cost/history", rt.handlers.Reports.CostHistory)
			r.Get("/policies", rt.handlers.Reports.Policies)

			r.Get("/navigation", rt.handlers.Navigation.State)
			r.Get("/navigation/history", rt.handlers.Navigation.History)
			r.Get("/snapshots/dashboard", rt.handlers.Snapshots.List)

			r.Group(func(r chi.Router) {
				if rt.limiter != nil {
					r.Use(middleware.RateLimit(rt.limiter))
				}
				r.Post("/navigation/select", rt.handlers.Navigation.Select)
				r.Post("/navigation/toggle-sidebar", rt.handlers.Navigation.ToggleSidebar)
				r.Post("/navigation/close-sidebar", rt.handlers.Navigation.CloseSidebar)
				r.Post("/navigation/viewport", rt.handlers.Navigation.Viewport)

				r.Post("/interactions/metric", rt.handlers.Navigation.Metric)
				r.Post("/interactions/category", rt.handlers.Navigation.Category)
				r.Post("/interactions/cost-card", rt.handlers.Navigation.CostCard)

				r.Post("/snapshots/dashboard", rt.handlers.Snapshots.Save)
			})
		})
	})

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusNotFound, "not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		middleware.WriteError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	return r
}

func (rt *Router) ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyTimeout)
	defer cancel()

	failed := make(map[string]string)
	for name, check := range rt.checks {
		if err := check(ctx); err != nil {
			failed[name] = err.Error()
		}
	}

	if len(failed) > 0 {
		rt.logger.Warn("Readiness check failed", "checks", failed)
		middleware.WriteJSON(w, http.StatusServiceUnavailable, map[string]any{
			"status": "not ready",
			"failed": failed,
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
