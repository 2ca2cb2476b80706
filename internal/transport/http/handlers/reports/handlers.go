package reportshandler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/reports"
	"hrportal/internal/platform/metrics"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
)

type Service interface {
	Dashboard(ctx context.Context, userID, role string) (reports.Dashboard, error)
}

type MetricsSource interface {
	Snapshot() metrics.Snapshot
}

type Handler struct {
	Service Service
	Metrics MetricsSource
	Perms   middleware.PermissionStore
}

func NewHandler(service Service, source MetricsSource, perms middleware.PermissionStore) *Handler {
	return &Handler{Service: service, Metrics: source, Perms: perms}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.With(middleware.RequirePermission(auth.PermReportsRead, h.Perms)).Get("/reports/dashboard", h.handleDashboard)
	r.With(middleware.RequirePermission(auth.PermMetricsRead, h.Perms)).Get("/admin/metrics", h.handleMetrics)
}

func (h *Handler) handleDashboard(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	dashboard, err := h.Service.Dashboard(r.Context(), user.UserID, user.Role)
	if err != nil {
		slog.ErrorContext(r.Context(), "dashboard failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "dashboard_failed", "failed to build dashboard", requestID)
		return
	}
	api.Success(w, dashboard, requestID)
}

func (h *Handler) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	if h.Metrics == nil {
		api.Fail(w, http.StatusNotFound, "metrics_disabled", "metrics are disabled", requestID)
		return
	}
	api.Success(w, h.Metrics.Snapshot(), requestID)
}
