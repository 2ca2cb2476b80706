package performancehandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/performance"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	GetKPI(ctx context.Context, actor performance.Actor, id string) (performance.KPI, error)
	ListKPIs(ctx context.Context, actor performance.Actor, filter performance.KPIFilter) ([]performance.KPI, error)
	KPISummary(ctx context.Context, actor performance.Actor, ownerID string) (performance.KPISummary, error)
	CreateKPI(ctx context.Context, actor performance.Actor, input performance.KPIInput) (performance.KPI, error)
	UpdateKPI(ctx context.Context, actor performance.Actor, id string, patch performance.KPIPatch) (performance.KPI, error)
	ReplaceKPI(ctx context.Context, actor performance.Actor, id string, input performance.KPIInput) (performance.KPI, error)
	DeleteKPI(ctx context.Context, actor performance.Actor, id string) error

	GetAppraisal(ctx context.Context, actor performance.Actor, id string) (performance.Appraisal, error)
	ListAppraisals(ctx context.Context, actor performance.Actor, filter performance.AparFilter) ([]performance.Appraisal, error)
	CreateAppraisal(ctx context.Context, actor performance.Actor, input performance.AparInput) (performance.Appraisal, error)
	UpdateAppraisal(ctx context.Context, actor performance.Actor, id string, patch performance.AparPatch) (performance.Appraisal, error)
	GenerateDraft(ctx context.Context, actor performance.Actor, req performance.DraftRequest) (string, error)
}

// NameLookup resolves an employee's display name for exports.
type NameLookup interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

type Handler struct {
	Service     Service
	Perms       middleware.PermissionStore
	Names       NameLookup
	Idempotency middleware.IdempotencyChecker
}

func NewHandler(service Service, perms middleware.PermissionStore, names NameLookup, idem middleware.IdempotencyChecker) *Handler {
	return &Handler{Service: service, Perms: perms, Names: names, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/kpis", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/", h.handleListKPIs)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/summary", h.handleKPISummary)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/export", h.handleExportKPIs)
		r.With(
			middleware.RequirePermission(auth.PermKPIWrite, h.Perms),
			middleware.Idempotent("kpis.create", h.Idempotency),
		).Post("/", h.handleCreateKPI)
		r.With(middleware.RequirePermission(auth.PermKPIRead, h.Perms)).Get("/{kpiID}", h.handleGetKPI)
		r.With(middleware.RequirePermission(auth.PermKPIWrite, h.Perms)).Patch("/{kpiID}", h.handleUpdateKPI)
		r.With(middleware.RequirePermission(auth.PermKPIAssign, h.Perms)).Put("/{kpiID}", h.handleReplaceKPI)
		r.With(middleware.RequirePermission(auth.PermKPIDelete, h.Perms)).Delete("/{kpiID}", h.handleDeleteKPI)
	})
	r.Route("/apars", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermAparRead, h.Perms)).Get("/", h.handleListApars)
		r.With(
			middleware.RequirePermission(auth.PermAparWrite, h.Perms),
			middleware.Idempotent("apars.create", h.Idempotency),
		).Post("/", h.handleCreateApar)
		r.With(middleware.RequirePermission(auth.PermAparWrite, h.Perms)).Post("/draft", h.handleGenerateDraft)
		r.With(middleware.RequirePermission(auth.PermAparRead, h.Perms)).Get("/{aparID}", h.handleGetApar)
		r.With(middleware.RequirePermission(auth.PermAparRead, h.Perms)).Get("/{aparID}/pdf", h.handleAparPDF)
		r.With(middleware.RequirePermission(auth.PermAparWrite, h.Perms)).Patch("/{aparID}", h.handleUpdateApar)
		r.With(middleware.RequirePermission(auth.PermAparWrite, h.Perms)).Put("/{aparID}", h.handleUpdateApar)
	})
}

func actorFrom(r *http.Request) (performance.Actor, bool) {
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		return performance.Actor{}, false
	}
	return performance.Actor{UserID: user.UserID, Role: user.Role}, true
}

// writeError maps performance errors onto the response envelope.
func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	var verr *performance.ValidationError
	var perr *performance.PersistenceError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, requestID, verr.Issues)
	case errors.Is(err, performance.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "record not found", requestID)
	case errors.Is(err, performance.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "you are not allowed to access this record", requestID)
	case errors.As(err, &perr):
		slog.ErrorContext(r.Context(), op+" failed", "op", perr.Op, "err", perr.Err)
		api.Fail(w, http.StatusInternalServerError, "persistence_error", "failed to save the record", requestID)
	default:
		slog.ErrorContext(r.Context(), op+" failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "internal_error", "internal server error", requestID)
	}
}

func unauthorized(w http.ResponseWriter, r *http.Request) {
	api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", middleware.GetRequestID(r.Context()))
}
