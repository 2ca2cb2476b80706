package employeeshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/employees"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, filter employees.Filter) ([]employees.Employee, int, error)
	Get(ctx context.Context, id string) (employees.Employee, error)
	Create(ctx context.Context, in employees.NewEmployee) (employees.Employee, error)
}

type Handler struct {
	Service     Service
	Perms       middleware.PermissionStore
	Idempotency middleware.IdempotencyChecker
}

func NewHandler(service Service, perms middleware.PermissionStore, idem middleware.IdempotencyChecker) *Handler {
	return &Handler{Service: service, Perms: perms, Idempotency: idem}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/employees", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/", h.handleList)
		r.With(
			middleware.RequirePermission(auth.PermEmployeesWrite, h.Perms),
			middleware.Idempotent("employees.create", h.Idempotency),
		).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermEmployeesRead, h.Perms)).Get("/{employeeID}", h.handleGet)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 50, 200)
	query := r.URL.Query()
	filter := employees.Filter{
		Role:       strings.TrimSpace(query.Get("role")),
		Department: strings.TrimSpace(query.Get("department")),
		Search:     strings.TrimSpace(query.Get("q")),
		Limit:      page.Limit,
		Offset:     page.Offset,
	}
	items, total, err := h.Service.List(r.Context(), filter)
	if err != nil {
		slog.ErrorContext(r.Context(), "list employees failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employees_list_failed", "failed to list employees", requestID)
		return
	}
	api.Success(w, api.Page{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	emp, err := h.Service.Get(r.Context(), chi.URLParam(r, "employeeID"))
	if errors.Is(err, employees.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "employee not found", requestID)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "get employee failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_get_failed", "failed to load employee", requestID)
		return
	}
	api.Success(w, emp, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload employees.NewEmployee
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	emp, err := h.Service.Create(r.Context(), payload)
	var verr *employees.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, requestID, verr.Issues)
	case errors.Is(err, employees.ErrEmailTaken):
		api.Fail(w, http.StatusConflict, "email_taken", "an account with this email already exists", requestID)
	case err != nil:
		slog.ErrorContext(r.Context(), "create employee failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "employee_create_failed", "failed to create employee", requestID)
	default:
		api.Created(w, emp, requestID)
	}
}
