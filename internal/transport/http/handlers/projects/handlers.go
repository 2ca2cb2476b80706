package projectshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/domain/projects"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, actor projects.Actor, limit, offset int) ([]projects.Project, error)
	Get(ctx context.Context, actor projects.Actor, id string) (projects.Project, error)
	Create(ctx context.Context, actor projects.Actor, in projects.ProjectInput) (projects.Project, error)
	Update(ctx context.Context, actor projects.Actor, id string, upd projects.ProjectUpdate) (projects.Project, error)
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
	r.Route("/projects", func(r chi.Router) {
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/", h.handleList)
		r.With(
			middleware.RequirePermission(auth.PermProjectsManage, h.Perms),
			middleware.Idempotent("projects.create", h.Idempotency),
		).Post("/", h.handleCreate)
		r.With(middleware.RequirePermission(auth.PermProjectsRead, h.Perms)).Get("/{projectID}", h.handleGet)
		r.With(middleware.RequirePermission(auth.PermProjectsWrite, h.Perms)).Put("/{projectID}", h.handleUpdate)
	})
}

func actorFrom(r *http.Request) (projects.Actor, bool) {
	user, ok := middleware.GetUser(r.Context())
	return projects.Actor{UserID: user.UserID, Role: user.Role}, ok
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := actorFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	items, err := h.Service.List(r.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		writeError(w, r, "list projects", err)
		return
	}
	api.Success(w, items, requestID)
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := actorFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	project, err := h.Service.Get(r.Context(), actor, chi.URLParam(r, "projectID"))
	if err != nil {
		writeError(w, r, "get project", err)
		return
	}
	api.Success(w, project, requestID)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := actorFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	var payload projects.ProjectInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	project, err := h.Service.Create(r.Context(), actor, payload)
	if err != nil {
		writeError(w, r, "create project", err)
		return
	}
	api.Created(w, project, requestID)
}

func (h *Handler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	actor, ok := actorFrom(r)
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	var payload projects.ProjectUpdate
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	project, err := h.Service.Update(r.Context(), actor, chi.URLParam(r, "projectID"), payload)
	if err != nil {
		writeError(w, r, "update project", err)
		return
	}
	api.Success(w, project, requestID)
}

func writeError(w http.ResponseWriter, r *http.Request, op string, err error) {
	requestID := middleware.GetRequestID(r.Context())
	var verr *projects.ValidationError
	switch {
	case errors.As(err, &verr):
		shared.FailValidation(w, requestID, verr.Issues)
	case errors.Is(err, projects.ErrNotFound):
		api.Fail(w, http.StatusNotFound, "not_found", "project not found", requestID)
	case errors.Is(err, projects.ErrForbidden):
		api.Fail(w, http.StatusForbidden, "forbidden", "you are not allowed to access this project", requestID)
	default:
		slog.ErrorContext(r.Context(), op+" failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "project_error", "failed to process project request", requestID)
	}
}
