package notificationshandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/notifications"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	List(ctx context.Context, userID string, unreadOnly bool, limit, offset int) ([]notifications.Notification, int, error)
	Unread(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, notificationID string) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/notifications", func(r chi.Router) {
		r.Get("/", h.handleList)
		r.Get("/unread-count", h.handleUnreadCount)
		r.Post("/{notificationID}/read", h.handleMarkRead)
	})
}

func (h *Handler) handleList(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}

	page := shared.ParsePagination(r, 100, 500)
	unreadOnly, _ := strconv.ParseBool(r.URL.Query().Get("unread"))
	items, total, err := h.Service.List(r.Context(), user.UserID, unreadOnly, page.Limit, page.Offset)
	if err != nil {
		slog.ErrorContext(r.Context(), "notification list failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to list notifications", requestID)
		return
	}
	api.Success(w, api.Page{Items: items, Total: total, Limit: page.Limit, Offset: page.Offset}, requestID)
}

func (h *Handler) handleUnreadCount(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	count, err := h.Service.Unread(r.Context(), user.UserID)
	if err != nil {
		slog.ErrorContext(r.Context(), "notification count failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_list_failed", "failed to count notifications", requestID)
		return
	}
	api.Success(w, map[string]int{"unread": count}, requestID)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	id := chi.URLParam(r, "notificationID")
	err := h.Service.MarkRead(r.Context(), user.UserID, id)
	if errors.Is(err, notifications.ErrNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "notification not found", requestID)
		return
	}
	if err != nil {
		slog.ErrorContext(r.Context(), "notification mark read failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "notification_update_failed", "failed to update notification", requestID)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "read"}, requestID)
}
