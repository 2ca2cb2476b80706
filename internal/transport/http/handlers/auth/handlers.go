package authhandler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/auth"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

type Service interface {
	Login(ctx context.Context, email, password, mfaCode string) (auth.LoginResult, error)
	Logout(ctx context.Context, user auth.UserContext) error
	Profile(ctx context.Context, user auth.UserContext) (auth.Profile, error)
	UpdateProfile(ctx context.Context, user auth.UserContext, update auth.ProfileUpdate) (auth.Profile, error)
	SetupMFA(ctx context.Context, user auth.UserContext) (auth.MFASetup, error)
	EnableMFA(ctx context.Context, user auth.UserContext, code string) error
	DisableMFA(ctx context.Context, user auth.UserContext, code string) error
}

type Handler struct {
	Service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{Service: service}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type profileRequest struct {
	Name       *string `json:"name" validate:"omitempty,min=1,max=200"`
	Department *string `json:"department" validate:"omitempty,max=200"`
	Position   *string `json:"position" validate:"omitempty,max=200"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

// RegisterPublic mounts the routes reachable without a token.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Post("/auth/login", h.HandleLogin)
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/auth/logout", h.HandleLogout)
	r.Get("/auth/me", h.HandleMe)
	r.Patch("/auth/me", h.HandleUpdateMe)
	r.Post("/auth/mfa/setup", h.HandleMFASetup)
	r.Post("/auth/mfa/enable", h.HandleMFAEnable)
	r.Post("/auth/mfa/disable", h.HandleMFADisable)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	var payload loginRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Service.Login(r.Context(), payload.Email, payload.Password, payload.MFACode)
	switch {
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, "invalid_credentials", "invalid credentials", requestID)
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, "mfa_required", "mfa code required", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, "mfa_invalid", "invalid mfa code", requestID)
	case err != nil:
		slog.ErrorContext(r.Context(), "login failed", "err", err)
		api.Fail(w, http.StatusInternalServerError, "login_failed", "failed to sign in", requestID)
	default:
		api.Success(w, result, requestID)
	}
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if user, ok := middleware.GetUser(r.Context()); ok {
		if err := h.Service.Logout(r.Context(), user); err != nil {
			slog.WarnContext(r.Context(), "logout session revoke failed", "userId", user.UserID, "err", err)
		}
	}
	api.Success(w, map[string]string{"status": "logged_out"}, middleware.GetRequestID(r.Context()))
}

func (h *Handler) HandleMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	profile, err := h.Service.Profile(r.Context(), user)
	if err != nil {
		h.failProfile(w, r, err)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) HandleUpdateMe(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	var payload profileRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.Name != nil {
		v.Required("name", *payload.Name, "must not be blank")
	}
	if v.Reject(w, requestID) {
		return
	}

	profile, err := h.Service.UpdateProfile(r.Context(), user, auth.ProfileUpdate{
		Name:       payload.Name,
		Department: payload.Department,
		Position:   payload.Position,
	})
	if err != nil {
		h.failProfile(w, r, err)
		return
	}
	api.Success(w, profile, requestID)
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	setup, err := h.Service.SetupMFA(r.Context(), user)
	if err != nil {
		slog.ErrorContext(r.Context(), "mfa setup failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "mfa_setup_failed", "failed to generate mfa secret", requestID)
		return
	}
	api.Success(w, setup, requestID)
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.handleMFACode(w, r, h.Service.EnableMFA, "enabled")
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.handleMFACode(w, r, h.Service.DisableMFA, "disabled")
}

func (h *Handler) handleMFACode(w http.ResponseWriter, r *http.Request, apply func(context.Context, auth.UserContext, string) error, status string) {
	requestID := middleware.GetRequestID(r.Context())
	user, ok := middleware.GetUser(r.Context())
	if !ok {
		api.Fail(w, http.StatusUnauthorized, "unauthorized", "authentication required", requestID)
		return
	}
	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	err := apply(r.Context(), user, payload.Code)
	switch {
	case errors.Is(err, auth.ErrMFANotConfigured):
		api.Fail(w, http.StatusBadRequest, "mfa_missing", "mfa setup required", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusBadRequest, "mfa_invalid", "invalid mfa code", requestID)
	case err != nil:
		slog.ErrorContext(r.Context(), "mfa update failed", "userId", user.UserID, "err", err)
		api.Fail(w, http.StatusInternalServerError, "mfa_update_failed", "failed to update mfa", requestID)
	default:
		api.Success(w, map[string]string{"status": status}, requestID)
	}
}

func (h *Handler) failProfile(w http.ResponseWriter, r *http.Request, err error) {
	requestID := middleware.GetRequestID(r.Context())
	if errors.Is(err, auth.ErrUserNotFound) {
		api.Fail(w, http.StatusNotFound, "not_found", "user not found", requestID)
		return
	}
	slog.ErrorContext(r.Context(), "profile request failed", "err", err)
	api.Fail(w, http.StatusInternalServerError, "profile_error", "failed to load profile", requestID)
}
