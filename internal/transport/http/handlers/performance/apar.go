package performancehandler

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/performance"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

func (h *Handler) handleListApars(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	page := shared.ParsePagination(r, 100, 500)
	filter := performance.AparFilter{
		OwnerID: ownerParam(r),
		Status:  strings.TrimSpace(r.URL.Query().Get("status")),
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
	year, ok, err := shared.QueryInt(r, "year")
	if err != nil {
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{Field: "year", Reason: "must be a number"}})
		return
	}
	if ok {
		filter.Year = year
	}
	apars, err := h.Service.ListAppraisals(r.Context(), actor, filter)
	if err != nil {
		writeError(w, r, "list appraisals", err)
		return
	}
	api.Success(w, apars, requestID)
}

func (h *Handler) handleCreateApar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.AparInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	apar, err := h.Service.CreateAppraisal(r.Context(), actor, payload)
	if err != nil {
		writeError(w, r, "create appraisal", err)
		return
	}
	api.Created(w, apar, requestID)
}

func (h *Handler) handleGetApar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	apar, err := h.Service.GetAppraisal(r.Context(), actor, chi.URLParam(r, "aparID"))
	if err != nil {
		writeError(w, r, "get appraisal", err)
		return
	}
	api.Success(w, apar, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateApar(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.AparPatch
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	apar, err := h.Service.UpdateAppraisal(r.Context(), actor, chi.URLParam(r, "aparID"), payload)
	if err != nil {
		writeError(w, r, "update appraisal", err)
		return
	}
	api.Success(w, apar, requestID)
}

func (h *Handler) handleAparPDF(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	apar, err := h.Service.GetAppraisal(r.Context(), actor, chi.URLParam(r, "aparID"))
	if err != nil {
		writeError(w, r, "appraisal pdf", err)
		return
	}
	name := ""
	if h.Names != nil {
		if name, err = h.Names.DisplayName(r.Context(), apar.EmployeeID); err != nil {
			slog.WarnContext(r.Context(), "appraisal pdf name lookup failed", "employeeId", apar.EmployeeID, "err", err)
			name = ""
		}
	}
	var buf bytes.Buffer
	if err := performance.WriteAppraisalPDF(&buf, apar, name); err != nil {
		writeError(w, r, "appraisal pdf", err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=apar-%d-%s.pdf", apar.Year, apar.ID))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleGenerateDraft(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.DraftRequest
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	draft, err := h.Service.GenerateDraft(r.Context(), actor, payload)
	if err != nil {
		writeError(w, r, "generate draft", err)
		return
	}
	api.Success(w, map[string]string{"draft": draft}, requestID)
}
