package performancehandler

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"hrportal/internal/domain/performance"
	"hrportal/internal/transport/http/api"
	"hrportal/internal/transport/http/middleware"
	"hrportal/internal/transport/http/shared"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func (h *Handler) handleListKPIs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	page := shared.ParsePagination(r, 100, 500)
	kpis, err := h.Service.ListKPIs(r.Context(), actor, kpiFilter(r, page))
	if err != nil {
		writeError(w, r, "list kpis", err)
		return
	}
	api.Success(w, kpis, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleKPISummary(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	summary, err := h.Service.KPISummary(r.Context(), actor, ownerParam(r))
	if err != nil {
		writeError(w, r, "kpi summary", err)
		return
	}
	api.Success(w, summary, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleExportKPIs(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	kpis, err := h.Service.ListKPIs(r.Context(), actor, kpiFilter(r, shared.Pagination{}))
	if err != nil {
		writeError(w, r, "export kpis", err)
		return
	}
	var buf bytes.Buffer
	if err := performance.WriteKPIWorkbook(&buf, kpis); err != nil {
		writeError(w, r, "export kpis", err)
		return
	}
	filename := fmt.Sprintf("kpis-%s.xlsx", time.Now().UTC().Format("20060102"))
	w.Header().Set("Content-Type", xlsxContentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h *Handler) handleCreateKPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.KPIInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	kpi, err := h.Service.CreateKPI(r.Context(), actor, payload)
	if err != nil {
		writeError(w, r, "create kpi", err)
		return
	}
	api.Created(w, kpi, requestID)
}

func (h *Handler) handleGetKPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	kpi, err := h.Service.GetKPI(r.Context(), actor, chi.URLParam(r, "kpiID"))
	if err != nil {
		writeError(w, r, "get kpi", err)
		return
	}
	api.Success(w, kpi, middleware.GetRequestID(r.Context()))
}

func (h *Handler) handleUpdateKPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.KPIPatch
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	kpi, err := h.Service.UpdateKPI(r.Context(), actor, chi.URLParam(r, "kpiID"), payload)
	if err != nil {
		writeError(w, r, "update kpi", err)
		return
	}
	api.Success(w, kpi, requestID)
}

func (h *Handler) handleReplaceKPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	requestID := middleware.GetRequestID(r.Context())
	var payload performance.KPIInput
	if !shared.DecodeJSON(w, r, &payload, requestID) {
		return
	}
	kpi, err := h.Service.ReplaceKPI(r.Context(), actor, chi.URLParam(r, "kpiID"), payload)
	if err != nil {
		writeError(w, r, "replace kpi", err)
		return
	}
	api.Success(w, kpi, requestID)
}

func (h *Handler) handleDeleteKPI(w http.ResponseWriter, r *http.Request) {
	actor, ok := actorFrom(r)
	if !ok {
		unauthorized(w, r)
		return
	}
	id := chi.URLParam(r, "kpiID")
	if err := h.Service.DeleteKPI(r.Context(), actor, id); err != nil {
		writeError(w, r, "delete kpi", err)
		return
	}
	api.Success(w, map[string]string{"id": id, "status": "deleted"}, middleware.GetRequestID(r.Context()))
}

func kpiFilter(r *http.Request, page shared.Pagination) performance.KPIFilter {
	return performance.KPIFilter{
		OwnerID: ownerParam(r),
		Status:  strings.TrimSpace(r.URL.Query().Get("status")),
		Limit:   page.Limit,
		Offset:  page.Offset,
	}
}

// ownerParam accepts ownerId and the older userId spelling.
func ownerParam(r *http.Request) string {
	query := r.URL.Query()
	if owner := strings.TrimSpace(query.Get("ownerId")); owner != "" {
		return owner
	}
	return strings.TrimSpace(query.Get("userId"))
}
