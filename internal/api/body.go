package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/persistence"
	"example.com/fittrack/pkg/auth"
)

const defaultTrendDays = 30

func (h *Handler) logWeight(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeBodyWrite)
	if !ok {
		return
	}
	var req LogWeightRequest
	if !decodeBody(w, r, &req) {
		return
	}

	entry, err := h.svc.Body.LogWeight(r.Context(), domain.LogWeightInput{
		UserID:     claims.UserID(),
		WeightKg:   req.WeightKg,
		MeasuredAt: req.MeasuredAt,
		Note:       req.Note,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWeightView(*entry))
}

func (h *Handler) listWeights(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeBodyRead, auth.ScopeBodyWrite)
	if !ok {
		return
	}
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	entries, next, err := h.svc.Body.ListWeights(r.Context(), claims.UserID(), cursor, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items := make([]WeightView, 0, len(entries))
	for _, e := range entries {
		items = append(items, toWeightView(e))
	}
	writeJSON(w, http.StatusOK, ListResponse[WeightView]{Items: items, NextCursor: persistence.EncodeCursor(next)})
}

func (h *Handler) deleteWeight(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeBodyWrite)
	if !ok {
		return
	}
	if err := h.svc.Body.DeleteWeight(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) weightTrend(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeBodyRead, auth.ScopeBodyWrite)
	if !ok {
		return
	}
	days := defaultTrendDays
	if raw := r.URL.Query().Get("window_days"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > 365 {
			writeError(w, http.StatusBadRequest, "validation_failed", "window_days must be between 1 and 365")
			return
		}
		days = parsed
	}

	trend, err := h.svc.Body.Trend(r.Context(), claims.UserID(), time.Duration(days)*24*time.Hour)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toTrendView(trend))
}
