package api

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/persistence"
	"example.com/fittrack/pkg/auth"
)

func (h *Handler) startWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	var req StartWorkoutRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	session, err := h.svc.Workouts.StartSession(r.Context(), domain.StartSessionInput{
		UserID:    claims.UserID(),
		Name:      req.Name,
		Notes:     req.Notes,
		StartedAt: req.StartedAt,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toWorkoutView(*session, true))
}

func (h *Handler) listWorkouts(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	sessions, next, err := h.svc.Workouts.ListSessions(r.Context(), claims.UserID(), cursor, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items := make([]WorkoutView, 0, len(sessions))
	for _, s := range sessions {
		items = append(items, toWorkoutView(s, false))
	}
	writeJSON(w, http.StatusOK, ListResponse[WorkoutView]{Items: items, NextCursor: persistence.EncodeCursor(next)})
}

func (h *Handler) getWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	session, err := h.svc.Workouts.GetSession(r.Context(), claims.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(*session, true))
}

func (h *Handler) deleteWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	if err := h.svc.Workouts.DeleteSession(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) finishWorkout(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	var req FinishWorkoutRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	session, err := h.svc.Workouts.FinishSession(r.Context(), claims.UserID(), chi.URLParam(r, "id"), req.EndedAt)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toWorkoutView(*session, true))
}

func (h *Handler) addSet(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	var req AddSetRequest
	if !decodeBody(w, r, &req) {
		return
	}

	set, record, err := h.svc.Workouts.AddSet(r.Context(), domain.AddSetInput{
		UserID:      claims.UserID(),
		SessionID:   chi.URLParam(r, "id"),
		Exercise:    req.Exercise,
		SetNumber:   req.SetNumber,
		Reps:        req.Reps,
		WeightKg:    req.WeightKg,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}

	resp := AddSetResponse{Set: toSetView(*set)}
	if record != nil {
		view := toRecordView(*record)
		resp.PersonalRecord = &view
	}
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) deleteSet(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	err := h.svc.Workouts.DeleteSet(r.Context(), claims.UserID(), chi.URLParam(r, "id"), chi.URLParam(r, "setID"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	records, err := h.svc.Workouts.ListPersonalRecords(r.Context(), claims.UserID())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items := make([]RecordView, 0, len(records))
	for _, rec := range records {
		items = append(items, toRecordView(rec))
	}
	writeJSON(w, http.StatusOK, ListResponse[RecordView]{Items: items})
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeWorkoutsRead, auth.ScopeWorkoutsWrite)
	if !ok {
		return
	}
	exercise, err := url.PathUnescape(chi.URLParam(r, "exercise"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "malformed exercise")
		return
	}
	record, err := h.svc.Workouts.GetPersonalRecord(r.Context(), claims.UserID(), exercise)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toRecordView(*record))
}
