package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/persistence"
	"example.com/fittrack/pkg/auth"
)

func (h *Handler) generateMealPlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeMealPlansWrite)
	if !ok {
		return
	}
	var req GenerateMealPlanRequest
	if r.ContentLength != 0 && !decodeBody(w, r, &req) {
		return
	}

	input := domain.MealPlanRequest{
		UserID:      claims.UserID(),
		Days:        req.Days,
		MealsPerDay: req.MealsPerDay,
		DietType:    req.DietType,
		Allergies:   req.Allergies,
		Preferences: req.Preferences,
	}
	if req.Targets != nil {
		input.Targets = req.Targets.toDomain()
	}

	plan, err := h.svc.MealPlans.GenerateMealPlan(r.Context(), input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, NewMealPlanView(*plan, true))
}

func (h *Handler) listMealPlans(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeMealPlansRead, auth.ScopeMealPlansWrite)
	if !ok {
		return
	}
	cursor, limit, ok := pageParams(w, r)
	if !ok {
		return
	}

	plans, next, err := h.svc.MealPlans.ListMealPlans(r.Context(), claims.UserID(), cursor, limit)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items := make([]MealPlanView, 0, len(plans))
	for _, p := range plans {
		items = append(items, NewMealPlanView(p, false))
	}
	writeJSON(w, http.StatusOK, ListResponse[MealPlanView]{Items: items, NextCursor: persistence.EncodeCursor(next)})
}

func (h *Handler) getMealPlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeMealPlansRead, auth.ScopeMealPlansWrite)
	if !ok {
		return
	}
	plan, err := h.svc.MealPlans.GetMealPlan(r.Context(), claims.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewMealPlanView(*plan, true))
}

func (h *Handler) deleteMealPlan(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeMealPlansWrite)
	if !ok {
		return
	}
	if err := h.svc.MealPlans.DeleteMealPlan(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
