package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/pkg/auth"
)

func (h *Handler) logFood(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	var req LogFoodRequest
	if !decodeBody(w, r, &req) {
		return
	}

	input := domain.LogFoodInput{
		UserID:      claims.UserID(),
		Name:        req.Name,
		MealType:    req.MealType,
		ServingSize: req.ServingSize,
		Servings:    req.Servings,
		LoggedAt:    req.LoggedAt,
	}
	if req.Macros != nil {
		m := req.Macros.toDomain()
		input.Macros = &m
	}

	entry, err := h.svc.Nutrition.LogFood(r.Context(), input)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toFoodView(*entry))
}

func (h *Handler) listFood(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	day, ok := dayParam(w, r, "date")
	if !ok {
		return
	}

	entries, err := h.svc.Nutrition.ListFoodByDay(r.Context(), claims.UserID(), day)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse[FoodView]{Items: toFoodViews(entries)})
}

func (h *Handler) getFood(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	entry, err := h.svc.Nutrition.GetFood(r.Context(), claims.UserID(), chi.URLParam(r, "id"))
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toFoodView(*entry))
}

func (h *Handler) deleteFood(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	if err := h.svc.Nutrition.DeleteFood(r.Context(), claims.UserID(), chi.URLParam(r, "id")); err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) estimateFood(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite); !ok {
		return
	}
	var req EstimateRequest
	if !decodeBody(w, r, &req) {
		return
	}

	estimate, err := h.svc.Nutrition.EstimateNutrition(r.Context(), req.Description)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, NewEstimateView(estimate))
}

func (h *Handler) dailySummary(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	day, ok := dayParam(w, r, "date")
	if !ok {
		return
	}

	summary, err := h.svc.Nutrition.DailySummary(r.Context(), claims.UserID(), day)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryView(*summary))
}

func (h *Handler) nutritionHistory(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	to, ok := dayParam(w, r, "to")
	if !ok {
		return
	}
	from := to.AddDate(0, 0, -6)
	if r.URL.Query().Get("from") != "" {
		if from, ok = dayParam(w, r, "from"); !ok {
			return
		}
	}

	totals, err := h.svc.Nutrition.History(r.Context(), claims.UserID(), from, to)
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	items := make([]DayTotalView, 0, len(totals))
	for _, t := range totals {
		items = append(items, DayTotalView{Date: t.Day, Macros: toMacrosView(t.Macros), EntryCount: t.EntryCount})
	}
	writeJSON(w, http.StatusOK, ListResponse[DayTotalView]{Items: items})
}

func (h *Handler) setGoals(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	var req GoalsView
	if !decodeBody(w, r, &req) {
		return
	}

	goals, err := h.svc.Nutrition.SetGoals(r.Context(), domain.MacroGoals{
		UserID:   claims.UserID(),
		Calories: req.Calories,
		Protein:  req.Protein,
		Carbs:    req.Carbs,
		Fat:      req.Fat,
	})
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalsView(*goals))
}

func (h *Handler) getGoals(w http.ResponseWriter, r *http.Request) {
	claims, ok := authorize(w, r, auth.ScopeNutritionRead, auth.ScopeNutritionWrite)
	if !ok {
		return
	}
	goals, err := h.svc.Nutrition.GetGoals(r.Context(), claims.UserID())
	if err != nil {
		h.writeDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, toGoalsView(*goals))
}

// dayParam parses a YYYY-MM-DD query parameter in the request's tz, today when absent.
func dayParam(w http.ResponseWriter, r *http.Request, name string) (time.Time, bool) {
	loc, err := location(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "unknown tz")
		return time.Time{}, false
	}
	day, err := parseDay(r.URL.Query().Get(name), loc, time.Now())
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", name+" must be YYYY-MM-DD")
		return time.Time{}, false
	}
	return day, true
}
