// Package api exposes the fittrack HTTP surface.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/persistence"
	"example.com/fittrack/internal/session"
	"example.com/fittrack/pkg/auth"
)

// Services bundles the domain services the handlers delegate to.
type Services struct {
	Workouts  *domain.WorkoutService
	Body      *domain.BodyWeightService
	Nutrition *domain.NutritionService
	MealPlans *domain.MealPlanService
	Sessions  *session.Checker
	Catalog   *catalog.Catalog
}

// Handler coordinates HTTP requests with the domain services.
type Handler struct {
	svc    Services
	logger *zap.Logger
}

// NewHandler builds a Handler. logger may be nil.
func NewHandler(svc Services, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{svc: svc, logger: logger}
}

// RegisterRoutes wires endpoints to the router.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/healthz", healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/session", h.getSession)

		r.Route("/workouts", func(r chi.Router) {
			r.Post("/", h.startWorkout)
			r.Get("/", h.listWorkouts)
			r.Get("/{id}", h.getWorkout)
			r.Delete("/{id}", h.deleteWorkout)
			r.Post("/{id}/finish", h.finishWorkout)
			r.Post("/{id}/sets", h.addSet)
			r.Delete("/{id}/sets/{setID}", h.deleteSet)
		})
		r.Get("/records", h.listRecords)
		r.Get("/records/{exercise}", h.getRecord)

		r.Route("/body-weight", func(r chi.Router) {
			r.Post("/", h.logWeight)
			r.Get("/", h.listWeights)
			r.Get("/trend", h.weightTrend)
			r.Delete("/{id}", h.deleteWeight)
		})

		r.Route("/food", func(r chi.Router) {
			r.Post("/", h.logFood)
			r.Get("/", h.listFood)
			r.Post("/estimate", h.estimateFood)
			r.Get("/{id}", h.getFood)
			r.Delete("/{id}", h.deleteFood)
		})
		r.Get("/nutrition/summary", h.dailySummary)
		r.Get("/nutrition/history", h.nutritionHistory)
		r.Put("/goals", h.setGoals)
		r.Get("/goals", h.getGoals)

		r.Route("/meal-plans", func(r chi.Router) {
			r.Post("/", h.generateMealPlan)
			r.Get("/", h.listMealPlans)
			r.Get("/{id}", h.getMealPlan)
			r.Delete("/{id}", h.deleteMealPlan)
		})

		r.Get("/catalog/exercises", h.listExercises)
		r.Get("/catalog/servings", h.listServings)
	})
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// authorize returns the caller's claims when one of scopes is granted.
func authorize(w http.ResponseWriter, r *http.Request, scopes ...string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if len(scopes) > 0 && !claims.HasAnyScope(scopes...) {
		writeError(w, http.StatusForbidden, "forbidden", fmt.Sprintf("scope %s required", scopes[0]))
		return nil, false
	}
	return claims, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return false
	}
	return true
}

// pageParams reads limit and cursor query parameters.
func pageParams(w http.ResponseWriter, r *http.Request) (*domain.Cursor, int, bool) {
	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}
	cursor, err := persistence.DecodeCursor(r.URL.Query().Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return nil, 0, false
	}
	return cursor, limit, true
}

// location resolves the optional tz query parameter; UTC by default.
func location(r *http.Request) (*time.Location, error) {
	name := strings.TrimSpace(r.URL.Query().Get("tz"))
	if name == "" {
		return time.UTC, nil
	}
	return time.LoadLocation(name)
}

// parseDay parses a YYYY-MM-DD query value in loc; empty means today.
func parseDay(raw string, loc *time.Location, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return now.In(loc), nil
	}
	return time.ParseInLocation(time.DateOnly, raw, loc)
}

// writeDomainError maps service errors to HTTP responses.
func (h *Handler) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	var validation *domain.ValidationError
	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, "validation_failed", err.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, domain.ErrSessionFinished):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, session.ErrTimeout):
		writeError(w, http.StatusServiceUnavailable, "session_timeout", err.Error())
	case errors.Is(err, auth.ErrMissingToken), errors.Is(err, auth.ErrInvalidToken):
		writeError(w, http.StatusUnauthorized, "unauthorized", err.Error())
	default:
		h.logger.Error("request failed", zap.String("path", r.URL.Path), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
