package api

import (
	"net/http"
	"strings"

	"example.com/fittrack/internal/catalog"
)

func (h *Handler) listExercises(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r); !ok {
		return
	}
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	category := catalog.Category(strings.ToLower(strings.TrimSpace(r.URL.Query().Get("category"))))

	exercises := h.svc.Catalog.SearchExercises(query, category)
	items := make([]ExerciseView, 0, len(exercises))
	for _, e := range exercises {
		items = append(items, NewExerciseView(e))
	}
	writeJSON(w, http.StatusOK, ListResponse[ExerciseView]{Items: items})
}

func (h *Handler) listServings(w http.ResponseWriter, r *http.Request) {
	if _, ok := authorize(w, r); !ok {
		return
	}
	servings := h.svc.Catalog.Servings()
	items := make([]ServingView, 0, len(servings))
	for _, s := range servings {
		items = append(items, NewServingView(s))
	}
	writeJSON(w, http.StatusOK, ListResponse[ServingView]{Items: items})
}
