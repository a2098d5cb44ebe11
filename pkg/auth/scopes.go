package auth

import "net/http"

// Scopes understood by the API.
const (
	ScopeWorkoutsRead   = "workouts:read"
	ScopeWorkoutsWrite  = "workouts:write"
	ScopeNutritionRead  = "nutrition:read"
	ScopeNutritionWrite = "nutrition:write"
	ScopeBodyRead       = "body:read"
	ScopeBodyWrite      = "body:write"
	ScopeMealPlansRead  = "mealplans:read"
	ScopeMealPlansWrite = "mealplans:write"
)

// AllScopes lists every scope, as granted to a first-party client.
var AllScopes = []string{
	ScopeWorkoutsRead, ScopeWorkoutsWrite,
	ScopeNutritionRead, ScopeNutritionWrite,
	ScopeBodyRead, ScopeBodyWrite,
	ScopeMealPlansRead, ScopeMealPlansWrite,
}

// PublicPaths are served without a bearer token.
func PublicPaths(paths ...string) Skipper {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return func(r *http.Request) bool {
		_, ok := set[r.URL.Path]
		return ok
	}
}
