package api

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"example.com/fittrack/internal/catalog"
	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/llm"
	"example.com/fittrack/internal/mealplan"
	"example.com/fittrack/internal/session"
	"example.com/fittrack/pkg/auth"
)

var testAuth = auth.Config{Secret: "api-test-secret", Issuer: "fittrack.test", TTL: time.Hour}

type offlineGenerator struct{}

func (offlineGenerator) GenerateContent(context.Context, llm.Prompt) (llm.ContentResponse, error) {
	return llm.ContentResponse{}, llm.ErrMissingAPIKey
}

type testServer struct {
	t     *testing.T
	store *memoryStore
	srv   *httptest.Server
}

func newTestServer(t *testing.T, sessionTimeout time.Duration) *testServer {
	t.Helper()

	store := newMemoryStore()
	cat := catalog.New()
	gen := offlineGenerator{}
	handler := NewHandler(Services{
		Workouts:  domain.NewWorkoutService(store, cat),
		Body:      domain.NewBodyWeightService(store),
		Nutrition: domain.NewNutritionService(store, store, mealplan.NewEstimator(gen, cat)),
		MealPlans: domain.NewMealPlanService(store, store, mealplan.NewPlanner(gen)),
		Sessions:  session.NewChecker(store, sessionTimeout),
		Catalog:   cat,
	}, nil)

	r := chi.NewRouter()
	r.Use(auth.NewMiddleware(testAuth, auth.PublicPaths("/healthz")).Wrap)
	handler.RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return &testServer{t: t, store: store, srv: srv}
}

func (s *testServer) token(subject string, scopes ...string) string {
	s.t.Helper()
	token, err := auth.Issue(testAuth, subject, scopes, time.Now())
	require.NoError(s.t, err)
	return token
}

func (s *testServer) do(method, path, token, body string) (*http.Response, []byte) {
	s.t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, s.srv.URL+path, reader)
	require.NoError(s.t, err)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := s.srv.Client().Do(req)
	require.NoError(s.t, err)
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	require.NoError(s.t, err)
	return resp, data
}

func decode[T any](t *testing.T, data []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(data, &out), string(data))
	return out
}

func TestHealthzIsPublic(t *testing.T) {
	s := newTestServer(t, time.Second)
	resp, body := s.do(http.MethodGet, "/healthz", "", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "ok", string(body))
}

func TestRoutesRequireToken(t *testing.T) {
	s := newTestServer(t, time.Second)
	resp, body := s.do(http.MethodGet, "/v1/workouts", "", "")
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.JSONEq(t, `{"type":"unauthorized","detail":"missing bearer token"}`, string(body))
}

func TestScopeIsEnforced(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeWorkoutsRead)

	resp, body := s.do(http.MethodPost, "/v1/workouts", token, `{"name":"Legs"}`)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.JSONEq(t, `{"type":"forbidden","detail":"scope workouts:write required"}`, string(body))

	resp, _ = s.do(http.MethodGet, "/v1/workouts", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestWorkoutLifecycle(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeWorkoutsWrite)

	resp, body := s.do(http.MethodPost, "/v1/workouts", token, `{"name":"Push day"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	workout := decode[WorkoutView](t, body)
	require.Equal(t, "Push day", workout.Name)
	require.False(t, workout.Finished)

	resp, body = s.do(http.MethodPost, "/v1/workouts/"+workout.SessionID+"/sets", token, `{"exercise":"bench","reps":5,"weight_kg":80}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	added := decode[AddSetResponse](t, body)
	require.Equal(t, "Bench Press", added.Set.Exercise)
	require.Equal(t, 1, added.Set.SetNumber)
	require.NotNil(t, added.PersonalRecord)
	require.InDelta(t, 93.3, added.PersonalRecord.EstimatedOneRepMax, 0.01)

	resp, body = s.do(http.MethodPost, "/v1/workouts/"+workout.SessionID+"/sets", token, `{"exercise":"Bench Press","reps":5,"weight_kg":70}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	added = decode[AddSetResponse](t, body)
	require.Nil(t, added.PersonalRecord)
	require.Equal(t, 2, added.Set.SetNumber)

	resp, body = s.do(http.MethodGet, "/v1/records/Bench%20Press", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	require.Equal(t, 80.0, decode[RecordView](t, body).WeightKg)

	resp, body = s.do(http.MethodPost, "/v1/workouts/"+workout.SessionID+"/finish", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	finished := decode[WorkoutView](t, body)
	require.True(t, finished.Finished)
	require.Equal(t, 2, finished.SetCount)
	require.Equal(t, 750.0, finished.VolumeKg)

	resp, body = s.do(http.MethodPost, "/v1/workouts/"+workout.SessionID+"/finish", token, "")
	require.Equal(t, http.StatusConflict, resp.StatusCode)
	require.Contains(t, string(body), `"type":"conflict"`)

	resp, _ = s.do(http.MethodPost, "/v1/workouts/"+workout.SessionID+"/sets", token, `{"exercise":"bench","reps":3,"weight_kg":90}`)
	require.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestWorkoutsAreScopedToUser(t *testing.T) {
	s := newTestServer(t, time.Second)
	owner := s.token("owner", auth.ScopeWorkoutsWrite)
	other := s.token("other", auth.ScopeWorkoutsWrite)

	_, body := s.do(http.MethodPost, "/v1/workouts", owner, `{}`)
	workout := decode[WorkoutView](t, body)

	resp, body := s.do(http.MethodGet, "/v1/workouts/"+workout.SessionID, other, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"type":"not_found","detail":"workout session not found"}`, string(body))

	resp, _ = s.do(http.MethodDelete, "/v1/workouts/"+workout.SessionID, other, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodDelete, "/v1/workouts/"+workout.SessionID, owner, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeBodyWrite, auth.ScopeWorkoutsWrite)

	resp, body := s.do(http.MethodPost, "/v1/body-weight", token, `{"weight_kg":5}`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.JSONEq(t, `{"type":"validation_failed","detail":"weight_kg must be between 20 and 500"}`, string(body))

	resp, body = s.do(http.MethodPost, "/v1/body-weight", token, `{"weight_kg":`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, string(body), "invalid_request")

	resp, _ = s.do(http.MethodGet, "/v1/workouts?cursor=not-base64!", token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestBodyWeightTrend(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeBodyWrite)
	now := time.Now().UTC()

	for i, kg := range []float64{82, 81.5, 81} {
		measured := now.Add(time.Duration(i-2) * 7 * 24 * time.Hour).Format(time.RFC3339)
		resp, body := s.do(http.MethodPost, "/v1/body-weight", token, `{"weight_kg":`+jsonNumber(kg)+`,"measured_at":"`+measured+`"}`)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	}

	resp, body := s.do(http.MethodGet, "/v1/body-weight/trend?window_days=30", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	trend := decode[TrendView](t, body)
	require.Equal(t, 3, trend.Count)
	require.Equal(t, -1.0, trend.ChangeKg)
	require.Equal(t, -0.5, trend.WeeklyRateKg)

	resp, body = s.do(http.MethodGet, "/v1/body-weight/trend?window_days=0", token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode, string(body))
}

func TestFoodLoggingAndSummary(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeNutritionWrite)

	resp, body := s.do(http.MethodPut, "/v1/goals", token, `{"calories":2200,"protein":160,"carbs":240,"fat":70}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	loggedAt := "2026-05-04T08:15:00Z"
	resp, body = s.do(http.MethodPost, "/v1/food", token, `{"name":"banana","meal_type":"breakfast","servings":2,"logged_at":"`+loggedAt+`"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	banana := decode[FoodView](t, body)
	require.Equal(t, "reference", banana.Source)
	require.Equal(t, 210.0, banana.Macros.Calories)

	resp, body = s.do(http.MethodPost, "/v1/food", token, `{"name":"Chicken wrap","meal_type":"lunch","macros":{"calories":540,"protein":38,"carbs":52,"fat":18},"logged_at":"2026-05-04T12:40:00Z"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	require.Equal(t, "manual", decode[FoodView](t, body).Source)

	resp, body = s.do(http.MethodGet, "/v1/nutrition/summary?date=2026-05-04", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	summary := decode[SummaryView](t, body)
	require.Len(t, summary.Entries, 2)
	require.Equal(t, 750.0, summary.Consumed.Calories)
	require.NotNil(t, summary.Remaining)
	require.Equal(t, 1450.0, summary.Remaining.Calories)
	require.Equal(t, 540.0, summary.ByMeal["lunch"].Calories)

	resp, _ = s.do(http.MethodDelete, "/v1/food/"+banana.EntryID, token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(http.MethodGet, "/v1/food/"+banana.EntryID, token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp, _ = s.do(http.MethodGet, "/v1/food?date=05/04/2026", token, "")
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestEstimateFallsBackToDefault(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeNutritionRead)

	resp, body := s.do(http.MethodPost, "/v1/food/estimate", token, `{"description":"grandma's mystery casserole"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	estimate := decode[EstimateView](t, body)
	require.Equal(t, "fallback", estimate.Source)
	require.Equal(t, MacrosView{Calories: 250, Protein: 10, Carbs: 30, Fat: 10}, estimate.Macros)
	require.Equal(t, "default estimate used: missing api key", estimate.Notes)
}

func TestGoalsNotFound(t *testing.T) {
	s := newTestServer(t, time.Second)
	resp, body := s.do(http.MethodGet, "/v1/goals", s.token("user-1", auth.ScopeNutritionRead), "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
	require.JSONEq(t, `{"type":"not_found","detail":"macro goals not found"}`, string(body))
}

func TestMealPlanFallbackIsStored(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1", auth.ScopeMealPlansWrite)

	resp, body := s.do(http.MethodPost, "/v1/meal-plans", token, `{"days":2,"meals_per_day":4,"diet_type":"vegetarian"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))
	plan := decode[MealPlanView](t, body)
	require.Equal(t, "fallback", plan.Source)
	require.Equal(t, "Vegetarian meal plan (2 days)", plan.Title)
	require.Len(t, plan.Days, 2)
	require.Len(t, plan.Days[0].Meals, 4)
	require.Equal(t, 500.0, plan.Days[0].Meals[0].Target.Calories)

	resp, body = s.do(http.MethodGet, "/v1/meal-plans", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	list := decode[ListResponse[MealPlanView]](t, body)
	require.Len(t, list.Items, 1)
	require.Empty(t, list.Items[0].Days)
	require.Equal(t, 2, list.Items[0].DayCount)

	resp, _ = s.do(http.MethodDelete, "/v1/meal-plans/"+plan.PlanID, token, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp, _ = s.do(http.MethodGet, "/v1/meal-plans/"+plan.PlanID, token, "")
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionCheck(t *testing.T) {
	s := newTestServer(t, time.Second)
	resp, body := s.do(http.MethodGet, "/v1/session", s.token("user-7"), "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	view := decode[SessionView](t, body)
	require.True(t, view.Authenticated)
	require.Equal(t, "user-7", view.UserID)
	require.NotNil(t, view.MemberSince)
}

func TestSessionCheckTimeout(t *testing.T) {
	s := newTestServer(t, 20*time.Millisecond)
	s.store.block = true

	resp, body := s.do(http.MethodGet, "/v1/session", s.token("user-7"), "")
	require.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
	require.Contains(t, string(body), "session_timeout")
}

func TestCatalogRoutes(t *testing.T) {
	s := newTestServer(t, time.Second)
	token := s.token("user-1")

	resp, body := s.do(http.MethodGet, "/v1/catalog/exercises?q=ohp", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	exercises := decode[ListResponse[ExerciseView]](t, body)
	require.Len(t, exercises.Items, 1)
	require.Equal(t, "Overhead Press", exercises.Items[0].Name)

	resp, body = s.do(http.MethodGet, "/v1/catalog/servings", token, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NotEmpty(t, decode[ListResponse[ServingView]](t, body).Items)
}

func jsonNumber(v float64) string {
	data, _ := json.Marshal(v)
	return string(data)
}
