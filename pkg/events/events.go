// Package events defines the payloads published to Kafka through the outbox.
package events

import "time"

// Event type names. They double as outbox event_type values and Kafka headers.
const (
	TypeWorkoutCompleted       = "workout.completed"
	TypePersonalRecordAchieved = "personal_record.achieved"
	TypeFoodLogged             = "food.logged"
	TypeFoodDeleted            = "food.deleted"
	TypeBodyWeightLogged       = "body_weight.logged"
	TypeMealPlanGenerated      = "meal_plan.generated"
)

// WorkoutCompleted is emitted when a session is finished.
type WorkoutCompleted struct {
	SessionID   string    `json:"session_id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	StartedAt   time.Time `json:"started_at"`
	EndedAt     time.Time `json:"ended_at"`
	DurationSec int64     `json:"duration_sec"`
	SetCount    int       `json:"set_count"`
	VolumeKg    float64   `json:"volume_kg"`
}

// PersonalRecordAchieved is emitted when a logged set beats the stored record.
type PersonalRecordAchieved struct {
	UserID             string    `json:"user_id"`
	Exercise           string    `json:"exercise"`
	SessionID          string    `json:"session_id"`
	SetID              string    `json:"set_id"`
	WeightKg           float64   `json:"weight_kg"`
	Reps               int       `json:"reps"`
	EstimatedOneRepMax float64   `json:"estimated_one_rep_max"`
	PreviousWeightKg   float64   `json:"previous_weight_kg,omitempty"`
	AchievedAt         time.Time `json:"achieved_at"`
}

// Macros mirrors the nutrition totals carried by food events.
type Macros struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// FoodLogged is emitted for every new food entry.
type FoodLogged struct {
	EntryID  string    `json:"entry_id"`
	UserID   string    `json:"user_id"`
	Name     string    `json:"name"`
	MealType string    `json:"meal_type"`
	Macros   Macros    `json:"macros"`
	Source   string    `json:"source"`
	LoggedAt time.Time `json:"logged_at"`
}

// FoodDeleted reverses a FoodLogged in downstream projections.
type FoodDeleted struct {
	EntryID   string    `json:"entry_id"`
	UserID    string    `json:"user_id"`
	Macros    Macros    `json:"macros"`
	LoggedAt  time.Time `json:"logged_at"`
	DeletedAt time.Time `json:"deleted_at"`
}

// BodyWeightLogged is emitted for every new weigh-in.
type BodyWeightLogged struct {
	EntryID    string    `json:"entry_id"`
	UserID     string    `json:"user_id"`
	WeightKg   float64   `json:"weight_kg"`
	MeasuredAt time.Time `json:"measured_at"`
}

// MealPlanGenerated records the outcome of a generation request, fallback included.
type MealPlanGenerated struct {
	PlanID      string    `json:"plan_id"`
	UserID      string    `json:"user_id"`
	Days        int       `json:"days"`
	MealsPerDay int       `json:"meals_per_day"`
	Source      string    `json:"source"`
	Model       string    `json:"model,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
