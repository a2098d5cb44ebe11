package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/observability"
	"example.com/fittrack/pkg/events"
)

const planColumns = `plan_id, user_id, title, days, targets, meals_per_day, diet_type, source, model, notes, created_at`

func scanPlan(row pgx.Row, p *domain.MealPlan) error {
	var days, targets []byte
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &days, &targets, &p.MealsPerDay, &p.DietType, &p.Source, &p.Model, &p.Notes, &p.CreatedAt); err != nil {
		return err
	}
	if err := json.Unmarshal(days, &p.Days); err != nil {
		return fmt.Errorf("decode plan days: %w", err)
	}
	if err := json.Unmarshal(targets, &p.Targets); err != nil {
		return fmt.Errorf("decode plan targets: %w", err)
	}
	return nil
}

// CreateMealPlan stores a plan and records a meal_plan.generated event.
func (r *Repository) CreateMealPlan(ctx context.Context, plan domain.MealPlan) error {
	days, err := json.Marshal(plan.Days)
	if err != nil {
		return err
	}
	targets, err := json.Marshal(plan.Targets)
	if err != nil {
		return err
	}

	err = r.withUserTx(ctx, plan.UserID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO meal_plans (`+planColumns+`)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
			plan.ID, plan.UserID, plan.Title, days, targets, plan.MealsPerDay, plan.DietType,
			plan.Source, plan.Model, plan.Notes, plan.CreatedAt); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        plan.UserID,
			AggregateType: "meal_plan",
			AggregateID:   plan.ID,
			EventType:     events.TypeMealPlanGenerated,
			Payload: events.MealPlanGenerated{
				PlanID:      plan.ID,
				UserID:      plan.UserID,
				Days:        len(plan.Days),
				MealsPerDay: plan.MealsPerDay,
				Source:      string(plan.Source),
				Model:       plan.Model,
				CreatedAt:   plan.CreatedAt,
			},
		})
	})
	if err != nil {
		return err
	}
	observability.RecordPersisted("meal_plan", plan.CreatedAt)
	return nil
}

// GetMealPlan fetches one plan, or nil.
func (r *Repository) GetMealPlan(ctx context.Context, userID, planID string) (*domain.MealPlan, error) {
	var result *domain.MealPlan
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var plan domain.MealPlan
		err := scanPlan(tx.QueryRow(ctx, `SELECT `+planColumns+` FROM meal_plans WHERE user_id=$1 AND plan_id=$2`, userID, planID), &plan)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &plan
		return nil
	})
	return result, err
}

// ListMealPlans pages through plans newest first.
func (r *Repository) ListMealPlans(ctx context.Context, userID string, cursor *domain.Cursor, limit int) ([]domain.MealPlan, *domain.Cursor, error) {
	args := []any{userID, limit}
	query := `SELECT ` + planColumns + ` FROM meal_plans WHERE user_id=$1`
	if cursor != nil {
		query += ` AND (created_at, plan_id) < ($3, $4)`
		args = append(args, cursor.At, cursor.ID)
	}
	query += ` ORDER BY created_at DESC, plan_id DESC LIMIT $2`

	results := make([]domain.MealPlan, 0, limit)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var plan domain.MealPlan
			if err := scanPlan(rows, &plan); err != nil {
				return err
			}
			results = append(results, plan)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, nil, err
	}

	var next *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		next = &domain.Cursor{At: last.CreatedAt, ID: last.ID}
	}
	return results, next, nil
}

// DeleteMealPlan removes a plan.
func (r *Repository) DeleteMealPlan(ctx context.Context, userID, planID string) (bool, error) {
	var deleted bool
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `DELETE FROM meal_plans WHERE user_id=$1 AND plan_id=$2`, userID, planID)
		if err != nil {
			return err
		}
		deleted = tag.RowsAffected() > 0
		return nil
	})
	return deleted, err
}
