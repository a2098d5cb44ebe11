package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"example.com/fittrack/internal/domain"
	"example.com/fittrack/internal/observability"
	"example.com/fittrack/pkg/events"
)

const foodColumns = `entry_id, user_id, name, meal_type, serving_size, servings, calories, protein, carbs, fat, source, logged_at, created_at`

func scanFood(row pgx.Row, e *domain.FoodEntry) error {
	return row.Scan(&e.ID, &e.UserID, &e.Name, &e.MealType, &e.ServingSize, &e.Servings,
		&e.Macros.Calories, &e.Macros.Protein, &e.Macros.Carbs, &e.Macros.Fat,
		&e.Source, &e.LoggedAt, &e.CreatedAt)
}

func eventMacros(m domain.Macros) events.Macros {
	return events.Macros{Calories: m.Calories, Protein: m.Protein, Carbs: m.Carbs, Fat: m.Fat}
}

// CreateFood stores a food entry and records a food.logged event.
func (r *Repository) CreateFood(ctx context.Context, entry domain.FoodEntry) error {
	err := r.withUserTx(ctx, entry.UserID, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `INSERT INTO food_entries (`+foodColumns+`)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)`,
			entry.ID, entry.UserID, entry.Name, entry.MealType, entry.ServingSize, entry.Servings,
			entry.Macros.Calories, entry.Macros.Protein, entry.Macros.Carbs, entry.Macros.Fat,
			entry.Source, entry.LoggedAt, entry.CreatedAt); err != nil {
			return err
		}
		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        entry.UserID,
			AggregateType: "food_entry",
			AggregateID:   entry.ID,
			EventType:     events.TypeFoodLogged,
			Payload: events.FoodLogged{
				EntryID:  entry.ID,
				UserID:   entry.UserID,
				Name:     entry.Name,
				MealType: string(entry.MealType),
				Macros:   eventMacros(entry.Macros),
				Source:   string(entry.Source),
				LoggedAt: entry.LoggedAt,
			},
		})
	})
	if err != nil {
		return err
	}
	observability.RecordPersisted("food_entry", entry.CreatedAt)
	return nil
}

// GetFood fetches one entry, or nil.
func (r *Repository) GetFood(ctx context.Context, userID, entryID string) (*domain.FoodEntry, error) {
	var result *domain.FoodEntry
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var entry domain.FoodEntry
		err := scanFood(tx.QueryRow(ctx, `SELECT `+foodColumns+` FROM food_entries WHERE user_id=$1 AND entry_id=$2`, userID, entryID), &entry)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &entry
		return nil
	})
	return result, err
}

// FoodBetween returns entries logged in [from, to) oldest first.
func (r *Repository) FoodBetween(ctx context.Context, userID string, from, to time.Time) ([]domain.FoodEntry, error) {
	results := make([]domain.FoodEntry, 0)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT `+foodColumns+` FROM food_entries
            WHERE user_id=$1 AND logged_at >= $2 AND logged_at < $3
            ORDER BY logged_at, entry_id`, userID, from, to)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var entry domain.FoodEntry
			if err := scanFood(rows, &entry); err != nil {
				return err
			}
			results = append(results, entry)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// DeleteFood removes an entry and records a food.deleted event carrying its macros.
func (r *Repository) DeleteFood(ctx context.Context, userID, entryID string) (*domain.FoodEntry, error) {
	var result *domain.FoodEntry
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var entry domain.FoodEntry
		err := scanFood(tx.QueryRow(ctx, `DELETE FROM food_entries WHERE user_id=$1 AND entry_id=$2 RETURNING `+foodColumns, userID, entryID), &entry)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &entry

		return insertOutbox(ctx, tx, outboxEvent{
			UserID:        userID,
			AggregateType: "food_entry",
			AggregateID:   entry.ID,
			EventType:     events.TypeFoodDeleted,
			Payload: events.FoodDeleted{
				EntryID:   entry.ID,
				UserID:    userID,
				Macros:    eventMacros(entry.Macros),
				LoggedAt:  entry.LoggedAt,
				DeletedAt: time.Now().UTC(),
			},
		})
	})
	return result, err
}

// DailyTotals reads the consumer's per-day projection for days in [from, to).
func (r *Repository) DailyTotals(ctx context.Context, userID string, from, to time.Time) ([]domain.DailyTotal, error) {
	results := make([]domain.DailyTotal, 0)
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		rows, err := tx.Query(ctx, `SELECT to_char(day, 'YYYY-MM-DD'), calories, protein, carbs, fat, entry_count
            FROM daily_nutrition_totals
            WHERE user_id=$1 AND day >= $2::date AND day < $3::date
            ORDER BY day`, userID, from.Format(time.DateOnly), to.Format(time.DateOnly))
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			var total domain.DailyTotal
			if err := rows.Scan(&total.Day, &total.Macros.Calories, &total.Macros.Protein, &total.Macros.Carbs, &total.Macros.Fat, &total.EntryCount); err != nil {
				return err
			}
			results = append(results, total)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// GetGoals returns the user's macro goals, or nil.
func (r *Repository) GetGoals(ctx context.Context, userID string) (*domain.MacroGoals, error) {
	var result *domain.MacroGoals
	err := r.withUserTx(ctx, userID, func(tx pgx.Tx) error {
		var g domain.MacroGoals
		err := tx.QueryRow(ctx, `SELECT user_id, calories, protein, carbs, fat, updated_at FROM macro_goals WHERE user_id=$1`, userID).
			Scan(&g.UserID, &g.Calories, &g.Protein, &g.Carbs, &g.Fat, &g.UpdatedAt)
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return err
		}
		result = &g
		return nil
	})
	return result, err
}

// UpsertGoals replaces the user's macro goals.
func (r *Repository) UpsertGoals(ctx context.Context, goals domain.MacroGoals) error {
	return r.withUserTx(ctx, goals.UserID, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `INSERT INTO macro_goals (user_id, calories, protein, carbs, fat, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6)
            ON CONFLICT (user_id) DO UPDATE SET
                calories = EXCLUDED.calories,
                protein = EXCLUDED.protein,
                carbs = EXCLUDED.carbs,
                fat = EXCLUDED.fat,
                updated_at = EXCLUDED.updated_at`,
			goals.UserID, goals.Calories, goals.Protein, goals.Carbs, goals.Fat, goals.UpdatedAt)
		return err
	})
}
