package tracking

import (
	"context"
	"errors"
	"fmt"

	"github.com/power2u/traineasy-web/internal/db"
	"github.com/power2u/traineasy-web/internal/meal"
	"github.com/power2u/traineasy-web/internal/validate"
)

// markMealSQL holds one upsert per meal slot. Column names come from the
// closed meal.Type set, never from request input.
var markMealSQL = func() map[meal.Type]string {
	m := make(map[meal.Type]string, len(meal.All))
	for _, t := range meal.All {
		c, _ := meal.ColumnsFor(t)
		m[t] = fmt.Sprintf(`
			INSERT INTO meal_completions (user_id, date, %[1]s, %[2]s)
			VALUES ($1, $2, $3, $4)
			ON CONFLICT (user_id, date) DO UPDATE
			SET %[1]s = EXCLUDED.%[1]s, %[2]s = EXCLUDED.%[2]s, updated_at = NOW()`,
			c.Completed, c.CompletedAt)
	}
	return m
}()

// MarkMeal sets one meal slot of date completed or not and returns the whole
// day.
func (s *Store) MarkMeal(ctx context.Context, userID, date, mealType string, completed bool) (meal.Day, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return meal.Day{}, err
	}
	d, err := validate.Date(date)
	if err != nil {
		return meal.Day{}, err
	}
	t, err := meal.Parse(mealType)
	if err != nil {
		return meal.Day{}, validate.Errorf("%v", err)
	}

	day := meal.Day{UserID: uid, Date: dateKey(d)}
	if err := day.Mark(t, completed, s.now().UTC()); err != nil {
		return meal.Day{}, validate.Errorf("%v", err)
	}
	slot := day.Slot(t)
	if _, err := s.db.Exec(ctx, markMealSQL[t], uid, d, slot.Completed, slot.CompletedAt); err != nil {
		return meal.Day{}, fmt.Errorf("mark %s: %w", t, err)
	}
	return s.MealsForDay(ctx, uid, day.Date)
}

// MealsForDay returns the completion of every slot on date. A day without a
// row has nothing completed.
func (s *Store) MealsForDay(ctx context.Context, userID, date string) (meal.Day, error) {
	uid, err := validate.UserID(userID)
	if err != nil {
		return meal.Day{}, err
	}
	d, err := validate.Date(date)
	if err != nil {
		return meal.Day{}, err
	}

	day := meal.Day{UserID: uid, Date: dateKey(d)}
	err = s.db.QueryRow(ctx, "meals_for_day", uid, d).Scan(
		&day.Breakfast.Completed, &day.Breakfast.CompletedAt,
		&day.Snack1.Completed, &day.Snack1.CompletedAt,
		&day.Lunch.Completed, &day.Lunch.CompletedAt,
		&day.Snack2.Completed, &day.Snack2.CompletedAt,
		&day.Dinner.Completed, &day.Dinner.CompletedAt,
	)
	if errors.Is(db.NotFound(err), db.ErrNotFound) {
		return meal.Day{UserID: uid, Date: dateKey(d)}, nil
	}
	if err != nil {
		return meal.Day{}, fmt.Errorf("get meals: %w", err)
	}
	return day, nil
}
