package sqldb

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/internal/db"
	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.Init("sqlite", filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { database.Close() })

	require.NoError(t, db.RunMigrations(database.DB, "sqlite"))
	return New(database)
}

func TestDayUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LoadDay(ctx, "2026-03-14")
	assert.ErrorIs(t, err, store.ErrNoData)

	rec := model.DayRecord{
		Date: "2026-03-14",
		Entries: []model.LogEntry{
			{ID: "e1", FoodName: "Oatmeal", Quantity: 1, Calories: 150, Protein: 5.2, Carbs: 27, Fat: 2.1},
		},
		Totals: model.MacroTotals{Calories: 150, Protein: 5.2, Carbs: 27, Fat: 2.1},
	}
	require.NoError(t, s.SaveDay(ctx, rec))

	got, err := s.LoadDay(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Equal(t, rec.Date, got.Date)
	require.Len(t, got.Entries, 1)
	assert.Equal(t, "Oatmeal", got.Entries[0].FoodName)
	assert.Equal(t, rec.Totals, got.Totals)

	// Saving again replaces the row, it never duplicates.
	rec.Entries = append(rec.Entries, model.LogEntry{ID: "e2", FoodName: "Banana", Quantity: 1, Calories: 105})
	rec.Totals.Calories = 255
	require.NoError(t, s.SaveDay(ctx, rec))

	got, err = s.LoadDay(ctx, "2026-03-14")
	require.NoError(t, err)
	assert.Len(t, got.Entries, 2)
	assert.Equal(t, 255.0, got.Totals.Calories)
}

func TestSaveDayEmptySet(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.SaveDay(ctx, model.DayRecord{
		Date:    "2026-03-14",
		Entries: []model.LogEntry{{ID: "e1", FoodName: "Rice"}},
	}))
	require.NoError(t, s.SaveDay(ctx, model.DayRecord{Date: "2026-03-14"}))

	got, err := s.LoadDay(ctx, "2026-03-14")
	require.NoError(t, err, "a saved empty day is a record, not absence")
	assert.Empty(t, got.Entries)
}

func TestCatalogRewrite(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	items, err := s.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Empty(t, items)

	require.NoError(t, s.SaveCatalog(ctx, []model.FoodItem{
		{ID: "f1", Name: "Oatmeal", Calories: 150},
		{ID: "f2", Name: "Banana", Calories: 105},
	}))

	items, err = s.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Oatmeal", items[0].Name, "position order is preserved")

	// A rewrite drops rows not in the new set.
	require.NoError(t, s.SaveCatalog(ctx, []model.FoodItem{{ID: "f2", Name: "Banana", Calories: 105}}))

	items, err = s.LoadCatalog(ctx)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "Banana", items[0].Name)
}

func TestGoalsUpsert(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.LoadGoals(ctx)
	assert.ErrorIs(t, err, store.ErrNoData)

	require.NoError(t, s.SaveGoal(ctx, model.GoalCalories, 2200))
	require.NoError(t, s.SaveGoal(ctx, model.GoalCalories, 2400))
	require.NoError(t, s.SaveGoal(ctx, model.GoalFat, 75))

	goals, err := s.LoadGoals(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]float64{model.GoalCalories: 2400, model.GoalFat: 75}, goals)
}
