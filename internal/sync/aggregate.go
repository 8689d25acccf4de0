package sync

import (
	"math"

	"github.com/macrolog/macrolog/internal/model"
)

// Aggregate folds a day's entries into totals against the given goals.
// Pure and deterministic; the UI and the dispatcher both consume its
// output, so rounding happens here with the same policy applied at
// entry creation to keep displayed per-entry values and totals in step.
func Aggregate(entries []model.LogEntry, goals model.MacroGoals) model.DailyAggregate {
	var agg model.DailyAggregate
	for _, e := range entries {
		agg.Calories += e.Calories
		agg.Protein += e.Protein
		agg.Carbs += e.Carbs
		agg.Fat += e.Fat
	}

	agg.Calories = model.RoundCalories(agg.Calories)
	agg.Protein = model.RoundMacro(agg.Protein)
	agg.Carbs = model.RoundMacro(agg.Carbs)
	agg.Fat = model.RoundMacro(agg.Fat)

	// A zero or negative calorie goal reads as 0%, never a division by
	// zero or an infinite percentage.
	if goals.Calories > 0 {
		pct := 100 * agg.Calories / goals.Calories
		agg.CalorieGoalPercent = math.Min(100, model.RoundMacro(pct))
	}

	agg.OverGoal = agg.Calories > goals.Calories
	agg.EntryCount = len(entries)
	return agg
}

// Totals returns just the macro sums of an aggregate, the shape the
// remote store persists alongside the entry set.
func Totals(agg model.DailyAggregate) model.MacroTotals {
	return agg.MacroTotals
}
