package model

// Setting names under which goals are stored remotely.
const (
	GoalCalories = "calories"
	GoalProtein  = "protein"
	GoalCarbs    = "carbs"
	GoalFat      = "fat"
)

// MacroGoals holds the daily macro targets. A single mutable record,
// edited wholesale, no history.
type MacroGoals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DefaultGoals are used until the remote store has stored values.
var DefaultGoals = MacroGoals{Calories: 2000, Protein: 150, Carbs: 250, Fat: 70}

// AsMap returns the goals keyed by setting name.
func (g MacroGoals) AsMap() map[string]float64 {
	return map[string]float64{
		GoalCalories: g.Calories,
		GoalProtein:  g.Protein,
		GoalCarbs:    g.Carbs,
		GoalFat:      g.Fat,
	}
}

// GoalsFromMap builds MacroGoals from a settings map, falling back to
// defaults for missing names.
func GoalsFromMap(m map[string]float64) MacroGoals {
	g := DefaultGoals
	if v, ok := m[GoalCalories]; ok {
		g.Calories = v
	}
	if v, ok := m[GoalProtein]; ok {
		g.Protein = v
	}
	if v, ok := m[GoalCarbs]; ok {
		g.Carbs = v
	}
	if v, ok := m[GoalFat]; ok {
		g.Fat = v
	}
	return g
}
