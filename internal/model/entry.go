package model

import (
	"math"
	"time"
)

// LogEntry is one recorded consumption of a quantity of a food.
// FoodName and the macro fields are snapshots taken when the entry is
// created; editing the catalog food later does not rewrite history.
type LogEntry struct {
	ID        string    `json:"id"`
	FoodID    string    `json:"foodId,omitempty"`
	FoodName  string    `json:"foodName"`
	Quantity  float64   `json:"quantity"`
	Calories  float64   `json:"calories"`
	Protein   float64   `json:"protein"`
	Carbs     float64   `json:"carbs"`
	Fat       float64   `json:"fat"`
	Timestamp time.Time `json:"timestamp"`
}

// NewLogEntry builds an entry for quantity units of food, scaling and
// freezing the macro values with the standard rounding policy.
func NewLogEntry(id string, food FoodItem, quantity float64, at time.Time) LogEntry {
	return LogEntry{
		ID:        id,
		FoodID:    food.ID,
		FoodName:  food.Name,
		Quantity:  quantity,
		Calories:  RoundCalories(food.Calories * quantity),
		Protein:   RoundMacro(food.Protein * quantity),
		Carbs:     RoundMacro(food.Carbs * quantity),
		Fat:       RoundMacro(food.Fat * quantity),
		Timestamp: at,
	}
}

// RoundCalories rounds to the nearest whole calorie.
func RoundCalories(v float64) float64 {
	return math.Round(v)
}

// RoundMacro rounds a gram value to one decimal place.
func RoundMacro(v float64) float64 {
	return math.Round(v*10) / 10
}
