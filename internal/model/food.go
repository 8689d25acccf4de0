package model

// FoodItem is a catalog food with macro values per reference quantity.
type FoodItem struct {
	ID       string  `json:"id" db:"id"`
	Name     string  `json:"name" db:"name"`
	Calories float64 `json:"calories" db:"calories"`
	Protein  float64 `json:"protein" db:"protein"`
	Carbs    float64 `json:"carbs" db:"carbs"`
	Fat      float64 `json:"fat" db:"fat"`
}
