package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/macrolog/macrolog/internal/config"
	"github.com/macrolog/macrolog/internal/db"
	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store/sqldb"
)

// starterFoods is written on first setup so the quick-add list isn't
// empty. Values are per single serving.
var starterFoods = []model.FoodItem{
	{Name: "Oatmeal (1 cup cooked)", Calories: 166, Protein: 5.9, Carbs: 28, Fat: 3.6},
	{Name: "Banana", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4},
	{Name: "Chicken Breast (100g)", Calories: 165, Protein: 31, Carbs: 0, Fat: 3.6},
	{Name: "White Rice (1 cup cooked)", Calories: 205, Protein: 4.3, Carbs: 45, Fat: 0.4},
	{Name: "Whole Egg", Calories: 72, Protein: 6.3, Carbs: 0.4, Fat: 4.8},
	{Name: "Greek Yogurt (170g)", Calories: 100, Protein: 17, Carbs: 6, Fat: 0.7},
	{Name: "Almonds (28g)", Calories: 164, Protein: 6, Carbs: 6, Fat: 14},
	{Name: "Olive Oil (1 tbsp)", Calories: 119, Protein: 0, Carbs: 0, Fat: 13.5},
}

func SeedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Write the starter food catalog (skips if one already exists)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Load()
			database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.RunMigrations(database.DB, cfg.DBDriver); err != nil {
				return err
			}

			st := sqldb.New(database)
			ctx := context.Background()

			existing, err := st.LoadCatalog(ctx)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				fmt.Printf("catalog already has %d foods, not seeding\n", len(existing))
				return nil
			}

			foods := make([]model.FoodItem, len(starterFoods))
			for i, f := range starterFoods {
				f.ID = uuid.New().String()
				foods[i] = f
			}
			if err := st.SaveCatalog(ctx, foods); err != nil {
				return err
			}

			fmt.Printf("seeded %d foods\n", len(foods))
			return nil
		},
	}
}
