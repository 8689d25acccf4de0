// Package sqldb implements store.Store on a SQL database (sqlite by
// default, postgres via the pgx driver). Day logs are stored as one row
// per date holding the full entry set, so a save is a single idempotent
// upsert and retries can never accumulate duplicate rows.
package sqldb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

type Store struct {
	db *sqlx.DB
}

func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

type dayRow struct {
	Date     string    `db:"date"`
	Entries  string    `db:"entries"`
	Calories float64   `db:"calories"`
	Protein  float64   `db:"protein"`
	Carbs    float64   `db:"carbs"`
	Fat      float64   `db:"fat"`
	Updated  time.Time `db:"updated_at"`
}

func (s *Store) LoadDay(ctx context.Context, date string) (model.DayRecord, error) {
	var row dayRow
	query := `SELECT date, entries, calories, protein, carbs, fat, updated_at
	          FROM day_logs WHERE date = $1`

	err := s.db.GetContext(ctx, &row, query, date)
	if errors.Is(err, sql.ErrNoRows) {
		return model.DayRecord{}, store.ErrNoData
	}
	if err != nil {
		return model.DayRecord{}, fmt.Errorf("load day %s: %w", date, err)
	}

	entries := []model.LogEntry{}
	if err := json.Unmarshal([]byte(row.Entries), &entries); err != nil {
		return model.DayRecord{}, fmt.Errorf("decode entries for %s: %w", date, err)
	}

	return model.DayRecord{
		Date:    row.Date,
		Entries: entries,
		Totals: model.MacroTotals{
			Calories: row.Calories,
			Protein:  row.Protein,
			Carbs:    row.Carbs,
			Fat:      row.Fat,
		},
	}, nil
}

func (s *Store) SaveDay(ctx context.Context, rec model.DayRecord) error {
	entries := rec.Entries
	if entries == nil {
		entries = []model.LogEntry{}
	}
	raw, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode entries for %s: %w", rec.Date, err)
	}

	query := `INSERT INTO day_logs (date, entries, calories, protein, carbs, fat, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)
	          ON CONFLICT (date) DO UPDATE SET
	              entries = EXCLUDED.entries,
	              calories = EXCLUDED.calories,
	              protein = EXCLUDED.protein,
	              carbs = EXCLUDED.carbs,
	              fat = EXCLUDED.fat,
	              updated_at = EXCLUDED.updated_at`

	_, err = s.db.ExecContext(ctx, query, rec.Date, string(raw),
		rec.Totals.Calories, rec.Totals.Protein, rec.Totals.Carbs, rec.Totals.Fat,
		time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save day %s: %w", rec.Date, err)
	}
	return nil
}

func (s *Store) LoadCatalog(ctx context.Context) ([]model.FoodItem, error) {
	items := []model.FoodItem{}
	query := `SELECT id, name, calories, protein, carbs, fat
	          FROM foods ORDER BY position ASC, name ASC`

	err := s.db.SelectContext(ctx, &items, query)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return items, nil
}

// SaveCatalog rewrites the foods table inside one transaction. The
// transaction is the concurrent-rewrite guard the script backend needs
// an explicit lock for.
func (s *Store) SaveCatalog(ctx context.Context, items []model.FoodItem) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM foods`); err != nil {
		return fmt.Errorf("clear catalog: %w", err)
	}

	query := `INSERT INTO foods (id, name, calories, protein, carbs, fat, position)
	          VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for i, item := range items {
		_, err := tx.ExecContext(ctx, query, item.ID, item.Name,
			item.Calories, item.Protein, item.Carbs, item.Fat, i)
		if err != nil {
			return fmt.Errorf("save food %s: %w", item.ID, err)
		}
	}

	return tx.Commit()
}

func (s *Store) LoadGoals(ctx context.Context) (map[string]float64, error) {
	rows := []struct {
		Name  string  `db:"name"`
		Value float64 `db:"value"`
	}{}

	err := s.db.SelectContext(ctx, &rows, `SELECT name, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("load goals: %w", err)
	}
	if len(rows) == 0 {
		return nil, store.ErrNoData
	}

	out := make(map[string]float64, len(rows))
	for _, r := range rows {
		out[r.Name] = r.Value
	}
	return out, nil
}

func (s *Store) SaveGoal(ctx context.Context, name string, value float64) error {
	query := `INSERT INTO settings (name, value, updated_at)
	          VALUES ($1, $2, $3)
	          ON CONFLICT (name) DO UPDATE SET
	              value = EXCLUDED.value,
	              updated_at = EXCLUDED.updated_at`

	_, err := s.db.ExecContext(ctx, query, name, value, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("save goal %s: %w", name, err)
	}
	return nil
}
