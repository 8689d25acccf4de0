// Package store defines the remote persistence contract the sync layer
// is written against. Backends are interchangeable: a spreadsheet
// script endpoint, a SQL database, or an in-memory fake.
package store

import (
	"context"
	"errors"

	"github.com/macrolog/macrolog/internal/model"
)

// ErrNoData reports that the store holds no record for the requested
// key. It is distinct from an empty record: a day that was saved with
// zero entries loads as an empty DayRecord, not as ErrNoData.
var ErrNoData = errors.New("store: no data")

// Store is the remote persistence port. Day and catalog writes are
// full-replace: retried writes must be idempotent and never produce
// duplicate rows for the same (date, entry id) key.
type Store interface {
	// LoadDay returns the stored record for date, or ErrNoData.
	LoadDay(ctx context.Context, date string) (model.DayRecord, error)

	// SaveDay replaces the entire record for rec.Date.
	SaveDay(ctx context.Context, rec model.DayRecord) error

	// LoadCatalog returns all catalog foods.
	LoadCatalog(ctx context.Context) ([]model.FoodItem, error)

	// SaveCatalog replaces the entire food catalog.
	SaveCatalog(ctx context.Context, items []model.FoodItem) error

	// LoadGoals returns the stored goal settings keyed by name, or
	// ErrNoData when nothing has been saved yet.
	LoadGoals(ctx context.Context) (map[string]float64, error)

	// SaveGoal updates a single goal setting.
	SaveGoal(ctx context.Context, name string, value float64) error
}
