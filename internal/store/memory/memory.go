// Package memory provides an in-memory Store used by tests and as an
// ephemeral backend.
package memory

import (
	"context"
	"sync"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

// Store is a map-backed store.Store. Safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	days    map[string]model.DayRecord
	catalog []model.FoodItem
	goals   map[string]float64
}

// New returns an empty in-memory store.
func New() *Store {
	return &Store{
		days: make(map[string]model.DayRecord),
	}
}

func (s *Store) LoadDay(_ context.Context, date string) (model.DayRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.days[date]
	if !ok {
		return model.DayRecord{}, store.ErrNoData
	}
	return cloneDay(rec), nil
}

func (s *Store) SaveDay(_ context.Context, rec model.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.days[rec.Date] = cloneDay(rec)
	return nil
}

func (s *Store) LoadCatalog(_ context.Context) ([]model.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := make([]model.FoodItem, len(s.catalog))
	copy(items, s.catalog)
	return items, nil
}

func (s *Store) SaveCatalog(_ context.Context, items []model.FoodItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = make([]model.FoodItem, len(items))
	copy(s.catalog, items)
	return nil
}

func (s *Store) LoadGoals(_ context.Context) (map[string]float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.goals == nil {
		return nil, store.ErrNoData
	}
	out := make(map[string]float64, len(s.goals))
	for k, v := range s.goals {
		out[k] = v
	}
	return out, nil
}

func (s *Store) SaveGoal(_ context.Context, name string, value float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.goals == nil {
		s.goals = make(map[string]float64)
	}
	s.goals[name] = value
	return nil
}

func cloneDay(rec model.DayRecord) model.DayRecord {
	out := rec
	out.Entries = make([]model.LogEntry, len(rec.Entries))
	copy(out.Entries, rec.Entries)
	return out
}
