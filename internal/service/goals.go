package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

var ErrInvalidGoal = errors.New("goal values must not be negative")

// GoalsService holds the macro targets. Loaded once at startup, edited
// wholesale, each changed field pushed to the remote store right away.
type GoalsService struct {
	store store.Store

	mu    sync.Mutex
	goals model.MacroGoals
}

func NewGoalsService(st store.Store) *GoalsService {
	return &GoalsService{store: st, goals: model.DefaultGoals}
}

// Load pulls stored goals, falling back to defaults when the store has
// none yet.
func (s *GoalsService) Load(ctx context.Context) error {
	m, err := s.store.LoadGoals(ctx)
	if errors.Is(err, store.ErrNoData) {
		slog.Info("no stored goals, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("load goals: %w", err)
	}

	s.mu.Lock()
	s.goals = model.GoalsFromMap(m)
	s.mu.Unlock()
	return nil
}

// Goals returns the current targets.
func (s *GoalsService) Goals() model.MacroGoals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.goals
}

// Update replaces the targets and pushes each changed field. A partial
// push failure keeps the local value; the error reports the first
// field that failed.
func (s *GoalsService) Update(ctx context.Context, goals model.MacroGoals) error {
	if goals.Calories < 0 || goals.Protein < 0 || goals.Carbs < 0 || goals.Fat < 0 {
		return ErrInvalidGoal
	}

	s.mu.Lock()
	prev := s.goals
	s.goals = goals
	s.mu.Unlock()

	for name, value := range goals.AsMap() {
		if prev.AsMap()[name] == value {
			continue
		}
		if err := s.store.SaveGoal(ctx, name, value); err != nil {
			return fmt.Errorf("save goal %s: %w", name, err)
		}
	}
	return nil
}
