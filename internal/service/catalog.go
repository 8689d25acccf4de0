package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

var (
	ErrFoodNotFound  = errors.New("food not found")
	ErrFoodNameEmpty = errors.New("food name is required")
)

var titleCaser = cases.Title(language.English)

// CatalogService keeps an in-memory image of the food catalog and
// persists every mutation as a full-replace write, mirroring the day
// sync's duplicate-proof semantics.
type CatalogService struct {
	store store.Store

	mu    sync.Mutex
	items []model.FoodItem
}

func NewCatalogService(st store.Store) *CatalogService {
	return &CatalogService{store: st}
}

// Load pulls the catalog image from the store.
func (s *CatalogService) Load(ctx context.Context) error {
	items, err := s.store.LoadCatalog(ctx)
	if err != nil {
		return fmt.Errorf("load catalog: %w", err)
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Foods returns a copy of the catalog.
func (s *CatalogService) Foods() []model.FoodItem {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]model.FoodItem, len(s.items))
	copy(out, s.items)
	return out
}

// ByID looks up one food.
func (s *CatalogService) ByID(id string) (model.FoodItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.items {
		if item.ID == id {
			return item, nil
		}
	}
	return model.FoodItem{}, ErrFoodNotFound
}

// Create adds a food and persists the catalog.
func (s *CatalogService) Create(ctx context.Context, name string, calories, protein, carbs, fat float64) (model.FoodItem, error) {
	name = normalizeName(name)
	if name == "" {
		return model.FoodItem{}, ErrFoodNameEmpty
	}

	item := model.FoodItem{
		ID:       uuid.New().String(),
		Name:     name,
		Calories: calories,
		Protein:  protein,
		Carbs:    carbs,
		Fat:      fat,
	}

	s.mu.Lock()
	s.items = append(s.items, item)
	s.mu.Unlock()

	if err := s.persist(ctx); err != nil {
		return model.FoodItem{}, err
	}
	return item, nil
}

// Update edits a food in place. Logged entries keep the food name they
// were created with; history is never rewritten.
func (s *CatalogService) Update(ctx context.Context, item model.FoodItem) error {
	item.Name = normalizeName(item.Name)
	if item.Name == "" {
		return ErrFoodNameEmpty
	}

	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == item.ID {
			s.items[i] = item
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrFoodNotFound
	}
	return s.persist(ctx)
}

// Delete removes a food. Existing log entries referencing it are
// untouched; FoodID becomes a dangling weak reference, which is fine.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	found := false
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			found = true
			break
		}
	}
	s.mu.Unlock()

	if !found {
		return ErrFoodNotFound
	}
	return s.persist(ctx)
}

// ReplaceAll swaps the entire catalog, used by the seed command and the
// PUT /api/foods surface.
func (s *CatalogService) ReplaceAll(ctx context.Context, items []model.FoodItem) error {
	for i := range items {
		items[i].Name = normalizeName(items[i].Name)
		if items[i].Name == "" {
			return ErrFoodNameEmpty
		}
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	return s.persist(ctx)
}

func (s *CatalogService) persist(ctx context.Context) error {
	s.mu.Lock()
	items := make([]model.FoodItem, len(s.items))
	copy(items, s.items)
	s.mu.Unlock()

	if err := s.store.SaveCatalog(ctx, items); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}

func normalizeName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return ""
	}
	// Title-case all-lowercase input, leave deliberate casing alone
	if name == strings.ToLower(name) {
		return titleCaser.String(name)
	}
	return name
}
