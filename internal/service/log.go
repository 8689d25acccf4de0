package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/macrolog/macrolog/internal/model"
	daysync "github.com/macrolog/macrolog/internal/sync"
)

var (
	ErrInvalidQuantity = errors.New("quantity must be a positive number")
	ErrInvalidDate     = errors.New("date must be YYYY-MM-DD")
)

// AlertSink receives non-blocking user notices.
type AlertSink interface {
	Push(date, message string)
}

// AddEntryInput describes one add action. Either FoodID references a
// catalog food, or Name plus per-unit macro values describe a custom
// food inline.
type AddEntryInput struct {
	FoodID   string  `json:"foodId"`
	Name     string  `json:"name"`
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Quantity float64 `json:"quantity"`
}

// DayView is what the UI renders for the open date.
type DayView struct {
	Date      string               `json:"date"`
	Entries   []model.LogEntry     `json:"entries"`
	Aggregate model.DailyAggregate `json:"aggregate"`
	Goals     model.MacroGoals     `json:"goals"`
}

// LogService owns the active day context: the local log store, its
// dispatcher wiring, and reconciliation on navigation.
type LogService struct {
	catalog *CatalogService
	goals   *GoalsService
	disp    *daysync.Dispatcher
	loader  *daysync.Loader
	loc     *time.Location
	alerts  AlertSink

	mu      sync.Mutex
	current *daysync.DayLog
}

func NewLogService(catalog *CatalogService, goals *GoalsService, disp *daysync.Dispatcher, loader *daysync.Loader, loc *time.Location, alerts AlertSink) *LogService {
	return &LogService{
		catalog: catalog,
		goals:   goals,
		disp:    disp,
		loader:  loader,
		loc:     loc,
		alerts:  alerts,
	}
}

// Today returns the current date key in the canonical timezone.
func (s *LogService) Today() string {
	return model.DayKey(time.Now(), s.loc)
}

// OpenDay switches the active date. Any divergent pending write for
// that date is flushed first, then remote state replaces local state
// wholesale. A failed load is non-fatal: the user continues against an
// empty day and the next mutation re-syncs.
func (s *LogService) OpenDay(ctx context.Context, date string) (DayView, error) {
	if !model.ValidDayKey(date) {
		return DayView{}, ErrInvalidDate
	}

	s.disp.FlushPending(date)

	log := daysync.NewDayLog(date)
	s.disp.Observe(log, s.totals)

	if err := s.loader.LoadInto(ctx, log); err != nil {
		slog.Warn("open day with empty state", "date", date, "error", err)
		if s.alerts != nil {
			s.alerts.Push(date, fmt.Sprintf("Could not load %s from the remote store; starting empty.", date))
		}
	}

	s.mu.Lock()
	s.current = log
	s.mu.Unlock()

	return s.view(log), nil
}

// AddEntry validates and appends an entry to the given date's log,
// opening that date first if it is not the active one. The entry's
// macro values are scaled and frozen here; the dispatcher picks up the
// mutation and schedules a debounced sync.
func (s *LogService) AddEntry(ctx context.Context, date string, in AddEntryInput) (model.LogEntry, error) {
	if in.Quantity <= 0 {
		return model.LogEntry{}, ErrInvalidQuantity
	}

	var food model.FoodItem
	if in.FoodID != "" {
		var err error
		food, err = s.catalog.ByID(in.FoodID)
		if err != nil {
			return model.LogEntry{}, err
		}
	} else {
		name := normalizeName(in.Name)
		if name == "" {
			return model.LogEntry{}, ErrFoodNameEmpty
		}
		food = model.FoodItem{
			Name:     name,
			Calories: in.Calories,
			Protein:  in.Protein,
			Carbs:    in.Carbs,
			Fat:      in.Fat,
		}
	}

	log, err := s.ensureOpen(ctx, date)
	if err != nil {
		return model.LogEntry{}, err
	}

	entry := model.NewLogEntry(uuid.New().String(), food, in.Quantity, time.Now().In(s.loc))
	return log.Add(entry), nil
}

// DeleteEntry removes an entry. The dispatcher writes immediately for
// deletes; a missing id is a no-op because deletes can race a reload.
func (s *LogService) DeleteEntry(ctx context.Context, date, id string) error {
	log, err := s.ensureOpen(ctx, date)
	if err != nil {
		return err
	}

	log.Remove(id)
	return nil
}

// Day returns the view for date, opening it if needed.
func (s *LogService) Day(ctx context.Context, date string) (DayView, error) {
	log, err := s.ensureOpen(ctx, date)
	if err != nil {
		return DayView{}, err
	}
	return s.view(log), nil
}

// Wait blocks until in-flight syncs finish. Called on shutdown.
func (s *LogService) Wait() {
	s.disp.Wait()
}

func (s *LogService) ensureOpen(ctx context.Context, date string) (*daysync.DayLog, error) {
	s.mu.Lock()
	log := s.current
	s.mu.Unlock()

	if log != nil && log.Date() == date {
		return log, nil
	}

	if _, err := s.OpenDay(ctx, date); err != nil {
		return nil, err
	}

	s.mu.Lock()
	log = s.current
	s.mu.Unlock()
	return log, nil
}

func (s *LogService) view(log *daysync.DayLog) DayView {
	entries := log.Entries()
	goals := s.goals.Goals()
	return DayView{
		Date:      log.Date(),
		Entries:   entries,
		Aggregate: daysync.Aggregate(entries, goals),
		Goals:     goals,
	}
}

func (s *LogService) totals(entries []model.LogEntry) model.MacroTotals {
	return daysync.Aggregate(entries, s.goals.Goals()).MacroTotals
}
