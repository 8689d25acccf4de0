package service

import (
	"context"
	"errors"
	"time"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

// DayPoint is one data point in the trends view.
type DayPoint struct {
	Date       string            `json:"date"`
	Totals     model.MacroTotals `json:"totals"`
	EntryCount int               `json:"entryCount"`
}

// HistoryService serves per-day totals for trend charts.
type HistoryService struct {
	store store.Store
	loc   *time.Location
}

func NewHistoryService(st store.Store, loc *time.Location) *HistoryService {
	return &HistoryService{store: st, loc: loc}
}

// Range returns one point per day for the last days days, oldest
// first. Days without a remote record contribute zero totals.
func (s *HistoryService) Range(ctx context.Context, days int) ([]DayPoint, error) {
	if days < 1 {
		days = 1
	}
	if days > 366 {
		days = 366
	}

	today := time.Now().In(s.loc)
	points := make([]DayPoint, 0, days)

	for i := days - 1; i >= 0; i-- {
		date := model.DayKey(today.AddDate(0, 0, -i), s.loc)

		rec, err := s.store.LoadDay(ctx, date)
		if errors.Is(err, store.ErrNoData) {
			points = append(points, DayPoint{Date: date})
			continue
		}
		if err != nil {
			return nil, err
		}

		points = append(points, DayPoint{
			Date:       date,
			Totals:     rec.Totals,
			EntryCount: len(rec.Entries),
		})
	}
	return points, nil
}
