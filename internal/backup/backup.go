// Package backup writes point-in-time JSON snapshots of everything the
// remote store holds to S3-compatible storage.
package backup

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/service"
	"github.com/macrolog/macrolog/internal/storage"
	"github.com/macrolog/macrolog/internal/store"
)

// Snapshot is the backup file layout.
type Snapshot struct {
	TakenAt time.Time          `json:"takenAt"`
	Days    []model.DayRecord  `json:"days"`
	Catalog []model.FoodItem   `json:"catalog"`
	Goals   map[string]float64 `json:"goals"`
}

// Service assembles and uploads snapshots.
type Service struct {
	store   store.Store
	history *service.HistoryService
	target  storage.Storage
	loc     *time.Location
}

func New(st store.Store, history *service.HistoryService, target storage.Storage, loc *time.Location) *Service {
	return &Service{store: st, history: history, target: target, loc: loc}
}

// Run collects up to days of history plus catalog and goals and
// uploads one JSON object. Returns the object URL.
func (s *Service) Run(ctx context.Context, days int) (string, error) {
	if s.target == nil {
		return "", errors.New("backup storage is not configured")
	}

	snap := Snapshot{TakenAt: time.Now().UTC()}

	points, err := s.history.Range(ctx, days)
	if err != nil {
		return "", fmt.Errorf("collect history: %w", err)
	}
	for _, p := range points {
		if p.EntryCount == 0 && p.Totals == (model.MacroTotals{}) {
			continue
		}
		rec, err := s.store.LoadDay(ctx, p.Date)
		if errors.Is(err, store.ErrNoData) {
			continue
		}
		if err != nil {
			return "", fmt.Errorf("collect day %s: %w", p.Date, err)
		}
		snap.Days = append(snap.Days, rec)
	}

	snap.Catalog, err = s.store.LoadCatalog(ctx)
	if err != nil {
		return "", fmt.Errorf("collect catalog: %w", err)
	}

	snap.Goals, err = s.store.LoadGoals(ctx)
	if err != nil && !errors.Is(err, store.ErrNoData) {
		return "", fmt.Errorf("collect goals: %w", err)
	}

	raw, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode snapshot: %w", err)
	}

	key := fmt.Sprintf("backups/macrolog-%s.json", snap.TakenAt.Format("20060102-150405"))
	if err := s.target.Save(ctx, key, bytes.NewReader(raw)); err != nil {
		return "", err
	}

	slog.Info("backup uploaded", "key", key, "days", len(snap.Days), "foods", len(snap.Catalog))
	return s.target.URL(key), nil
}
