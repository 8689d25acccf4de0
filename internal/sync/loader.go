package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/macrolog/macrolog/internal/store"
)

// Loader reconciles local state with the remote store on navigation.
// Remote is authoritative on a date switch: optimistic local state
// never survives it.
type Loader struct {
	store store.Store
}

func NewLoader(st store.Store) *Loader {
	return &Loader{store: st}
}

// LoadInto fetches the remote record for the log's date and replaces
// the local set with it. No remote record clears the log. A load
// failure also clears the log and is reported, but the caller treats it
// as non-fatal: the user keeps working against empty local state and
// the next mutation re-syncs.
func (l *Loader) LoadInto(ctx context.Context, log *DayLog) error {
	rec, err := l.store.LoadDay(ctx, log.Date())
	if errors.Is(err, store.ErrNoData) {
		log.ReplaceAll(nil)
		return nil
	}
	if err != nil {
		slog.Warn("day load failed, starting empty", "date", log.Date(), "error", err)
		log.ReplaceAll(nil)
		return fmt.Errorf("load day %s: %w", log.Date(), err)
	}

	log.ReplaceAll(rec.Entries)
	return nil
}
