// Package sync implements the daily aggregate synchronizer: the local
// log store, the pure aggregator, the debounced dispatcher that pushes
// coalesced full-replace writes to the remote store, and the
// reconciliation loader that pulls remote state on navigation.
package sync

import (
	stdsync "sync"

	"github.com/google/uuid"

	"github.com/macrolog/macrolog/internal/model"
)

// MutationKind tells listeners what changed so they can pick between
// batched and immediate sync behavior.
type MutationKind int

const (
	// MutationAdd is an optimistic local append.
	MutationAdd MutationKind = iota
	// MutationRemove is an explicit user delete.
	MutationRemove
	// MutationReplace is a wholesale swap from the reconciliation
	// loader; the new state already matches the remote store.
	MutationReplace
)

// Mutation is delivered synchronously to listeners on every change, in
// the same logical step as the mutation itself.
type Mutation struct {
	Date    string
	Kind    MutationKind
	Entries []model.LogEntry
}

// DayLog is the authoritative in-memory entry set for one calendar
// date. The UI renders from it; the dispatcher observes it.
type DayLog struct {
	mu        stdsync.Mutex
	date      string
	entries   []model.LogEntry
	listeners []func(Mutation)
}

// NewDayLog returns an empty log for the given date.
func NewDayLog(date string) *DayLog {
	return &DayLog{date: date}
}

// Date returns the calendar date this log belongs to.
func (l *DayLog) Date() string {
	return l.date
}

// Subscribe registers a listener invoked synchronously after every
// mutation. Must be called before the log is shared.
func (l *DayLog) Subscribe(fn func(Mutation)) {
	l.listeners = append(l.listeners, fn)
}

// Add appends the entry, generating an id if the caller did not supply
// one, and returns the stored entry.
func (l *DayLog) Add(entry model.LogEntry) model.LogEntry {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}

	l.mu.Lock()
	l.entries = append(l.entries, entry)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(Mutation{Date: l.date, Kind: MutationAdd, Entries: snapshot})
	return entry
}

// Remove deletes the entry with the given id. Removing an absent id is
// a no-op, not an error: deletes can race a reconciliation reload.
func (l *DayLog) Remove(id string) bool {
	l.mu.Lock()
	removed := false
	kept := l.entries[:0]
	for _, e := range l.entries {
		if e.ID == id {
			removed = true
			continue
		}
		kept = append(kept, e)
	}
	l.entries = kept
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	if !removed {
		return false
	}
	l.notify(Mutation{Date: l.date, Kind: MutationRemove, Entries: snapshot})
	return true
}

// ReplaceAll swaps the full entry set. Only the reconciliation loader
// calls this; there is no merge.
func (l *DayLog) ReplaceAll(entries []model.LogEntry) {
	l.mu.Lock()
	l.entries = make([]model.LogEntry, len(entries))
	copy(l.entries, entries)
	snapshot := l.snapshotLocked()
	l.mu.Unlock()

	l.notify(Mutation{Date: l.date, Kind: MutationReplace, Entries: snapshot})
}

// Entries returns a copy of the current entry set.
func (l *DayLog) Entries() []model.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.snapshotLocked()
}

func (l *DayLog) snapshotLocked() []model.LogEntry {
	out := make([]model.LogEntry, len(l.entries))
	copy(out, l.entries)
	return out
}

func (l *DayLog) notify(m Mutation) {
	for _, fn := range l.listeners {
		fn(m)
	}
}
