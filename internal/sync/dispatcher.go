package sync

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	stdsync "sync"
	"time"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

// DefaultDebounce is the quiet window before a coalesced write fires.
const DefaultDebounce = 750 * time.Millisecond

// Notifier receives non-blocking sync failure notices for the user.
type Notifier interface {
	SyncFailed(date string, err error)
}

// Dispatcher coalesces rapid mutations into one full-replace write per
// date. Each date has its own timer and fingerprint state; a pending
// write for a previous date survives navigation and completes on its
// own. Writes are tagged with a per-date sequence number so a stale
// acknowledgement can never overwrite the fingerprint of a newer one.
type Dispatcher struct {
	store    store.Store
	delay    time.Duration
	timeout  time.Duration
	notifier Notifier

	mu       stdsync.Mutex
	days     map[string]*dayState
	inflight stdsync.WaitGroup
}

type dayState struct {
	timer *time.Timer

	// latest coalesced state, not yet acknowledged
	pending   model.DayRecord
	pendingFP string

	// fingerprint of the last acknowledged write and its sequence
	ackedFP  string
	ackedSeq uint64
	nextSeq  uint64
}

// NewDispatcher builds a dispatcher writing through st. A nil notifier
// is allowed; failures are then only logged.
func NewDispatcher(st store.Store, delay time.Duration, notifier Notifier) *Dispatcher {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Dispatcher{
		store:    st,
		delay:    delay,
		timeout:  15 * time.Second,
		notifier: notifier,
		days:     make(map[string]*dayState),
	}
}

// Observe wires the dispatcher to a day log. Adds schedule a debounced
// write; removes flush immediately so a deleted entry cannot reappear
// after a crash; replaces come from the remote store and only seed the
// fingerprint.
func (d *Dispatcher) Observe(log *DayLog, totals func([]model.LogEntry) model.MacroTotals) {
	log.Subscribe(func(m Mutation) {
		rec := model.DayRecord{Date: m.Date, Entries: m.Entries, Totals: totals(m.Entries)}
		switch m.Kind {
		case MutationReplace:
			d.Seed(rec)
		case MutationRemove:
			d.Flush(rec)
		default:
			d.Schedule(rec)
		}
	})
}

// Schedule records rec as the state to transmit for its date and
// (re)starts the delay window. Intermediate states are never sent; only
// whatever is current when the window elapses goes out.
func (d *Dispatcher) Schedule(rec model.DayRecord) {
	fp := Fingerprint(rec)

	d.mu.Lock()
	st := d.day(rec.Date)
	if fp == st.ackedFP {
		// Nothing diverged; also drop any pending timer, it would only
		// retransmit what the remote already has.
		st.stopTimer()
		st.pendingFP = ""
		d.mu.Unlock()
		return
	}

	st.pending = rec
	st.pendingFP = fp
	st.stopTimer()
	date := rec.Date
	st.timer = time.AfterFunc(d.delay, func() { d.dispatch(date) })
	d.mu.Unlock()
}

// Flush records rec and dispatches without waiting for the window.
// Used for deletes, which favor immediacy over batching.
func (d *Dispatcher) Flush(rec model.DayRecord) {
	d.mu.Lock()
	st := d.day(rec.Date)
	st.pending = rec
	st.pendingFP = Fingerprint(rec)
	d.mu.Unlock()

	d.dispatch(rec.Date)
}

// Seed marks rec as already in sync with the remote store, so a
// follow-up mutation diffs against it instead of rewriting it.
func (d *Dispatcher) Seed(rec model.DayRecord) {
	d.mu.Lock()
	st := d.day(rec.Date)
	st.stopTimer()
	st.pendingFP = ""
	st.ackedFP = Fingerprint(rec)
	d.mu.Unlock()
}

// FlushPending dispatches any divergent pending state for date and
// waits for in-flight writes to settle. Called before a reconciliation
// reload so navigating back to a date inside its debounce window cannot
// drop the pending write or read stale remote state.
func (d *Dispatcher) FlushPending(date string) {
	d.mu.Lock()
	st := d.day(date)
	hasPending := st.pendingFP != "" && st.pendingFP != st.ackedFP
	d.mu.Unlock()

	if hasPending {
		d.dispatch(date)
	}
	d.inflight.Wait()
}

// Wait blocks until all in-flight writes have completed. Used on
// shutdown and by tests.
func (d *Dispatcher) Wait() {
	d.inflight.Wait()
}

func (d *Dispatcher) dispatch(date string) {
	d.mu.Lock()
	st := d.day(date)
	st.stopTimer()
	if st.pendingFP == "" || st.pendingFP == st.ackedFP {
		d.mu.Unlock()
		return
	}
	rec := st.pending
	fp := st.pendingFP
	st.nextSeq++
	seq := st.nextSeq
	d.mu.Unlock()

	d.inflight.Add(1)
	go func() {
		defer d.inflight.Done()
		d.write(date, rec, fp, seq)
	}()
}

func (d *Dispatcher) write(date string, rec model.DayRecord, fp string, seq uint64) {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	err := d.store.SaveDay(ctx, rec)
	if err != nil {
		// No rollback and no retry queue: local state stays the working
		// truth and the next mutation's write carries the current state.
		slog.Error("day sync failed", "date", date, "seq", seq, "error", err)
		if d.notifier != nil {
			d.notifier.SyncFailed(date, err)
		}
		return
	}

	d.mu.Lock()
	st := d.day(date)
	if seq > st.ackedSeq {
		st.ackedSeq = seq
		st.ackedFP = fp
	}
	d.mu.Unlock()

	slog.Debug("day synced", "date", date, "seq", seq, "entries", len(rec.Entries))
}

func (d *Dispatcher) day(date string) *dayState {
	st, ok := d.days[date]
	if !ok {
		st = &dayState{}
		d.days[date] = st
	}
	return st
}

func (st *dayState) stopTimer() {
	if st.timer != nil {
		st.timer.Stop()
		st.timer = nil
	}
}

// Fingerprint derives a stable content hash of a day record's entries
// and totals, used to detect "nothing changed".
func Fingerprint(rec model.DayRecord) string {
	entries := rec.Entries
	if entries == nil {
		entries = []model.LogEntry{}
	}
	raw, _ := json.Marshal(struct {
		Entries []model.LogEntry  `json:"entries"`
		Totals  model.MacroTotals `json:"totals"`
	}{entries, rec.Totals})

	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
