package sync

import (
	"context"
	"errors"
	stdsync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store"
)

// fakeStore records SaveDay calls and can be told to fail.
type fakeStore struct {
	mu    stdsync.Mutex
	saves []model.DayRecord
	fail  error
}

func (s *fakeStore) SaveDay(_ context.Context, rec model.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return s.fail
	}
	s.saves = append(s.saves, rec)
	return nil
}

func (s *fakeStore) saved() []model.DayRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.DayRecord, len(s.saves))
	copy(out, s.saves)
	return out
}

func (s *fakeStore) setFail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

func (s *fakeStore) LoadDay(context.Context, string) (model.DayRecord, error) {
	return model.DayRecord{}, store.ErrNoData
}
func (s *fakeStore) LoadCatalog(context.Context) ([]model.FoodItem, error) { return nil, nil }
func (s *fakeStore) SaveCatalog(context.Context, []model.FoodItem) error   { return nil }
func (s *fakeStore) LoadGoals(context.Context) (map[string]float64, error) {
	return nil, store.ErrNoData
}
func (s *fakeStore) SaveGoal(context.Context, string, float64) error { return nil }

type fakeNotifier struct {
	mu    stdsync.Mutex
	dates []string
}

func (n *fakeNotifier) SyncFailed(date string, _ error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dates = append(n.dates, date)
}

func (n *fakeNotifier) failed() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.dates...)
}

func rec(date string, names ...string) model.DayRecord {
	entries := make([]model.LogEntry, len(names))
	for i, name := range names {
		entries[i] = model.LogEntry{ID: name, FoodName: name, Quantity: 1, Calories: 100}
	}
	return model.DayRecord{
		Date:    date,
		Entries: entries,
		Totals:  model.MacroTotals{Calories: float64(100 * len(names))},
	}
}

func TestDispatcherCoalesces(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, 20*time.Millisecond, nil)

	// Three rapid edits inside one window must produce one write
	// carrying only the final state.
	d.Schedule(rec("2026-03-14", "a"))
	d.Schedule(rec("2026-03-14", "a", "b"))
	d.Schedule(rec("2026-03-14", "a", "b", "c"))

	time.Sleep(100 * time.Millisecond)
	d.Wait()

	saves := st.saved()
	require.Len(t, saves, 1)
	assert.Len(t, saves[0].Entries, 3)
	assert.Equal(t, 300.0, saves[0].Totals.Calories)
}

func TestDispatcherSkipsUnchangedState(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, 20*time.Millisecond, nil)

	day := rec("2026-03-14", "a")
	d.Seed(day)

	// Add-then-delete lands back on the synced state before the window
	// elapses; nothing should go out.
	d.Schedule(rec("2026-03-14", "a", "b"))
	d.Schedule(day)

	time.Sleep(100 * time.Millisecond)
	d.Wait()

	assert.Empty(t, st.saved())
}

func TestDispatcherFlushIsImmediate(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, time.Hour, nil)

	d.Flush(rec("2026-03-14", "a"))
	d.Wait()

	saves := st.saved()
	require.Len(t, saves, 1)
	assert.Len(t, saves[0].Entries, 1)
}

func TestDispatcherFlushCancelsPendingTimer(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, 20*time.Millisecond, nil)

	d.Schedule(rec("2026-03-14", "a", "b"))
	d.Flush(rec("2026-03-14", "a"))
	d.Wait()

	time.Sleep(100 * time.Millisecond)
	d.Wait()

	// The flush write is the only one; the debounce timer must not fire
	// a second, stale write afterwards.
	saves := st.saved()
	require.Len(t, saves, 1)
	assert.Len(t, saves[0].Entries, 1)
}

func TestDispatcherIndependentDates(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, 20*time.Millisecond, nil)

	d.Schedule(rec("2026-03-14", "a"))
	d.Schedule(rec("2026-03-15", "b"))

	time.Sleep(100 * time.Millisecond)
	d.Wait()

	saves := st.saved()
	require.Len(t, saves, 2)
	dates := map[string]bool{saves[0].Date: true, saves[1].Date: true}
	assert.True(t, dates["2026-03-14"])
	assert.True(t, dates["2026-03-15"])
}

func TestDispatcherWritesEmptyDay(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, time.Hour, nil)

	// Deleting the last entry must write the empty set, not skip it,
	// or the remote store would resurrect the entry on the next load.
	d.Seed(rec("2026-03-14", "a"))
	d.Flush(rec("2026-03-14"))
	d.Wait()

	saves := st.saved()
	require.Len(t, saves, 1)
	assert.Empty(t, saves[0].Entries)
	assert.Equal(t, 0.0, saves[0].Totals.Calories)
}

func TestDispatcherFailureKeepsRetrying(t *testing.T) {
	st := &fakeStore{}
	st.setFail(errors.New("endpoint unreachable"))
	notifier := &fakeNotifier{}
	d := NewDispatcher(st, time.Hour, notifier)

	day := rec("2026-03-14", "a")
	d.Flush(day)
	d.Wait()

	require.Equal(t, []string{"2026-03-14"}, notifier.failed())
	assert.Empty(t, st.saved())

	// The failed state was never acknowledged, so the next dispatch for
	// the same content goes out again once the store recovers.
	st.setFail(nil)
	d.Flush(day)
	d.Wait()

	require.Len(t, st.saved(), 1)
}

func TestDispatcherStaleAckIgnored(t *testing.T) {
	gates := make(chan chan struct{}, 2)
	st := &gatedStore{gates: gates}
	d := NewDispatcher(st, time.Hour, nil)

	first := rec("2026-03-14", "a")
	second := rec("2026-03-14", "a", "b")

	d.Flush(first)
	gateFirst := <-gates

	d.Flush(second)
	gateSecond := <-gates

	// Complete the newer write before the older one.
	close(gateSecond)
	time.Sleep(20 * time.Millisecond)
	close(gateFirst)
	d.Wait()

	// The fingerprint on record must be the second write's, so
	// re-scheduling that state is a no-op...
	d.Schedule(second)
	d.Wait()
	assert.Len(t, st.saved(), 2)

	// ...while the first state counts as divergent and goes out again.
	d.Flush(first)
	for gate := range gates {
		close(gate)
		break
	}
	d.Wait()
	assert.Len(t, st.saved(), 3)
}

type gatedStore struct {
	fakeStore
	gates chan chan struct{}
}

func (s *gatedStore) SaveDay(ctx context.Context, rec model.DayRecord) error {
	release := make(chan struct{})
	s.gates <- release
	<-release
	return s.fakeStore.SaveDay(ctx, rec)
}

func TestDispatcherFlushPending(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, time.Hour, nil)

	// A pending write sitting in a long window is forced out before a
	// reconciliation reload.
	d.Schedule(rec("2026-03-14", "a"))
	d.FlushPending("2026-03-14")

	require.Len(t, st.saved(), 1)

	// Nothing pending: no extra write.
	d.FlushPending("2026-03-14")
	assert.Len(t, st.saved(), 1)
}

func TestDispatcherObserve(t *testing.T) {
	st := &fakeStore{}
	d := NewDispatcher(st, 20*time.Millisecond, nil)

	log := NewDayLog("2026-03-14")
	totals := func(entries []model.LogEntry) model.MacroTotals {
		return Aggregate(entries, model.DefaultGoals).MacroTotals
	}
	d.Observe(log, totals)

	// A reload seeds the fingerprint without writing anything back.
	log.ReplaceAll([]model.LogEntry{{ID: "r1", FoodName: "Toast", Quantity: 1, Calories: 120}})
	time.Sleep(100 * time.Millisecond)
	d.Wait()
	assert.Empty(t, st.saved())

	// An add goes out debounced.
	log.Add(model.LogEntry{FoodName: "Coffee", Quantity: 1, Calories: 5})
	time.Sleep(100 * time.Millisecond)
	d.Wait()
	require.Len(t, st.saved(), 1)
	assert.Len(t, st.saved()[0].Entries, 2)

	// A remove flushes immediately, no window.
	log.Remove("r1")
	d.Wait()
	require.Len(t, st.saved(), 2)
	assert.Len(t, st.saved()[1].Entries, 1)
}

func TestFingerprintStable(t *testing.T) {
	a := rec("2026-03-14", "a", "b")
	b := rec("2026-03-14", "a", "b")

	assert.Equal(t, Fingerprint(a), Fingerprint(b))
	assert.NotEqual(t, Fingerprint(a), Fingerprint(rec("2026-03-14", "a")))

	// nil and empty entry sets hash the same; both mean "no entries".
	assert.Equal(t,
		Fingerprint(model.DayRecord{Date: "2026-03-14"}),
		Fingerprint(model.DayRecord{Date: "2026-03-14", Entries: []model.LogEntry{}}),
	)
}
