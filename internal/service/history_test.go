package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/store/memory"
)

func TestHistoryRange(t *testing.T) {
	mem := memory.New()
	ctx := context.Background()

	today := model.DayKey(time.Now(), time.UTC)
	yesterday := model.DayKey(time.Now().AddDate(0, 0, -1), time.UTC)

	require.NoError(t, mem.SaveDay(ctx, model.DayRecord{
		Date:    yesterday,
		Entries: []model.LogEntry{{ID: "e1"}, {ID: "e2"}},
		Totals:  model.MacroTotals{Calories: 1800},
	}))

	svc := NewHistoryService(mem, time.UTC)
	points, err := svc.Range(ctx, 3)
	require.NoError(t, err)
	require.Len(t, points, 3)

	// Oldest first; the day before yesterday has no record and reads
	// as zero.
	assert.Equal(t, 0.0, points[0].Totals.Calories)
	assert.Equal(t, 0, points[0].EntryCount)

	assert.Equal(t, yesterday, points[1].Date)
	assert.Equal(t, 1800.0, points[1].Totals.Calories)
	assert.Equal(t, 2, points[1].EntryCount)

	assert.Equal(t, today, points[2].Date)
}

func TestHistoryRangeClamped(t *testing.T) {
	svc := NewHistoryService(memory.New(), time.UTC)
	ctx := context.Background()

	points, err := svc.Range(ctx, 0)
	require.NoError(t, err)
	assert.Len(t, points, 1)

	points, err = svc.Range(ctx, 10000)
	require.NoError(t, err)
	assert.Len(t, points, 366)
}
