package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macrolog/macrolog/internal/model"
	"github.com/macrolog/macrolog/internal/service"
)

func TestGetDay(t *testing.T) {
	mux, mem := newTestMux(t)

	require.NoError(t, mem.SaveDay(context.Background(), model.DayRecord{
		Date:    "2026-03-14",
		Entries: []model.LogEntry{{ID: "e1", FoodName: "Toast", Quantity: 1, Calories: 120}},
		Totals:  model.MacroTotals{Calories: 120},
	}))

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/day/2026-03-14", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var view service.DayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "2026-03-14", view.Date)
	require.Len(t, view.Entries, 1)
	assert.Equal(t, "Toast", view.Entries[0].FoodName)
	assert.Equal(t, 120.0, view.Aggregate.Calories)
}

func TestGetDayInvalidDate(t *testing.T) {
	mux, _ := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/day/tomorrow", nil))

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestAddEntry(t *testing.T) {
	mux, _ := newTestMux(t)

	body := `{"name":"Rice","calories":205,"carbs":45,"quantity":2}`
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/day/2026-03-14/entries", strings.NewReader(body)))

	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Entry model.LogEntry  `json:"entry"`
		Day   service.DayView `json:"day"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	assert.NotEmpty(t, resp.Entry.ID)
	assert.Equal(t, 410.0, resp.Entry.Calories)
	assert.Equal(t, 90.0, resp.Entry.Carbs)
	assert.Equal(t, 1, resp.Day.Aggregate.EntryCount)
}

func TestAddEntryValidationErrors(t *testing.T) {
	mux, _ := newTestMux(t)

	tests := []struct {
		name string
		body string
		code int
	}{
		{"zero quantity", `{"name":"Rice","calories":205,"quantity":0}`, http.StatusBadRequest},
		{"empty name", `{"name":"","quantity":1}`, http.StatusBadRequest},
		{"unknown food id", `{"foodId":"missing","quantity":1}`, http.StatusNotFound},
		{"bad json", `{`, http.StatusBadRequest},
		{"unknown field", `{"nope":1,"quantity":1}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/day/2026-03-14/entries", strings.NewReader(tt.body)))
			assert.Equal(t, tt.code, rr.Code)
		})
	}
}

func TestDeleteEntry(t *testing.T) {
	mux, _ := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/day/2026-03-14/entries",
		strings.NewReader(`{"name":"Rice","calories":205,"quantity":1}`)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var resp struct {
		Entry model.LogEntry `json:"entry"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	rr = httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/day/2026-03-14/entries/"+resp.Entry.ID, nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var view service.DayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Empty(t, view.Entries)
}

func TestDeleteEntryUnknownIDIsOK(t *testing.T) {
	mux, _ := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/api/day/2026-03-14/entries/ghost", nil))

	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestToday(t *testing.T) {
	mux, _ := newTestMux(t)

	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/today", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	var view service.DayView
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.True(t, model.ValidDayKey(view.Date))
}
