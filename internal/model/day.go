package model

import "time"

// DayKeyLayout is the wire format for calendar dates.
const DayKeyLayout = "2006-01-02"

// DayKey returns the calendar date an instant falls on in the canonical
// timezone. Every day-bucketing decision in the app goes through here so
// entries cannot straddle midnight differently in different code paths.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DayKeyLayout)
}

// ValidDayKey reports whether s is a well-formed YYYY-MM-DD date.
func ValidDayKey(s string) bool {
	_, err := time.Parse(DayKeyLayout, s)
	return err == nil
}

// MacroTotals is a plain sum of macro fields.
type MacroTotals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
}

// DailyAggregate is derived from a day's entry set and the current
// goals. It is never stored independently.
type DailyAggregate struct {
	MacroTotals
	CalorieGoalPercent float64 `json:"calorieGoalPercent"`
	OverGoal           bool    `json:"overGoal"`
	EntryCount         int     `json:"entryCount"`
}

// DayRecord is the unit of exchange with the remote store: one date's
// full entry set plus its totals.
type DayRecord struct {
	Date    string      `json:"date"`
	Entries []LogEntry  `json:"entries"`
	Totals  MacroTotals `json:"totals"`
}
