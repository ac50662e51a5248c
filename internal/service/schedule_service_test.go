package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/pkg/config"
)

func clock(t *testing.T, hour, min, sec int) time.Time {
	t.Helper()
	return time.Date(2026, time.March, 2, hour, min, sec, 0, time.UTC)
}

func TestScheduleServiceCurrentPeriod(t *testing.T) {
	schedule, err := NewScheduleService([]config.Window{
		{Period: "1", Start: "08:33", End: "09:15"},
		{Period: "2", Start: "09:18", End: "10:00"},
		{Period: "4.5", Start: "10:48", End: "11:30"},
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		at     time.Time
		period string
		active bool
	}{
		{"inside first window", clock(t, 8, 40, 0), "1", true},
		{"start bound inclusive", clock(t, 8, 33, 0), "1", true},
		{"end bound inclusive", clock(t, 9, 15, 0), "1", true},
		{"gap between windows", clock(t, 9, 16, 30), "", false},
		{"fractional period label", clock(t, 11, 0, 0), "4.5", true},
		{"before the school day", clock(t, 6, 0, 0), "", false},
		{"after the last window", clock(t, 15, 0, 0), "", false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			period, active := schedule.CurrentPeriod(tc.at)
			assert.Equal(t, tc.active, active)
			if tc.active {
				assert.Equal(t, tc.period, period.String())
			}
		})
	}
}

func TestScheduleServiceSharedBoundaryPicksLowerPeriod(t *testing.T) {
	// Windows listed out of order and touching at 09:15: lookup still runs
	// in ascending period order, so the boundary instant belongs to 1.
	schedule, err := NewScheduleService([]config.Window{
		{Period: "2", Start: "09:15", End: "10:00"},
		{Period: "1", Start: "08:33", End: "09:15"},
	})
	require.NoError(t, err)

	period, active := schedule.CurrentPeriod(clock(t, 9, 15, 0))
	require.True(t, active)
	assert.Equal(t, models.Period(10), period)
}

func TestScheduleServiceRejectsMalformedTable(t *testing.T) {
	tests := []struct {
		name   string
		window config.Window
	}{
		{"bad period label", config.Window{Period: "x", Start: "08:00", End: "09:00"}},
		{"bad start time", config.Window{Period: "1", Start: "8am", End: "09:00"}},
		{"bad end time", config.Window{Period: "1", Start: "08:00", End: "25:00"}},
		{"start after end", config.Window{Period: "1", Start: "10:00", End: "09:00"}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewScheduleService([]config.Window{tc.window})
			assert.Error(t, err)
		})
	}
}

func TestScheduleServiceWindowsOrdered(t *testing.T) {
	schedule, err := NewScheduleService([]config.Window{
		{Period: "10", Start: "13:33", End: "14:15"},
		{Period: "1", Start: "08:33", End: "09:15"},
		{Period: "4.5", Start: "10:48", End: "11:30"},
	})
	require.NoError(t, err)

	windows := schedule.Windows()
	require.Len(t, windows, 3)
	assert.Equal(t, models.Period(10), windows[0].Period)
	assert.Equal(t, models.Period(45), windows[1].Period)
	assert.Equal(t, models.Period(100), windows[2].Period)
}
