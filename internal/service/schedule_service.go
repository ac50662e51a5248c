package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/pkg/config"
)

// ScheduleService resolves a wall-clock time to the active class period.
// Windows are held sorted by ascending canonical period, which makes the
// first-match rule deterministic: a boundary instant shared by two windows
// always resolves to the lower-numbered period.
type ScheduleService struct {
	windows []models.ScheduleWindow
}

// NewScheduleService parses and orders the configured window table. A
// malformed table is a startup error, not a runtime fallback.
func NewScheduleService(raw []config.Window) (*ScheduleService, error) {
	windows := make([]models.ScheduleWindow, 0, len(raw))
	for _, w := range raw {
		period, err := models.ParsePeriod(w.Period)
		if err != nil {
			return nil, fmt.Errorf("schedule window: %w", err)
		}
		start, err := models.ParseClockTime(w.Start)
		if err != nil {
			return nil, fmt.Errorf("schedule window %s: %w", period, err)
		}
		end, err := models.ParseClockTime(w.End)
		if err != nil {
			return nil, fmt.Errorf("schedule window %s: %w", period, err)
		}
		if end < start {
			return nil, fmt.Errorf("schedule window %s: start %s after end %s", period, start, end)
		}
		windows = append(windows, models.ScheduleWindow{Period: period, Start: start, End: end})
	}

	sort.Slice(windows, func(i, j int) bool { return windows[i].Period < windows[j].Period })

	return &ScheduleService{windows: windows}, nil
}

// CurrentPeriod returns the first window containing the time of day, in
// ascending period order. Both window bounds are inclusive.
func (s *ScheduleService) CurrentPeriod(at time.Time) (models.Period, bool) {
	clock := models.ClockTimeOf(at)
	for _, w := range s.windows {
		if w.Contains(clock) {
			return w.Period, true
		}
	}
	return 0, false
}

// Windows exposes the ordered table for display.
func (s *ScheduleService) Windows() []models.ScheduleWindow {
	out := make([]models.ScheduleWindow, len(s.windows))
	copy(out, s.windows)
	return out
}
