package models

// ScheduleWindow binds a period to its start and end time of day. Both
// bounds are inclusive. The configured table is authoritative: windows are
// not validated for gaps or overlaps, and lookup order is the ascending
// canonical period order.
type ScheduleWindow struct {
	Period Period    `json:"period"`
	Start  ClockTime `json:"start"`
	End    ClockTime `json:"end"`
}

// Contains reports whether the time of day falls inside the window.
func (w ScheduleWindow) Contains(at ClockTime) bool {
	return w.Start <= at && at <= w.End
}
