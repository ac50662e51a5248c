package models

// SlotStatus enumerates pass slot states.
type SlotStatus string

const (
	SlotOpen  SlotStatus = "open"
	SlotInUse SlotStatus = "in use"
)

// PassSlot is one physical hall pass. A fixed small set of slots exists for
// the process lifetime; claiming flips a slot to InUse, releasing resets it
// to Open with holder, claim time, and note cleared. The slot table is
// mutated only by the registry, under its lock.
type PassSlot struct {
	ID        string     `json:"id"`
	Status    SlotStatus `json:"status"`
	HolderID  *int64     `json:"holder_id,omitempty"`
	ClaimedAt *ClockTime `json:"claimed_at,omitempty"`
	Note      string     `json:"note,omitempty"`
}

// InUseBy reports whether the slot is currently held by the given student.
func (s *PassSlot) InUseBy(studentID int64) bool {
	return s.Status == SlotInUse && s.HolderID != nil && *s.HolderID == studentID
}

// Reset returns the slot to the open state.
func (s *PassSlot) Reset() {
	s.Status = SlotOpen
	s.HolderID = nil
	s.ClaimedAt = nil
	s.Note = ""
}

// PassEvent is an immutable record of one completed claim-to-release round
// trip. Field names mirror the legacy pass log so existing files load
// unchanged.
type PassEvent struct {
	Date         string    `json:"Date"`
	DayOfWeek    string    `json:"DayOfWeek"`
	Period       Period    `json:"Period"`
	CheckoutTime ClockTime `json:"CheckoutTime"`
	CheckinTime  ClockTime `json:"CheckinTime"`
	TotalSeconds int       `json:"TotalPassTime"`
	Note         string    `json:"Note"`
}
