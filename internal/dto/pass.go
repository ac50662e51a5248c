package dto

import "github.com/evergreen-hs/hallpass-api/internal/models"

// Pass request outcome discriminators.
const (
	OutcomeClaimed  = "claimed"
	OutcomeReleased = "released"
	OutcomeRejected = "rejected"
)

// Rejection reason codes carried on rejected outcomes. Callers render
// different guidance for input errors versus eligibility errors, so the code
// is part of the contract, not just the message.
const (
	RejectInvalidIDFormat  = "INVALID_ID_FORMAT"
	RejectUnknownStudent   = "UNKNOWN_STUDENT"
	RejectNoActivePeriod   = "NO_ACTIVE_PERIOD"
	RejectWrongPeriod      = "WRONG_PERIOD"
	RejectNoSlotsAvailable = "NO_SLOTS_AVAILABLE"
)

// CheckRequest is a student tapping their id at the kiosk.
type CheckRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// Rejection explains why a pass request was turned away. Expected and Actual
// are set only for WRONG_PERIOD.
type Rejection struct {
	Code           string `json:"code"`
	Message        string `json:"message"`
	ExpectedPeriod string `json:"expected_period,omitempty"`
	ActualPeriod   string `json:"actual_period,omitempty"`
}

// PassOutcome is the discriminated result of a pass request. Exactly one of
// the Result-specific fields is populated.
type PassOutcome struct {
	Result         string     `json:"result"`
	Message        string     `json:"message"`
	SlotID         string     `json:"slot_id,omitempty"`
	ClaimedAt      string     `json:"claimed_at,omitempty"`
	ElapsedSeconds int        `json:"elapsed_seconds,omitempty"`
	Rejection      *Rejection `json:"rejection,omitempty"`
}

// SlotView is the display snapshot of one pass slot.
type SlotView struct {
	SlotID    string `json:"slot_id"`
	Status    string `json:"status"`
	AdminOnly bool   `json:"admin_only"`
	StudentID *int64 `json:"student_id,omitempty"`
	ClaimedAt string `json:"claimed_at,omitempty"`
	Note      string `json:"note,omitempty"`
}

// ActivePassView is an InUse slot joined with the roster name, shown on the
// admin dashboard.
type ActivePassView struct {
	SlotID      string `json:"pass_id"`
	StudentID   int64  `json:"student_id"`
	StudentName string `json:"student_name"`
	ClaimedAt   string `json:"time_out"`
	Note        string `json:"note,omitempty"`
}

// CurrentPeriodView reports the active period, if any.
type CurrentPeriodView struct {
	Active bool   `json:"active"`
	Period string `json:"period,omitempty"`
}

// AdminClaimRequest assigns the admin-only slot to a student.
type AdminClaimRequest struct {
	StudentID string `json:"student_id" binding:"required"`
}

// AttachNoteRequest sets the note on a student's active pass.
type AttachNoteRequest struct {
	Note string `json:"note" binding:"required"`
}

// SlotViewFromModel converts a slot snapshot for display.
func SlotViewFromModel(slot models.PassSlot, adminOnly bool) SlotView {
	view := SlotView{
		SlotID:    slot.ID,
		Status:    string(slot.Status),
		AdminOnly: adminOnly,
		StudentID: slot.HolderID,
		Note:      slot.Note,
	}
	if slot.ClaimedAt != nil {
		view.ClaimedAt = slot.ClaimedAt.String()
	}
	return view
}
