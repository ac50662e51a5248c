package models

// Audit reasons recorded when a pass request is turned away. The strings
// match the legacy audit log so historic files stay readable.
const (
	AuditReasonInvalidIDFormat = "Invalid ID format"
	AuditReasonUnknownStudent  = "Invalid ID number"
	AuditReasonNoActivePeriod  = "No active period"
	AuditReasonNoSlots         = "No passes available"
)

// AuditEntry is an immutable record of a rejected pass request. The student
// id is kept exactly as submitted, malformed or not.
type AuditEntry struct {
	Time      string `json:"time"`
	StudentID string `json:"student_id"`
	Reason    string `json:"reason"`
}
