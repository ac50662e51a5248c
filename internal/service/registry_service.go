package service

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
)

type rosterReader interface {
	Lookup(id int64) (*models.Student, error)
}

type periodSource interface {
	CurrentPeriod(at time.Time) (models.Period, bool)
}

// registryPersister is notified after an in-memory transition commits; the
// write itself happens outside the registry lock and is retried until
// durable.
type registryPersister interface {
	PassLogChanged()
	AuditLogChanged()
}

// RegistryConfig tunes the slot pool.
type RegistryConfig struct {
	// Slots is the number of ordinary pass slots. One extra admin-only slot
	// is always appended after them.
	Slots int
	// Now overrides the clock, for tests.
	Now func() time.Time
	// Events and Audit seed the in-memory logs from the persisted files.
	Events map[int64][]models.PassEvent
	Audit  []models.AuditEntry
}

// RegistryService owns the pass slot table, the per-student event log, and
// the audit trail. It is the single writer of all three: every mutation
// (claim, release, admin override, note attach) runs under one mutex, so
// the operations are linearizable. The lock is never held across a
// persistence write.
type RegistryService struct {
	roster    rosterReader
	schedule  periodSource
	persister registryPersister
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time

	adminSlotID string

	mu     sync.Mutex
	slots  []*models.PassSlot
	events map[int64][]models.PassEvent
	audit  []models.AuditEntry
}

// NewRegistryService constructs the registry. Slot ids are "1".."N" with the
// admin-only slot numbered N+1, matching the physical passes.
func NewRegistryService(roster rosterReader, schedule periodSource, persister registryPersister, metrics *MetricsService, logger *zap.Logger, cfg RegistryConfig) *RegistryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Slots <= 0 {
		cfg.Slots = 2
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Events == nil {
		cfg.Events = map[int64][]models.PassEvent{}
	}

	slots := make([]*models.PassSlot, 0, cfg.Slots+1)
	for i := 1; i <= cfg.Slots+1; i++ {
		slots = append(slots, &models.PassSlot{ID: strconv.Itoa(i), Status: models.SlotOpen})
	}

	return &RegistryService{
		roster:      roster,
		schedule:    schedule,
		persister:   persister,
		metrics:     metrics,
		logger:      logger,
		now:         cfg.Now,
		adminSlotID: strconv.Itoa(cfg.Slots + 1),
		slots:       slots,
		events:      cfg.Events,
		audit:       cfg.Audit,
	}
}

// Submit handles one student id submission: a release when the student holds
// a pass, otherwise a claim attempt. Rejections are part of the result
// contract, never errors.
func (s *RegistryService) Submit(raw string) dto.PassOutcome {
	raw = strings.TrimSpace(raw)
	now := s.now()

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return s.reject(raw, now, models.AuditReasonInvalidIDFormat, dto.Rejection{
			Code:    dto.RejectInvalidIDFormat,
			Message: "Invalid ID format.",
		})
	}
	student, err := s.roster.Lookup(id)
	if err != nil {
		return s.reject(raw, now, models.AuditReasonUnknownStudent, dto.Rejection{
			Code:    dto.RejectUnknownStudent,
			Message: "Invalid ID number.",
		})
	}

	s.mu.Lock()

	// Returning students resolve first, whichever slot they hold, admin
	// slot included. Eligibility checks gate claims only: a student who
	// stayed out past their period can always come back in.
	for _, slot := range s.slots {
		if slot.InUseBy(student.ID) {
			elapsed := s.closeOutLocked(slot, student.Period, now)
			s.mu.Unlock()

			s.notifyPassLog()
			s.metrics.RecordRelease(time.Duration(elapsed) * time.Second)
			return dto.PassOutcome{
				Result:         dto.OutcomeReleased,
				Message:        "Returned successfully.",
				ElapsedSeconds: elapsed,
			}
		}
	}

	current, active := s.schedule.CurrentPeriod(now)
	if !active {
		s.mu.Unlock()
		return s.reject(raw, now, models.AuditReasonNoActivePeriod, dto.Rejection{
			Code:    dto.RejectNoActivePeriod,
			Message: "No active period right now.",
		})
	}
	if current != student.Period {
		s.mu.Unlock()
		reason := fmt.Sprintf("Invalid period: tried %s, expected %s", current, student.Period)
		return s.reject(raw, now, reason, dto.Rejection{
			Code:           dto.RejectWrongPeriod,
			Message:        fmt.Sprintf("You cannot leave during this period (current: %s).", current),
			ExpectedPeriod: student.Period.String(),
			ActualPeriod:   current.String(),
		})
	}

	// Lowest-numbered open slot wins; the admin slot is never auto-chosen.
	for _, slot := range s.slots {
		if slot.ID == s.adminSlotID {
			continue
		}
		if slot.Status == models.SlotOpen {
			claimedAt := models.ClockTimeOf(now)
			holder := student.ID
			slot.Status = models.SlotInUse
			slot.HolderID = &holder
			slot.ClaimedAt = &claimedAt
			slot.Note = ""
			slotID := slot.ID
			s.mu.Unlock()

			s.metrics.RecordClaim()
			return dto.PassOutcome{
				Result:    dto.OutcomeClaimed,
				Message:   fmt.Sprintf("Pass %s claimed at %s.", slotID, claimedAt),
				SlotID:    slotID,
				ClaimedAt: claimedAt.String(),
			}
		}
	}

	s.mu.Unlock()
	return s.reject(raw, now, models.AuditReasonNoSlots, dto.Rejection{
		Code:    dto.RejectNoSlotsAvailable,
		Message: "No passes available right now.",
	})
}

// AdminForceRelease manually checks a pass back in regardless of who
// submitted the request. The round trip is logged exactly like a normal
// return.
func (s *RegistryService) AdminForceRelease(slotID string) error {
	now := s.now()

	s.mu.Lock()
	slot := s.slotLocked(slotID)
	if slot == nil || slot.Status != models.SlotInUse {
		s.mu.Unlock()
		return appErrors.Clone(appErrors.ErrSlotNotInUse, fmt.Sprintf("Pass %s is not currently out.", slotID))
	}

	period := models.Period(0)
	if student, err := s.roster.Lookup(*slot.HolderID); err == nil {
		period = student.Period
	}
	elapsed := s.closeOutLocked(slot, period, now)
	s.mu.Unlock()

	s.notifyPassLog()
	s.metrics.RecordRelease(time.Duration(elapsed) * time.Second)
	s.logger.Info("pass force released", zap.String("slot", slotID), zap.Int("elapsed_seconds", elapsed))
	return nil
}

// AdminClaim assigns the admin-only slot to a student, bypassing period
// eligibility. Only explicit admin action ever puts this slot in use.
func (s *RegistryService) AdminClaim(raw string) (*dto.SlotView, error) {
	raw = strings.TrimSpace(raw)
	now := s.now()

	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrInvalidIDFormat, "Invalid ID format.")
	}
	student, err := s.roster.Lookup(id)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrUnknownStudent, "Student ID not found.")
	}

	s.mu.Lock()
	slot := s.slotLocked(s.adminSlotID)
	if slot.Status == models.SlotInUse {
		s.mu.Unlock()
		return nil, appErrors.Clone(appErrors.ErrAdminSlotInUse, "Admin pass is already in use.")
	}
	claimedAt := models.ClockTimeOf(now)
	holder := student.ID
	slot.Status = models.SlotInUse
	slot.HolderID = &holder
	slot.ClaimedAt = &claimedAt
	slot.Note = ""
	view := dto.SlotViewFromModel(*slot, true)
	s.mu.Unlock()

	s.metrics.RecordClaim()
	s.logger.Info("admin pass created", zap.String("slot", s.adminSlotID), zap.Int64("student", student.ID))
	return &view, nil
}

// AttachNote sets or overwrites the note on the pass a student currently
// holds. The note travels into the PassEvent when the pass is released.
func (s *RegistryService) AttachNote(raw, note string) (string, error) {
	id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return "", appErrors.Clone(appErrors.ErrInvalidIDFormat, "Invalid ID format.")
	}
	note = strings.TrimSpace(note)
	if note == "" {
		return "", appErrors.Clone(appErrors.ErrEmptyNote, "Note cannot be empty.")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, slot := range s.slots {
		if slot.InUseBy(id) {
			slot.Note = note
			return slot.ID, nil
		}
	}
	return "", appErrors.Clone(appErrors.ErrNoActiveSlot, "No active pass found for this student.")
}

// Slots returns the ordered display snapshot of every slot.
func (s *RegistryService) Slots() []dto.SlotView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]dto.SlotView, 0, len(s.slots))
	for _, slot := range s.slots {
		views = append(views, dto.SlotViewFromModel(*slot, slot.ID == s.adminSlotID))
	}
	return views
}

// ActivePasses joins InUse slots with roster names for the admin dashboard.
func (s *RegistryService) ActivePasses() []dto.ActivePassView {
	s.mu.Lock()
	defer s.mu.Unlock()

	views := make([]dto.ActivePassView, 0, len(s.slots))
	for _, slot := range s.slots {
		if slot.Status != models.SlotInUse {
			continue
		}
		view := dto.ActivePassView{
			SlotID:      slot.ID,
			StudentID:   *slot.HolderID,
			StudentName: "Unknown",
			Note:        slot.Note,
		}
		if slot.ClaimedAt != nil {
			view.ClaimedAt = slot.ClaimedAt.String()
		}
		if student, err := s.roster.Lookup(*slot.HolderID); err == nil {
			view.StudentName = student.Name
		}
		views = append(views, view)
	}
	return views
}

// EventsByStudent returns a copy of the completed event log for the read
// side.
func (s *RegistryService) EventsByStudent() map[int64][]models.PassEvent {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[int64][]models.PassEvent, len(s.events))
	for id, events := range s.events {
		copied := make([]models.PassEvent, len(events))
		copy(copied, events)
		out[id] = copied
	}
	return out
}

// AuditTrail returns a copy of the rejection trail.
func (s *RegistryService) AuditTrail() []models.AuditEntry {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.AuditEntry, len(s.audit))
	copy(out, s.audit)
	return out
}

// closeOutLocked finishes a round trip: computes the clamped elapsed time,
// appends the PassEvent, and reopens the slot. Callers hold the lock.
func (s *RegistryService) closeOutLocked(slot *models.PassSlot, period models.Period, now time.Time) int {
	claimedAt := *slot.ClaimedAt
	checkin := models.ClockTimeOf(now)
	// The claim time is a bare time of day re-anchored to today, so a pass
	// held across midnight would come out negative; clamp to zero.
	elapsed := claimedAt.SecondsUntil(checkin)

	holder := *slot.HolderID
	s.events[holder] = append(s.events[holder], models.PassEvent{
		Date:         now.Format("2006-01-02"),
		DayOfWeek:    now.Weekday().String(),
		Period:       period,
		CheckoutTime: claimedAt,
		CheckinTime:  checkin,
		TotalSeconds: elapsed,
		Note:         slot.Note,
	})
	slot.Reset()
	return elapsed
}

func (s *RegistryService) slotLocked(id string) *models.PassSlot {
	for _, slot := range s.slots {
		if slot.ID == id {
			return slot
		}
	}
	return nil
}

func (s *RegistryService) reject(rawID string, now time.Time, auditReason string, rejection dto.Rejection) dto.PassOutcome {
	s.mu.Lock()
	s.audit = append(s.audit, models.AuditEntry{
		Time:      now.Format("2006-01-02 15:04:05"),
		StudentID: rawID,
		Reason:    auditReason,
	})
	s.mu.Unlock()

	s.notifyAuditLog()
	s.metrics.RecordRejection(rejection.Code)
	s.logger.Info("pass request rejected",
		zap.String("student_id", rawID),
		zap.String("reason", auditReason),
	)
	return dto.PassOutcome{
		Result:    dto.OutcomeRejected,
		Message:   rejection.Message,
		Rejection: &rejection,
	}
}

func (s *RegistryService) notifyPassLog() {
	if s.persister != nil {
		s.persister.PassLogChanged()
	}
}

func (s *RegistryService) notifyAuditLog() {
	if s.persister != nil {
		s.persister.AuditLogChanged()
	}
}
