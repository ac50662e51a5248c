package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-hs/hallpass-api/internal/dto"
	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/internal/repository"
	appErrors "github.com/evergreen-hs/hallpass-api/pkg/errors"
)

type stubRoster struct {
	students map[int64]models.Student
}

func (s *stubRoster) Lookup(id int64) (*models.Student, error) {
	student, ok := s.students[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &student, nil
}

type stubSchedule struct {
	period models.Period
	active bool
}

func (s *stubSchedule) CurrentPeriod(_ time.Time) (models.Period, bool) {
	return s.period, s.active
}

type recordingPersister struct {
	passLogNotices  int
	auditLogNotices int
}

func (p *recordingPersister) PassLogChanged()  { p.passLogNotices++ }
func (p *recordingPersister) AuditLogChanged() { p.auditLogNotices++ }

type registryFixture struct {
	registry  *RegistryService
	schedule  *stubSchedule
	persister *recordingPersister
	now       time.Time
}

func newRegistryFixture(t *testing.T, slots int) *registryFixture {
	t.Helper()

	roster := &stubRoster{students: map[int64]models.Student{
		111: {ID: 111, Name: "Alice Johnson", Period: 10},
		222: {ID: 222, Name: "Bob Smith", Period: 10},
		333: {ID: 333, Name: "Carol Davis", Period: 10},
		444: {ID: 444, Name: "Dan Evans", Period: 20},
	}}
	schedule := &stubSchedule{period: 10, active: true}
	persister := &recordingPersister{}

	f := &registryFixture{
		schedule:  schedule,
		persister: persister,
		now:       time.Date(2026, time.March, 2, 8, 40, 0, 0, time.UTC),
	}
	f.registry = NewRegistryService(roster, schedule, persister, nil, nil, RegistryConfig{
		Slots: slots,
		Now:   func() time.Time { return f.now },
	})
	return f
}

func (f *registryFixture) advance(d time.Duration) {
	f.now = f.now.Add(d)
}

func TestSubmitClaimThenRelease(t *testing.T) {
	f := newRegistryFixture(t, 2)

	out := f.registry.Submit("111")
	require.Equal(t, dto.OutcomeClaimed, out.Result)
	assert.Equal(t, "1", out.SlotID)
	assert.Equal(t, "08:40:00", out.ClaimedAt)
	assert.Equal(t, "Pass 1 claimed at 08:40:00.", out.Message)

	f.advance(10 * time.Minute)
	out = f.registry.Submit("111")
	require.Equal(t, dto.OutcomeReleased, out.Result)
	assert.Equal(t, "Returned successfully.", out.Message)
	assert.Equal(t, 600, out.ElapsedSeconds)

	events := f.registry.EventsByStudent()[111]
	require.Len(t, events, 1)
	assert.Equal(t, "2026-03-02", events[0].Date)
	assert.Equal(t, "Monday", events[0].DayOfWeek)
	assert.Equal(t, models.Period(10), events[0].Period)
	assert.Equal(t, "08:40:00", events[0].CheckoutTime.String())
	assert.Equal(t, "08:50:00", events[0].CheckinTime.String())
	assert.Equal(t, 600, events[0].TotalSeconds)

	assert.Equal(t, 1, f.persister.passLogNotices)
	assert.Equal(t, 0, f.persister.auditLogNotices)
}

func TestSubmitSecondTapReleasesNotDoubleClaims(t *testing.T) {
	f := newRegistryFixture(t, 2)

	first := f.registry.Submit("111")
	require.Equal(t, dto.OutcomeClaimed, first.Result)

	second := f.registry.Submit("111")
	assert.Equal(t, dto.OutcomeReleased, second.Result)

	for _, slot := range f.registry.Slots() {
		assert.Equal(t, string(models.SlotOpen), slot.Status)
	}
}

func TestSubmitRejectsMalformedID(t *testing.T) {
	f := newRegistryFixture(t, 2)

	out := f.registry.Submit("abc123")
	require.Equal(t, dto.OutcomeRejected, out.Result)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, dto.RejectInvalidIDFormat, out.Rejection.Code)

	trail := f.registry.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, "abc123", trail[0].StudentID)
	assert.Equal(t, models.AuditReasonInvalidIDFormat, trail[0].Reason)
	assert.Equal(t, 1, f.persister.auditLogNotices)
}

func TestSubmitRejectsUnknownStudent(t *testing.T) {
	f := newRegistryFixture(t, 2)

	out := f.registry.Submit("999999")
	require.Equal(t, dto.OutcomeRejected, out.Result)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, dto.RejectUnknownStudent, out.Rejection.Code)

	trail := f.registry.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, "999999", trail[0].StudentID)
	assert.Equal(t, models.AuditReasonUnknownStudent, trail[0].Reason)
	assert.Equal(t, "2026-03-02 08:40:00", trail[0].Time)
}

func TestSubmitRejectsOutsideAnyPeriod(t *testing.T) {
	f := newRegistryFixture(t, 2)
	f.schedule.active = false

	out := f.registry.Submit("111")
	require.Equal(t, dto.OutcomeRejected, out.Result)
	assert.Equal(t, dto.RejectNoActivePeriod, out.Rejection.Code)

	trail := f.registry.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, models.AuditReasonNoActivePeriod, trail[0].Reason)
}

func TestSubmitRejectsWrongPeriod(t *testing.T) {
	f := newRegistryFixture(t, 2)

	// Student 444 belongs to period 2 while period 1 is running.
	out := f.registry.Submit("444")
	require.Equal(t, dto.OutcomeRejected, out.Result)
	require.NotNil(t, out.Rejection)
	assert.Equal(t, dto.RejectWrongPeriod, out.Rejection.Code)
	assert.Equal(t, "2", out.Rejection.ExpectedPeriod)
	assert.Equal(t, "1", out.Rejection.ActualPeriod)

	trail := f.registry.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, "Invalid period: tried 1, expected 2", trail[0].Reason)
}

func TestSubmitFillsSlotsLowestFirst(t *testing.T) {
	f := newRegistryFixture(t, 2)

	assert.Equal(t, "1", f.registry.Submit("111").SlotID)
	assert.Equal(t, "2", f.registry.Submit("222").SlotID)

	out := f.registry.Submit("333")
	require.Equal(t, dto.OutcomeRejected, out.Result)
	assert.Equal(t, dto.RejectNoSlotsAvailable, out.Rejection.Code)

	trail := f.registry.AuditTrail()
	require.Len(t, trail, 1)
	assert.Equal(t, models.AuditReasonNoSlots, trail[0].Reason)
}

func TestSubmitNeverAutoClaimsAdminSlot(t *testing.T) {
	f := newRegistryFixture(t, 2)

	f.registry.Submit("111")
	f.registry.Submit("222")
	f.registry.Submit("333")

	slots := f.registry.Slots()
	require.Len(t, slots, 3)
	assert.True(t, slots[2].AdminOnly)
	assert.Equal(t, string(models.SlotOpen), slots[2].Status)
}

func TestSubmitClampsOvernightPass(t *testing.T) {
	f := newRegistryFixture(t, 2)

	require.Equal(t, dto.OutcomeClaimed, f.registry.Submit("111").Result)

	// Next morning, earlier on the clock than the claim.
	f.now = time.Date(2026, time.March, 3, 7, 30, 0, 0, time.UTC)
	out := f.registry.Submit("111")
	require.Equal(t, dto.OutcomeReleased, out.Result)
	assert.Equal(t, 0, out.ElapsedSeconds)

	events := f.registry.EventsByStudent()[111]
	require.Len(t, events, 1)
	assert.Equal(t, 0, events[0].TotalSeconds)
}

func TestAdminForceRelease(t *testing.T) {
	f := newRegistryFixture(t, 2)

	f.registry.Submit("111")
	f.registry.Submit("222")
	require.Equal(t, dto.RejectNoSlotsAvailable, f.registry.Submit("333").Rejection.Code)

	f.advance(3 * time.Minute)
	require.NoError(t, f.registry.AdminForceRelease("1"))

	events := f.registry.EventsByStudent()[111]
	require.Len(t, events, 1)
	assert.Equal(t, 180, events[0].TotalSeconds)

	// The freed slot serves the next claim.
	out := f.registry.Submit("333")
	require.Equal(t, dto.OutcomeClaimed, out.Result)
	assert.Equal(t, "1", out.SlotID)
}

func TestAdminForceReleaseOpenSlot(t *testing.T) {
	f := newRegistryFixture(t, 2)

	err := f.registry.AdminForceRelease("2")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrSlotNotInUse.Code, appErrors.FromError(err).Code)
}

func TestAdminClaim(t *testing.T) {
	f := newRegistryFixture(t, 2)

	view, err := f.registry.AdminClaim("444")
	require.NoError(t, err)
	assert.Equal(t, "3", view.SlotID)
	assert.True(t, view.AdminOnly)

	_, err = f.registry.AdminClaim("111")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrAdminSlotInUse.Code, appErrors.FromError(err).Code)

	_, err = f.registry.AdminClaim("999999")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnknownStudent.Code, appErrors.FromError(err).Code)
}

func TestAdminSlotReleasesThroughNormalFlow(t *testing.T) {
	f := newRegistryFixture(t, 2)

	_, err := f.registry.AdminClaim("444")
	require.NoError(t, err)

	// Student 444 is outside their own period, but returns always resolve.
	f.advance(2 * time.Minute)
	out := f.registry.Submit("444")
	require.Equal(t, dto.OutcomeReleased, out.Result)
	assert.Equal(t, 120, out.ElapsedSeconds)

	slots := f.registry.Slots()
	assert.Equal(t, string(models.SlotOpen), slots[2].Status)
}

func TestAttachNote(t *testing.T) {
	f := newRegistryFixture(t, 2)

	_, err := f.registry.AttachNote("111", "nurse visit")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNoActiveSlot.Code, appErrors.FromError(err).Code)

	f.registry.Submit("111")

	_, err = f.registry.AttachNote("111", "   ")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrEmptyNote.Code, appErrors.FromError(err).Code)

	slotID, err := f.registry.AttachNote("111", "nurse visit")
	require.NoError(t, err)
	assert.Equal(t, "1", slotID)

	f.advance(time.Minute)
	f.registry.Submit("111")

	events := f.registry.EventsByStudent()[111]
	require.Len(t, events, 1)
	assert.Equal(t, "nurse visit", events[0].Note)
}

func TestActivePassesJoinsRosterNames(t *testing.T) {
	f := newRegistryFixture(t, 2)

	f.registry.Submit("111")
	f.registry.Submit("222")

	active := f.registry.ActivePasses()
	require.Len(t, active, 2)
	assert.Equal(t, "Alice Johnson", active[0].StudentName)
	assert.Equal(t, int64(111), active[0].StudentID)
	assert.Equal(t, "08:40:00", active[0].ClaimedAt)
	assert.Equal(t, "Bob Smith", active[1].StudentName)
}

func TestRegistrySeededFromPersistedLogs(t *testing.T) {
	seedEvents := map[int64][]models.PassEvent{
		111: {{Date: "2026-02-27", DayOfWeek: "Friday", Period: 10, TotalSeconds: 240}},
	}
	seedAudit := []models.AuditEntry{
		{Time: "2026-02-27 09:00:00", StudentID: "555", Reason: models.AuditReasonUnknownStudent},
	}

	roster := &stubRoster{students: map[int64]models.Student{111: {ID: 111, Name: "Alice Johnson", Period: 10}}}
	registry := NewRegistryService(roster, &stubSchedule{period: 10, active: true}, nil, nil, nil, RegistryConfig{
		Slots:  2,
		Events: seedEvents,
		Audit:  seedAudit,
	})

	assert.Len(t, registry.EventsByStudent()[111], 1)
	require.Len(t, registry.AuditTrail(), 1)
	assert.Equal(t, "555", registry.AuditTrail()[0].StudentID)
}
