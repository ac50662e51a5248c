package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/pkg/jobs"
)

type recordingPassLog struct {
	mu    sync.Mutex
	saves []map[int64][]models.PassEvent
}

func (r *recordingPassLog) Save(log map[int64][]models.PassEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.saves = append(r.saves, log)
	return nil
}

func (r *recordingPassLog) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.saves)
}

type recordingAuditLog struct {
	saves [][]models.AuditEntry
}

func (r *recordingAuditLog) Save(entries []models.AuditEntry) error {
	r.saves = append(r.saves, entries)
	return nil
}

type mutableSource struct {
	events map[int64][]models.PassEvent
	audit  []models.AuditEntry
}

func (s *mutableSource) EventsByStudent() map[int64][]models.PassEvent { return s.events }
func (s *mutableSource) AuditTrail() []models.AuditEntry               { return s.audit }

func TestPersistenceHandleWritesFreshSnapshot(t *testing.T) {
	passLog := &recordingPassLog{}
	auditLog := &recordingAuditLog{}
	source := &mutableSource{events: map[int64][]models.PassEvent{
		111: {{Date: "2026-03-02", TotalSeconds: 120}},
	}}

	svc := NewPersistenceService(passLog, auditLog, nil, PersistenceConfig{})
	svc.Bind(source)

	require.NoError(t, svc.handle(context.Background(), jobs.Job{Kind: jobPersistPassLog}))
	require.Len(t, passLog.saves, 1)
	assert.Len(t, passLog.saves[0][111], 1)

	// State moved on before a retry of the same job fires; the write picks
	// up the newer snapshot, never the one current at enqueue time.
	source.events[111] = append(source.events[111], models.PassEvent{Date: "2026-03-02", TotalSeconds: 300})
	require.NoError(t, svc.handle(context.Background(), jobs.Job{Kind: jobPersistPassLog}))
	require.Len(t, passLog.saves, 2)
	assert.Len(t, passLog.saves[1][111], 2)
}

func TestPersistenceHandleAuditJob(t *testing.T) {
	passLog := &recordingPassLog{}
	auditLog := &recordingAuditLog{}
	source := &mutableSource{audit: []models.AuditEntry{{StudentID: "999999", Reason: models.AuditReasonUnknownStudent}}}

	svc := NewPersistenceService(passLog, auditLog, nil, PersistenceConfig{})
	svc.Bind(source)

	require.NoError(t, svc.handle(context.Background(), jobs.Job{Kind: jobPersistAuditLog}))
	require.Len(t, auditLog.saves, 1)
	assert.Equal(t, "999999", auditLog.saves[0][0].StudentID)
	assert.Empty(t, passLog.saves)
}

func TestPersistenceFlushWritesBothLogs(t *testing.T) {
	passLog := &recordingPassLog{}
	auditLog := &recordingAuditLog{}
	source := &mutableSource{
		events: map[int64][]models.PassEvent{111: {{TotalSeconds: 60}}},
		audit:  []models.AuditEntry{{StudentID: "abc", Reason: models.AuditReasonInvalidIDFormat}},
	}

	svc := NewPersistenceService(passLog, auditLog, nil, PersistenceConfig{})
	svc.Bind(source)

	require.NoError(t, svc.Flush())
	assert.Len(t, passLog.saves, 1)
	assert.Len(t, auditLog.saves, 1)
}

func TestPersistenceFlushRequiresBoundSource(t *testing.T) {
	svc := NewPersistenceService(&recordingPassLog{}, &recordingAuditLog{}, nil, PersistenceConfig{})
	assert.Error(t, svc.Flush())
}

func TestPersistenceQueueDeliversNotifications(t *testing.T) {
	passLog := &recordingPassLog{}
	auditLog := &recordingAuditLog{}
	source := &mutableSource{events: map[int64][]models.PassEvent{111: {{TotalSeconds: 60}}}}

	svc := NewPersistenceService(passLog, auditLog, nil, PersistenceConfig{})
	svc.Bind(source)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.PassLogChanged()

	require.Eventually(t, func() bool {
		return passLog.count() == 1
	}, 2*time.Second, 10*time.Millisecond)
}
