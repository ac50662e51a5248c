package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/evergreen-hs/hallpass-api/internal/models"
	"github.com/evergreen-hs/hallpass-api/pkg/jobs"
)

const (
	jobPersistPassLog  = "persist_pass_log"
	jobPersistAuditLog = "persist_audit_log"
)

type passLogStore interface {
	Save(log map[int64][]models.PassEvent) error
}

type auditLogStore interface {
	Save(entries []models.AuditEntry) error
}

// logSource is the registry's read side; jobs pull the freshest snapshot at
// write time so a retried job never clobbers a newer state.
type logSource interface {
	EventsByStudent() map[int64][]models.PassEvent
	AuditTrail() []models.AuditEntry
}

// PersistenceConfig tunes the write queue.
type PersistenceConfig struct {
	Retries    int
	RetryDelay time.Duration
}

// PersistenceService makes log writes fire-and-forget with respect to the
// registry's in-memory transitions: changes are enqueued after the
// transition commits and retried until durable. The in-memory state is the
// source of truth and is never rolled back on a write failure.
type PersistenceService struct {
	passLog  passLogStore
	auditLog auditLogStore
	source   logSource
	queue    *jobs.Queue
	logger   *zap.Logger
}

// NewPersistenceService wires the stores behind a single-worker retry queue.
func NewPersistenceService(passLog passLogStore, auditLog auditLogStore, logger *zap.Logger, cfg PersistenceConfig) *PersistenceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &PersistenceService{
		passLog:  passLog,
		auditLog: auditLog,
		logger:   logger,
	}
	s.queue = jobs.NewQueue("persistence", s.handle, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: cfg.Retries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Bind attaches the snapshot source. Called once during wiring, before
// Start; the registry and this service reference each other.
func (s *PersistenceService) Bind(source logSource) {
	s.source = source
}

// Start launches the write worker.
func (s *PersistenceService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the worker.
func (s *PersistenceService) Stop() {
	s.queue.Stop()
}

// PassLogChanged schedules a pass log write.
func (s *PersistenceService) PassLogChanged() {
	s.enqueue(jobPersistPassLog)
}

// AuditLogChanged schedules an audit log write.
func (s *PersistenceService) AuditLogChanged() {
	s.enqueue(jobPersistAuditLog)
}

// Flush writes both logs synchronously; used for the final persistence pass
// at shutdown.
func (s *PersistenceService) Flush() error {
	if s.source == nil {
		return fmt.Errorf("persistence source not bound")
	}
	if err := s.passLog.Save(s.source.EventsByStudent()); err != nil {
		return fmt.Errorf("flush pass log: %w", err)
	}
	if err := s.auditLog.Save(s.source.AuditTrail()); err != nil {
		return fmt.Errorf("flush audit log: %w", err)
	}
	return nil
}

func (s *PersistenceService) enqueue(kind string) {
	err := s.queue.Enqueue(jobs.Job{ID: uuid.NewString(), Kind: kind})
	if err != nil {
		// Never fatal: the in-memory state stays authoritative and the next
		// successful write persists it.
		s.logger.Warn("failed to enqueue persistence job", zap.String("kind", kind), zap.Error(err))
	}
}

func (s *PersistenceService) handle(_ context.Context, job jobs.Job) error {
	if s.source == nil {
		return fmt.Errorf("persistence source not bound")
	}
	switch job.Kind {
	case jobPersistPassLog:
		return s.passLog.Save(s.source.EventsByStudent())
	case jobPersistAuditLog:
		return s.auditLog.Save(s.source.AuditTrail())
	default:
		s.logger.Warn("unknown persistence job", zap.String("kind", job.Kind))
		return nil
	}
}
