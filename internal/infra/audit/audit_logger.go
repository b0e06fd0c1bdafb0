package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/spounge-ai/playerkits/internal/domain"
)

// Logger writes every grant to the structured log and, when a repository
// is configured, persists it from a background worker.
type Logger struct {
	logger    *slog.Logger
	auditRepo domain.AuditRepository
	events    chan *domain.AuditEvent
	waitGroup sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

// NewAuditLogger creates a new audit logger. auditRepo may be nil.
func NewAuditLogger(logger *slog.Logger, auditRepo domain.AuditRepository, bufferSize int) *Logger {
	if bufferSize <= 0 {
		bufferSize = 128
	}
	return &Logger{
		logger:    logger,
		auditRepo: auditRepo,
		events:    make(chan *domain.AuditEvent, bufferSize),
	}
}

// Start begins the persistence worker. It is a no-op without a repository.
func (l *Logger) Start(context.Context) error {
	if l.auditRepo == nil {
		return nil
	}
	l.waitGroup.Add(1)
	go l.worker()
	return nil
}

// Stop drains queued events and waits for the worker to exit.
func (l *Logger) Stop(context.Context) error {
	l.mu.Lock()
	if !l.closed {
		l.closed = true
		close(l.events)
	}
	l.mu.Unlock()
	l.waitGroup.Wait()
	return nil
}

// AuditGrant records a kit grant.
func (l *Logger) AuditGrant(ctx context.Context, event *domain.AuditEvent) {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	attrs := []slog.Attr{
		slog.String("audit_id", event.ID),
		slog.String("operation", string(event.Operation)),
		slog.String("template", event.Template),
		slog.String("instance", event.Instance),
		slog.String("player_id", event.Player.String()),
		slog.Int("quantity", event.Quantity),
		slog.Int("use_count", event.UseCount),
		slog.Time("timestamp", event.Timestamp),
	}
	if event.Source != 0 {
		attrs = append(attrs, slog.String("source_id", event.Source.String()))
	}
	l.logger.LogAttrs(ctx, slog.LevelInfo, "audit_event", attrs...)

	if l.auditRepo == nil {
		return
	}

	l.mu.RLock()
	defer l.mu.RUnlock()
	if l.closed {
		l.logger.Warn("audit logger stopped, event not persisted", "audit_id", event.ID)
		return
	}
	select {
	case l.events <- event:
	default:
		l.logger.Warn("audit event channel is full, event dropped", "audit_id", event.ID, "operation", string(event.Operation))
	}
}

func (l *Logger) worker() {
	defer l.waitGroup.Done()
	for event := range l.events {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := l.auditRepo.CreateAuditEvent(ctx, event); err != nil {
			l.logger.Error("failed to store audit event", "audit_id", event.ID, "error", err)
		}
		cancel()
	}
}
