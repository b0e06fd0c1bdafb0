package persistence

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Pinger is anything that can report database reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// ConnectionMonitor periodically pings the database and logs transitions
// between healthy and unhealthy.
type ConnectionMonitor struct {
	db        Pinger
	logger    *slog.Logger
	mu        sync.RWMutex
	isHealthy bool
}

func NewConnectionMonitor(db Pinger, logger *slog.Logger) *ConnectionMonitor {
	return &ConnectionMonitor{
		db:        db,
		logger:    logger,
		isHealthy: true,
	}
}

func (cm *ConnectionMonitor) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			cm.Check(ctx)
		}
	}
}

// Check performs one health probe.
func (cm *ConnectionMonitor) Check(ctx context.Context) {
	checkCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	err := cm.db.Ping(checkCtx)

	cm.mu.Lock()
	defer cm.mu.Unlock()

	switch {
	case err != nil && cm.isHealthy:
		cm.isHealthy = false
		cm.logger.ErrorContext(ctx, "database connection unhealthy", "error", err)
	case err == nil && !cm.isHealthy:
		cm.isHealthy = true
		cm.logger.InfoContext(ctx, "database connection recovered")
	}
}

func (cm *ConnectionMonitor) IsHealthy() bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return cm.isHealthy
}
