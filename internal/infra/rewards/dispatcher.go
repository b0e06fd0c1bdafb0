package rewards

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/spounge-ai/playerkits/pkg/execution"
)

// PointsLedger adds reward points to a player's balance.
type PointsLedger interface {
	AddPoints(ctx context.Context, player domain.PlayerID, amount int) error
}

type DispatcherConfig struct {
	BufferSize  int
	WorkerCount int
	Timeout     time.Duration
}

type credit struct {
	player domain.PlayerID
	amount int
}

// Dispatcher delivers credits to a ledger from background workers.
// Credit never blocks and never reports failure to the caller.
type Dispatcher struct {
	ledger  PointsLedger
	logger  *slog.Logger
	config  DispatcherConfig
	credits chan credit

	waitGroup sync.WaitGroup
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(ledger PointsLedger, logger *slog.Logger, config DispatcherConfig) *Dispatcher {
	if config.BufferSize <= 0 {
		config.BufferSize = 256
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = 1
	}
	if config.Timeout <= 0 {
		config.Timeout = 5 * time.Second
	}
	return &Dispatcher{
		ledger:  ledger,
		logger:  logger,
		config:  config,
		credits: make(chan credit, config.BufferSize),
	}
}

// Start begins the worker goroutines that deliver credits.
func (d *Dispatcher) Start(context.Context) error {
	d.waitGroup.Add(d.config.WorkerCount)
	for i := 0; i < d.config.WorkerCount; i++ {
		go d.worker()
	}
	return nil
}

// Stop delivers queued credits and waits for the workers.
func (d *Dispatcher) Stop(context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		close(d.credits)
	}
	d.mu.Unlock()
	d.waitGroup.Wait()
	d.logger.Info("reward dispatcher shut down")
	return nil
}

func (d *Dispatcher) Credit(ctx context.Context, player domain.PlayerID, amount int) {
	if amount <= 0 {
		return
	}
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.closed {
		d.logger.WarnContext(ctx, "reward dispatcher stopped, credit dropped", "player_id", player.String(), "amount", amount)
		return
	}
	select {
	case d.credits <- credit{player: player, amount: amount}:
	default:
		d.logger.WarnContext(ctx, "reward queue is full, credit dropped", "player_id", player.String(), "amount", amount)
	}
}

func (d *Dispatcher) worker() {
	defer d.waitGroup.Done()
	for c := range d.credits {
		d.deliver(c)
	}
}

func (d *Dispatcher) deliver(c credit) {
	ctx, cancel := context.WithTimeout(context.Background(), d.config.Timeout)
	defer cancel()

	_, err := execution.WithRetry(ctx, 3, 50*time.Millisecond, time.Second, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, d.ledger.AddPoints(ctx, c.player, c.amount)
	})
	if err != nil {
		d.logger.Error("failed to credit reward points", "player_id", c.player.String(), "amount", c.amount, "error", err)
		return
	}
	d.logger.Debug("reward points credited", "player_id", c.player.String(), "amount", c.amount)
}
