package persistence

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/pkg/execution"
	"github.com/spounge-ai/playerkits/pkg/patterns/circuitbreaker"
)

// ResilientRepository bounds every call to a KitRepository with a timeout
// and a circuit breaker.
type ResilientRepository struct {
	repo        domain.KitRepository
	timeout     time.Duration
	loadBreaker *circuitbreaker.Breaker[*domain.Catalogue]
	voidBreaker *circuitbreaker.Breaker[struct{}]
}

func NewResilientRepository(repo domain.KitRepository, maxFailures int, resetTimeout, timeout time.Duration, logger *slog.Logger) *ResilientRepository {
	logChange := func(name string) func(from, to circuitbreaker.State) {
		return func(from, to circuitbreaker.State) {
			logger.Warn("catalogue circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
		}
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &ResilientRepository{
		repo:    repo,
		timeout: timeout,
		loadBreaker: circuitbreaker.New(maxFailures,
			circuitbreaker.WithResetTimeout[*domain.Catalogue](resetTimeout),
			circuitbreaker.WithStateChange[*domain.Catalogue](logChange("load")),
		),
		voidBreaker: circuitbreaker.New(maxFailures,
			circuitbreaker.WithResetTimeout[struct{}](resetTimeout),
			circuitbreaker.WithStateChange[struct{}](logChange("save")),
		),
	}
}

func (r *ResilientRepository) LoadAll(ctx context.Context) (*domain.Catalogue, error) {
	cat, err := r.loadBreaker.Execute(ctx, func(ctx context.Context) (*domain.Catalogue, error) {
		return execution.WithTimeout(ctx, r.timeout, r.repo.LoadAll)
	})
	return cat, mapBreakerError(err)
}

func (r *ResilientRepository) SaveAll(ctx context.Context, cat *domain.Catalogue) error {
	_, err := r.voidBreaker.Execute(ctx, func(ctx context.Context) (struct{}, error) {
		return execution.WithTimeout(ctx, r.timeout, func(ctx context.Context) (struct{}, error) {
			return struct{}{}, r.repo.SaveAll(ctx, cat)
		})
	})
	return mapBreakerError(err)
}

func (r *ResilientRepository) HealthCheck(ctx context.Context) error {
	_, err := execution.WithTimeout(ctx, r.timeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, r.repo.HealthCheck(ctx)
	})
	return err
}

func mapBreakerError(err error) error {
	if errors.Is(err, circuitbreaker.ErrOpen) {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}
	return err
}
