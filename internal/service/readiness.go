package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

// Readiness is decided once at startup and handed to every entry point.
type Readiness struct {
	ready   bool
	reason  string
	rewards bool
}

type ReadinessInput struct {
	Enabled          bool
	Catalogue        domain.KitRepository
	GiftGiverReward  int
	RewardsAvailable bool
}

// EvaluateReadiness checks configuration and collaborators. The catalogue
// store must answer its health check for the extension to be ready.
func EvaluateReadiness(ctx context.Context, in ReadinessInput, logger *slog.Logger) *Readiness {
	r := &Readiness{ready: true}

	switch {
	case !in.Enabled:
		r.ready, r.reason = false, "disabled by configuration"
	case in.Catalogue == nil:
		r.ready, r.reason = false, "kit catalogue not configured"
	default:
		if err := in.Catalogue.HealthCheck(ctx); err != nil {
			r.ready, r.reason = false, "kit catalogue unavailable: "+err.Error()
		}
	}

	if !r.ready {
		logger.WarnContext(ctx, "kit extension disabled", "reason", r.reason)
		return r
	}

	r.rewards = in.GiftGiverReward > 0 && in.RewardsAvailable
	if in.GiftGiverReward > 0 && !in.RewardsAvailable {
		logger.WarnContext(ctx, "reward service not available, disabling gift rewards")
	}
	logger.InfoContext(ctx, "kit extension ready", "gift_rewards", r.rewards)
	return r
}

// NewStaticReadiness builds a Readiness without probing collaborators.
func NewStaticReadiness(ready, rewards bool, reason string) *Readiness {
	return &Readiness{ready: ready, rewards: ready && rewards, reason: reason}
}

func (r *Readiness) Ready() bool          { return r.ready }
func (r *Readiness) Reason() string       { return r.reason }
func (r *Readiness) RewardsEnabled() bool { return r.rewards }

// Check returns ErrDisabled when the extension is not ready.
func (r *Readiness) Check() error {
	if r.ready {
		return nil
	}
	return fmt.Errorf("%w: %s", app_errors.ErrDisabled, r.reason)
}
