package service

import (
	"context"
	"testing"

	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	mockpersistence "github.com/spounge-ai/playerkits/tests/mocks/persistence"
	"github.com/stretchr/testify/assert"
)

type unhealthyRepository struct {
	*mockpersistence.MemoryKitRepository
}

func (unhealthyRepository) HealthCheck(context.Context) error {
	return app_errors.ErrDependencyUnavailable
}

func TestEvaluateReadiness(t *testing.T) {
	ctx := context.Background()
	repo := mockpersistence.NewMemoryKitRepository(prefix)

	r := EvaluateReadiness(ctx, ReadinessInput{Enabled: true, Catalogue: repo, GiftGiverReward: 1000, RewardsAvailable: true}, discardLogger())
	assert.True(t, r.Ready())
	assert.True(t, r.RewardsEnabled())
	assert.NoError(t, r.Check())

	r = EvaluateReadiness(ctx, ReadinessInput{Enabled: true, Catalogue: repo, GiftGiverReward: 1000}, discardLogger())
	assert.True(t, r.Ready())
	assert.False(t, r.RewardsEnabled())

	r = EvaluateReadiness(ctx, ReadinessInput{Enabled: false, Catalogue: repo}, discardLogger())
	assert.False(t, r.Ready())
	assert.ErrorIs(t, r.Check(), app_errors.ErrDisabled)
	assert.Equal(t, "disabled by configuration", r.Reason())

	r = EvaluateReadiness(ctx, ReadinessInput{Enabled: true, Catalogue: unhealthyRepository{repo}}, discardLogger())
	assert.False(t, r.Ready())

	r = EvaluateReadiness(ctx, ReadinessInput{Enabled: true}, discardLogger())
	assert.False(t, r.Ready())
}
