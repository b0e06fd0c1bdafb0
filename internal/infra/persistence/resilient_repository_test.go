package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/stretchr/testify/assert"
)

type failingRepository struct{ calls int }

func (r *failingRepository) LoadAll(context.Context) (*domain.Catalogue, error) {
	r.calls++
	return nil, errors.New("unreachable")
}

func (r *failingRepository) SaveAll(context.Context, *domain.Catalogue) error {
	r.calls++
	return errors.New("unreachable")
}

func (r *failingRepository) HealthCheck(context.Context) error { return nil }

func TestResilientRepository_OpensAfterFailures(t *testing.T) {
	inner := &failingRepository{}
	repo := NewResilientRepository(inner, 2, time.Hour, time.Second, discardLogger())
	ctx := context.Background()

	_, _ = repo.LoadAll(ctx)
	_, _ = repo.LoadAll(ctx)
	_, err := repo.LoadAll(ctx)

	assert.ErrorIs(t, err, app_errors.ErrStorage)
	assert.Equal(t, 2, inner.calls)
}

func TestResilientRepository_SaveUsesSeparateBreaker(t *testing.T) {
	inner := &failingRepository{}
	repo := NewResilientRepository(inner, 1, time.Hour, time.Second, discardLogger())
	ctx := context.Background()

	_, _ = repo.LoadAll(ctx)
	err := repo.SaveAll(ctx, domain.NewCatalogue())

	assert.EqualError(t, err, "unreachable")
	assert.Equal(t, 2, inner.calls)
}
