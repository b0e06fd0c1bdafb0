package rewards

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"regexp"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) AddPoints(ctx context.Context, player domain.PlayerID, amount int) error {
	args := m.Called(ctx, player, amount)
	return args.Error(0)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestDispatcher_DeliversQueuedCredits(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("AddPoints", mock.Anything, domain.PlayerID(42), 1000).Return(nil).Once()
	ledger.On("AddPoints", mock.Anything, domain.PlayerID(7), 5).Return(nil).Once()

	d := NewDispatcher(ledger, discard(), DispatcherConfig{BufferSize: 4, WorkerCount: 1})
	ctx := context.Background()
	require.NoError(t, d.Start(ctx))

	d.Credit(ctx, 42, 1000)
	d.Credit(ctx, 7, 5)
	d.Credit(ctx, 9, 0)
	require.NoError(t, d.Stop(ctx))

	ledger.AssertExpectations(t)
	ledger.AssertNumberOfCalls(t, "AddPoints", 2)
}

func TestDispatcher_RetriesTransientFailure(t *testing.T) {
	ledger := new(MockLedger)
	ledger.On("AddPoints", mock.Anything, domain.PlayerID(42), 10).Return(errors.New("timeout")).Once()
	ledger.On("AddPoints", mock.Anything, domain.PlayerID(42), 10).Return(nil).Once()

	d := NewDispatcher(ledger, discard(), DispatcherConfig{BufferSize: 1, WorkerCount: 1})
	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	d.Credit(ctx, 42, 10)
	require.NoError(t, d.Stop(ctx))

	ledger.AssertExpectations(t)
}

func TestDispatcher_CreditAfterStopIsDropped(t *testing.T) {
	ledger := new(MockLedger)
	d := NewDispatcher(ledger, discard(), DispatcherConfig{})
	ctx := context.Background()
	require.NoError(t, d.Start(ctx))
	require.NoError(t, d.Stop(ctx))

	assert.NotPanics(t, func() { d.Credit(ctx, 1, 1) })
	ledger.AssertNotCalled(t, "AddPoints", mock.Anything, mock.Anything, mock.Anything)
}

func TestPostgresLedger_AddPoints(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	pool.ExpectExec(regexp.QuoteMeta(`INSERT INTO reward_points`)).
		WithArgs(int64(42), 1000).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	require.NoError(t, NewPostgresLedger(pool).AddPoints(context.Background(), 42, 1000))
	assert.NoError(t, pool.ExpectationsWereMet())
}

func TestPostgresLedger_Balance(t *testing.T) {
	pool, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(func() { pool.Close() })

	pool.ExpectQuery(`SELECT points FROM reward_points`).
		WithArgs(int64(42)).
		WillReturnRows(pgxmock.NewRows([]string{"points"}).AddRow(2500))

	points, err := NewPostgresLedger(pool).Balance(context.Background(), 42)
	require.NoError(t, err)
	assert.Equal(t, 2500, points)
	assert.NoError(t, pool.ExpectationsWereMet())
}

type recordingRunner struct{ commands []string }

func (r *recordingRunner) RunCommand(c string) { r.commands = append(r.commands, c) }

func TestHostLedger_FormatsCommand(t *testing.T) {
	runner := &recordingRunner{}
	l := NewHostLedger(runner, "sr add {player} {amount}")

	require.NoError(t, l.AddPoints(context.Background(), 76561198000000001, 1000))
	assert.Equal(t, []string{"sr add 76561198000000001 1000"}, runner.commands)
}
