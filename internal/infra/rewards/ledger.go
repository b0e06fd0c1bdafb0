package rewards

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/spounge-ai/playerkits/pkg/postgres"
)

const addPointsSQL = `INSERT INTO reward_points (player_id, points, updated_at) VALUES ($1, $2, now())
ON CONFLICT (player_id) DO UPDATE SET points = reward_points.points + EXCLUDED.points, updated_at = now()`

// PostgresLedger keeps reward balances in the reward_points table.
type PostgresLedger struct {
	db postgres.DB
}

func NewPostgresLedger(db postgres.DB) *PostgresLedger {
	return &PostgresLedger{db: db}
}

func (l *PostgresLedger) AddPoints(ctx context.Context, player domain.PlayerID, amount int) error {
	if _, err := l.db.Exec(ctx, addPointsSQL, int64(player), amount); err != nil {
		return fmt.Errorf("failed to add reward points: %w", err)
	}
	return nil
}

// Balance returns the player's current balance. Unknown players have zero.
func (l *PostgresLedger) Balance(ctx context.Context, player domain.PlayerID) (int, error) {
	rows, err := l.db.Query(ctx, `SELECT points FROM reward_points WHERE player_id = $1`, int64(player))
	if err != nil {
		return 0, fmt.Errorf("failed to query reward points: %w", err)
	}
	defer rows.Close()
	var points int
	if rows.Next() {
		if err := rows.Scan(&points); err != nil {
			return 0, err
		}
	}
	return points, rows.Err()
}

// CommandRunner executes a host console command.
type CommandRunner interface {
	RunCommand(command string)
}

// HostLedger credits points through the host's rewards plugin by queueing a
// console command built from a template with {player} and {amount} fields.
type HostLedger struct {
	runner   CommandRunner
	template string
}

func NewHostLedger(runner CommandRunner, template string) *HostLedger {
	return &HostLedger{runner: runner, template: template}
}

func (l *HostLedger) AddPoints(_ context.Context, player domain.PlayerID, amount int) error {
	cmd := strings.NewReplacer(
		"{player}", player.String(),
		"{amount}", strconv.Itoa(amount),
	).Replace(l.template)
	l.runner.RunCommand(cmd)
	return nil
}
