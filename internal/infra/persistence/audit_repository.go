package persistence

import (
	"context"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/spounge-ai/playerkits/pkg/postgres"
)

type AuditRepository struct {
	db postgres.DB
}

func NewAuditRepository(db postgres.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) CreateAuditEvent(ctx context.Context, event *domain.AuditEvent) error {
	query := `INSERT INTO kit_audit_events (id, operation, template, instance, player_id, source_id, quantity, use_count, created_at) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.db.Exec(ctx, query, event.ID, string(event.Operation), event.Template, event.Instance,
		int64(event.Player), int64(event.Source), event.Quantity, event.UseCount, event.Timestamp)
	return err
}

func (r *AuditRepository) GetAuditHistory(ctx context.Context, player domain.PlayerID, limit int) ([]*domain.AuditEvent, error) {
	query := `SELECT id, operation, template, instance, player_id, source_id, quantity, use_count, created_at FROM kit_audit_events WHERE player_id = $1 ORDER BY created_at DESC LIMIT $2`
	rows, err := r.db.Query(ctx, query, int64(player), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var events []*domain.AuditEvent
	for rows.Next() {
		var (
			event          domain.AuditEvent
			op             string
			playerID, from int64
		)
		if err := rows.Scan(&event.ID, &op, &event.Template, &event.Instance, &playerID, &from, &event.Quantity, &event.UseCount, &event.Timestamp); err != nil {
			return nil, err
		}
		event.Operation = domain.GrantOperation(op)
		event.Player = domain.PlayerID(playerID)
		event.Source = domain.PlayerID(from)
		events = append(events, &event)
	}

	return events, rows.Err()
}
