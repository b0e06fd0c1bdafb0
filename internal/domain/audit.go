package domain

import (
	"context"
	"time"
)

type GrantOperation string

const (
	GrantCreated GrantOperation = "create"
	GrantRenewed GrantOperation = "renew"
)

type AuditLogger interface {
	AuditGrant(ctx context.Context, event *AuditEvent)
}

// AuditEvent records one kit grant.
type AuditEvent struct {
	ID        string
	Operation GrantOperation
	Template  string
	Instance  string
	Player    PlayerID
	Source    PlayerID
	Quantity  int
	UseCount  int
	Timestamp time.Time
}

type AuditRepository interface {
	CreateAuditEvent(ctx context.Context, event *AuditEvent) error
	GetAuditHistory(ctx context.Context, player PlayerID, limit int) ([]*AuditEvent, error)
}
