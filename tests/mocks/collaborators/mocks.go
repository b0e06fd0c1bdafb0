// Package collaborators provides testify mocks for the host-facing ports.
package collaborators

import (
	"context"
	"sync"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/stretchr/testify/mock"
)

type MockPermissionRegistry struct {
	mock.Mock
}

func (m *MockPermissionRegistry) RegisterPermission(ctx context.Context, name, module string) error {
	args := m.Called(ctx, name, module)
	return args.Error(0)
}

func (m *MockPermissionRegistry) GrantPermission(ctx context.Context, player domain.PlayerID, name, module string) error {
	args := m.Called(ctx, player, name, module)
	return args.Error(0)
}

type MockRewardService struct {
	mock.Mock
}

func (m *MockRewardService) Credit(ctx context.Context, player domain.PlayerID, amount int) {
	m.Called(ctx, player, amount)
}

// Notification is one message captured by RecordingNotifier.
type Notification struct {
	Player domain.PlayerID
	Key    string
	Args   []any
}

type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []Notification
}

func (n *RecordingNotifier) Notify(_ context.Context, player domain.PlayerID, key string, args ...any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Sent = append(n.Sent, Notification{Player: player, Key: key, Args: args})
}

// For returns the notifications sent to player.
func (n *RecordingNotifier) For(player domain.PlayerID) []Notification {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []Notification
	for _, s := range n.Sent {
		if s.Player == player {
			out = append(out, s)
		}
	}
	return out
}

// StaticDirectory is a fixed domain.PlayerDirectory.
type StaticDirectory map[domain.PlayerID]domain.Player

func (d StaticDirectory) FindByID(id domain.PlayerID) (*domain.Player, bool) {
	p, ok := d[id]
	if !ok {
		return nil, false
	}
	return &p, true
}

type RecordingAuditLogger struct {
	mu     sync.Mutex
	Events []*domain.AuditEvent
}

func (l *RecordingAuditLogger) AuditGrant(_ context.Context, event *domain.AuditEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.Events = append(l.Events, event)
}
