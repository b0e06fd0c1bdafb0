package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomeRenewed Outcome = "renewed"
)

// GrantResult describes the instance a grant produced or renewed.
type GrantResult struct {
	Instance *domain.Kit
	Outcome  Outcome
	UseCount int
}

type LifecycleConfig struct {
	PermissionPrefix string
	InstanceColor    string
	OwningModule     string
}

// Lifecycle creates and renews player instances.
type Lifecycle struct {
	repo        domain.KitRepository
	permissions domain.PermissionRegistry
	audit       domain.AuditLogger
	resolver    Resolver
	cfg         LifecycleConfig
	logger      *slog.Logger
}

func NewLifecycle(repo domain.KitRepository, permissions domain.PermissionRegistry, audit domain.AuditLogger, cfg LifecycleConfig, logger *slog.Logger) *Lifecycle {
	return &Lifecycle{
		repo:        repo,
		permissions: permissions,
		audit:       audit,
		cfg:         cfg,
		logger:      logger,
	}
}

// Grant gives player quantity uses of template. The first grant creates
// the player's instance with template.Amount*quantity uses (or
// template.Amount when quantity <= 0) and grants its permission. Later
// grants add quantity uses (or one use when quantity <= 0). Every
// successful grant persists the whole catalogue.
func (l *Lifecycle) Grant(ctx context.Context, cat *domain.Catalogue, template *domain.Kit, player *domain.Player, quantity int) (*GrantResult, error) {
	if template == nil {
		return nil, app_errors.ErrInvalidTemplate
	}
	if player == nil {
		return nil, app_errors.ErrInvalidPlayer
	}

	if existing, ok := l.resolver.FindInstance(cat, template.Name, player.ID); ok {
		return l.renew(ctx, cat, existing, template, player, quantity)
	}
	return l.create(ctx, cat, template, player, quantity)
}

func (l *Lifecycle) create(ctx context.Context, cat *domain.Catalogue, template *domain.Kit, player *domain.Player, quantity int) (*GrantResult, error) {
	amount := template.Amount
	if quantity > 0 {
		amount = template.Amount * quantity
	}

	instance := domain.NewInstance(template, domain.InstanceSpec{
		Owner:            player.ID,
		PermissionPrefix: l.cfg.PermissionPrefix,
		Color:            l.cfg.InstanceColor,
		Amount:           amount,
	})

	if err := l.permissions.RegisterPermission(ctx, instance.Permission, l.cfg.OwningModule); err != nil {
		return nil, fmt.Errorf("%w: register %s: %w", app_errors.ErrDependencyUnavailable, instance.Permission, err)
	}
	if err := l.permissions.GrantPermission(ctx, player.ID, instance.Permission, l.cfg.OwningModule); err != nil {
		return nil, fmt.Errorf("%w: grant %s: %w", app_errors.ErrDependencyUnavailable, instance.Permission, err)
	}
	cat.Append(instance)
	if err := l.repo.SaveAll(ctx, cat); err != nil {
		return nil, fmt.Errorf("save after creating %s: %w", instance.Name, err)
	}

	l.logger.DebugContext(ctx, "player kit created",
		"kit", instance.Name, "player_id", player.ID.String(), "uses", instance.Amount)
	l.record(ctx, domain.GrantCreated, template, instance, player, quantity)

	return &GrantResult{Instance: instance, Outcome: OutcomeCreated, UseCount: instance.Amount}, nil
}

func (l *Lifecycle) renew(ctx context.Context, cat *domain.Catalogue, instance, template *domain.Kit, player *domain.Player, quantity int) (*GrantResult, error) {
	previous := instance.Amount
	if quantity > 0 {
		instance.Amount += quantity
	} else {
		instance.Amount++
	}

	if err := l.repo.SaveAll(ctx, cat); err != nil {
		instance.Amount = previous
		return nil, fmt.Errorf("save after renewing %s: %w", instance.Name, err)
	}

	l.logger.DebugContext(ctx, "player kit renewed",
		"kit", instance.Name, "player_id", player.ID.String(), "uses", instance.Amount, "previous", previous)
	l.record(ctx, domain.GrantRenewed, template, instance, player, quantity)

	return &GrantResult{Instance: instance, Outcome: OutcomeRenewed, UseCount: instance.Amount}, nil
}

func (l *Lifecycle) record(ctx context.Context, op domain.GrantOperation, template, instance *domain.Kit, player *domain.Player, quantity int) {
	if l.audit == nil {
		return
	}
	l.audit.AuditGrant(ctx, &domain.AuditEvent{
		Operation: op,
		Template:  template.Name,
		Instance:  instance.Name,
		Player:    player.ID,
		Source:    sourceFromContext(ctx),
		Quantity:  quantity,
		UseCount:  instance.Amount,
	})
}
