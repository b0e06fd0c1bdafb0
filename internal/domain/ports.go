package domain

import "context"

// KitRepository loads and stores the whole kit catalogue.
type KitRepository interface {
	LoadAll(ctx context.Context) (*Catalogue, error)
	SaveAll(ctx context.Context, catalogue *Catalogue) error
	HealthCheck(ctx context.Context) error
}

// CatalogueReloader tells the catalogue owner to re-read persisted state.
// Signals are best effort and never report failure to the caller.
type CatalogueReloader interface {
	Signal()
}

// PermissionRegistry is the host's access-control registry.
type PermissionRegistry interface {
	RegisterPermission(ctx context.Context, name, module string) error
	GrantPermission(ctx context.Context, player PlayerID, name, module string) error
}

// RewardService credits reward points. Credits are fire-and-forget.
type RewardService interface {
	Credit(ctx context.Context, player PlayerID, amount int)
}

// PlayerDirectory resolves player ids to known players.
type PlayerDirectory interface {
	FindByID(id PlayerID) (*Player, bool)
}

// Notifier delivers a localized chat message to a player. Delivery is
// best effort; offline players are skipped silently.
type Notifier interface {
	Notify(ctx context.Context, player PlayerID, key string, args ...any)
}
