package persistence

import (
	"io"
	"log/slog"
	"sync/atomic"

	"github.com/spounge-ai/playerkits/internal/domain"
)

type countingReloader struct{ signals atomic.Int32 }

func (r *countingReloader) Signal() { r.signals.Add(1) }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleCatalogue() *domain.Catalogue {
	tpl := &domain.Kit{
		Name:        "starter",
		DisplayName: "Starter Kit",
		Permission:  "kits.starter",
		Amount:      5,
		Items:       []domain.KitItem{{ShortName: "rock", Amount: 1, Container: "belt"}},
	}
	inst := domain.NewInstance(tpl, domain.InstanceSpec{
		Owner:            76561198000000001,
		PermissionPrefix: "kitsextension",
		Color:            "#0059FF",
		Amount:           5,
	})
	return &domain.Catalogue{Kits: []*domain.Kit{tpl, inst, {Name: "empty", DisplayName: "Empty"}}}
}
