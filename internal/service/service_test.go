package service

import (
	"io"
	"log/slog"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/spounge-ai/playerkits/internal/notify"
	"github.com/spounge-ai/playerkits/tests/mocks/collaborators"
	mockpersistence "github.com/spounge-ai/playerkits/tests/mocks/persistence"
	"github.com/stretchr/testify/mock"
)

const (
	prefix  = "kitsextension"
	module  = "KitsExtension"
	steamID = domain.PlayerID(76561198000000001)
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func starter() *domain.Kit {
	return &domain.Kit{
		Name:        "starter",
		DisplayName: "Starter Kit",
		Permission:  "kits.starter",
		Amount:      5,
		Items:       []domain.KitItem{{ShortName: "rock", Amount: 1}},
	}
}

func lifecycleConfig() LifecycleConfig {
	return LifecycleConfig{PermissionPrefix: prefix, InstanceColor: "#0059FF", OwningModule: module}
}

func permissiveRegistry() *collaborators.MockPermissionRegistry {
	perms := new(collaborators.MockPermissionRegistry)
	perms.On("RegisterPermission", mock.Anything, mock.Anything, module).Return(nil)
	perms.On("GrantPermission", mock.Anything, mock.Anything, mock.Anything, module).Return(nil)
	return perms
}

var testPalette = notify.Palette{KitName: "#A3F551", GiverName: "#A3F551", Reward: "#FFEC50"}

type fixture struct {
	repo     *mockpersistence.MemoryKitRepository
	perms    *collaborators.MockPermissionRegistry
	rewards  *collaborators.MockRewardService
	notifier *collaborators.RecordingNotifier
	audit    *collaborators.RecordingAuditLogger
	svc      *KitService
}

func newFixture(players collaborators.StaticDirectory, readiness *Readiness, reward int) *fixture {
	f := &fixture{
		repo:     mockpersistence.NewMemoryKitRepository(prefix, starter()),
		perms:    permissiveRegistry(),
		rewards:  new(collaborators.MockRewardService),
		notifier: &collaborators.RecordingNotifier{},
		audit:    &collaborators.RecordingAuditLogger{},
	}
	lc := NewLifecycle(f.repo, f.perms, f.audit, lifecycleConfig(), discardLogger())
	f.svc = NewKitService(f.repo, lc, players, f.notifier, f.rewards, readiness,
		KitServiceConfig{GiftGiverReward: reward, Palette: testPalette}, discardLogger())
	return f
}
