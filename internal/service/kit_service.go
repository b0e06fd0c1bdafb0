package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/internal/i18n"
	"github.com/spounge-ai/playerkits/internal/notify"
)

type KitServiceConfig struct {
	GiftGiverReward int
	Palette         notify.Palette
}

// KitService is the entry point for direct grants and gifts. Operations
// run one at a time; each loads the catalogue fresh and discards it after.
type KitService struct {
	mu        sync.Mutex
	repo      domain.KitRepository
	lifecycle *Lifecycle
	resolver  Resolver
	players   domain.PlayerDirectory
	notifier  domain.Notifier
	rewards   domain.RewardService
	readiness *Readiness
	cfg       KitServiceConfig
	logger    *slog.Logger
}

func NewKitService(
	repo domain.KitRepository,
	lifecycle *Lifecycle,
	players domain.PlayerDirectory,
	notifier domain.Notifier,
	rewards domain.RewardService,
	readiness *Readiness,
	cfg KitServiceConfig,
	logger *slog.Logger,
) *KitService {
	return &KitService{
		repo:      repo,
		lifecycle: lifecycle,
		players:   players,
		notifier:  notifier,
		rewards:   rewards,
		readiness: readiness,
		cfg:       cfg,
		logger:    logger,
	}
}

// Readiness returns the startup readiness decision.
func (s *KitService) Readiness() *Readiness { return s.readiness }

// GiveDirect grants templateName to player and tells them about it.
func (s *KitService) GiveDirect(ctx context.Context, templateName string, playerID domain.PlayerID, quantity int) (*GrantResult, error) {
	if err := s.readiness.Check(); err != nil {
		s.logger.DebugContext(ctx, "give ignored", "reason", s.readiness.Reason())
		return nil, err
	}
	if templateName == "" {
		return nil, fmt.Errorf("%w: kit name is required", app_errors.ErrInvalidArguments)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.load(ctx)
	template, ok := s.resolver.FindTemplate(cat, templateName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrTemplateNotFound, templateName)
	}
	player, ok := s.players.FindByID(playerID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrPlayerNotFound, playerID)
	}

	res, err := s.lifecycle.Grant(ctx, cat, template, player, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "kit given",
		"kit", template.Name, "player_id", player.ID.String(), "outcome", string(res.Outcome), "uses", res.UseCount)
	s.notifier.Notify(ctx, player.ID, i18n.KitGiven, s.cfg.Palette.KitLabel(template.DisplayName))
	return res, nil
}

// Gift grants templateName to the target on behalf of the source. An
// unknown source does not stop the gift; the target is told it came from
// an unknown player and nobody is rewarded.
func (s *KitService) Gift(ctx context.Context, templateName string, fromID, toID domain.PlayerID, quantity int) (*GrantResult, error) {
	if err := s.readiness.Check(); err != nil {
		s.logger.DebugContext(ctx, "gift ignored", "reason", s.readiness.Reason())
		return nil, err
	}
	if templateName == "" {
		return nil, fmt.Errorf("%w: kit name is required", app_errors.ErrInvalidArguments)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat := s.load(ctx)
	template, ok := s.resolver.FindTemplate(cat, templateName)
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrTemplateNotFound, templateName)
	}
	source, ok := s.players.FindByID(fromID)
	if !ok {
		s.logger.ErrorContext(ctx, "invalid source player for gift", "source_id", fromID.String())
		source = nil
	}
	target, ok := s.players.FindByID(toID)
	if !ok {
		return nil, fmt.Errorf("%w: %s", app_errors.ErrPlayerNotFound, toID)
	}

	if source != nil {
		ctx = withSource(ctx, source.ID)
	}
	res, err := s.lifecycle.Grant(ctx, cat, template, target, quantity)
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "kit gifted",
		"kit", template.Name, "target_id", target.ID.String(), "source_id", fromID.String(),
		"outcome", string(res.Outcome), "uses", res.UseCount)
	s.settleGift(ctx, source, target, template)
	return res, nil
}

func (s *KitService) settleGift(ctx context.Context, source, target *domain.Player, kit *domain.Kit) {
	palette := s.cfg.Palette
	kitLabel := palette.KitLabel(kit.DisplayName)

	var sourceName string
	if source == nil {
		sourceName = i18n.Sprintf(target.Language, i18n.UnknownPlayer)
	} else {
		sourceName = source.DisplayName
		targetLabel := palette.PlayerLabel(target.DisplayName)
		if s.readiness.RewardsEnabled() && s.rewards != nil && s.cfg.GiftGiverReward > 0 {
			s.rewards.Credit(ctx, source.ID, s.cfg.GiftGiverReward)
			s.logger.DebugContext(ctx, "gift reward issued", "source_id", source.ID.String(), "amount", s.cfg.GiftGiverReward)
			s.notifier.Notify(ctx, source.ID, i18n.KitGiftGiverReward, targetLabel, kitLabel, palette.RewardLabel(s.cfg.GiftGiverReward))
		} else {
			s.notifier.Notify(ctx, source.ID, i18n.KitGiftGiver, targetLabel, kitLabel)
		}
	}

	s.notifier.Notify(ctx, target.ID, i18n.KitGiftGiven, palette.PlayerLabel(sourceName), kitLabel)
}

// load reads the catalogue. Failures fall back to an empty catalogue so
// the operation resolves nothing instead of acting on partial state.
func (s *KitService) load(ctx context.Context) *domain.Catalogue {
	cat, err := s.repo.LoadAll(ctx)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load kit catalogue, continuing with an empty one", "error", err)
		return domain.NewCatalogue()
	}
	return cat
}

type sourceKey struct{}

func withSource(ctx context.Context, id domain.PlayerID) context.Context {
	return context.WithValue(ctx, sourceKey{}, id)
}

func sourceFromContext(ctx context.Context) domain.PlayerID {
	id, _ := ctx.Value(sourceKey{}).(domain.PlayerID)
	return id
}
