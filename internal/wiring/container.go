package wiring

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spounge-ai/playerkits/internal/app/console"
	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/internal/infra/audit"
	"github.com/spounge-ai/playerkits/internal/infra/auth"
	"github.com/spounge-ai/playerkits/internal/infra/catalogue"
	"github.com/spounge-ai/playerkits/internal/infra/config"
	"github.com/spounge-ai/playerkits/internal/infra/hostbridge"
	"github.com/spounge-ai/playerkits/internal/infra/permissions"
	"github.com/spounge-ai/playerkits/internal/infra/persistence"
	"github.com/spounge-ai/playerkits/internal/infra/presence"
	"github.com/spounge-ai/playerkits/internal/infra/rewards"
	"github.com/spounge-ai/playerkits/internal/notify"
	"github.com/spounge-ai/playerkits/internal/service"
	"github.com/spounge-ai/playerkits/pkg/patterns/lifecycle"
)

const (
	auditBufferSize   = 256
	dbMonitorInterval = 30 * time.Second
	defaultDBTimeout  = 5 * time.Second
)

// NewLogger returns the process logger. Verbose logging enables debug output.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if cfg.VerboseLogging {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Server.Mode == "production" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Container holds the assembled application graph.
type Container struct {
	cfg    *config.Config
	logger *slog.Logger

	pool      *pgxpool.Pool
	dbMonitor *persistence.ConnectionMonitor

	Outbox          *hostbridge.Outbox
	Presence        *presence.Directory
	Permissions     *permissions.FileRegistry
	Reloader        *catalogue.Reloader
	Audit           *audit.Logger
	Rewards         *rewards.Dispatcher
	Repository      domain.KitRepository
	Readiness       *service.Readiness
	KitService      *service.KitService
	Console         *console.Dispatcher
	Tokens          *auth.TokenManager
	ErrorClassifier *app_errors.ErrorClassifier
}

// Build wires every component from cfg. Readiness is evaluated here, once.
func Build(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Container, error) {
	c := &Container{
		cfg:             cfg,
		logger:          logger,
		ErrorClassifier: app_errors.NewErrorClassifier(logger),
	}

	if cfg.NeedsDatabase() {
		pool, err := persistence.NewConnectionPool(ctx, cfg.Server, cfg.Persistence)
		if err != nil {
			return nil, err
		}
		c.pool = pool
		c.dbMonitor = persistence.NewConnectionMonitor(pool, logger)
	}

	c.Outbox = hostbridge.NewOutbox(cfg.Host.OutboxCapacity, logger)
	c.Presence = presence.NewDirectory(cfg.Presence.SleeperTTL, cfg.Chat.DefaultLanguage)
	c.Reloader = catalogue.NewReloader(c.Outbox, cfg.Host.ReloadCommand, cfg.Host.ReloadInterval, logger)

	registry, err := permissions.NewFileRegistry(cfg.Permissions.Path, logger)
	if err != nil {
		c.Close()
		return nil, fmt.Errorf("failed to open permission registry: %w", err)
	}
	c.Permissions = registry

	repo, err := c.provideRepository(ctx)
	if err != nil {
		c.Close()
		return nil, err
	}
	c.Repository = repo

	var auditRepo domain.AuditRepository
	if cfg.Auditing.Persist {
		auditRepo = persistence.NewAuditRepository(c.pool)
	}
	c.Audit = audit.NewAuditLogger(logger, auditRepo, auditBufferSize)

	var rewardService domain.RewardService
	if ledger := c.provideLedger(); ledger != nil {
		c.Rewards = rewards.NewDispatcher(ledger, logger, rewards.DispatcherConfig{
			BufferSize:  cfg.Rewards.Dispatcher.BufferSize,
			WorkerCount: cfg.Rewards.Dispatcher.WorkerCount,
			Timeout:     cfg.Rewards.Dispatcher.Timeout,
		})
		rewardService = c.Rewards
	}

	c.Readiness = service.EvaluateReadiness(ctx, service.ReadinessInput{
		Enabled:          cfg.Enabled,
		Catalogue:        c.Repository,
		GiftGiverReward:  cfg.Rewards.GiftGiverReward,
		RewardsAvailable: rewardService != nil,
	}, logger)

	lc := service.NewLifecycle(c.Repository, c.Permissions, c.Audit, service.LifecycleConfig{
		PermissionPrefix: cfg.Kits.PermissionPrefix,
		InstanceColor:    cfg.Kits.InstanceColor,
		OwningModule:     cfg.Kits.OwningModule,
	}, logger)

	notifier := notify.NewNotifier(c.Presence, c.Outbox, cfg.Chat.Prefix, cfg.Chat.PrefixColor, logger)
	c.KitService = service.NewKitService(c.Repository, lc, c.Presence, notifier, rewardService, c.Readiness,
		service.KitServiceConfig{
			GiftGiverReward: cfg.Rewards.GiftGiverReward,
			Palette: notify.Palette{
				KitName:   cfg.Chat.KitNameColor,
				GiverName: cfg.Chat.GiftGiverNameColor,
				Reward:    cfg.Chat.GiftRewardColor,
			},
		}, logger)
	c.Console = console.NewDispatcher(c.KitService, cfg.Kits.PermissionPrefix, logger)

	if cfg.Server.AdminSecret != "" {
		tokens, err := auth.NewTokenManager(cfg.Server.AdminSecret)
		if err != nil {
			c.Close()
			return nil, err
		}
		c.Tokens = tokens
	}

	return c, nil
}

func (c *Container) provideRepository(ctx context.Context) (domain.KitRepository, error) {
	prefix := c.cfg.Kits.PermissionPrefix
	var repo domain.KitRepository

	switch c.cfg.Persistence.Type {
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(c.cfg.AWS.Region))
		if err != nil {
			return nil, fmt.Errorf("failed to load aws config: %w", err)
		}
		repo = persistence.NewS3Storage(awsCfg, c.cfg.AWS.S3Bucket, c.cfg.AWS.S3Key, prefix, c.Reloader, c.logger)
	case "postgres":
		repo = persistence.NewPostgresStorage(c.pool, prefix, c.Reloader, c.logger)
	default:
		repo = persistence.NewFileStorage(c.cfg.Persistence.File.Path, prefix, c.Reloader, c.logger)
	}

	cb := c.cfg.Persistence.CircuitBreaker
	if !cb.Enabled {
		return repo, nil
	}
	timeout := c.cfg.Persistence.Timeout
	if timeout <= 0 {
		timeout = defaultDBTimeout
	}
	return persistence.NewResilientRepository(repo, cb.MaxFailures, cb.ResetTimeout, timeout, c.logger), nil
}

func (c *Container) provideLedger() rewards.PointsLedger {
	switch c.cfg.Rewards.Backend {
	case "postgres":
		return rewards.NewPostgresLedger(c.pool)
	case "host":
		return rewards.NewHostLedger(c.Outbox, c.cfg.Rewards.HostCommand)
	default:
		return nil
	}
}

// Resources lists the background workers in start order.
func (c *Container) Resources() []lifecycle.Named {
	resources := []lifecycle.Named{
		{Name: "audit", Resource: lifecycle.Func{StartFn: c.Audit.Start, StopFn: c.Audit.Stop}},
		{Name: "reloader", Resource: lifecycle.Func{StartFn: c.Reloader.Start, StopFn: c.Reloader.Stop}},
	}
	if c.Rewards != nil {
		resources = append(resources, lifecycle.Named{
			Name:     "rewards",
			Resource: lifecycle.Func{StartFn: c.Rewards.Start, StopFn: c.Rewards.Stop},
		})
	}
	if c.dbMonitor != nil {
		var cancel context.CancelFunc
		resources = append(resources, lifecycle.Named{Name: "db-monitor", Resource: lifecycle.Func{
			StartFn: func(context.Context) error {
				var ctx context.Context
				ctx, cancel = context.WithCancel(context.Background())
				go c.dbMonitor.Start(ctx, dbMonitorInterval)
				return nil
			},
			StopFn: func(context.Context) error {
				if cancel != nil {
					cancel()
				}
				return nil
			},
		}})
	}
	return resources
}

// Close releases the database pool.
func (c *Container) Close() {
	if c.pool != nil {
		c.pool.Close()
		c.pool = nil
	}
}
