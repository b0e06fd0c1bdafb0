package config

import "time"

// HostConfig describes the bridge to the game host process.
type HostConfig struct {
	ReloadCommand  string        `mapstructure:"reload_command"  validate:"required"`
	ReloadInterval time.Duration `mapstructure:"reload_interval"`
	OutboxCapacity int           `mapstructure:"outbox_capacity" validate:"gte=1"`
}
