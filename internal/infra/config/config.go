package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	customvalidator "github.com/spounge-ai/playerkits/pkg/validator"
)

type Config struct {
	Enabled        bool              `mapstructure:"enabled"`
	VerboseLogging bool              `mapstructure:"verbose_logging"`
	Chat           ChatConfig        `mapstructure:"chat"`
	Kits           KitsConfig        `mapstructure:"kits"`
	Rewards        RewardsConfig     `mapstructure:"rewards"`
	Server         ServerConfig      `mapstructure:"server"`
	Persistence    PersistenceConfig `mapstructure:"persistence"`
	AWS            AWSConfig         `mapstructure:"aws"`
	Host           HostConfig        `mapstructure:"host"`
	Permissions    PermissionsConfig `mapstructure:"permissions"`
	Presence       PresenceConfig    `mapstructure:"presence"`
	Auditing       AuditingConfig    `mapstructure:"auditing"`
	ServiceVersion string
	BuildCommit    string
}

// ChatConfig controls how outbound chat lines are decorated.
type ChatConfig struct {
	Prefix             string `mapstructure:"prefix"                validate:"required"`
	PrefixColor        string `mapstructure:"prefix_color"          validate:"required,hexcolor"`
	KitNameColor       string `mapstructure:"kit_name_color"        validate:"required,hexcolor"`
	GiftGiverNameColor string `mapstructure:"gift_giver_name_color" validate:"required,hexcolor"`
	GiftRewardColor    string `mapstructure:"gift_reward_color"     validate:"required,hexcolor"`
	DefaultLanguage    string `mapstructure:"default_language"      validate:"required,bcp47_language_tag"`
}

// KitsConfig describes how player instances are derived from templates.
type KitsConfig struct {
	PermissionPrefix string `mapstructure:"permission_prefix" validate:"required,permprefix"`
	InstanceColor    string `mapstructure:"instance_color"    validate:"required,hexcolor"`
	OwningModule     string `mapstructure:"owning_module"     validate:"required"`
}

type RewardsConfig struct {
	GiftGiverReward int                  `mapstructure:"gift_giver_reward" validate:"gte=0"`
	Backend         string               `mapstructure:"backend"           validate:"required,oneof=none postgres host"`
	HostCommand     string               `mapstructure:"host_command"      validate:"required_if=Backend host"`
	Dispatcher      RewardDispatchConfig `mapstructure:"dispatcher"`
}

type RewardDispatchConfig struct {
	BufferSize  int           `mapstructure:"buffer_size"  validate:"gte=1"`
	WorkerCount int           `mapstructure:"worker_count" validate:"gte=1"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type PermissionsConfig struct {
	Path string `mapstructure:"path" validate:"required"`
}

type PresenceConfig struct {
	SleeperTTL time.Duration `mapstructure:"sleeper_ttl"`
}

func Load(path string) (*Config, error) {
	vip := viper.New()
	if path != "" {
		vip.SetConfigFile(path)
	} else {
		vip.SetConfigName("config")
		vip.AddConfigPath("./configs")
		vip.AddConfigPath(".")
	}

	vip.SetConfigType("yaml")
	vip.SetEnvPrefix("PLAYERKITS")
	vip.AutomaticEnv()
	vip.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(vip)

	if err := vip.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := vip.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	validate := validator.New()
	if err := customvalidator.RegisterCustomValidators(validate); err != nil {
		return nil, fmt.Errorf("failed to register custom validators: %w", err)
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	if err := cfg.CheckBackends(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.ServiceVersion = getenv("PLAYERKITS_SERVICE_VERSION", "unknown")
	cfg.BuildCommit = getenv("PLAYERKITS_BUILD_COMMIT", "unknown")

	return &cfg, nil
}

func setDefaults(vip *viper.Viper) {
	vip.SetDefault("enabled", true)
	vip.SetDefault("verbose_logging", true)

	vip.SetDefault("chat.prefix", "Kits")
	vip.SetDefault("chat.prefix_color", "#787FFF")
	vip.SetDefault("chat.kit_name_color", "#A3F551")
	vip.SetDefault("chat.gift_giver_name_color", "#A3F551")
	vip.SetDefault("chat.gift_reward_color", "#FFEC50")
	vip.SetDefault("chat.default_language", "en")

	vip.SetDefault("kits.permission_prefix", "kitsextension")
	vip.SetDefault("kits.instance_color", "#0059FF")
	vip.SetDefault("kits.owning_module", "KitsExtension")

	vip.SetDefault("rewards.gift_giver_reward", 1000)
	vip.SetDefault("rewards.backend", "none")
	vip.SetDefault("rewards.host_command", "sr add {player} {amount}")
	vip.SetDefault("rewards.dispatcher.buffer_size", 256)
	vip.SetDefault("rewards.dispatcher.worker_count", 2)
	vip.SetDefault("rewards.dispatcher.timeout", 5*time.Second)

	vip.SetDefault("server.port", 50061)
	vip.SetDefault("server.mode", "development")
	vip.SetDefault("server.token_ttl", time.Hour)
	vip.SetDefault("server.rate_limiter.enabled", true)
	vip.SetDefault("server.rate_limiter.rate", 10)
	vip.SetDefault("server.rate_limiter.burst", 20)

	vip.SetDefault("persistence.type", "file")
	vip.SetDefault("persistence.file.path", "data/Kits/Kits.json")
	vip.SetDefault("persistence.timeout", 5*time.Second)
	vip.SetDefault("persistence.circuit_breaker.enabled", true)
	vip.SetDefault("persistence.circuit_breaker.max_failures", 5)
	vip.SetDefault("persistence.circuit_breaker.reset_timeout", 30*time.Second)
	vip.SetDefault("persistence.database.connection.max_conns", 10)
	vip.SetDefault("persistence.database.connection.min_conns", 1)
	vip.SetDefault("persistence.database.connection.max_conn_lifetime", time.Hour)
	vip.SetDefault("persistence.database.connection.max_conn_idle_time", 30*time.Minute)
	vip.SetDefault("persistence.database.connection.health_check_period", time.Minute)

	vip.SetDefault("aws.s3_key", "Kits/Kits.json")

	vip.SetDefault("host.reload_command", "oxide.reload Kits")
	vip.SetDefault("host.reload_interval", 2*time.Second)
	vip.SetDefault("host.outbox_capacity", 1024)

	vip.SetDefault("permissions.path", "data/permissions.yaml")
	vip.SetDefault("presence.sleeper_ttl", 30*time.Minute)

	vip.SetDefault("auditing.persist", false)
}

// getenv returns an environment variable or a default value.
func getenv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}
