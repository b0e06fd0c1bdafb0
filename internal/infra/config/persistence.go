package config

import "time"

// CircuitBreakerConfig holds settings for the persistence circuit breaker.
type CircuitBreakerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	MaxFailures  int           `mapstructure:"max_failures"`
	ResetTimeout time.Duration `mapstructure:"reset_timeout"`
}

// PersistenceConfig represents the persistence configuration.
type PersistenceConfig struct {
	Type           string               `mapstructure:"type" validate:"required,oneof=file s3 postgres"`
	File           FileConfig           `mapstructure:"file"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Timeout        time.Duration        `mapstructure:"timeout"`
	CircuitBreaker CircuitBreakerConfig `mapstructure:"circuit_breaker"`
}

// FileConfig locates the catalogue data file shared with the kits plugin.
type FileConfig struct {
	Path string `mapstructure:"path"`
}

// DatabaseConfig represents the database configuration.
type DatabaseConfig struct {
	URL        string             `mapstructure:"url"`
	Connection DBConnectionConfig `mapstructure:"connection"`
}

// DBConnectionConfig represents the database connection pool configuration.
type DBConnectionConfig struct {
	MaxConns          int32         `mapstructure:"max_conns"`
	MinConns          int32         `mapstructure:"min_conns"`
	MaxConnLifetime   time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime   time.Duration `mapstructure:"max_conn_idle_time"`
	HealthCheckPeriod time.Duration `mapstructure:"health_check_period"`
}

// NeedsDatabase reports whether any configured component talks to Postgres.
func (c *Config) NeedsDatabase() bool {
	return c.Persistence.Type == "postgres" || c.Rewards.Backend == "postgres" || c.Auditing.Persist
}
