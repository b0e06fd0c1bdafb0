package persistence

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spounge-ai/playerkits/internal/infra/config"
)

// NewConnectionPool creates a database connection pool from the persistence settings.
func NewConnectionPool(ctx context.Context, serverConfig config.ServerConfig, persistenceConfig config.PersistenceConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(persistenceConfig.Database.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse db config: %w", err)
	}

	if serverConfig.Mode == "production" && poolConfig.ConnConfig.TLSConfig == nil {
		return nil, fmt.Errorf("database connection must use TLS in production mode")
	}

	conn := persistenceConfig.Database.Connection
	if conn.MaxConns > 0 {
		poolConfig.MaxConns = conn.MaxConns
	}
	poolConfig.MinConns = conn.MinConns
	poolConfig.MaxConnIdleTime = conn.MaxConnIdleTime
	poolConfig.MaxConnLifetime = conn.MaxConnLifetime
	if conn.HealthCheckPeriod > 0 {
		poolConfig.HealthCheckPeriod = conn.HealthCheckPeriod
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return pool, nil
}
