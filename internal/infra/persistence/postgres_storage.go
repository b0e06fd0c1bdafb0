package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/pkg/postgres"
)

const (
	selectKitsSQL = `SELECT data FROM kits ORDER BY position`
	deleteKitsSQL = `DELETE FROM kits`
	insertKitSQL  = `INSERT INTO kits (position, name, data) VALUES ($1, $2, $3)`
)

var catalogueLockID = postgres.LockID("playerkits.kits")

// PostgresStorage keeps one row per kit, ordered by catalogue position.
type PostgresStorage struct {
	db               postgres.DB
	tm               *TransactionManager[struct{}]
	permissionPrefix string
	reloader         domain.CatalogueReloader
	logger           *slog.Logger
}

func NewPostgresStorage(db postgres.DB, permissionPrefix string, reloader domain.CatalogueReloader, logger *slog.Logger) *PostgresStorage {
	return &PostgresStorage{
		db:               db,
		tm:               NewTransactionManager[struct{}](logger),
		permissionPrefix: permissionPrefix,
		reloader:         reloader,
		logger:           logger,
	}
}

func (s *PostgresStorage) LoadAll(ctx context.Context) (*domain.Catalogue, error) {
	rows, err := s.db.Query(ctx, selectKitsSQL)
	if err != nil {
		return nil, fmt.Errorf("%w: query kits: %v", app_errors.ErrStorage, err)
	}
	defer rows.Close()

	cat := domain.NewCatalogue()
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: scan kit: %v", app_errors.ErrStorage, err)
		}
		kit, err := decodeKit(data)
		if err != nil {
			return nil, err
		}
		cat.Append(kit)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate kits: %v", app_errors.ErrStorage, err)
	}

	cat.Classify(s.permissionPrefix)
	return cat, nil
}

func (s *PostgresStorage) SaveAll(ctx context.Context, cat *domain.Catalogue) error {
	_, err := s.tm.ExecuteInTransaction(ctx, s.db, func(ctx context.Context, tx pgx.Tx) (struct{}, error) {
		if err := postgres.AcquireXactLock(ctx, tx, catalogueLockID); err != nil {
			return struct{}{}, err
		}
		if _, err := tx.Exec(ctx, deleteKitsSQL); err != nil {
			return struct{}{}, fmt.Errorf("clear kits: %w", err)
		}
		for i, kit := range cat.Kits {
			data, err := encodeKit(kit)
			if err != nil {
				return struct{}{}, err
			}
			if _, err := tx.Exec(ctx, insertKitSQL, i, kit.Name, data); err != nil {
				return struct{}{}, fmt.Errorf("insert kit %q: %w", kit.Name, err)
			}
		}
		return struct{}{}, nil
	})
	if err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}

	s.logger.DebugContext(ctx, "kit catalogue saved", "backend", "postgres", "kits", cat.Len())
	signalReload(s.reloader)
	return nil
}

func (s *PostgresStorage) HealthCheck(ctx context.Context) error {
	if err := s.db.Ping(ctx); err != nil {
		return fmt.Errorf("%w: postgres ping failed: %v", app_errors.ErrDependencyUnavailable, err)
	}
	return nil
}
