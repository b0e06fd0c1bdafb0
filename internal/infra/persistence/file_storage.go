package persistence

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
)

// FileStorage keeps the catalogue in the JSON data file owned by the kits
// plugin. Writes go through a temp file and rename.
type FileStorage struct {
	path             string
	permissionPrefix string
	reloader         domain.CatalogueReloader
	logger           *slog.Logger
}

func NewFileStorage(path, permissionPrefix string, reloader domain.CatalogueReloader, logger *slog.Logger) *FileStorage {
	return &FileStorage{
		path:             path,
		permissionPrefix: permissionPrefix,
		reloader:         reloader,
		logger:           logger,
	}
}

func (s *FileStorage) LoadAll(ctx context.Context) (*domain.Catalogue, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.logger.DebugContext(ctx, "kit data file missing, starting empty", "path", s.path)
		return domain.NewCatalogue(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %v", app_errors.ErrStorage, s.path, err)
	}
	return decodeCatalogue(data, s.permissionPrefix)
}

func (s *FileStorage) SaveAll(ctx context.Context, cat *domain.Catalogue) error {
	data, err := encodeCatalogue(cat)
	if err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: create %s: %v", app_errors.ErrStorage, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".kits-*.json")
	if err != nil {
		return fmt.Errorf("%w: create temp file: %v", app_errors.ErrStorage, err)
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("%w: write temp file: %v", app_errors.ErrStorage, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close temp file: %v", app_errors.ErrStorage, err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %v", app_errors.ErrStorage, s.path, err)
	}

	s.logger.DebugContext(ctx, "kit catalogue saved", "path", s.path, "kits", cat.Len())
	signalReload(s.reloader)
	return nil
}

// HealthCheck verifies the data directory is reachable. A corrupt file is
// not a health failure; loads degrade instead.
func (s *FileStorage) HealthCheck(_ context.Context) error {
	dir := filepath.Dir(s.path)
	info, err := os.Stat(dir)
	if err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrDependencyUnavailable, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("%w: %s is not a directory", app_errors.ErrDependencyUnavailable, dir)
	}
	return nil
}

func signalReload(r domain.CatalogueReloader) {
	if r != nil {
		r.Signal()
	}
}
