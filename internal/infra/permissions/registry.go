package permissions

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"gopkg.in/yaml.v3"
)

var ErrNotRegistered = errors.New("permission not registered")

// registryFile is the YAML layout of the registry.
type registryFile struct {
	Permissions map[string]string   `yaml:"permissions"`
	Grants      map[string][]string `yaml:"grants"`
}

// FileRegistry is an access-control registry persisted to a YAML file.
// Registration and grants are idempotent.
type FileRegistry struct {
	path   string
	logger *slog.Logger

	mu    sync.RWMutex
	perms map[string]string
	grant map[domain.PlayerID][]string
}

// NewFileRegistry loads the registry at path. A missing file is an empty registry.
func NewFileRegistry(path string, logger *slog.Logger) (*FileRegistry, error) {
	r := &FileRegistry{
		path:   path,
		logger: logger,
		perms:  make(map[string]string),
		grant:  make(map[domain.PlayerID][]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return r, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read permission registry %s: %w", path, err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to unmarshal permission registry: %w", err)
	}
	for name, module := range file.Permissions {
		r.perms[name] = module
	}
	for idStr, names := range file.Grants {
		id, err := domain.ParsePlayerID(idStr)
		if err != nil {
			return nil, fmt.Errorf("invalid grant entry: %w", err)
		}
		r.grant[id] = slices.Clone(names)
	}
	return r, nil
}

func (r *FileRegistry) RegisterPermission(ctx context.Context, name, module string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.perms[name]; ok {
		return nil
	}
	r.perms[name] = module
	r.logger.DebugContext(ctx, "permission registered", "permission", name, "module", module)
	return r.persistLocked()
}

func (r *FileRegistry) GrantPermission(ctx context.Context, player domain.PlayerID, name, module string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	owner, ok := r.perms[name]
	if !ok {
		return fmt.Errorf("%w: %w: %s", app_errors.ErrInvalidArguments, ErrNotRegistered, name)
	}
	if owner != module {
		r.logger.WarnContext(ctx, "granting permission owned by another module", "permission", name, "owner", owner, "module", module)
	}
	if slices.Contains(r.grant[player], name) {
		return nil
	}
	r.grant[player] = append(r.grant[player], name)
	r.logger.DebugContext(ctx, "permission granted", "permission", name, "player_id", player.String())
	return r.persistLocked()
}

// HasPermission reports whether player holds name.
func (r *FileRegistry) HasPermission(player domain.PlayerID, name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Contains(r.grant[player], name)
}

// IsRegistered reports whether name has been registered.
func (r *FileRegistry) IsRegistered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.perms[name]
	return ok
}

func (r *FileRegistry) persistLocked() error {
	file := registryFile{
		Permissions: r.perms,
		Grants:      make(map[string][]string, len(r.grant)),
	}
	for id, names := range r.grant {
		file.Grants[id.String()] = names
	}

	data, err := yaml.Marshal(&file)
	if err != nil {
		return fmt.Errorf("failed to marshal permission registry: %w", err)
	}

	dir := filepath.Dir(r.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}
	tmp := r.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}
	if err := os.Rename(tmp, r.path); err != nil {
		return fmt.Errorf("%w: %v", app_errors.ErrStorage, err)
	}
	return nil
}
