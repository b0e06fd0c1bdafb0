package presence

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/spounge-ai/playerkits/internal/domain"
)

// Directory tracks players reported by the host. Players who disconnect
// stay resolvable as sleepers until the sleeper TTL expires.
type Directory struct {
	mu              sync.RWMutex
	online          map[domain.PlayerID]domain.Player
	sleepers        *cache.Cache
	defaultLanguage string
}

func NewDirectory(sleeperTTL time.Duration, defaultLanguage string) *Directory {
	if sleeperTTL <= 0 {
		sleeperTTL = 30 * time.Minute
	}
	return &Directory{
		online:          make(map[domain.PlayerID]domain.Player),
		sleepers:        cache.New(sleeperTTL, 2*sleeperTTL),
		defaultLanguage: defaultLanguage,
	}
}

// Connect marks a player online.
func (d *Directory) Connect(id domain.PlayerID, displayName, language string) {
	if language == "" {
		language = d.defaultLanguage
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.sleepers.Delete(id.String())
	d.online[id] = domain.Player{ID: id, DisplayName: displayName, Language: language, Connected: true}
}

// Disconnect moves an online player to the sleeper set.
func (d *Directory) Disconnect(id domain.PlayerID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.online[id]
	if !ok {
		return
	}
	delete(d.online, id)
	p.Connected = false
	d.sleepers.Set(id.String(), p, cache.DefaultExpiration)
}

// FindByID resolves online players first, then sleepers.
func (d *Directory) FindByID(id domain.PlayerID) (*domain.Player, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if p, ok := d.online[id]; ok {
		return &p, true
	}
	if v, ok := d.sleepers.Get(id.String()); ok {
		p := v.(domain.Player)
		return &p, true
	}
	return nil, false
}

// Online returns the number of connected players.
func (d *Directory) Online() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.online)
}
