// Package hostbridge queues work for the game host: chat lines addressed to
// players and console commands. The host drains the queue over the admin API.
package hostbridge

import (
	"log/slog"
	"sync"

	"github.com/spounge-ai/playerkits/internal/domain"
)

type EntryKind string

const (
	KindChat    EntryKind = "chat"
	KindCommand EntryKind = "command"
)

// Entry is one unit of work for the host.
type Entry struct {
	Kind   EntryKind
	Player domain.PlayerID
	Text   string
}

// Outbox is a bounded FIFO. When full, the oldest entry is dropped.
type Outbox struct {
	mu       sync.Mutex
	entries  []Entry
	capacity int
	logger   *slog.Logger
}

func NewOutbox(capacity int, logger *slog.Logger) *Outbox {
	if capacity <= 0 {
		capacity = 1024
	}
	return &Outbox{capacity: capacity, logger: logger}
}

// SendChat queues a chat line for player.
func (o *Outbox) SendChat(player domain.PlayerID, text string) {
	o.push(Entry{Kind: KindChat, Player: player, Text: text})
}

// RunCommand queues a host console command.
func (o *Outbox) RunCommand(command string) {
	o.push(Entry{Kind: KindCommand, Text: command})
}

func (o *Outbox) push(e Entry) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if len(o.entries) >= o.capacity {
		dropped := o.entries[0]
		o.entries = o.entries[1:]
		o.logger.Warn("host outbox full, dropping oldest entry", "kind", dropped.Kind, "player_id", dropped.Player.String())
	}
	o.entries = append(o.entries, e)
}

// Drain removes and returns up to max entries in queue order. max <= 0 drains everything.
func (o *Outbox) Drain(max int) []Entry {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := len(o.entries)
	if max > 0 && max < n {
		n = max
	}
	out := make([]Entry, n)
	copy(out, o.entries[:n])
	o.entries = append(o.entries[:0], o.entries[n:]...)
	return out
}

// Len returns the number of queued entries.
func (o *Outbox) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.entries)
}
