package notify

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spounge-ai/playerkits/internal/domain"
	"github.com/spounge-ai/playerkits/internal/i18n"
)

// ChatSender delivers a rendered chat line to a player.
type ChatSender interface {
	SendChat(player domain.PlayerID, text string)
}

// Palette wraps message arguments in rich-text color tags.
type Palette struct {
	KitName   string
	GiverName string
	Reward    string
}

// Colorize wraps text in a color tag.
func Colorize(color, text string) string {
	return "<color=" + color + ">" + text + "</color>"
}

func (p Palette) KitLabel(name string) string    { return Colorize(p.KitName, name) }
func (p Palette) PlayerLabel(name string) string { return Colorize(p.GiverName, name) }
func (p Palette) RewardLabel(points int) string {
	return Colorize(p.Reward, fmt.Sprintf("%d RP", points))
}

// Notifier renders catalog messages in the recipient's language and sends
// them with the chat prefix.
type Notifier struct {
	players     domain.PlayerDirectory
	sender      ChatSender
	prefix      string
	prefixColor string
	logger      *slog.Logger
}

func NewNotifier(players domain.PlayerDirectory, sender ChatSender, prefix, prefixColor string, logger *slog.Logger) *Notifier {
	return &Notifier{
		players:     players,
		sender:      sender,
		prefix:      prefix,
		prefixColor: prefixColor,
		logger:      logger,
	}
}

// Notify sends key to player. Unknown or disconnected players and blank
// messages are skipped.
func (n *Notifier) Notify(ctx context.Context, player domain.PlayerID, key string, args ...any) {
	p, ok := n.players.FindByID(player)
	if !ok || !p.Connected {
		n.logger.DebugContext(ctx, "player not connected, message skipped", "player_id", player.String(), "message", key)
		return
	}
	msg := i18n.Sprintf(p.Language, key, args...)
	if strings.TrimSpace(msg) == "" {
		return
	}
	n.sender.SendChat(player, Colorize(n.prefixColor, n.prefix)+": "+msg)
}
