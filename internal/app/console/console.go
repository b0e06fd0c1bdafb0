// Package console parses administrative console commands and runs them
// against the kit service.
package console

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/internal/service"
)

// KitGranter is the part of the kit service the console drives.
type KitGranter interface {
	GiveDirect(ctx context.Context, templateName string, player domain.PlayerID, quantity int) (*service.GrantResult, error)
	Gift(ctx context.Context, templateName string, from, to domain.PlayerID, quantity int) (*service.GrantResult, error)
	Readiness() *service.Readiness
}

// Caller identifies who issued a command. The zero value is the server
// console; commands typed by players are ignored.
type Caller struct {
	Player domain.PlayerID
}

func (c Caller) IsPlayer() bool { return c.Player != 0 }

type Dispatcher struct {
	svc    KitGranter
	prefix string
	logger *slog.Logger
}

func NewDispatcher(svc KitGranter, commandPrefix string, logger *slog.Logger) *Dispatcher {
	return &Dispatcher{svc: svc, prefix: commandPrefix, logger: logger}
}

// Commands lists the command names the dispatcher accepts.
func (d *Dispatcher) Commands() []string {
	return []string{d.prefix + ".give", d.prefix + ".gift", d.prefix + ".status"}
}

// Execute runs one command line and returns the reply for the console.
func (d *Dispatcher) Execute(ctx context.Context, caller Caller, line string) (string, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil
	}
	if caller.IsPlayer() {
		d.logger.DebugContext(ctx, "ignoring console command from player", "player_id", caller.Player.String(), "command", fields[0])
		return "", nil
	}

	name, args := fields[0], fields[1:]
	switch name {
	case d.prefix + ".give":
		return d.give(ctx, args)
	case d.prefix + ".gift":
		return d.gift(ctx, args)
	case d.prefix + ".status":
		return d.status(), nil
	default:
		return "", fmt.Errorf("%w: unknown command %q", app_errors.ErrInvalidArguments, name)
	}
}

func (d *Dispatcher) give(ctx context.Context, args []string) (string, error) {
	usage := fmt.Sprintf("usage: %s.give <playerId> <kitName> [amount]", d.prefix)
	if len(args) < 2 {
		return "", fmt.Errorf("%w: %s", app_errors.ErrInvalidArguments, usage)
	}
	player, err := domain.ParsePlayerID(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v; %s", app_errors.ErrInvalidArguments, err, usage)
	}
	amount := 0
	if len(args) > 2 {
		n, err := strconv.ParseInt(args[2], 10, 32)
		if err != nil {
			return "", fmt.Errorf("%w: invalid amount %q; %s", app_errors.ErrInvalidArguments, args[2], usage)
		}
		amount = int(n)
	}

	res, err := d.svc.GiveDirect(ctx, args[1], player, amount)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s for %s (%d uses)", res.Instance.Name, res.Outcome, player, res.UseCount), nil
}

func (d *Dispatcher) gift(ctx context.Context, args []string) (string, error) {
	usage := fmt.Sprintf("usage: %s.gift <fromPlayerId> <toPlayerId> <kitName>", d.prefix)
	if len(args) < 3 {
		return "", fmt.Errorf("%w: %s", app_errors.ErrInvalidArguments, usage)
	}
	from, err := domain.ParsePlayerID(args[0])
	if err != nil {
		return "", fmt.Errorf("%w: %v; %s", app_errors.ErrInvalidArguments, err, usage)
	}
	to, err := domain.ParsePlayerID(args[1])
	if err != nil {
		return "", fmt.Errorf("%w: %v; %s", app_errors.ErrInvalidArguments, err, usage)
	}

	res, err := d.svc.Gift(ctx, args[2], from, to, 1)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s %s for %s, gifted by %s (%d uses)", res.Instance.Name, res.Outcome, to, from, res.UseCount), nil
}

func (d *Dispatcher) status() string {
	r := d.svc.Readiness()
	if !r.Ready() {
		return "kit extension disabled: " + r.Reason()
	}
	return fmt.Sprintf("kit extension ready (gift rewards: %t)", r.RewardsEnabled())
}

// Run executes commands read line by line from in as the server console
// until in is exhausted or ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	scanner := bufio.NewScanner(in)
	for scanner.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		reply, err := d.Execute(ctx, Caller{}, scanner.Text())
		if err != nil {
			d.logger.ErrorContext(ctx, "console command failed", "command", scanner.Text(), "error", err)
			fmt.Fprintln(out, "error:", err)
			continue
		}
		if reply != "" {
			fmt.Fprintln(out, reply)
		}
	}
	return scanner.Err()
}
