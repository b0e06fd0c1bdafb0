package grpc

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/spounge-ai/playerkits/internal/app/console"
	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/spounge-ai/playerkits/internal/infra/hostbridge"
	"github.com/spounge-ai/playerkits/internal/service"
	"google.golang.org/protobuf/types/known/structpb"
)

// PresenceTracker receives connect and disconnect events from the host.
type PresenceTracker interface {
	Connect(id domain.PlayerID, displayName, language string)
	Disconnect(id domain.PlayerID)
	Online() int
}

// HostQueue hands queued chat lines and commands to the host.
type HostQueue interface {
	Drain(max int) []hostbridge.Entry
}

// CommandExecutor runs console command lines.
type CommandExecutor interface {
	Execute(ctx context.Context, caller console.Caller, line string) (string, error)
}

const defaultDrainBatch = 100

type AdminDeps struct {
	Kits            console.KitGranter
	Console         CommandExecutor
	Presence        PresenceTracker
	Outbox          HostQueue
	Logger          *slog.Logger
	ErrorClassifier *app_errors.ErrorClassifier
}

type adminService struct {
	kits     console.KitGranter
	console  CommandExecutor
	presence PresenceTracker
	outbox   HostQueue
	logger   *slog.Logger
	errs     *app_errors.ErrorClassifier
}

func NewAdminService(deps AdminDeps) AdminServer {
	return &adminService{
		kits:     deps.Kits,
		console:  deps.Console,
		presence: deps.Presence,
		outbox:   deps.Outbox,
		logger:   deps.Logger,
		errs:     deps.ErrorClassifier,
	}
}

func (s *adminService) fail(ctx context.Context, method string, err error) error {
	return s.errs.LogAndSanitize(ctx, s.errs.Classify(err, method))
}

func (s *adminService) Give(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player, err := playerField(in, "player")
	if err != nil {
		return nil, s.fail(ctx, MethodGive, err)
	}
	amount, err := intField(in, "amount")
	if err != nil {
		return nil, s.fail(ctx, MethodGive, err)
	}

	res, err := s.kits.GiveDirect(ctx, stringField(in, "kit"), player, amount)
	if err != nil {
		return nil, s.fail(ctx, MethodGive, err)
	}
	return grantResponse(res)
}

func (s *adminService) Gift(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	from, err := playerField(in, "from")
	if err != nil {
		return nil, s.fail(ctx, MethodGift, err)
	}
	to, err := playerField(in, "to")
	if err != nil {
		return nil, s.fail(ctx, MethodGift, err)
	}

	res, err := s.kits.Gift(ctx, stringField(in, "kit"), from, to, 1)
	if err != nil {
		return nil, s.fail(ctx, MethodGift, err)
	}
	return grantResponse(res)
}

func (s *adminService) Exec(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var caller console.Caller
	if _, ok := in.GetFields()["caller"]; ok {
		id, err := playerField(in, "caller")
		if err != nil {
			return nil, s.fail(ctx, MethodExec, err)
		}
		caller.Player = id
	}

	reply, err := s.console.Execute(ctx, caller, stringField(in, "command"))
	if err != nil {
		return nil, s.fail(ctx, MethodExec, err)
	}
	return structpb.NewStruct(map[string]any{"reply": reply})
}

func (s *adminService) Connect(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player, err := playerField(in, "player")
	if err != nil {
		return nil, s.fail(ctx, MethodConnect, err)
	}
	s.presence.Connect(player, stringField(in, "name"), stringField(in, "language"))
	s.logger.DebugContext(ctx, "player connected", "player_id", player.String())
	return structpb.NewStruct(map[string]any{"online": s.presence.Online()})
}

func (s *adminService) Disconnect(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	player, err := playerField(in, "player")
	if err != nil {
		return nil, s.fail(ctx, MethodDisconnect, err)
	}
	s.presence.Disconnect(player)
	s.logger.DebugContext(ctx, "player disconnected", "player_id", player.String())
	return structpb.NewStruct(map[string]any{"online": s.presence.Online()})
}

func (s *adminService) Drain(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	limit, err := intField(in, "max")
	if err != nil {
		return nil, s.fail(ctx, MethodDrain, err)
	}
	if limit <= 0 {
		limit = defaultDrainBatch
	}

	entries := s.outbox.Drain(limit)
	list := make([]any, 0, len(entries))
	for _, e := range entries {
		item := map[string]any{"kind": string(e.Kind), "text": e.Text}
		if e.Player != 0 {
			item["player"] = e.Player.String()
		}
		list = append(list, item)
	}
	return structpb.NewStruct(map[string]any{"entries": list})
}

func grantResponse(res *service.GrantResult) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]any{
		"instance":  res.Instance.Name,
		"outcome":   string(res.Outcome),
		"use_count": res.UseCount,
	})
}

func stringField(in *structpb.Struct, name string) string {
	return in.GetFields()[name].GetStringValue()
}

// Player ids exceed the exact integer range of a JSON number, so they
// travel as decimal strings.
func playerField(in *structpb.Struct, name string) (domain.PlayerID, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s is required", app_errors.ErrInvalidArguments, name)
	}
	if _, isString := v.GetKind().(*structpb.Value_StringValue); !isString {
		return 0, fmt.Errorf("%w: %s must be a decimal string", app_errors.ErrInvalidArguments, name)
	}
	id, err := domain.ParsePlayerID(v.GetStringValue())
	if err != nil {
		return 0, fmt.Errorf("%w: %v", app_errors.ErrInvalidArguments, err)
	}
	return id, nil
}

func intField(in *structpb.Struct, name string) (int, error) {
	v, ok := in.GetFields()[name]
	if !ok {
		return 0, nil
	}
	n, isNumber := v.GetKind().(*structpb.Value_NumberValue)
	if !isNumber || n.NumberValue != math.Trunc(n.NumberValue) ||
		n.NumberValue > math.MaxInt32 || n.NumberValue < math.MinInt32 {
		return 0, fmt.Errorf("%w: %s must be an integer", app_errors.ErrInvalidArguments, name)
	}
	return int(n.NumberValue), nil
}
