package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	admingrpc "github.com/spounge-ai/playerkits/internal/app/grpc"
	"github.com/spounge-ai/playerkits/internal/infra/auth"
	"github.com/spounge-ai/playerkits/internal/infra/config"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/metadata"
	"google.golang.org/protobuf/encoding/protojson"
)

const usage = `usage: playerkitsctl <command> [args]

commands:
  token <subject>                 mint an admin token from the configured secret
  health                          query the admin service health
  give <player> <kit> [amount]    grant a kit directly
  gift <from> <to> <kit>          gift a kit from one player to another
  exec <console command...>       run a console command
  connect <player> <name> [lang]  report a player connection
  disconnect <player>             report a player disconnection
  drain [max]                     take queued chat lines and host commands

environment:
  PLAYERKITS_ADDR         admin address (default localhost:50061)
  PLAYERKITS_TOKEN        bearer token for admin calls
  PLAYERKITS_CONFIG_PATH  config file used by "token"`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}
	if err := run(os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(command string, args []string) error {
	if command == "token" {
		return mintToken(args)
	}

	addr := os.Getenv("PLAYERKITS_ADDR")
	if addr == "" {
		addr = "localhost:50061"
	}
	conn, err := grpc.NewClient(addr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		return fmt.Errorf("gRPC connection failed: %w", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if token := os.Getenv("PLAYERKITS_TOKEN"); token != "" {
		ctx = metadata.AppendToOutgoingContext(ctx, "authorization", "Bearer "+token)
	}

	if command == "health" {
		resp, err := grpc_health_v1.NewHealthClient(conn).Check(ctx, &grpc_health_v1.HealthCheckRequest{Service: admingrpc.AdminServiceName})
		if err != nil {
			return err
		}
		fmt.Println(resp.GetStatus().String())
		return nil
	}

	method, fields, err := request(command, args)
	if err != nil {
		return err
	}
	out, err := admingrpc.NewAdminClient(conn).Call(ctx, method, fields)
	if err != nil {
		return err
	}
	body, err := protojson.MarshalOptions{Multiline: true}.Marshal(out)
	if err != nil {
		return err
	}
	fmt.Println(string(body))
	return nil
}

func request(command string, args []string) (string, map[string]any, error) {
	need := func(n int) error {
		if len(args) < n {
			return fmt.Errorf("%s needs %d argument(s)\n\n%s", command, n, usage)
		}
		return nil
	}

	switch command {
	case "give":
		if err := need(2); err != nil {
			return "", nil, err
		}
		fields := map[string]any{"player": args[0], "kit": args[1]}
		if len(args) > 2 {
			amount, err := strconv.Atoi(args[2])
			if err != nil {
				return "", nil, fmt.Errorf("invalid amount %q", args[2])
			}
			fields["amount"] = amount
		}
		return admingrpc.MethodGive, fields, nil
	case "gift":
		if err := need(3); err != nil {
			return "", nil, err
		}
		return admingrpc.MethodGift, map[string]any{"from": args[0], "to": args[1], "kit": args[2]}, nil
	case "exec":
		if err := need(1); err != nil {
			return "", nil, err
		}
		return admingrpc.MethodExec, map[string]any{"command": strings.Join(args, " ")}, nil
	case "connect":
		if err := need(2); err != nil {
			return "", nil, err
		}
		fields := map[string]any{"player": args[0], "name": args[1]}
		if len(args) > 2 {
			fields["language"] = args[2]
		}
		return admingrpc.MethodConnect, fields, nil
	case "disconnect":
		if err := need(1); err != nil {
			return "", nil, err
		}
		return admingrpc.MethodDisconnect, map[string]any{"player": args[0]}, nil
	case "drain":
		fields := map[string]any{}
		if len(args) > 0 {
			limit, err := strconv.Atoi(args[0])
			if err != nil {
				return "", nil, fmt.Errorf("invalid max %q", args[0])
			}
			fields["max"] = limit
		}
		return admingrpc.MethodDrain, fields, nil
	default:
		return "", nil, fmt.Errorf("unknown command %q\n\n%s", command, usage)
	}
}

func mintToken(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("token needs a subject\n\n%s", usage)
	}
	cfg, err := config.Load(os.Getenv("PLAYERKITS_CONFIG_PATH"))
	if err != nil {
		return err
	}
	tm, err := auth.NewTokenManager(cfg.Server.AdminSecret)
	if err != nil {
		return err
	}
	token, err := tm.GenerateToken(args[0], cfg.Server.TokenTTL)
	if err != nil {
		return err
	}
	fmt.Println(token)
	return nil
}
