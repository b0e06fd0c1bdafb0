package wiring

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spounge-ai/playerkits/internal/app/console"
	"github.com/spounge-ai/playerkits/internal/infra/config"
	"github.com/spounge-ai/playerkits/internal/infra/hostbridge"
	"github.com/spounge-ai/playerkits/internal/service"
	"github.com/spounge-ai/playerkits/pkg/patterns/lifecycle"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const starterCatalogue = `{"Kits":[{"Name":"starter","Display Name":"Starter","Amount":3,"Items":[]}]}`

func loadTestConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	dir := t.TempDir()
	kitsPath := filepath.Join(dir, "Kits.json")
	require.NoError(t, os.WriteFile(kitsPath, []byte(starterCatalogue), 0o600))

	body := "persistence:\n  file:\n    path: " + kitsPath + "\n" +
		"permissions:\n  path: " + filepath.Join(dir, "permissions.yaml") + "\n" + extra
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o600))

	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	return cfg
}

func TestBuild_GiftEndToEnd(t *testing.T) {
	cfg := loadTestConfig(t, "rewards:\n  backend: host\n")
	ctx := context.Background()

	c, err := Build(ctx, cfg, NewLogger(cfg, io.Discard))
	require.NoError(t, err)
	defer c.Close()

	require.True(t, c.Readiness.Ready())
	require.True(t, c.Readiness.RewardsEnabled())
	require.Nil(t, c.Tokens)

	group := lifecycle.NewGroup(c.Resources()...)
	require.NoError(t, group.Start(ctx))

	c.Presence.Connect(1, "Giver", "")
	c.Presence.Connect(2, "Target", "")

	res, err := c.KitService.Gift(ctx, "starter", 1, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, service.OutcomeCreated, res.Outcome)
	assert.Equal(t, 3, res.UseCount)
	assert.True(t, c.Permissions.HasPermission(2, "kitsextension.playerkit.starter_2"))

	data, err := os.ReadFile(cfg.Persistence.File.Path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "starter_2")

	var commands []string
	assert.Eventually(t, func() bool {
		for _, e := range c.Outbox.Drain(0) {
			if e.Kind == hostbridge.KindCommand {
				commands = append(commands, e.Text)
			}
		}
		return len(commands) >= 2
	}, 5*time.Second, 20*time.Millisecond)
	assert.ElementsMatch(t, []string{"sr add 1 1000", "oxide.reload Kits"}, commands)

	require.NoError(t, group.Stop(ctx))
}

func TestBuild_DisabledByConfiguration(t *testing.T) {
	cfg := loadTestConfig(t, "enabled: false\n")

	c, err := Build(context.Background(), cfg, NewLogger(cfg, io.Discard))
	require.NoError(t, err)
	defer c.Close()

	assert.False(t, c.Readiness.Ready())
	reply, err := c.Console.Execute(context.Background(), console.Caller{}, "kitsextension.status")
	require.NoError(t, err)
	assert.Equal(t, "kit extension disabled: disabled by configuration", reply)
}

func TestBuild_IssuesTokensWhenSecretConfigured(t *testing.T) {
	cfg := loadTestConfig(t, "server:\n  admin_secret: 0123456789abcdef0123456789abcdef\n")

	c, err := Build(context.Background(), cfg, NewLogger(cfg, io.Discard))
	require.NoError(t, err)
	defer c.Close()

	require.NotNil(t, c.Tokens)
	token, err := c.Tokens.GenerateToken("operator", time.Minute)
	require.NoError(t, err)
	_, err = c.Tokens.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}
