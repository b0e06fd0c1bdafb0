package persistence

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spounge-ai/playerkits/internal/domain"
	app_errors "github.com/spounge-ai/playerkits/internal/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_MissingFileLoadsEmpty(t *testing.T) {
	store := NewFileStorage(filepath.Join(t.TempDir(), "Kits", "Kits.json"), "kitsextension", nil, discardLogger())

	cat, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	assert.Zero(t, cat.Len())
}

func TestFileStorage_SaveTwiceThenLoad(t *testing.T) {
	ctx := context.Background()
	reloader := &countingReloader{}
	path := filepath.Join(t.TempDir(), "Kits", "Kits.json")
	store := NewFileStorage(path, "kitsextension", reloader, discardLogger())

	cat := sampleCatalogue()
	require.NoError(t, store.SaveAll(ctx, cat))
	first, err := os.ReadFile(path)
	require.NoError(t, err)

	require.NoError(t, store.SaveAll(ctx, cat))
	second, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.EqualValues(t, 2, reloader.signals.Load())

	loaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, cat.Len(), loaded.Len())
	for i := range cat.Kits {
		assert.Equal(t, cat.Kits[i].Name, loaded.Kits[i].Name)
		assert.Equal(t, cat.Kits[i].Amount, loaded.Kits[i].Amount)
		assert.Equal(t, cat.Kits[i].IsInstance(), loaded.Kits[i].IsInstance())
	}
	assert.Equal(t, domain.PlayerID(76561198000000001), loaded.Kits[1].Owner())
	assert.NotNil(t, loaded.Kits[2].Items, "nil item lists are written as empty arrays")
}

func TestFileStorage_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Kits.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"Kits":[`), 0o600))
	store := NewFileStorage(path, "kitsextension", nil, discardLogger())

	_, err := store.LoadAll(context.Background())
	assert.ErrorIs(t, err, app_errors.ErrCatalogueCorrupt)
}

func TestFileStorage_ReadsPluginLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Kits.json")
	raw := `{"Kits":[{"Name":"vip","Display Name":"VIP","Permission":"kits.vip","Amount":2,"Items":[]},
	{"Name":"vip_42","Display Name":"VIP","Color":"#0059FF","Permission":"kitsextension.playerkit.vip_42","Amount":7,"Items":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	store := NewFileStorage(path, "kitsextension", nil, discardLogger())

	cat, err := store.LoadAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, cat.Len())
	assert.False(t, cat.Kits[0].IsInstance())
	assert.True(t, cat.Kits[1].IsInstance())
	assert.Equal(t, "vip", cat.Kits[1].TemplateName())
}

func TestFileStorage_FractionalCooldowns(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "Kits.json")
	raw := `{"Kits":[{"Name":"starter","Display Name":"Starter","Permission":"kits.starter","Amount":1,"Cooldown":0.0,"Wipe Block":1800.5,"Items":[]}]}`
	require.NoError(t, os.WriteFile(path, []byte(raw), 0o600))
	store := NewFileStorage(path, "kitsextension", nil, discardLogger())

	cat, err := store.LoadAll(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, cat.Len())
	assert.Zero(t, cat.Kits[0].Cooldown)
	assert.Equal(t, 1800.5, cat.Kits[0].WipeBlock)

	require.NoError(t, store.SaveAll(ctx, cat))
	reloaded, err := store.LoadAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1800.5, reloaded.Kits[0].WipeBlock)
}

func TestFileStorage_HealthCheck(t *testing.T) {
	dir := t.TempDir()
	ok := NewFileStorage(filepath.Join(dir, "Kits.json"), "kitsextension", nil, discardLogger())
	assert.NoError(t, ok.HealthCheck(context.Background()))

	missing := NewFileStorage(filepath.Join(dir, "nope", "Kits.json"), "kitsextension", nil, discardLogger())
	assert.ErrorIs(t, missing.HealthCheck(context.Background()), app_errors.ErrDependencyUnavailable)
}
