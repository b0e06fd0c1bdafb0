package presence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirectory_ConnectDisconnect(t *testing.T) {
	d := NewDirectory(time.Minute, "en")

	d.Connect(42, "Alice", "")
	p, ok := d.FindByID(42)
	require.True(t, ok)
	assert.Equal(t, "Alice", p.DisplayName)
	assert.Equal(t, "en", p.Language)
	assert.True(t, p.Connected)
	assert.Equal(t, 1, d.Online())

	d.Disconnect(42)
	p, ok = d.FindByID(42)
	require.True(t, ok, "sleepers stay resolvable")
	assert.False(t, p.Connected)
	assert.Zero(t, d.Online())

	d.Connect(42, "Alice", "pt-BR")
	p, ok = d.FindByID(42)
	require.True(t, ok)
	assert.True(t, p.Connected)
	assert.Equal(t, "pt-BR", p.Language)
}

func TestDirectory_SleeperExpires(t *testing.T) {
	d := NewDirectory(10*time.Millisecond, "en")
	d.Connect(7, "Bob", "")
	d.Disconnect(7)

	time.Sleep(30 * time.Millisecond)

	_, ok := d.FindByID(7)
	assert.False(t, ok)
}

func TestDirectory_Unknown(t *testing.T) {
	d := NewDirectory(time.Minute, "en")
	_, ok := d.FindByID(1)
	assert.False(t, ok)
	d.Disconnect(1)
}

func TestDirectory_ReturnsCopies(t *testing.T) {
	d := NewDirectory(time.Minute, "en")
	d.Connect(3, "Carol", "")
	p, _ := d.FindByID(3)
	p.DisplayName = "Mallory"

	again, _ := d.FindByID(3)
	assert.Equal(t, "Carol", again.DisplayName)
}
