package hostbridge

import (
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestOutbox(capacity int) *Outbox {
	return NewOutbox(capacity, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestOutbox_DrainPreservesOrder(t *testing.T) {
	o := newTestOutbox(10)
	o.SendChat(1, "hello")
	o.RunCommand("oxide.reload Kits")
	o.SendChat(2, "bye")

	first := o.Drain(2)
	require.Len(t, first, 2)
	assert.Equal(t, Entry{Kind: KindChat, Player: 1, Text: "hello"}, first[0])
	assert.Equal(t, Entry{Kind: KindCommand, Text: "oxide.reload Kits"}, first[1])

	rest := o.Drain(0)
	require.Len(t, rest, 1)
	assert.Equal(t, "bye", rest[0].Text)
	assert.Zero(t, o.Len())
}

func TestOutbox_DropsOldestWhenFull(t *testing.T) {
	o := newTestOutbox(2)
	o.SendChat(1, "a")
	o.SendChat(1, "b")
	o.SendChat(1, "c")

	got := o.Drain(0)
	require.Len(t, got, 2)
	assert.Equal(t, "b", got[0].Text)
	assert.Equal(t, "c", got[1].Text)
}
