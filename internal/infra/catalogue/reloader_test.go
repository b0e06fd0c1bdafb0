package catalogue

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingRunner struct {
	mu       sync.Mutex
	commands []string
}

func (r *recordingRunner) RunCommand(command string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.commands = append(r.commands, command)
}

func (r *recordingRunner) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.commands)
}

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func TestReloader_CoalescesBurst(t *testing.T) {
	runner := &recordingRunner{}
	r := NewReloader(runner, "oxide.reload Kits", time.Hour, discard())

	// queued before the worker runs, so the burst collapses to one command
	for i := 0; i < 10; i++ {
		r.Signal()
	}
	require.NoError(t, r.Start(context.Background()))

	assert.Eventually(t, func() bool { return runner.count() == 1 }, time.Second, 5*time.Millisecond)

	// rate limited: further signals wait for the next slot
	r.Signal()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, 1, runner.count())

	require.NoError(t, r.Stop(context.Background()))
	assert.Equal(t, 2, runner.count(), "pending signal is flushed on stop")
	assert.Equal(t, "oxide.reload Kits", runner.commands[0])
}

func TestReloader_StopWithoutSignal(t *testing.T) {
	runner := &recordingRunner{}
	r := NewReloader(runner, "oxide.reload Kits", 0, discard())
	require.NoError(t, r.Start(context.Background()))
	require.NoError(t, r.Stop(context.Background()))
	assert.Zero(t, runner.count())
}
