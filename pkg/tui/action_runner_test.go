package tui

import (
	"context"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/go-go-golems/alin-dash/pkg/bus"
	"github.com/go-go-golems/alin-dash/pkg/config"
	"github.com/go-go-golems/alin-dash/pkg/engine"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/stretchr/testify/require"
)

func newEngine(t *testing.T, b *bus.Bus) *engine.Engine {
	t.Helper()
	opts := engine.Options{Config: &config.File{}, Rand: rand.New(rand.NewPCG(9, 9))}
	if b != nil {
		opts.Publisher = b.Publisher
	}
	e, err := engine.New(opts)
	require.NoError(t, err)
	return e
}

func TestRunAction(t *testing.T) {
	e := newEngine(t, nil)

	require.NoError(t, RunAction(e, LevelAction(ActionGenerate, event.LevelError)))
	require.Equal(t, uint64(1), e.Snapshot().Count(event.LevelError))

	require.NoError(t, RunAction(e, LevelAction(ActionFilter, event.LevelInfo)))
	require.Equal(t, event.LevelInfo, e.Snapshot().FilterLevel)

	require.NoError(t, RunAction(e, ActionRequest{Kind: ActionThreshold, Delta: 5}))
	require.Equal(t, 15, e.Snapshot().Threshold)
	require.NoError(t, RunAction(e, ActionRequest{Kind: ActionThreshold, Delta: -50}))
	require.Equal(t, 0, e.Snapshot().Threshold)

	require.NoError(t, RunAction(e, ActionRequest{Kind: ActionRefresh}))
	require.NoError(t, RunAction(e, ActionRequest{Kind: ActionReset}))
	require.Equal(t, uint64(0), e.Snapshot().Total)

	require.Error(t, RunAction(e, ActionRequest{Kind: ActionGenerate}))
	require.Error(t, RunAction(e, ActionRequest{Kind: "explode"}))
}

func TestActionRunner_OverBus(t *testing.T) {
	b, err := bus.NewInMemoryBus()
	require.NoError(t, err)
	e := newEngine(t, b)
	RegisterUIActionRunner(b, e)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = b.Run(ctx) }()
	<-b.Running()

	require.NoError(t, PublishAction(b.Publisher, LevelAction(ActionGenerate, event.LevelWarn)))
	require.Eventually(t, func() bool {
		return e.Snapshot().Count(event.LevelWarn) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.Error(t, PublishAction(b.Publisher, ActionRequest{}))
}
