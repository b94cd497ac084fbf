package bus

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/go-go-golems/alin-dash/pkg/dashboard"
	"github.com/go-go-golems/alin-dash/pkg/event"
	"github.com/go-go-golems/alin-dash/pkg/pipeline"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecode(t *testing.T) {
	_, err := Encode("", nil)
	require.Error(t, err)

	msg, err := Encode(DomainTypeFilterChanged, FilterChanged{Level: event.LevelError})
	require.NoError(t, err)
	require.NotEmpty(t, msg.UUID)

	env, err := DecodeMessage(msg)
	require.NoError(t, err)
	require.Equal(t, DomainTypeFilterChanged, env.Type)
	require.JSONEq(t, `{"level":"ERROR"}`, string(env.Payload))

	var fc FilterChanged
	require.NoError(t, env.Decode(&fc))
	require.Equal(t, event.LevelError, fc.Level)

	msg, err = Encode(DomainTypeDashboardReset, nil)
	require.NoError(t, err)
	empty, err := DecodeMessage(msg)
	require.NoError(t, err)
	require.Error(t, empty.Decode(&fc))

	_, err = DecodeMessage(message.NewMessage("x", []byte("not json")))
	require.Error(t, err)
}

func TestTransformer_ForwardsSnapshotsAndAlerts(t *testing.T) {
	b, err := NewInMemoryBus()
	require.NoError(t, err)

	state := dashboard.New(dashboard.DefaultOptions())
	var seq uint64
	var seqMu sync.Mutex
	RegisterDomainToUITransformer(b, func() View {
		seqMu.Lock()
		defer seqMu.Unlock()
		seq++
		return View{Seq: seq, Snapshot: state.Snapshot()}
	})

	snapshots := make(chan View, 16)
	alerts := make(chan pipeline.Alert, 16)
	OnUI(b, "test-ui", func(v View) { snapshots <- v }, func(a pipeline.Alert) { alerts <- a })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- b.Run(ctx) }()
	<-b.Running()

	// A malformed message is skipped without stalling the handler.
	require.NoError(t, b.Publisher.Publish(TopicDomainEvents, message.NewMessage("garbage", []byte("{"))))

	ev := event.Event{Level: event.LevelError, Message: "boom", Timestamp: time.Now()}
	state.Add(ev)
	require.NoError(t, Publish(b.Publisher, TopicDomainEvents, DomainTypeEventAdded, EventAdded{Event: ev}))

	select {
	case v := <-snapshots:
		require.Equal(t, uint64(1), v.Snapshot.Total)
		require.Equal(t, uint64(1), v.Snapshot.Count(event.LevelError))
	case <-time.After(2 * time.Second):
		t.Fatal("no snapshot")
	}

	a := pipeline.Alert{Time: time.Now(), Level: "ERROR", Message: "boom", Total: 1}
	require.NoError(t, Publish(b.Publisher, TopicDomainEvents, DomainTypeAlertFired, a))

	select {
	case got := <-alerts:
		require.Equal(t, "boom", got.Message)
		require.Equal(t, uint64(1), got.Total)
	case <-time.After(2 * time.Second):
		t.Fatal("no alert")
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("bus did not stop")
	}
}

func TestPublish_RequiresPublisher(t *testing.T) {
	require.Error(t, Publish(nil, TopicDomainEvents, DomainTypeDashboardReset, nil))
}
