package bus

import (
	"context"
	"sync"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	gochannel "github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
)

// outputBuffer bounds how far a slow consumer can fall behind before
// publishers block.
const outputBuffer = 1024

// Bus carries envelopes between the engine and its views inside one process.
// Messages published before Running is closed have no subscriber yet and are
// dropped.
type Bus struct {
	Router     *message.Router
	Publisher  message.Publisher
	Subscriber message.Subscriber

	once   sync.Once
	runErr error
}

func NewInMemoryBus() (*Bus, error) {
	logger := watermill.NopLogger{}
	pubsub := gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: outputBuffer}, logger)

	router, err := message.NewRouter(message.RouterConfig{}, logger)
	if err != nil {
		return nil, errors.Wrap(err, "new watermill router")
	}
	return &Bus{Router: router, Publisher: pubsub, Subscriber: pubsub}, nil
}

// Handle consumes envelopes from topic. Messages are acked before handler
// runs; malformed ones are logged and skipped.
func (b *Bus) Handle(name, topic string, handler func(Envelope) error) {
	b.Router.AddConsumerHandler(name, topic, b.Subscriber, func(msg *message.Message) error {
		msg.Ack()
		env, err := DecodeMessage(msg)
		if err != nil {
			log.Warn().Err(err).Str("handler", name).Str("topic", topic).Msg("dropping message")
			return nil
		}
		return handler(env)
	})
}

// Running is closed once the router has started its handlers.
func (b *Bus) Running() chan struct{} {
	return b.Router.Running()
}

// Run blocks until ctx is done. Only the first call starts the router.
func (b *Bus) Run(ctx context.Context) error {
	b.once.Do(func() {
		stop := context.AfterFunc(ctx, func() { _ = b.Router.Close() })
		defer stop()
		b.runErr = b.Router.Run(ctx)
	})
	return b.runErr
}
