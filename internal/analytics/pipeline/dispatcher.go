package pipeline

import (
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"
)

// Bus is the in-process pub/sub the click pipeline runs on.
type Bus struct {
	pubsub *gochannel.GoChannel
}

// NewBus creates a new bus using Go channels.
func NewBus(logger watermill.LoggerAdapter) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(
			gochannel.Config{
				OutputChannelBuffer: 256,
				Persistent:          false,
			},
			logger,
		),
	}
}

// Publisher returns the Watermill publisher.
func (b *Bus) Publisher() message.Publisher {
	return b.pubsub
}

// Subscriber returns the Watermill subscriber.
func (b *Bus) Subscriber() message.Subscriber {
	return b.pubsub
}

// Close closes the bus.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}

// Dispatcher hands raw clicks to the pipeline without waiting for them to
// be classified or stored.
type Dispatcher struct {
	publisher message.Publisher
	logger    *zap.Logger
}

// NewDispatcher creates a new dispatcher publishing on ClicksTopic.
func NewDispatcher(publisher message.Publisher, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		publisher: publisher,
		logger:    logger,
	}
}

// Dispatch publishes click. Failures are logged, never returned.
func (d *Dispatcher) Dispatch(click RawClick) {
	if click.OccurredAt.IsZero() {
		click.OccurredAt = time.Now().UTC()
	}

	msg, err := ClickToMessage(click)
	if err != nil {
		d.logger.Error("failed to encode click", zap.String("link_id", click.LinkID), zap.Error(err))
		return
	}

	if err := d.publisher.Publish(ClicksTopic, msg); err != nil {
		d.logger.Warn("failed to dispatch click", zap.String("link_id", click.LinkID), zap.Error(err))
	}
}
