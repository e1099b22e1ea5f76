package pipeline

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"go.uber.org/zap"
)

const recordClickHandlerName = "record_click"

// Router consumes ClicksTopic and feeds every message to a ClickHandler.
type Router struct {
	router *message.Router
	logger *zap.Logger
}

// NewRouter creates a new click router.
func NewRouter(subscriber message.Subscriber, handler *ClickHandler, logger *zap.Logger) (*Router, error) {
	router, err := message.NewRouter(message.RouterConfig{
		CloseTimeout: 10 * time.Second,
	}, NewZapLoggerAdapter(logger))
	if err != nil {
		return nil, err
	}

	r := &Router{
		router: router,
		logger: logger,
	}

	router.AddNoPublisherHandler(
		recordClickHandlerName,
		ClicksTopic,
		subscriber,
		r.createHandlerFunc(handler),
	)

	return r, nil
}

// createHandlerFunc acks every message. Delivery is at most once: a click
// that fails to parse or record is logged and dropped.
func (r *Router) createHandlerFunc(handler *ClickHandler) message.NoPublishHandlerFunc {
	return func(msg *message.Message) error {
		click, err := MessageToClick(msg)
		if err != nil {
			r.logger.Error("failed to parse click message",
				zap.String("message_id", msg.UUID),
				zap.Error(err),
			)
			return nil
		}

		if err := handler.Handle(msg.Context(), click); err != nil {
			r.logger.Error("failed to record click",
				zap.String("link_id", click.LinkID),
				zap.String("token", click.Token),
				zap.Error(err),
			)
			return nil
		}

		r.logger.Debug("click recorded", zap.String("link_id", click.LinkID))
		return nil
	}
}

// Run starts the router and blocks until ctx is done or Close is called.
func (r *Router) Run(ctx context.Context) error {
	return r.router.Run(ctx)
}

// Running returns a channel that is closed when the router is running.
func (r *Router) Running() chan struct{} {
	return r.router.Running()
}

// Close stops the router, waiting for in-flight handlers.
func (r *Router) Close() error {
	return r.router.Close()
}

var _ watermill.LoggerAdapter = (*ZapLoggerAdapter)(nil)
