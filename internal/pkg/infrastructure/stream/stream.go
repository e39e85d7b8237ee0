package stream

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// Message is a single payload received from the stream. It must be either
// acknowledged or terminated once it has been handled.
type Message interface {
	Data() []byte
	Ack() error
	Term() error
}

type Subscription interface {
	// Next blocks until messages arrive or a fetch timeout expires, in which
	// case it returns an empty batch.
	Next(ctx context.Context) ([]Message, error)
	Close()
}

type DialFunc func(ctx context.Context) (Subscription, error)

// Handler processes the payload of one message. Returning an error
// terminates the message so that it is not redelivered.
type Handler func(ctx context.Context, payload []byte) error

type Config struct {
	URL      string
	Stream   string
	Subject  string
	Consumer string

	RetryDelay time.Duration
	// MaxRetries limits the number of connection attempts. Zero means that
	// connecting is retried until the context is cancelled.
	MaxRetries uint
	FetchWait  time.Duration
}

type Consumer struct {
	cfg  Config
	dial DialFunc
}

type Option func(*Consumer)

// WithDialer replaces the NATS JetStream dialer
func WithDialer(dial DialFunc) Option {
	return func(c *Consumer) {
		c.dial = dial
	}
}

func NewConsumer(cfg Config, options ...Option) *Consumer {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = 5 * time.Second
	}

	if cfg.FetchWait <= 0 {
		cfg.FetchWait = 5 * time.Second
	}

	c := &Consumer{cfg: cfg}
	c.dial = dialJetStream(cfg)

	for _, opt := range options {
		opt(c)
	}

	return c
}

// Connect opens the subscription, retrying with a fixed delay until it
// succeeds, the retry limit is reached or ctx is cancelled.
func (c *Consumer) Connect(ctx context.Context) (Subscription, error) {
	log := logging.GetFromContext(ctx)

	opts := []backoff.RetryOption{
		backoff.WithBackOff(backoff.NewConstantBackOff(c.cfg.RetryDelay)),
		backoff.WithMaxElapsedTime(0),
		backoff.WithNotify(func(err error, next time.Duration) {
			log.Warn("failed to connect to stream, retrying", slog.String("url", c.cfg.URL), slog.Duration("retry_in", next), "err", err.Error())
		}),
	}

	if c.cfg.MaxRetries > 0 {
		opts = append(opts, backoff.WithMaxTries(c.cfg.MaxRetries))
	}

	sub, err := backoff.Retry(ctx, func() (Subscription, error) {
		return c.dial(ctx)
	}, opts...)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to stream %s at %s: %w", c.cfg.Stream, c.cfg.URL, err)
	}

	log.Info("connected to stream", slog.String("url", c.cfg.URL), slog.String("stream", c.cfg.Stream), slog.String("subject", c.cfg.Subject))

	return sub, nil
}

// Run connects and hands every received message to handler, one at a time,
// until ctx is cancelled.
func (c *Consumer) Run(ctx context.Context, handler Handler) error {
	sub, err := c.Connect(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return err
	}
	defer sub.Close()

	log := logging.GetFromContext(ctx)

	for {
		if ctx.Err() != nil {
			log.Info("stream consumer stopped")
			return nil
		}

		msgs, err := sub.Next(ctx)

		for _, msg := range msgs {
			c.handle(ctx, msg, handler)
		}

		if err != nil {
			if ctx.Err() != nil {
				continue
			}

			log.Warn("failed to fetch messages", "err", err.Error())

			select {
			case <-ctx.Done():
			case <-time.After(c.cfg.RetryDelay):
			}
		}
	}
}

func (c *Consumer) handle(ctx context.Context, msg Message, handler Handler) {
	log := logging.GetFromContext(ctx)

	if err := handler(ctx, msg.Data()); err != nil {
		log.Error("failed to handle message, skipping it", "err", err.Error())
		if err = msg.Term(); err != nil {
			log.Warn("failed to terminate message", "err", err.Error())
		}
		return
	}

	if err := msg.Ack(); err != nil {
		log.Warn("failed to acknowledge message", "err", err.Error())
	}
}
