package stream

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

type jetStreamSubscription struct {
	conn     *nats.Conn
	consumer jetstream.Consumer
	cfg      Config
}

func dialJetStream(cfg Config) DialFunc {
	return func(ctx context.Context) (Subscription, error) {
		conn, err := nats.Connect(cfg.URL, nats.Name(cfg.Consumer))
		if err != nil {
			return nil, err
		}

		js, err := jetstream.New(conn)
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("get jetstream: %w", err)
		}

		stream, err := js.Stream(ctx, cfg.Stream)
		if errors.Is(err, jetstream.ErrStreamNotFound) {
			stream, err = js.CreateStream(ctx, jetstream.StreamConfig{
				Name:     cfg.Stream,
				Subjects: []string{cfg.Subject},
			})
		}
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("get stream %s: %w", cfg.Stream, err)
		}

		consumer, err := stream.CreateOrUpdateConsumer(ctx, jetstream.ConsumerConfig{
			Durable:       cfg.Consumer,
			FilterSubject: cfg.Subject,
			AckPolicy:     jetstream.AckExplicitPolicy,
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("create consumer: %w", err)
		}

		return &jetStreamSubscription{conn: conn, consumer: consumer, cfg: cfg}, nil
	}
}

func (s *jetStreamSubscription) Next(ctx context.Context) ([]Message, error) {
	batch, err := s.consumer.Fetch(1, jetstream.FetchMaxWait(s.cfg.FetchWait))
	if err != nil {
		return nil, err
	}

	msgs := []Message{}
	for msg := range batch.Messages() {
		msgs = append(msgs, msg)
	}

	if err := batch.Error(); err != nil && !errors.Is(err, nats.ErrTimeout) && !errors.Is(err, context.DeadlineExceeded) {
		return msgs, err
	}

	return msgs, nil
}

func (s *jetStreamSubscription) Close() {
	s.conn.Close()
}
