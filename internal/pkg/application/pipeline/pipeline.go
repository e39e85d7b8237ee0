package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/translator"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/metrics"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/entities"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/google/uuid"
)

// ErrMalformedDocument is returned by Run when the document can not be decoded
var ErrMalformedDocument = errors.New("malformed rdf document")

// Sink receives the entities produced by one translation pass
type Sink interface {
	Publish(ctx context.Context, entities []types.Entity) error
}

// Pipeline runs translation passes: decode a document, map its subjects to
// entities and hand the result to every configured sink.
type Pipeline struct {
	format     rdf.Format
	decorators []entities.EntityDecoratorFunc
	sinks      []Sink
	metrics    *metrics.Metrics
}

type Option func(*Pipeline)

func WithSink(s Sink) Option {
	return func(p *Pipeline) {
		p.sinks = append(p.sinks, s)
	}
}

func WithEntityContext(ctx []string) Option {
	return func(p *Pipeline) {
		p.decorators = append(p.decorators, entities.Context(ctx))
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(p *Pipeline) {
		p.metrics = m
	}
}

func New(format rdf.Format, options ...Option) *Pipeline {
	p := &Pipeline{format: format}

	for _, opt := range options {
		opt(p)
	}

	return p
}

// Run performs one pass over the document in r. A document that can not be
// decoded or a sink that fails is reported as an error. Subjects that can not
// be mapped are logged and left out.
func (p *Pipeline) Run(ctx context.Context, r io.Reader) ([]types.Entity, error) {
	start := time.Now()

	log := logging.GetFromContext(ctx).With(slog.String("pass", uuid.NewString()))
	ctx = logging.NewContextWithLogger(ctx, log)

	result, err := p.run(ctx, r)

	if err != nil {
		p.metrics.PassCompleted(metrics.PassFailed, time.Since(start))
		return result, err
	}

	p.metrics.PassCompleted(metrics.PassSucceeded, time.Since(start))
	log.Debug("translation pass completed", slog.Int("entities", len(result)), slog.Duration("duration", time.Since(start)))

	return result, nil
}

func (p *Pipeline) run(ctx context.Context, r io.Reader) ([]types.Entity, error) {
	log := logging.GetFromContext(ctx)

	triples, err := rdf.Decode(r, p.format)
	if err != nil {
		log.Error("failed to decode rdf document", slog.String("format", string(p.format)), "err", err.Error())
		return nil, fmt.Errorf("%w: %w", ErrMalformedDocument, err)
	}

	result, err := translator.Translate(triples, p.decorators...)
	if err != nil {
		failures := countErrors(err)
		p.metrics.MappingFailed(failures)
		log.Warn("some subjects could not be mapped to entities", slog.Int("count", failures), "err", err.Error())
	}

	log.Info("translated rdf document", slog.Int("triples", len(triples)), slog.Int("entities", len(result)))

	var errs []error

	for _, s := range p.sinks {
		if err := s.Publish(ctx, result); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return result, fmt.Errorf("failed to publish entities: %w", errors.Join(errs...))
	}

	return result, nil
}

func countErrors(err error) int {
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		return len(joined.Unwrap())
	}
	return 1
}
