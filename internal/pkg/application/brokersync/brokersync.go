package brokersync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/metrics"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/client"
	ngsierrors "github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/errors"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/golang/groupcache/lru"
)

type Operation string

const (
	Created Operation = "created"
	Updated Operation = "updated"
	Failed  Operation = "failed"
)

const ContentTypeLD string = "application/ld+json"

type Report struct {
	Created int
	Updated int
	Failed  int
}

func (r Report) Total() int {
	return r.Created + r.Updated + r.Failed
}

// Syncer pushes entities to a context broker, creating the ones that do not
// exist yet and merging the others.
//
// When a known entities cache is enabled, ids that have been created or seen
// in the broker are remembered for the lifetime of the Syncer and no longer
// retrieved before being merged. The cache is not persisted, so a restarted
// process checks every id again. A Syncer is meant to be driven by a single
// goroutine.
type Syncer struct {
	client  client.ContextBrokerClient
	known   *lru.Cache
	headers map[string][]string
	metrics *metrics.Metrics
}

type Option func(*Syncer)

// WithKnownEntities enables the known entities cache. A size of zero means
// that the cache is never pruned.
func WithKnownEntities(size int) Option {
	return func(s *Syncer) {
		s.known = lru.New(size)
	}
}

// WithHeaders adds headers that are sent along with every broker request
func WithHeaders(headers map[string][]string) Option {
	return func(s *Syncer) {
		for k, v := range headers {
			s.headers[k] = append(s.headers[k], v...)
		}
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Syncer) {
		s.metrics = m
	}
}

func New(c client.ContextBrokerClient, options ...Option) *Syncer {
	s := &Syncer{
		client:  c,
		headers: map[string][]string{},
	}

	for _, opt := range options {
		opt(s)
	}

	return s
}

// Exists reports whether the broker knows about an entity. Any failure to
// retrieve the entity, including an unreachable broker, is reported as false.
func (s *Syncer) Exists(ctx context.Context, entityID string) bool {
	if s.known != nil {
		if _, ok := s.known.Get(entityID); ok {
			return true
		}
	}

	_, err := s.client.RetrieveEntity(ctx, entityID, s.requestHeaders("Accept"))
	if err != nil {
		log := logging.GetFromContext(ctx)
		if errors.Is(err, ngsierrors.ErrNotFound) {
			log.Debug("entity does not exist", slog.String("entity_id", entityID))
		} else {
			log.Warn("failed to retrieve entity, assuming it does not exist", slog.String("entity_id", entityID), "err", err.Error())
		}
		return false
	}

	s.remember(entityID)

	return true
}

func (s *Syncer) Create(ctx context.Context, entity types.Entity) error {
	_, err := s.client.CreateEntity(ctx, entity, s.requestHeaders("Content-Type"))
	if err != nil {
		return fmt.Errorf("failed to create entity %s: %w", entity.ID(), err)
	}

	s.remember(entity.ID())

	return nil
}

func (s *Syncer) Update(ctx context.Context, entity types.Entity) error {
	entityID := entity.ID()

	result, err := s.client.MergeEntity(ctx, entityID, entity, s.requestHeaders("Content-Type"))
	if err != nil {
		if errors.Is(err, ngsierrors.ErrNotFound) {
			s.forget(entityID)
		}
		return fmt.Errorf("failed to merge entity %s: %w", entityID, err)
	}

	if result != nil && result.IsMultiStatus() {
		logging.GetFromContext(ctx).Warn("entity was only partially merged",
			slog.String("entity_id", entityID), slog.Any("not_updated", result.NotUpdated))
	}

	return nil
}

// Upsert creates the entity when it does not exist and merges it otherwise
func (s *Syncer) Upsert(ctx context.Context, entity types.Entity) (Operation, error) {
	if !s.Exists(ctx, entity.ID()) {
		if err := s.Create(ctx, entity); err != nil {
			return Failed, err
		}
		return Created, nil
	}

	if err := s.Update(ctx, entity); err != nil {
		return Failed, err
	}

	return Updated, nil
}

// SyncAll upserts the entities one at a time. Failures are logged and do not
// stop the remaining entities from being processed.
func (s *Syncer) SyncAll(ctx context.Context, entities []types.Entity) Report {
	report := Report{}
	log := logging.GetFromContext(ctx)

	for _, e := range entities {
		op, err := s.Upsert(ctx, e)
		s.metrics.EntitySynced(string(op))

		switch op {
		case Created:
			report.Created++
			log.Info("entity created", slog.String("entity_id", e.ID()), slog.String("entity_type", e.Type()))
		case Updated:
			report.Updated++
			log.Info("entity updated", slog.String("entity_id", e.ID()), slog.String("entity_type", e.Type()))
		default:
			report.Failed++
			log.Warn("failed to sync entity", slog.String("entity_id", e.ID()), "err", err.Error())
		}
	}

	return report
}

// Publish syncs a batch of entities with the broker. Failures of individual
// entities are logged by SyncAll and never returned.
func (s *Syncer) Publish(ctx context.Context, entities []types.Entity) error {
	report := s.SyncAll(ctx, entities)

	logging.GetFromContext(ctx).Debug("batch synced with context broker",
		slog.Int("created", report.Created), slog.Int("updated", report.Updated), slog.Int("failed", report.Failed))

	return nil
}

func (s *Syncer) remember(entityID string) {
	if s.known != nil {
		s.known.Add(entityID, struct{}{})
	}
}

func (s *Syncer) forget(entityID string) {
	if s.known != nil {
		s.known.Remove(entityID)
	}
}

func (s *Syncer) requestHeaders(contentHeader string) map[string][]string {
	headers := make(map[string][]string, len(s.headers)+1)
	for k, v := range s.headers {
		headers[k] = v
	}

	headers[contentHeader] = []string{ContentTypeLD}

	return headers
}
