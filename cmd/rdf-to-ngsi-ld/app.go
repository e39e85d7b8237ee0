package main

import (
	"context"
	"log/slog"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/brokersync"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/config"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/pipeline"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/metrics"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/client"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

type appSettings struct {
	format        rdf.Format
	contextBroker string
	outputFile    string
	debug         bool

	// knownEntities is the size of the known entities cache, a negative
	// size disables it
	knownEntities int

	cfg     *config.Config
	metrics *metrics.Metrics
}

// newPipeline wires the sinks that the settings ask for into a translation
// pipeline. Without an output file or a broker endpoint, passes only log.
func newPipeline(ctx context.Context, s appSettings) *pipeline.Pipeline {
	log := logging.GetFromContext(ctx)

	cfg := s.cfg
	if cfg == nil {
		cfg = &config.Config{}
	}

	options := []pipeline.Option{
		pipeline.WithEntityContext(cfg.ContextBroker.EntityContext()),
		pipeline.WithMetrics(s.metrics),
	}

	if s.outputFile != "" {
		options = append(options, pipeline.WithSink(pipeline.NewFileSink(s.outputFile)))
	}

	endpoint := cfg.ContextBroker.EndpointOr(s.contextBroker)
	if endpoint != "" {
		tenant := cfg.ContextBroker.TenantOrDefault()
		cbClient := client.NewContextBrokerClient(endpoint, client.Debug(s.debug), client.Tenant(tenant))

		syncOptions := []brokersync.Option{brokersync.WithMetrics(s.metrics)}
		if s.knownEntities >= 0 {
			syncOptions = append(syncOptions, brokersync.WithKnownEntities(s.knownEntities))
		}

		options = append(options, pipeline.WithSink(brokersync.New(cbClient, syncOptions...)))

		log.Info("syncing entities with context broker", slog.String("endpoint", endpoint), slog.String("tenant", tenant))
	}

	return pipeline.New(s.format, options...)
}
