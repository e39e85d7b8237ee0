package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/config"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/pipeline"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/metrics"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/router"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/stream"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/diwise/service-chassis/pkg/infrastructure/env"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/spf13/cobra"
)

type StreamConfig struct {
	stream stream.Config

	format        rdf.Format
	contextBroker string
	outputFile    string
	debug         bool
	knownEntities int
	controlPort   string
	configPath    string
}

func LoadStreamConfiguration(ctx context.Context) (StreamConfig, error) {
	cfg := StreamConfig{
		stream: stream.Config{
			URL:      env.GetVariableOrDefault(ctx, "NATS_URL", "nats://localhost:4222"),
			Stream:   env.GetVariableOrDefault(ctx, "NATS_STREAM", "RDF"),
			Subject:  env.GetVariableOrDefault(ctx, "NATS_SUBJECT", "rdf.>"),
			Consumer: env.GetVariableOrDefault(ctx, "NATS_CONSUMER", "rdf-to-ngsi-ld"),
		},
		contextBroker: env.GetVariableOrDefault(ctx, "CONTEXT_BROKER_URL", ""),
		outputFile:    env.GetVariableOrDefault(ctx, "OUTPUT_FILE", ""),
		controlPort:   env.GetVariableOrDefault(ctx, "CONTROL_PORT", ""),
		configPath:    env.GetVariableOrDefault(ctx, "CONFIG_PATH", ""),
	}

	var err error

	cfg.format, err = rdf.ParseFormat(env.GetVariableOrDefault(ctx, "RDF_FORMAT", string(rdf.NQuads)))
	if err != nil {
		return cfg, err
	}

	cfg.debug, err = strconv.ParseBool(env.GetVariableOrDefault(ctx, "DEBUG", "false"))
	if err != nil {
		return cfg, fmt.Errorf("invalid DEBUG: %w", err)
	}

	cfg.stream.RetryDelay, err = time.ParseDuration(env.GetVariableOrDefault(ctx, "CONNECT_RETRY_DELAY", "5s"))
	if err != nil {
		return cfg, fmt.Errorf("invalid CONNECT_RETRY_DELAY: %w", err)
	}

	maxRetries, err := strconv.ParseUint(env.GetVariableOrDefault(ctx, "CONNECT_MAX_RETRIES", "0"), 10, 32)
	if err != nil {
		return cfg, fmt.Errorf("invalid CONNECT_MAX_RETRIES: %w", err)
	}
	cfg.stream.MaxRetries = uint(maxRetries)

	cfg.knownEntities, err = strconv.Atoi(env.GetVariableOrDefault(ctx, "KNOWN_ENTITIES_CACHE_SIZE", "10000"))
	if err != nil || cfg.knownEntities < 0 {
		return cfg, fmt.Errorf("invalid KNOWN_ENTITIES_CACHE_SIZE")
	}

	return cfg, nil
}

func newStreamCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "stream",
		Short: "Translate every RDF document received from a NATS JetStream subject",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			cfg, err := LoadStreamConfiguration(ctx)
			if err != nil {
				return err
			}

			return runStream(ctx, cfg)
		},
	}
}

func runStream(ctx context.Context, cfg StreamConfig, options ...stream.Option) error {
	log := logging.GetFromContext(ctx)

	appCfg, err := config.LoadConfigurationFile(cfg.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m := metrics.New()

	if cfg.controlPort != "" {
		srv := &http.Server{Addr: ":" + cfg.controlPort, Handler: router.New(appName, m.Handler())}

		go func() {
			log.Info("starting to listen for control connections", slog.String("port", cfg.controlPort))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Error("control server failed", "err", err.Error())
			}
		}()

		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
	}

	p := newPipeline(ctx, appSettings{
		format:        cfg.format,
		contextBroker: cfg.contextBroker,
		outputFile:    cfg.outputFile,
		debug:         cfg.debug,
		knownEntities: cfg.knownEntities,
		cfg:           appCfg,
		metrics:       m,
	})

	consumer := stream.NewConsumer(cfg.stream, options...)

	return consumer.Run(ctx, messageHandler(p))
}

// messageHandler runs one translation pass per message. Only documents that
// can not be decoded are reported back to the consumer, other failures have
// already been logged by the pipeline.
func messageHandler(p *pipeline.Pipeline) stream.Handler {
	return func(ctx context.Context, payload []byte) error {
		_, err := p.Run(ctx, bytes.NewReader(payload))
		if errors.Is(err, pipeline.ErrMalformedDocument) {
			return err
		}

		if err != nil {
			logging.GetFromContext(ctx).Warn("translation pass failed", "err", err.Error())
		}

		return nil
	}
}
