package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/config"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"github.com/spf13/cobra"
)

type fileOptions struct {
	inputFile     string
	rdfFormat     string
	contextBroker string
	outputFile    string
	configPath    string
	debug         bool
}

func newFileCommand() *cobra.Command {
	opts := fileOptions{}

	cmd := &cobra.Command{
		Use:   "file",
		Short: "Translate a single RDF file",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFile(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVar(&opts.inputFile, "input-file", "", "RDF file to translate")
	cmd.Flags().StringVar(&opts.rdfFormat, "rdf-format", string(rdf.Turtle), "serialization of the input file (turtle or nt)")
	cmd.Flags().StringVar(&opts.contextBroker, "context-broker", "", "context broker base URL, entities are not synced when empty")
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "write the entities to this file as a JSON array")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "YAML configuration file")
	cmd.Flags().BoolVar(&opts.debug, "debug", false, "log failed context broker requests")
	cmd.MarkFlagRequired("input-file")

	return cmd
}

func runFile(ctx context.Context, opts fileOptions) error {
	format, err := rdf.ParseFormat(opts.rdfFormat)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfigurationFile(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	f, err := os.Open(opts.inputFile)
	if err != nil {
		return fmt.Errorf("failed to open input file: %w", err)
	}
	defer f.Close()

	ctx = logging.NewContextWithLogger(ctx, logging.GetFromContext(ctx), "input_file", opts.inputFile)

	p := newPipeline(ctx, appSettings{
		format:        format,
		contextBroker: opts.contextBroker,
		outputFile:    opts.outputFile,
		debug:         opts.debug,
		knownEntities: -1,
		cfg:           cfg,
	})

	_, err = p.Run(ctx, f)

	return err
}
