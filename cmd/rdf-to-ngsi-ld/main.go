package main

import (
	"context"
	"fmt"
	"os"

	"github.com/diwise/service-chassis/pkg/infrastructure/buildinfo"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y"
	"github.com/spf13/cobra"
)

const (
	appName string = "rdf-to-ngsi-ld"
)

func main() {
	appVersion := buildinfo.SourceVersion()

	ctx, log, cleanup := o11y.Init(context.Background(), appName, appVersion, "json")

	err := newRootCommand(appVersion).ExecuteContext(ctx)
	cleanup()

	if err != nil {
		log.Error("command failed", "err", err.Error())
		os.Exit(1)
	}
}

func newRootCommand(appVersion string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Translate RDF documents into NGSI-LD entities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(newFileCommand())
	cmd.AddCommand(newStreamCommand())
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", appName, appVersion)
		},
	})

	return cmd
}
