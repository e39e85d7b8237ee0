package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types"
	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
)

// FileSink writes every batch it receives to a file as an indented JSON
// array, replacing the previous contents.
type FileSink struct {
	path string
}

func NewFileSink(path string) *FileSink {
	return &FileSink{path: path}
}

func (fs *FileSink) Publish(ctx context.Context, entities []types.Entity) error {
	if entities == nil {
		entities = []types.Entity{}
	}

	b, err := json.MarshalIndent(entities, "", "    ")
	if err != nil {
		return fmt.Errorf("failed to marshal entities: %w", err)
	}

	err = os.WriteFile(fs.path, b, 0644)
	if err != nil {
		return fmt.Errorf("failed to write entities to %s: %w", fs.path, err)
	}

	logging.GetFromContext(ctx).Info("entities written to file", slog.String("path", fs.path), slog.Int("count", len(entities)))

	return nil
}
