package config

import (
	"io"
	"os"

	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/client"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/ngsild/types/entities"
	yaml "gopkg.in/yaml.v2"
)

type ContextBrokerConfig struct {
	Endpoint string   `yaml:"endpoint"`
	Tenant   string   `yaml:"tenant"`
	Context  []string `yaml:"context"`
}

// EndpointOr returns the endpoint given on the command line or in the
// environment, falling back to the one in the configuration file
func (cb *ContextBrokerConfig) EndpointOr(override string) string {
	if override != "" {
		return override
	}
	return cb.Endpoint
}

func (cb *ContextBrokerConfig) TenantOrDefault() string {
	if cb.Tenant == "" {
		return client.DefaultNGSITenant
	}
	return cb.Tenant
}

// EntityContext is the JSON-LD @context attached to every translated entity
func (cb *ContextBrokerConfig) EntityContext() []string {
	if len(cb.Context) == 0 {
		return []string{entities.DefaultContextURL}
	}
	return cb.Context
}

type Config struct {
	ContextBroker ContextBrokerConfig `yaml:"contextBroker"`
}

func LoadConfiguration(data io.Reader) (*Config, error) {

	buf, err := io.ReadAll(data)
	if err != nil {
		return nil, err
	}

	cfg := &Config{}
	err = yaml.Unmarshal(buf, &cfg)

	return cfg, err
}

// LoadConfigurationFile loads the configuration at path. An empty path yields
// an empty configuration.
func LoadConfigurationFile(path string) (*Config, error) {
	if path == "" {
		return &Config{}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return LoadConfiguration(f)
}
