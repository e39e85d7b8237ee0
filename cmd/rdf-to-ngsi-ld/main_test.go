package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/application/pipeline"
	"github.com/diwise/rdf-to-ngsi-ld/internal/pkg/infrastructure/stream"
	"github.com/diwise/rdf-to-ngsi-ld/pkg/rdf"
	"github.com/matryer/is"
)

func TestFileWritesOutputFile(t *testing.T) {
	is, dir := testSetup(t)

	input := writeFile(t, dir, "devices.ttl", devicesTurtle)
	output := filepath.Join(dir, "out.json")

	err := runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "turtle", outputFile: output})
	is.NoErr(err)

	written := readEntities(t, output)
	is.Equal(len(written), 1)
	is.Equal(written[0]["id"], "http://example.org/A")
	is.Equal(written[0]["type"], "http://example.org/Device")

	connectedTo := written[0]["http://example.org/connectedTo"].(map[string]any)
	is.Equal(connectedTo["type"], "Relationship")
	is.Equal(connectedTo["object"], "http://example.org/B")
}

func TestFileReadsNTriples(t *testing.T) {
	is, dir := testSetup(t)

	input := writeFile(t, dir, "devices.nt", devicesNTriples)
	output := filepath.Join(dir, "out.json")

	is.NoErr(runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "nt", outputFile: output}))

	written := readEntities(t, output)
	is.Equal(len(written), 1)

	value := written[0]["http://example.org/value"].(map[string]any)
	is.Equal(value["value"], float64(17))
}

func TestFileSyncsWithContextBroker(t *testing.T) {
	is, dir := testSetup(t)

	broker := newFakeBroker()
	defer broker.Close()

	input := writeFile(t, dir, "devices.ttl", devicesTurtle)
	cfg := writeFile(t, dir, "config.yaml", "contextBroker:\n  tenant: kommunen\n")

	err := runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "turtle", contextBroker: broker.URL, configPath: cfg})
	is.NoErr(err)

	is.Equal(broker.count(http.MethodGet), 1)
	is.Equal(broker.count(http.MethodPost), 1)
	is.Equal(broker.count(http.MethodPatch), 0)
	is.Equal(broker.tenant, "kommunen")

	err = runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "turtle", contextBroker: broker.URL, configPath: cfg})
	is.NoErr(err)

	is.Equal(broker.count(http.MethodPost), 1) // the second run should merge instead of create
	is.Equal(broker.count(http.MethodPatch), 1)
}

func TestFileFailsOnMalformedInput(t *testing.T) {
	is, dir := testSetup(t)

	input := writeFile(t, dir, "broken.ttl", "<http://example.org/A> <http://example.org/p> .")
	err := runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "turtle"})
	is.True(errors.Is(err, pipeline.ErrMalformedDocument))
}

func TestFileRejectsUnknownFormat(t *testing.T) {
	is, dir := testSetup(t)

	input := writeFile(t, dir, "devices.ttl", devicesTurtle)
	err := runFile(context.Background(), fileOptions{inputFile: input, rdfFormat: "rdfxml"})
	is.True(errors.Is(err, rdf.ErrUnsupportedFormat))
}

func TestFileFailsOnMissingInput(t *testing.T) {
	is, dir := testSetup(t)

	err := runFile(context.Background(), fileOptions{inputFile: filepath.Join(dir, "missing.ttl"), rdfFormat: "turtle"})
	is.True(err != nil)
}

func TestLoadStreamConfigurationDefaults(t *testing.T) {
	is := is.New(t)

	cfg, err := LoadStreamConfiguration(context.Background())
	is.NoErr(err)

	is.Equal(cfg.stream.URL, "nats://localhost:4222")
	is.Equal(cfg.stream.Subject, "rdf.>")
	is.Equal(cfg.stream.RetryDelay, 5*time.Second)
	is.Equal(cfg.stream.MaxRetries, uint(0))
	is.Equal(cfg.format, rdf.NQuads)
	is.Equal(cfg.knownEntities, 10000)
	is.Equal(cfg.debug, false)
}

func TestLoadStreamConfigurationFromEnvironment(t *testing.T) {
	is := is.New(t)

	t.Setenv("NATS_URL", "nats://nats:4222")
	t.Setenv("RDF_FORMAT", "turtle")
	t.Setenv("CONNECT_RETRY_DELAY", "250ms")
	t.Setenv("CONNECT_MAX_RETRIES", "7")
	t.Setenv("KNOWN_ENTITIES_CACHE_SIZE", "0")
	t.Setenv("DEBUG", "true")

	cfg, err := LoadStreamConfiguration(context.Background())
	is.NoErr(err)

	is.Equal(cfg.stream.URL, "nats://nats:4222")
	is.Equal(cfg.format, rdf.Turtle)
	is.Equal(cfg.stream.RetryDelay, 250*time.Millisecond)
	is.Equal(cfg.stream.MaxRetries, uint(7))
	is.Equal(cfg.knownEntities, 0)
	is.True(cfg.debug)
}

func TestLoadStreamConfigurationRejectsBadValues(t *testing.T) {
	is := is.New(t)

	t.Setenv("CONNECT_RETRY_DELAY", "soon")

	_, err := LoadStreamConfiguration(context.Background())
	is.True(err != nil)
}

func TestStreamTranslatesEveryMessage(t *testing.T) {
	is, dir := testSetup(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	good := &message{data: []byte(devicesNQuads)}
	bad := &message{data: []byte("not n-quads at all")}

	sub := &subscription{batches: [][]stream.Message{{good}, {bad}}, cancel: cancel}

	cfg, err := LoadStreamConfiguration(ctx)
	is.NoErr(err)
	cfg.outputFile = filepath.Join(dir, "out.json")

	err = runStream(ctx, cfg, stream.WithDialer(func(context.Context) (stream.Subscription, error) {
		return sub, nil
	}))
	is.NoErr(err)

	is.True(good.acked)
	is.True(bad.termed) // malformed documents should be terminated

	written := readEntities(t, cfg.outputFile)
	is.Equal(len(written), 1)
	is.Equal(written[0]["id"], "http://example.org/A")
}

func TestVersionCommand(t *testing.T) {
	is := is.New(t)

	out := &bytes.Buffer{}
	cmd := newRootCommand("1.2.3")
	cmd.SetOut(out)
	cmd.SetArgs([]string{"version"})

	is.NoErr(cmd.Execute())
	is.Equal(strings.TrimSpace(out.String()), "rdf-to-ngsi-ld 1.2.3")
}

type message struct {
	data   []byte
	acked  bool
	termed bool
}

func (m *message) Data() []byte { return m.data }
func (m *message) Ack() error   { m.acked = true; return nil }
func (m *message) Term() error  { m.termed = true; return nil }

type subscription struct {
	batches [][]stream.Message
	cancel  context.CancelFunc
}

func (s *subscription) Next(ctx context.Context) ([]stream.Message, error) {
	if len(s.batches) == 0 {
		s.cancel()
		return nil, ctx.Err()
	}

	batch := s.batches[0]
	s.batches = s.batches[1:]

	return batch, nil
}

func (s *subscription) Close() {}

// fakeBroker answers retrievals of entities it has seen created and counts
// the requests it receives per method
type fakeBroker struct {
	*httptest.Server

	mu       sync.Mutex
	requests map[string]int
	entities map[string]bool
	tenant   string
}

func newFakeBroker() *fakeBroker {
	b := &fakeBroker{requests: map[string]int{}, entities: map[string]bool{}}

	b.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		defer b.mu.Unlock()

		b.requests[r.Method]++
		b.tenant = r.Header.Get("NGSILD-Tenant")

		id := strings.TrimPrefix(r.URL.Path, "/ngsi-ld/v1/entities/")

		switch r.Method {
		case http.MethodGet:
			if !b.entities[id] {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.Header().Set("Content-Type", "application/ld+json")
			w.Write([]byte(`{"id":"` + id + `","type":"Device"}`))
		case http.MethodPost:
			var e map[string]any
			json.NewDecoder(r.Body).Decode(&e)
			b.entities[e["id"].(string)] = true
			w.Header().Set("Location", "/ngsi-ld/v1/entities/"+e["id"].(string))
			w.WriteHeader(http.StatusCreated)
		case http.MethodPatch:
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	return b
}

func (b *fakeBroker) count(method string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests[method]
}

func testSetup(t *testing.T) (*is.I, string) {
	return is.New(t), t.TempDir()
}

func writeFile(t *testing.T, dir, name, contents string) string {
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func readEntities(t *testing.T, path string) []map[string]any {
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}

	entities := []map[string]any{}
	if err := json.Unmarshal(b, &entities); err != nil {
		t.Fatal(err)
	}

	return entities
}

const devicesTurtle string = `@prefix ex: <http://example.org/> .
@prefix xsd: <http://www.w3.org/2001/XMLSchema#> .

ex:A a ex:Device ;
    ex:hasName "sensor1" ;
    ex:connectedTo ex:B ;
    ex:installedAt "2023-01-01T00:00:00Z"^^xsd:dateTime .
`

const devicesNTriples string = `<http://example.org/A> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Device> .
<http://example.org/A> <http://example.org/value> "17"^^<http://www.w3.org/2001/XMLSchema#integer> .
`

const devicesNQuads string = `<http://example.org/A> <http://www.w3.org/1999/02/22-rdf-syntax-ns#type> <http://example.org/Device> <http://example.org/g> .
<http://example.org/A> <http://example.org/hasName> "sensor1" .
`
