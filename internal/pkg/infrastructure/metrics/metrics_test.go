package metrics

import (
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestCounters(t *testing.T) {
	is := is.New(t)
	m := New()

	m.PassCompleted(PassSucceeded, 10*time.Millisecond)
	m.PassCompleted(PassFailed, time.Millisecond)
	m.PassCompleted(PassSucceeded, time.Millisecond)
	m.EntitySynced("created")
	m.MappingFailed(3)
	m.MappingFailed(0)

	is.Equal(testutil.ToFloat64(m.passes.WithLabelValues(PassSucceeded)), float64(2))
	is.Equal(testutil.ToFloat64(m.passes.WithLabelValues(PassFailed)), float64(1))
	is.Equal(testutil.ToFloat64(m.entities.WithLabelValues("created")), float64(1))
	is.Equal(testutil.ToFloat64(m.mappingErrors), float64(3))
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics

	m.PassCompleted(PassSucceeded, time.Second)
	m.EntitySynced("updated")
	m.MappingFailed(1)
}
