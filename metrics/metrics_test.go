package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	m := New()
	m.Mutation("add_disaster")
	m.Mutation("add_disaster")
	m.PersistFailure()
	m.Command("direct")
	m.SMS("sent")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.mutations.WithLabelValues("add_disaster")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.persistFailures))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.commands.WithLabelValues("direct")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.smsMessages.WithLabelValues("sent")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Mutation("x")
		m.PersistFailure()
		m.Command("x")
		m.ModelFailure("x")
		m.SMS("x")
		m.Backup("x")
	})
	assert.Nil(t, m.Registry())
	assert.NotNil(t, m.Handler())
}
