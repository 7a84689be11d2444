package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func Test_NewMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveParse("none")
	m.ObserveParse("none")
	m.ObserveParse("no_prefix")
	m.ObserveCommand("ping", "message", "ok", 20*time.Millisecond)
	m.ObserveBlocked()
	m.SetGuilds(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.MessagesParsed.WithLabelValues("none")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Commands.WithLabelValues("ping", "message", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.BlockedMessages))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.Guilds))

	families, err := reg.Gather()
	assert.NoError(t, err)
	assert.Len(t, families, 5)
}

func Test_NilMetrics(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ObserveParse("none")
		m.ObserveCommand("ping", "slash", "error", time.Second)
		m.ObserveBlocked()
		m.SetGuilds(1)
	})
}

func Test_NewMetrics_duplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	NewMetrics(reg)
	assert.Panics(t, func() { NewMetrics(reg) })
}
