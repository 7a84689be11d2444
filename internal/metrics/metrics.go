// Package metrics exposes bot counters to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is safe to use through a nil pointer; every method is then a no-op.
type Metrics struct {
	MessagesParsed  *prometheus.CounterVec   // parse outcomes by error code
	Commands        *prometheus.CounterVec   // invocations by command, surface and status
	CommandDuration *prometheus.HistogramVec // run time by command
	BlockedMessages prometheus.Counter       // messages removed by the blocklist
	Guilds          prometheus.Gauge         // guilds the bot is in
}

// NewMetrics creates the bot metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		MessagesParsed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportbot_messages_parsed_total",
			Help: "Messages run through the command parser, by result",
		}, []string{"result"}),
		Commands: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "supportbot_commands_total",
			Help: "Command invocations",
		}, []string{"command", "kind", "status"}),
		CommandDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "supportbot_command_duration_seconds",
			Help:    "Time spent running commands",
			Buckets: prometheus.DefBuckets,
		}, []string{"command"}),
		BlockedMessages: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "supportbot_blocked_messages_total",
			Help: "Messages deleted for matching the blocklist",
		}),
		Guilds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "supportbot_guilds",
			Help: "Guilds the bot is a member of",
		}),
	}

	reg.MustRegister(m.MessagesParsed)
	reg.MustRegister(m.Commands)
	reg.MustRegister(m.CommandDuration)
	reg.MustRegister(m.BlockedMessages)
	reg.MustRegister(m.Guilds)

	return m
}

func (m *Metrics) ObserveParse(result string) {
	if m == nil {
		return
	}
	m.MessagesParsed.WithLabelValues(result).Inc()
}

func (m *Metrics) ObserveCommand(command, kind, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.Commands.WithLabelValues(command, kind, status).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveBlocked() {
	if m == nil {
		return
	}
	m.BlockedMessages.Inc()
}

func (m *Metrics) SetGuilds(n int) {
	if m == nil {
		return
	}
	m.Guilds.Set(float64(n))
}
