package engine

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

type processorMetrics struct {
	commands  *prometheus.CounterVec
	duration  *prometheus.HistogramVec
	sequence  prometheus.Gauge
	available *prometheus.GaugeVec
}

var (
	metricsOnce     sync.Once
	metricsRegistry *processorMetrics
)

// Metrics returns the process wide command processor metrics.
func Metrics() *processorMetrics {
	metricsOnce.Do(func() {
		metricsRegistry = &processorMetrics{
			commands: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: "boxsale",
				Subsystem: "processor",
				Name:      "commands_total",
				Help:      "Count of processed commands segmented by command and outcome.",
			}, []string{"command", "status"}),
			duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: "boxsale",
				Subsystem: "processor",
				Name:      "command_duration_seconds",
				Help:      "Time to apply and journal a command.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"command"}),
			sequence: prometheus.NewGauge(prometheus.GaugeOpts{
				Namespace: "boxsale",
				Subsystem: "processor",
				Name:      "journal_sequence",
				Help:      "Sequence of the last journaled command.",
			}),
			available: prometheus.NewGaugeVec(prometheus.GaugeOpts{
				Namespace: "boxsale",
				Subsystem: "sale",
				Name:      "available_items",
				Help:      "Items of the pool not yet distributed, per sale.",
			}, []string{"instance"}),
		}
		prometheus.MustRegister(
			metricsRegistry.commands,
			metricsRegistry.duration,
			metricsRegistry.sequence,
			metricsRegistry.available,
		)
	})
	return metricsRegistry
}

func (m *processorMetrics) RecordCommand(name, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.commands.WithLabelValues(name, status).Inc()
	m.duration.WithLabelValues(name).Observe(elapsed.Seconds())
}

func (m *processorMetrics) RecordState(sequence uint64, state *State) {
	if m == nil {
		return
	}
	m.sequence.Set(float64(sequence))
	for name, sale := range state.Sales {
		m.available.WithLabelValues(name).Set(float64(sale.Totals().Available))
	}
}
