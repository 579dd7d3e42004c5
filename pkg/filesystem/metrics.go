package filesystem

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Backend labels.
const (
	backendLocal = "local"
	backendSFTP  = "sftp"
)

// Metrics counts scans and the handles they hold. It implements
// prometheus.Collector; register it with the registry of your choice.
// A nil *Metrics records nothing.
type Metrics struct {
	scansTotal   *prometheus.CounterVec
	openFailures *prometheus.CounterVec
	readFailures *prometheus.CounterVec
	handlesOpen  *prometheus.GaugeVec
}

// NewMetrics creates the scan collectors.
func NewMetrics() *Metrics {
	return &Metrics{
		scansTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posixfs_scans_total",
				Help: "The total number of directories opened for scanning.",
			},
			[]string{"backend"},
		),
		openFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posixfs_scan_open_failures_total",
				Help: "The total number of directories that could not be opened.",
			},
			[]string{"backend"},
		),
		readFailures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "posixfs_scan_read_failures_total",
				Help: "The total number of scans ended early by a read error.",
			},
			[]string{"backend"},
		),
		handlesOpen: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "posixfs_scan_handles_open",
				Help: "The current number of directory handles held by scanners.",
			},
			[]string{"backend"},
		),
	}
}

// Describe implements prometheus.Collector.
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	m.scansTotal.Describe(ch)
	m.openFailures.Describe(ch)
	m.readFailures.Describe(ch)
	m.handlesOpen.Describe(ch)
}

// Collect implements prometheus.Collector.
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.scansTotal.Collect(ch)
	m.openFailures.Collect(ch)
	m.readFailures.Collect(ch)
	m.handlesOpen.Collect(ch)
}

func (m *Metrics) opened(backend string) {
	if m == nil {
		return
	}

	m.scansTotal.WithLabelValues(backend).Inc()
	m.handlesOpen.WithLabelValues(backend).Inc()
}

func (m *Metrics) released(backend string) {
	if m == nil {
		return
	}

	m.handlesOpen.WithLabelValues(backend).Dec()
}

func (m *Metrics) openFailed(backend string) {
	if m == nil {
		return
	}

	m.openFailures.WithLabelValues(backend).Inc()
}

func (m *Metrics) readFailed(backend string) {
	if m == nil {
		return
	}

	m.readFailures.WithLabelValues(backend).Inc()
}
