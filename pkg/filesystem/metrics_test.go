package filesystem_test

import (
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers
	"github.com/prometheus/client_golang/prometheus"

	"github.com/joe/posixfs/pkg/filesystem"
)

func newMetrics(g Gomega) (*filesystem.Metrics, *prometheus.Registry) {
	registry := prometheus.NewRegistry()
	metrics := filesystem.NewMetrics()
	g.Expect(registry.Register(metrics)).To(Succeed())

	return metrics, registry
}

// metricValue returns the value of the named counter or gauge for backend,
// or 0 if it has not been recorded.
func metricValue(g Gomega, registry *prometheus.Registry, name, backend string) float64 {
	families, err := registry.Gather()
	g.Expect(err).ShouldNot(HaveOccurred())

	for _, family := range families {
		if family.GetName() != name {
			continue
		}

		for _, metric := range family.GetMetric() {
			for _, label := range metric.GetLabel() {
				if label.GetName() == "backend" && label.GetValue() == backend {
					if metric.GetGauge() != nil {
						return metric.GetGauge().GetValue()
					}

					return metric.GetCounter().GetValue()
				}
			}
		}
	}

	return 0
}

func TestMetrics_LocalHandleLifecycle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	metrics, registry := newMetrics(g)
	fsys := filesystem.NewRealFileSystem(filesystem.WithMetrics(metrics))

	exhausted, err := fsys.Scan(t.TempDir())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(metricValue(g, registry, "posixfs_scan_handles_open", "local")).To(Equal(1.0))

	_, err = filesystem.Collect(exhausted)
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(metricValue(g, registry, "posixfs_scan_handles_open", "local")).To(BeZero())

	closed, err := fsys.Scan(t.TempDir())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(closed.Close()).To(Succeed())
	g.Expect(closed.Close()).To(Succeed())
	g.Expect(metricValue(g, registry, "posixfs_scan_handles_open", "local")).To(BeZero())

	_, err = fsys.Scan("/nonexistent/posixfs")
	g.Expect(err).Should(HaveOccurred())

	g.Expect(metricValue(g, registry, "posixfs_scans_total", "local")).To(Equal(2.0))
	g.Expect(metricValue(g, registry, "posixfs_scan_open_failures_total", "local")).To(Equal(1.0))
	g.Expect(metricValue(g, registry, "posixfs_scan_read_failures_total", "local")).To(BeZero())
}

func TestMetrics_SFTPHandleLifecycle(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	metrics, registry := newMetrics(g)
	fsys, _ := newTestSFTPFileSystem(t, g, 1, filesystem.WithMetrics(metrics))

	scanner, err := fsys.Scan("/data")
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(metricValue(g, registry, "posixfs_scan_handles_open", "sftp")).To(Equal(1.0))

	g.Expect(scanner.Close()).To(Succeed())
	g.Expect(metricValue(g, registry, "posixfs_scan_handles_open", "sftp")).To(BeZero())

	_, err = fsys.Scan("/missing")
	g.Expect(err).Should(HaveOccurred())

	g.Expect(metricValue(g, registry, "posixfs_scans_total", "sftp")).To(Equal(1.0))
	g.Expect(metricValue(g, registry, "posixfs_scan_open_failures_total", "sftp")).To(Equal(1.0))
}

func TestMetrics_NilRecordsNothing(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	fsys := filesystem.NewRealFileSystem(filesystem.WithMetrics(nil))

	scanner, err := fsys.Scan(t.TempDir())
	g.Expect(err).ShouldNot(HaveOccurred())
	g.Expect(scanner.Close()).To(Succeed())
}
