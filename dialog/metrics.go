package dialog

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector exposes CallManager.GetCallStats as a prometheus.Collector.
// GetCallStats itself stays a plain value return with no Prometheus
// dependency in its signature; registering this is opt-in additive
// instrumentation, grounded on the teacher's own promhttp.Handler
// exposure in cmd/proxysip/main.go.
type Collector struct {
	m *CallManager

	totalDesc     *prometheus.Desc
	activeDesc    *prometheus.Desc
	connectedDesc *prometheus.Desc
	failedDesc    *prometheus.Desc
	bytesSentDesc *prometheus.Desc
	bytesRecvDesc *prometheus.Desc
}

// Collector builds a Collector reading m's stats at scrape time.
func (m *CallManager) Collector() *Collector {
	return &Collector{
		m:             m,
		totalDesc:     prometheus.NewDesc("sipcore_calls_total", "Total calls admitted since manager start.", nil, nil),
		activeDesc:    prometheus.NewDesc("sipcore_calls_active", "Calls not yet terminated.", nil, nil),
		connectedDesc: prometheus.NewDesc("sipcore_calls_connected", "Calls currently in the Connected state.", nil, nil),
		failedDesc:    prometheus.NewDesc("sipcore_calls_failed", "Calls that transitioned to Failed.", nil, nil),
		bytesSentDesc: prometheus.NewDesc("sipcore_media_bytes_sent_total", "Media bytes relayed outbound.", nil, nil),
		bytesRecvDesc: prometheus.NewDesc("sipcore_media_bytes_received_total", "Media bytes relayed inbound.", nil, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.totalDesc
	ch <- c.activeDesc
	ch <- c.connectedDesc
	ch <- c.failedDesc
	ch <- c.bytesSentDesc
	ch <- c.bytesRecvDesc
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	s := c.m.GetCallStats(time.Now())
	ch <- prometheus.MustNewConstMetric(c.totalDesc, prometheus.CounterValue, float64(s.Total))
	ch <- prometheus.MustNewConstMetric(c.activeDesc, prometheus.GaugeValue, float64(s.Active))
	ch <- prometheus.MustNewConstMetric(c.connectedDesc, prometheus.GaugeValue, float64(s.Connected))
	ch <- prometheus.MustNewConstMetric(c.failedDesc, prometheus.CounterValue, float64(s.Failed))
	ch <- prometheus.MustNewConstMetric(c.bytesSentDesc, prometheus.CounterValue, float64(s.MediaBytesSent))
	ch <- prometheus.MustNewConstMetric(c.bytesRecvDesc, prometheus.CounterValue, float64(s.MediaBytesReceived))
}
