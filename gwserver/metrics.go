package gwserver

import "github.com/prometheus/client_golang/prometheus"

// metricsCollector adapts a *Server's Stats into a prometheus.Collector,
// following the teacher pack's convention (facebook-time's ptp4u, ka9q_ubersdr)
// of a thin Collect-time adapter rather than updating prometheus metric
// objects inline at every counter increment.
type metricsCollector struct {
	server *Server

	packetsSent        *prometheus.Desc
	bytesSent          *prometheus.Desc
	samplesSent        *prometheus.Desc
	packetsDropped     *prometheus.Desc
	contextPacketsSent *prometheus.Desc
	acquisitionMisses  *prometheus.Desc
	subscribers        *prometheus.Desc
}

// NewCollector returns a prometheus.Collector exposing s's running
// counters and current subscriber count under the vrtgw_ namespace.
func NewCollector(s *Server) prometheus.Collector {
	return &metricsCollector{
		server:             s,
		packetsSent:        prometheus.NewDesc("vrtgw_packets_sent_total", "VRT Signal Data and Context packets sent.", nil, nil),
		bytesSent:          prometheus.NewDesc("vrtgw_bytes_sent_total", "Bytes of VRT packets sent, counted once per packet regardless of subscriber count.", nil, nil),
		samplesSent:        prometheus.NewDesc("vrtgw_samples_sent_total", "I/Q samples encoded into Signal Data packets.", nil, nil),
		packetsDropped:     prometheus.NewDesc("vrtgw_packets_dropped_total", "Packets fanned out with no live subscriber, plus one per failed per-subscriber send.", nil, nil),
		contextPacketsSent: prometheus.NewDesc("vrtgw_context_packets_sent_total", "Context packets sent.", nil, nil),
		acquisitionMisses:  prometheus.NewDesc("vrtgw_acquisition_misses_total", "Capability.Receive calls that returned ok=false.", nil, nil),
		subscribers:        prometheus.NewDesc("vrtgw_subscribers", "Currently live subscribers.", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.packetsSent
	ch <- c.bytesSent
	ch <- c.samplesSent
	ch <- c.packetsDropped
	ch <- c.contextPacketsSent
	ch <- c.acquisitionMisses
	ch <- c.subscribers
}

// Collect implements prometheus.Collector.
func (c *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	snap := c.server.Stats().Snapshot()
	ch <- prometheus.MustNewConstMetric(c.packetsSent, prometheus.CounterValue, float64(snap.PacketsSent))
	ch <- prometheus.MustNewConstMetric(c.bytesSent, prometheus.CounterValue, float64(snap.BytesSent))
	ch <- prometheus.MustNewConstMetric(c.samplesSent, prometheus.CounterValue, float64(snap.SamplesSent))
	ch <- prometheus.MustNewConstMetric(c.packetsDropped, prometheus.CounterValue, float64(snap.PacketsDropped))
	ch <- prometheus.MustNewConstMetric(c.contextPacketsSent, prometheus.CounterValue, float64(snap.ContextPacketsSent))
	ch <- prometheus.MustNewConstMetric(c.acquisitionMisses, prometheus.CounterValue, float64(snap.AcquisitionMisses))
	ch <- prometheus.MustNewConstMetric(c.subscribers, prometheus.GaugeValue, float64(len(c.server.registry.Snapshot())))
}

// vim: foldmethod=marker
