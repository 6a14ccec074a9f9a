// Package exporter publishes a CPU record as Prometheus metrics.
package exporter

import (
	"io"

	"github.com/earentir/lscpu"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "lscpu"

type gauge struct {
	desc  *prometheus.Desc
	value func(lscpu.CPU) uint32
}

// Collector implements prometheus.Collector. The source is called on every
// scrape, so each scrape reflects a fresh record.
type Collector struct {
	source func() lscpu.CPU
	info   *prometheus.Desc
	gauges []gauge
}

func newGauge(name, help string, value func(lscpu.CPU) uint32) gauge {
	return gauge{
		desc:  prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, nil, nil),
		value: value,
	}
}

// NewCollector returns a collector reading records from source.
func NewCollector(source func() lscpu.CPU) *Collector {
	return &Collector{
		source: source,
		info: prometheus.NewDesc(
			prometheus.BuildFQName(namespace, "cpu", "info"),
			"CPU identification, always 1.",
			[]string{"architecture", "vendor_id", "model_name", "byte_order", "is_hybrid", "boost"},
			nil,
		),
		gauges: []gauge{
			newGauge("logical_cpus", "Logical processors.", func(c lscpu.CPU) uint32 { return c.CPUCount }),
			newGauge("threads_per_core", "Threads per core.", func(c lscpu.CPU) uint32 { return c.ThreadsPerCore }),
			newGauge("cores_per_socket", "Cores per socket.", func(c lscpu.CPU) uint32 { return c.CoresPerSocket }),
			newGauge("sockets", "Sockets.", func(c lscpu.CPU) uint32 { return c.Sockets }),
			newGauge("cpu_family", "Effective CPU family.", func(c lscpu.CPU) uint32 { return c.CPUFamily }),
			newGauge("cpu_model", "Effective CPU model.", func(c lscpu.CPU) uint32 { return c.CPUModel }),
			newGauge("stepping", "CPU stepping.", func(c lscpu.CPU) uint32 { return c.Stepping }),
		},
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.info
	for _, g := range c.gauges {
		ch <- g.desc
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	cpu := c.source()
	ch <- prometheus.MustNewConstMetric(c.info, prometheus.GaugeValue, 1,
		cpu.Architecture, cpu.VendorID, cpu.ModelName, cpu.ByteOrder, cpu.IsHybrid, cpu.BoostEnabled)
	for _, g := range c.gauges {
		ch <- prometheus.MustNewConstMetric(g.desc, prometheus.GaugeValue, float64(g.value(cpu)))
	}
}

// WriteText gathers c through a private registry and writes the text exposition format.
func WriteText(w io.Writer, c prometheus.Collector) error {
	registry := prometheus.NewRegistry()
	if err := registry.Register(c); err != nil {
		return errors.Wrap(err, "failed to register collector")
	}
	families, err := registry.Gather()
	if err != nil {
		return errors.Wrap(err, "failed to gather metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return errors.Wrap(err, "failed to write metrics")
		}
	}
	return nil
}
