package interfaces

import "github.com/prometheus/client_golang/prometheus"

// Metrics records named prometheus metrics. Recording on a name that was
// never registered does nothing.
type Metrics interface {
	GetRegistry() *prometheus.Registry

	RegisterCounter(name, help string)
	RegisterCounterVec(name, help string, labels []string)
	RegisterHistogram(name, help string, buckets []float64)
	RegisterHistogramVec(name, help string, buckets []float64, labels []string)
	RegisterGauge(name, help string)

	IncCounter(name string)
	IncCounterVec(name string, labels ...string)
	ObserveHistogram(name string, value float64)
	ObserveHistogramVec(name string, value float64, labels ...string)
	IncGauge(name string)
	DecGauge(name string)
}
