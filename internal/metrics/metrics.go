// Package metrics exposes Prometheus counters for long running sweeps.
package metrics

import (
	"net/http"

	"github.com/nathanhack/fecsim/fec"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// decodeOutcomes counts decoder terminal branches by codec
	decodeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fecsim_decode_outcomes_total",
		Help: "Decoded codewords by codec and outcome",
	}, []string{"codec", "outcome"})

	// blocks counts simulated blocks by method/channel pair
	blocks = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fecsim_blocks_total",
		Help: "Simulated blocks by method/channel pair",
	}, []string{"pair"})

	// residualBits counts message bits still wrong after decoding
	residualBits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "fecsim_residual_bit_errors_total",
		Help: "Message bit errors left after decoding by method/channel pair",
	}, []string{"pair"})
)

func ObserveDecode(codec string, outcome fec.Outcome) {
	decodeOutcomes.WithLabelValues(codec, outcome.String()).Inc()
}

func ObserveBlock(pair string, errors int) {
	blocks.WithLabelValues(pair).Inc()
	residualBits.WithLabelValues(pair).Add(float64(errors))
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
