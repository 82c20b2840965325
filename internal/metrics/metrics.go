// Package metrics exposes the Prometheus instrumentation for the service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var reservationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "breakfast_reservations_total",
		Help: "Reservation submissions by outcome: success or the refusal reason.",
	},
	[]string{"outcome"},
)

// RecordReservation counts one reservation submission outcome.
func RecordReservation(outcome string) {
	reservationsTotal.WithLabelValues(outcome).Inc()
}

// Handler returns the HTTP handler serving the metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
