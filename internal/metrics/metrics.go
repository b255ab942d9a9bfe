// Package metrics provides Prometheus collectors for the dashboard service
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	EventsEmitted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppm_events_emitted_total",
			Help: "Events emitted on dashboard buses",
		},
		[]string{"event"},
	)

	HandlerPanics = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppm_event_handler_panics_total",
			Help: "Event handlers that panicked during emit",
		},
		[]string{"event"},
	)

	StoreMutations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppm_product_store_mutations_total",
			Help: "Product store mutations by operation",
		},
		[]string{"op"},
	)

	PersistErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ppm_persist_errors_total",
			Help: "Failed writes or reads of the persisted product snapshot",
		},
	)

	ImportedRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ppm_import_records_total",
			Help: "Imported product records by outcome",
		},
		[]string{"outcome"},
	)

	SessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppm_dashboard_sessions_active",
			Help: "Number of open dashboard sessions",
		},
	)

	WSClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ppm_ws_clients",
			Help: "Connected WebSocket clients",
		},
	)
)
