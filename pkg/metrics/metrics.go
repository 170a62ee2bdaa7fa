package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all application metrics on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	// HTTP
	RequestTotal    *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec

	// Domain
	Registrations       *prometheus.CounterVec
	AppointmentsBooked  prometheus.Counter
	AppointmentsByState *prometheus.CounterVec
	OrphanedFiles       prometheus.Counter
}

func NewMetrics(namespace string) *Metrics {
	m := &Metrics{
		registry:     prometheus.NewRegistry(),
		RequestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
		}, []string{"method", "route"}),
		Registrations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "registrations_total",
			Help:      "Registration attempts by role and outcome",
		}, []string{"role", "outcome"}),
		AppointmentsBooked: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointments_booked_total",
			Help:      "Total number of booked appointments",
		}),
		AppointmentsByState: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "appointment_transitions_total",
			Help:      "Appointment status transitions by target status",
		}, []string{"status"}),
		OrphanedFiles: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orphaned_files_total",
			Help:      "Uploaded files that could not be removed after a failed write",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.RequestTotal,
		m.RequestDuration,
		m.Registrations,
		m.AppointmentsBooked,
		m.AppointmentsByState,
		m.OrphanedFiles,
	)

	return m
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
