package services

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Noms des appels sortants vers l'API olympiade
const (
	EndpointCountries     = "countries"
	EndpointRegistrations = "detailed_registrations"
)

var (
	upstreamRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olymp_upstream_requests_total",
		Help: "Appels vers l'API olympiade, par endpoint et résultat.",
	}, []string{"endpoint", "outcome"})

	upstreamDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "olymp_upstream_request_duration_seconds",
		Help:    "Durée des appels vers l'API olympiade.",
		Buckets: prometheus.DefBuckets,
	}, []string{"endpoint"})

	registrationsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olymp_registrations_submitted_total",
		Help: "Inscriptions transmises à l'API, par résultat.",
	}, []string{"result"})

	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "olymp_http_requests_total",
		Help: "Requêtes HTTP reçues, par méthode et code de statut.",
	}, []string{"method", "status"})
)

// observeUpstream enregistre un appel sortant ; status 0 signifie une erreur réseau
func observeUpstream(endpoint string, status int, start time.Time) {
	outcome := "transport_error"
	if status > 0 {
		outcome = strconv.Itoa(status)
	}
	upstreamRequests.WithLabelValues(endpoint, outcome).Inc()
	upstreamDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
}

// RecordSubmission compte une inscription envoyée (success, rejected, error)
func RecordSubmission(result string) {
	registrationsSubmitted.WithLabelValues(result).Inc()
}

// RecordHTTPRequest compte une requête HTTP traitée par le serveur
func RecordHTTPRequest(method string, status int) {
	httpRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}
