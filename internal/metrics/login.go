package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Login-related Prometheus metrics. Defined in a standalone package to
// avoid import cycles between the login services and HTTP packages.

var (
	CallbackOutcomes = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "orcid_callbacks_total",
		Help: "Callback evaluations by outcome",
	}, []string{"outcome"})

	ExchangeDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "orcid_exchange_duration_seconds",
		Help:    "Latency of the ORCID token exchange",
		Buckets: prometheus.DefBuckets,
	})

	ResearchersProvisioned = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "researchers_provisioned_total",
		Help: "Researchers created on first sign-in",
	})

	SessionsIssued = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "sessions_issued_total",
		Help: "Sessions created after a successful exchange",
	})
)

// RegisterLogin registers the login metrics on the given registry (or
// default if nil).
func RegisterLogin(reg prometheus.Registerer) error {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	for _, c := range []prometheus.Collector{
		CallbackOutcomes,
		ExchangeDuration,
		ResearchersProvisioned,
		SessionsIssued,
	} {
		if err := reg.Register(c); err != nil {
			if _, ok := err.(prometheus.AlreadyRegisteredError); !ok {
				return err
			}
		}
	}
	return nil
}
