// Package metrics exposes the daemon's Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ReferralsAccepted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refcore_referrals_accepted_total",
		Help: "Total number of referral edges accepted into the graph.",
	})

	ReferralsRejected = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refcore_referrals_rejected_total",
		Help: "Total number of rejected referral inserts, labelled by reason.",
	}, []string{"reason"})

	SimulationsRun = promauto.NewCounter(prometheus.CounterOpts{
		Name: "refcore_simulations_run_total",
		Help: "Total number of growth simulations executed.",
	})

	OptimizationsRun = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "refcore_optimizations_run_total",
		Help: "Total number of bonus optimizations, labelled by outcome.",
	}, []string{"outcome"})

	InfluenceQueryDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "refcore_influence_query_duration_seconds",
		Help:    "Latency of influence analytics queries, labelled by query.",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})
)
