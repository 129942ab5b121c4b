// Package metrics holds the process-wide Prometheus collectors.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	CalculationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pension_calculations_total",
		Help: "Completed calculation runs by outcome.",
	}, []string{"outcome"})

	CalculationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "pension_calculation_duration_seconds",
		Help:    "Wall-clock duration of calculation runs.",
		Buckets: prometheus.DefBuckets,
	})

	RateLookups = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pension_scheme_rate_lookups_total",
		Help: "Scheme accrual-rate lookups by result (cached, fetched, fallback, default).",
	}, []string{"result"})
)
