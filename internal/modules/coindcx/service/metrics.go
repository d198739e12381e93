package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "futures_panel",
		Subsystem: "coindcx",
		Name:      "request_duration_seconds",
		Help:      "Latency of signed CoinDCX requests.",
		Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
	}, []string{"endpoint"})

	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futures_panel",
		Subsystem: "coindcx",
		Name:      "requests_total",
		Help:      "Signed CoinDCX requests by endpoint and result.",
	}, []string{"endpoint", "result"})
)
