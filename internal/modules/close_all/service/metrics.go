package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	closeOutcomes = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futures_panel",
		Subsystem: "close_all",
		Name:      "close_attempts_total",
		Help:      "Position close attempts by outcome.",
	}, []string{"outcome"})

	closeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "futures_panel",
		Subsystem: "close_all",
		Name:      "runs_total",
		Help:      "Close-all runs by listing state.",
	}, []string{"listing"})
)
