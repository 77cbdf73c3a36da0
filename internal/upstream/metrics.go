package upstream

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	requestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finsight",
			Subsystem: "upstream",
			Name:      "request_duration_seconds",
			Help:      "Duration of finance API requests",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "status"},
	)
	decodeErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finsight",
			Subsystem: "upstream",
			Name:      "decode_errors_total",
			Help:      "Records the finance API returned that could not be decoded",
		},
		[]string{"kind"},
	)
)
