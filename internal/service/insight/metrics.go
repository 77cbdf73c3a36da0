package insight

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	snapshotFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "finsight",
			Name:      "snapshot_fetch_duration_seconds",
			Help:      "Duration of snapshot fetches from the configured source",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"outcome"},
	)
	cacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finsight",
			Name:      "snapshot_cache_lookups_total",
			Help:      "Snapshot cache lookups by result",
		},
		[]string{"result"},
	)
	invalidRecords = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "finsight",
			Name:      "invalid_records_total",
			Help:      "Records dropped at the fetch boundary because they failed validation",
		},
		[]string{"kind"},
	)
)
