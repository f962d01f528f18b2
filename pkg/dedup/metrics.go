package dedup

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	scansTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rolodex_dedup_scans_total",
		Help: "Total duplicate scans executed",
	})

	pairsFoundTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolodex_dedup_pairs_found_total",
		Help: "Duplicate candidate pairs found, by match reason",
	}, []string{"reason"})

	mergesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolodex_dedup_merges_total",
		Help: "Merge executions, by outcome",
	}, []string{"status"})
)

func observeScan(result *ScanResult) {
	scansTotal.Inc()
	for _, p := range result.Pairs {
		pairsFoundTotal.WithLabelValues(string(p.Reason)).Inc()
	}
}

func observeMerge(success bool) {
	status := "success"
	if !success {
		status = "failure"
	}
	mergesTotal.WithLabelValues(status).Inc()
}
