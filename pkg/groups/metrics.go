package groups

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	generationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rolodex_groups_generations_total",
		Help: "Suggestion generation cycles executed",
	})

	suggestionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rolodex_groups_suggestions_total",
		Help: "Group suggestions produced across all cycles",
	})

	lifecycleTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "rolodex_groups_lifecycle_total",
		Help: "Suggestion lifecycle outcomes, by action",
	}, []string{"action"})
)

func observeGeneration(set *SuggestionSet) {
	generationsTotal.Inc()
	suggestionsTotal.Add(float64(set.Stats.TotalSuggestions))
}

func observeLifecycle(action string) {
	lifecycleTotal.WithLabelValues(action).Inc()
}
