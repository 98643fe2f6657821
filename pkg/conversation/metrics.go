package conversation

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	conversationsStartedMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videa_conversations_started_total",
		Help: "Number of intake conversations started.",
	})
	turnsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videa_conversation_turns_total",
		Help: "User messages handled, by the status the conversation ended the turn in.",
	}, []string{"status"})
	recommendationsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videa_recommendations_total",
		Help: "Recommendations made, by persona and by whether the model or the rules picked it.",
	}, []string{"persona", "source"})
	enrollmentsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videa_enrollments_total",
		Help: "Accepted recommendations, by collection.",
	}, []string{"collection"})
	declinesMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videa_recommendations_declined_total",
		Help: "Recommendations the user declined.",
	})
	conflictsMetric = promauto.NewCounter(prometheus.CounterOpts{
		Name: "videa_conversation_conflicts_total",
		Help: "Saves rejected because the conversation changed since it was loaded.",
	})
)
