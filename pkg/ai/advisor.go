package ai

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
)

const (
	componentExtraction = "extraction"
	componentQuestion   = "question"
	componentMatch      = "match"
)

var (
	completionCallsMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videa_ai_completion_calls_total",
		Help: "Completion service calls by component and outcome.",
	}, []string{"component", "provider", "outcome"})
	fallbacksMetric = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "videa_ai_fallbacks_total",
		Help: "Number of times a component degraded to its fallback value.",
	}, []string{"component"})
)

// Advisor wraps the completion service with the three conversation tasks. Every task
// degrades to a fixed fallback instead of returning an error, and none of them retry.
// A nil Completer means no service is configured.
type Advisor struct {
	llm Completer
}

func NewAdvisor(llm Completer) *Advisor {
	return &Advisor{llm: llm}
}

// Available reports whether a completion service is configured.
func (a *Advisor) Available() bool {
	return a != nil && a.llm != nil
}

func (a *Advisor) provider() string {
	if !a.Available() {
		return "none"
	}
	return a.llm.Name()
}

func (a *Advisor) recordCall(component string, err error) {
	outcome := "success"
	if err != nil {
		outcome = "error"
	}
	completionCallsMetric.WithLabelValues(component, a.provider(), outcome).Inc()
}

func recordFallback(logger *log.Entry, component string, err error) {
	fallbacksMetric.WithLabelValues(component).Inc()
	if err != nil {
		logger.WithError(err).Warnf("%s degraded to fallback", component)
	} else {
		logger.Debugf("%s using fallback, no completion service", component)
	}
}
