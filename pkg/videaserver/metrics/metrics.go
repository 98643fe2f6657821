// Package metrics holds the server's prometheus instrumentation.
package metrics

import (
	"context"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	log "github.com/sirupsen/logrus"
	httpmetrics "github.com/slok/go-http-metrics/metrics/prometheus"
	"github.com/slok/go-http-metrics/middleware"
	middlewarestd "github.com/slok/go-http-metrics/middleware/std"

	intakev1 "github.com/openshift/videa/pkg/apis/intake/v1"
	"github.com/openshift/videa/pkg/db"
	"github.com/openshift/videa/pkg/db/query"
)

var (
	conversationsByStatusMetric = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "videa_conversations",
		Help: "Stored conversations by status.",
	}, []string{"status"})

	// The recorder registers with the default registry, so there is one per process.
	httpMiddleware = middleware.New(middleware.Config{
		Recorder: httpmetrics.NewRecorder(httpmetrics.Config{Prefix: "videa"}),
	})
)

// Instrument wraps a handler with request count, duration and size metrics labelled by
// handlerID, which should be the route template rather than the concrete path.
func Instrument(handlerID string, h http.Handler) http.Handler {
	return middlewarestd.Handler(handlerID, httpMiddleware, h)
}

// RefreshMetricsDB updates the gauges that are computed from the database.
func RefreshMetricsDB(ctx context.Context, dbc *db.DB) error {
	counts, err := query.CountConversationsByStatus(ctx, dbc)
	if err != nil {
		return err
	}
	for _, status := range []intakev1.ConversationStatus{
		intakev1.StatusActive,
		intakev1.StatusRecommendationMade,
		intakev1.StatusCompleted,
	} {
		conversationsByStatusMetric.WithLabelValues(string(status)).Set(float64(counts[string(status)]))
	}
	log.WithField("counts", counts).Debug("refreshed conversation metrics")
	return nil
}
