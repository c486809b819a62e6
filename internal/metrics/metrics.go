// Package metrics provides Prometheus metrics for the roadmap builder.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// saveTotal counts background persistence calls.
	// Labels:
	//   - op: insert, update, delete, subscription
	//   - status: success, failed, dropped
	saveTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_saves_total",
			Help: "Total number of persistence calls issued by the saver",
		},
		[]string{"op", "status"},
	)

	// saveDuration records how long each store call took.
	saveDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "roadmap_save_duration_seconds",
			Help:    "Duration of persistence calls in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		},
		[]string{"op"},
	)

	// roadmapsCreatedTotal counts create attempts by outcome.
	// Labels:
	//   - result: created, blocked
	roadmapsCreatedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_create_attempts_total",
			Help: "Total number of roadmap create attempts by outcome",
		},
		[]string{"result"},
	)

	// exportsTotal counts document exports.
	// Labels:
	//   - format: markdown, yaml
	//   - status: success, locked, failed
	exportsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_exports_total",
			Help: "Total number of roadmap document exports",
		},
		[]string{"format", "status"},
	)

	// planUpgradesTotal counts plan changes by target plan.
	planUpgradesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "roadmap_plan_changes_total",
			Help: "Total number of subscription plan changes",
		},
		[]string{"plan"},
	)
)

func init() {
	prometheus.MustRegister(saveTotal)
	prometheus.MustRegister(saveDuration)
	prometheus.MustRegister(roadmapsCreatedTotal)
	prometheus.MustRegister(exportsTotal)
	prometheus.MustRegister(planUpgradesTotal)
}

// RecordSave records the outcome and duration of one persistence call.
func RecordSave(op, status string, d time.Duration) {
	saveTotal.WithLabelValues(op, status).Inc()
	if d > 0 {
		saveDuration.WithLabelValues(op).Observe(d.Seconds())
	}
}

// RecordCreate records a roadmap create attempt. result is created or blocked.
func RecordCreate(result string) {
	roadmapsCreatedTotal.WithLabelValues(result).Inc()
}

// RecordExport records a document export.
func RecordExport(format, status string) {
	exportsTotal.WithLabelValues(format, status).Inc()
}

// RecordPlanChange records a switch to plan.
func RecordPlanChange(plan string) {
	planUpgradesTotal.WithLabelValues(plan).Inc()
}

// Serve exposes the default registry on addr under /metrics until ctx is
// cancelled.
func Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
