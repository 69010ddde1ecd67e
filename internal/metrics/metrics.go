// Package metrics counts probe outcomes. A nil *Metrics is valid and records
// nothing.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"ui-probe/internal/entity"
	"ui-probe/pkg/apperr"
)

const namespace = "ui_probe"

const (
	OutcomeFound     = "found"
	OutcomeExhausted = "exhausted"
	OutcomeError     = "error"

	ReasonObstructed = "obstructed"
)

type Metrics struct {
	visibilityChecks *prometheus.CounterVec
	locates          *prometheus.CounterVec
	waits            *prometheus.CounterVec
	retries          *prometheus.CounterVec
}

func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		visibilityChecks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "visibility",
				Name:      "checks_total",
				Help:      "Visibility verdicts by strategy and reason",
			},
			[]string{"strategy", "reason"},
		),
		locates: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "locator",
				Name:      "locates_total",
				Help:      "Locate calls by outcome",
			},
			[]string{"outcome"},
		),
		waits: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "poll",
				Name:      "waits_total",
				Help:      "Polling waits by operation and outcome",
			},
			[]string{"operation", "outcome"},
		),
		retries: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "poll",
				Name:      "retries_total",
				Help:      "Failed polling attempts by operation",
			},
			[]string{"operation"},
		),
	}
}

func (m *Metrics) ObserveVerdict(strategy entity.Strategy, verdict entity.Verdict) {
	if m == nil {
		return
	}

	reason := string(verdict.Reason)
	if verdict.Visible {
		reason = "visible"
	}

	m.visibilityChecks.WithLabelValues(string(strategy), reason).Inc()
}

// ObserveObstruction counts a bare hit-test under the containment strategy.
// Its verdict carries no reason, so a failure is recorded as "obstructed".
func (m *Metrics) ObserveObstruction(unobstructed bool) {
	if m == nil {
		return
	}

	reason := ReasonObstructed
	if unobstructed {
		reason = "visible"
	}

	m.visibilityChecks.WithLabelValues(string(entity.StrategyContainment), reason).Inc()
}

func (m *Metrics) ObserveLocate(err error) {
	if m == nil {
		return
	}

	m.locates.WithLabelValues(LocateOutcome(err)).Inc()
}

// LocateOutcome buckets a Locate error into a label value.
func LocateOutcome(err error) string {
	switch {
	case err == nil:
		return OutcomeFound
	case apperr.IsNotFound(err):
		return apperr.CodeNotFound
	case apperr.IsDetachedFrame(err):
		return apperr.CodeDetachedFrame
	case apperr.IsInvalidArgument(err):
		return apperr.CodeInvalidArgument
	default:
		return OutcomeError
	}
}

func (m *Metrics) ObserveWait(operation, outcome string) {
	if m == nil {
		return
	}

	m.waits.WithLabelValues(operation, outcome).Inc()
}

func (m *Metrics) ObserveRetry(operation string) {
	if m == nil {
		return
	}

	m.retries.WithLabelValues(operation).Inc()
}
