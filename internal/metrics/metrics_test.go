package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"ui-probe/internal/entity"
	"ui-probe/pkg/apperr"
)

func TestObserveVerdict(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveVerdict(entity.StrategyStackScan, entity.Verdict{Visible: true})
	m.ObserveVerdict(entity.StrategyStackScan, entity.Verdict{Reason: entity.ReasonOccluded})
	m.ObserveVerdict(entity.StrategyStackScan, entity.Verdict{Reason: entity.ReasonOccluded})

	assert.Equal(t, 1.0, testutil.ToFloat64(m.visibilityChecks.WithLabelValues("stack_scan", "visible")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.visibilityChecks.WithLabelValues("stack_scan", "occluded-by-higher-element")))
}

func TestObserveObstruction(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveObstruction(true)
	m.ObserveObstruction(false)
	m.ObserveObstruction(false)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.visibilityChecks.WithLabelValues("containment", "visible")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.visibilityChecks.WithLabelValues("containment", ReasonObstructed)))

	var nilMetrics *Metrics
	assert.NotPanics(t, func() { nilMetrics.ObserveObstruction(false) })
}

func TestLocateOutcome(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "found", err: nil, want: OutcomeFound},
		{name: "not found", err: apperr.NotFoundError("Locate", "#a", apperr.ErrNoMatch), want: "not_found"},
		{name: "detached frame", err: apperr.DetachedFrameError("Locate", "#f"), want: "detached_frame"},
		{name: "invalid", err: apperr.InvalidArgumentError("Locate", "path", errors.New("empty")), want: "invalid_argument"},
		{name: "engine", err: errors.New("protocol error"), want: OutcomeError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocateOutcome(tt.err))
		})
	}
}

func TestWaitsAndRetries(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveRetry("WaitForElement")
	m.ObserveRetry("WaitForElement")
	m.ObserveWait("WaitForElement", OutcomeExhausted)
	m.ObserveLocate(nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.retries.WithLabelValues("WaitForElement")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.waits.WithLabelValues("WaitForElement", OutcomeExhausted)))

	count, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	assert.NotPanics(t, func() {
		m.ObserveVerdict(entity.StrategyContainment, entity.Verdict{})
		m.ObserveLocate(nil)
		m.ObserveWait("IsDisabled", OutcomeFound)
		m.ObserveRetry("IsDisabled")
	})
}
