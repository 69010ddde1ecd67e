package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"ui-probe/internal/config"
	"ui-probe/internal/entity"
	"ui-probe/internal/metrics"
	"ui-probe/internal/mocks"
	"ui-probe/pkg/apperr"
)

func TestProbeUsesConfiguredStrategy(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mocks.NewMockVisibilityResolver(ctrl)
	page := mocks.NewPage()

	resolver.EXPECT().Strategy().Return(entity.StrategyContainment).Times(2)
	resolver.EXPECT().
		Check(gomock.Any(), page, "#cta", entity.StrategyContainment).
		Return(entity.Verdict{Reason: entity.ReasonOccluded, Blocker: "div#modal"}).
		Times(2)
	resolver.EXPECT().
		Check(gomock.Any(), page, "#cta", entity.StrategyStackScan).
		Return(entity.Verdict{Visible: true})
	resolver.EXPECT().IsNotObstructed(gomock.Any(), page, "#cta").Return(false)

	reg := prometheus.NewRegistry()
	p := NewProbeService(ProbeServiceParams{
		Config:   &config.Config{ProbeConfig: &config.ProbeConfig{PollAttempt: time.Second}},
		Logger:   zaptest.NewLogger(t),
		Locator:  mocks.NewMockLocator(ctrl),
		Resolver: resolver,
		Metrics:  metrics.New(reg),
	})

	ctx := context.Background()
	assert.False(t, p.IsVisible(ctx, page, "#cta"))
	assert.Equal(t, "div#modal", p.Check(ctx, page, "#cta").Blocker)
	assert.True(t, p.IsVisibleWith(ctx, page, "#cta", entity.StrategyStackScan))
	assert.False(t, p.IsNotObstructed(ctx, page, "#cta"))

	count, err := testutil.GatherAndCount(reg, "ui_probe_visibility_checks_total")
	assert.NoError(t, err)
	assert.Equal(t, 3, count, "occluded and obstructed under containment, visible under stack scan")
}

func TestProbeCountsLocateOutcomes(t *testing.T) {
	ctrl := gomock.NewController(t)
	locator := mocks.NewMockLocator(ctrl)
	page := mocks.NewPage()
	path := entity.SelectorPath{"#a", "#b"}

	locator.EXPECT().
		Locate(gomock.Any(), page, path, entity.LocateOptions{FrameAnchor: "#f"}).
		Return(nil, apperr.NotFoundError("Locate", path.String(), apperr.ErrNoMatch))

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	p := NewProbeService(ProbeServiceParams{
		Config:   &config.Config{ProbeConfig: &config.ProbeConfig{PollAttempt: time.Second}},
		Logger:   zaptest.NewLogger(t),
		Locator:  locator,
		Resolver: mocks.NewMockVisibilityResolver(ctrl),
		Metrics:  m,
	})

	el, err := p.Locate(context.Background(), page, path, entity.LocateOptions{FrameAnchor: "#f"})
	assert.Nil(t, el)
	assert.True(t, apperr.IsNotFound(err))

	count, err := testutil.GatherAndCount(reg, "ui_probe_locator_locates_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestProbeCountsWaitOutcomes(t *testing.T) {
	page := mocks.NewPage()
	page.AddAfter("#late", 2)

	reg := prometheus.NewRegistry()
	cfg := fastPolling()
	cfg.VisibilityStrategy = config.StrategyStackScan
	p := newProbe(t, cfg)
	p.metrics = metrics.New(reg)

	el, err := p.WaitForElement(context.Background(), page, "#late", time.Second)
	assert.NoError(t, err)
	assert.NotNil(t, el)

	el, err = p.WaitForElement(context.Background(), page, "#never", 30*time.Millisecond)
	assert.NoError(t, err)
	assert.Nil(t, el)

	waits, err := testutil.GatherAndCount(reg, "ui_probe_poll_waits_total")
	assert.NoError(t, err)
	assert.Equal(t, 2, waits, "found and exhausted")

	retries, err := testutil.GatherAndCount(reg, "ui_probe_poll_retries_total")
	assert.NoError(t, err)
	assert.Equal(t, 1, retries)
}
