package usecase

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ui-probe/internal/config"
	"ui-probe/internal/entity"
	"ui-probe/internal/metrics"
	"ui-probe/internal/poll"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
	"ui-probe/pkg/tracing"
)

const (
	probeServiceName = "ProbeService"
	probeTracer      = "usecase.probe"
)

type ProbeService struct {
	config   *config.ProbeConfig
	logger   *zap.Logger
	tracer   trace.Tracer
	locator  ports.Locator
	resolver ports.VisibilityResolver
	metrics  *metrics.Metrics
}

type ProbeServiceParams struct {
	fx.In

	Config   *config.Config
	Logger   *zap.Logger
	Locator  ports.Locator
	Resolver ports.VisibilityResolver
	Metrics  *metrics.Metrics `optional:"true"`
}

func NewProbeService(params ProbeServiceParams) *ProbeService {
	return &ProbeService{
		config:   params.Config.ProbeConfig,
		logger:   params.Logger.With(zap.String(logg.Layer, probeServiceName)),
		tracer:   otel.Tracer(probeTracer),
		locator:  params.Locator,
		resolver: params.Resolver,
		metrics:  params.Metrics,
	}
}

// Locate resolves path through frames and shadow roots from root.
func (s *ProbeService) Locate(ctx context.Context, root ports.SearchContext, path entity.SelectorPath, opts entity.LocateOptions) (ports.ElementRef, error) {
	el, err := s.locator.Locate(ctx, root, path, opts)
	s.metrics.ObserveLocate(err)

	return el, err
}

// IsVisible applies the full visibility check under the configured strategy.
func (s *ProbeService) IsVisible(ctx context.Context, root ports.SearchContext, selector string) bool {
	return s.check(ctx, root, selector, s.resolver.Strategy()).Visible
}

// IsVisibleWith is IsVisible with an explicit strategy.
func (s *ProbeService) IsVisibleWith(ctx context.Context, root ports.SearchContext, selector string, strategy entity.Strategy) bool {
	return s.check(ctx, root, selector, strategy).Visible
}

// Check returns the full verdict under the configured strategy.
func (s *ProbeService) Check(ctx context.Context, root ports.SearchContext, selector string) entity.Verdict {
	return s.check(ctx, root, selector, s.resolver.Strategy())
}

func (s *ProbeService) check(ctx context.Context, root ports.SearchContext, selector string, strategy entity.Strategy) entity.Verdict {
	verdict := s.resolver.Check(ctx, root, selector, strategy)
	s.metrics.ObserveVerdict(strategy, verdict)

	return verdict
}

// IsNotObstructed only hit-tests the element's center. Style, size and
// viewport are not checked, so a transparent or scrolled-away element can
// still pass.
func (s *ProbeService) IsNotObstructed(ctx context.Context, root ports.SearchContext, selector string) bool {
	unobstructed := s.resolver.IsNotObstructed(ctx, root, selector)
	s.metrics.ObserveObstruction(unobstructed)

	return unobstructed
}

func (s *ProbeService) policy() poll.Policy {
	return poll.Policy{RetryAll: s.config.RetryAllErrors}
}

// WaitForElement polls for a visible match of selector. A nil element with
// a nil error means the element did not show up within timeout.
func (s *ProbeService) WaitForElement(ctx context.Context, root ports.SearchContext, selector string, timeout time.Duration) (el ports.ElementRef, err error) {
	const op = "WaitForElement"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("selector", selector),
		attribute.Int64("timeout_ms", timeout.Milliseconds()))
	defer func() {
		step.End(err)
	}()

	if root == nil {
		return nil, apperr.InvalidArgumentError(op, "root", errors.New("nil search context"))
	}

	budget := poll.Budget{
		Total:      timeout,
		PerAttempt: s.config.PollAttempt,
		Interval:   s.config.PollInterval,
	}

	el, found, err := poll.Until(ctx, budget, s.policy(),
		func(ctx context.Context, attemptTimeout time.Duration) (ports.ElementRef, error) {
			match, err := root.WaitForMatch(ctx, selector, entity.WaitOptions{
				Timeout: attemptTimeout,
				State:   entity.MatchVisible,
			})
			if err != nil {
				return nil, err
			}

			if match == nil {
				return nil, poll.ErrNotYet
			}

			return match, nil
		},
		s.observe(op, logger))
	if err != nil {
		s.metrics.ObserveWait(op, metrics.OutcomeError)

		return nil, err
	}

	if !found {
		s.metrics.ObserveWait(op, metrics.OutcomeExhausted)
		step.AddEvent("budget exhausted")
		logger.Debug("element did not appear")

		return nil, nil
	}

	s.metrics.ObserveWait(op, metrics.OutcomeFound)

	return el, nil
}

// IsDisabled reports whether selector matches a control carrying the
// disabled attribute within timeout. Absence also reads as false.
func (s *ProbeService) IsDisabled(ctx context.Context, root ports.SearchContext, selector string, timeout time.Duration) bool {
	const op = "IsDisabled"
	logger := s.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op, attribute.String("selector", selector))

	perAttempt := s.config.PollAttempt
	if timeout < perAttempt {
		perAttempt = timeout
	}

	budget := poll.Budget{
		Total:      timeout,
		PerAttempt: perAttempt,
		Interval:   s.config.PollInterval,
	}

	query, checkAttr := disabledQuery(selector)
	path := entity.SelectorPath{query}

	_, disabled, err := poll.Until(ctx, budget, s.policy(),
		func(ctx context.Context, attemptTimeout time.Duration) (ports.ElementRef, error) {
			el, err := s.locator.Locate(ctx, root, path, entity.LocateOptions{SegmentTimeout: attemptTimeout})
			if err != nil || !checkAttr {
				return el, err
			}

			return hasDisabledAttribute(ctx, el)
		},
		s.observe(op, logger))

	step.SetAttributes(attribute.Bool("disabled", disabled))
	step.End(err)

	if err != nil {
		s.metrics.ObserveWait(op, metrics.OutcomeError)
		logger.Debug("disabled check failed", zap.Error(err))

		return false
	}

	if disabled {
		s.metrics.ObserveWait(op, metrics.OutcomeFound)
	} else {
		s.metrics.ObserveWait(op, metrics.OutcomeExhausted)
	}

	return disabled
}

func (s *ProbeService) observe(op string, logger *zap.Logger) poll.Observer {
	return func(attempt int, remaining time.Duration, err error) {
		s.metrics.ObserveRetry(op)
		logger.Debug("attempt failed",
			zap.Int(logg.Attempt, attempt),
			zap.Duration("remaining", remaining),
			zap.Error(err))
	}
}

var enginePrefix = regexp.MustCompile(`^[A-Za-z][\w:-]*=`)

// disabledQuery returns the selector to wait for and whether the match still
// needs its disabled attribute checked. Plain CSS gets the attribute folded
// in; engine selectors (xpath=, text=, role=, >> chains and the like) are
// waited for as given.
func disabledQuery(selector string) (string, bool) {
	trimmed := strings.TrimSpace(selector)

	switch {
	case strings.Contains(trimmed, ">>"),
		strings.HasPrefix(trimmed, "//"),
		strings.HasPrefix(trimmed, ".."),
		strings.HasPrefix(trimmed, `"`),
		strings.HasPrefix(trimmed, "'"),
		enginePrefix.MatchString(trimmed):
		return selector, true
	case strings.Contains(selector, ","):
		return ":is(" + selector + ")[disabled]", false
	default:
		return selector + "[disabled]", false
	}
}

const hasDisabledScript = `el => el.hasAttribute('disabled')`

func hasDisabledAttribute(ctx context.Context, el ports.ElementRef) (ports.ElementRef, error) {
	raw, err := el.Evaluate(ctx, hasDisabledScript, nil)
	if err != nil {
		return nil, err
	}

	if disabled, _ := raw.(bool); !disabled {
		return nil, poll.ErrNotYet
	}

	return el, nil
}
