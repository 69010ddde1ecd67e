package visibility

import (
	"context"
	"fmt"
	"time"

	json "github.com/json-iterator/go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ui-probe/internal/config"
	"ui-probe/internal/entity"
	"ui-probe/internal/geometry"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
	"ui-probe/pkg/tracing"
)

const (
	resolverName   = "VisibilityResolver"
	resolverTracer = "core.visibility"
)

// Resolver answers "can a user interact with this element right now". It
// never returns an error: absence and failed evaluation both mean false.
type Resolver struct {
	logger       *zap.Logger
	tracer       trace.Tracer
	queryTimeout time.Duration
	strategy     entity.Strategy
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func New(params Params) *Resolver {
	return &Resolver{
		logger:       params.Logger.With(zap.String(logg.Layer, resolverName)),
		tracer:       otel.Tracer(resolverTracer),
		queryTimeout: params.Config.ProbeConfig.QueryTimeout,
		strategy:     entity.Strategy(params.Config.ProbeConfig.VisibilityStrategy),
	}
}

func (r *Resolver) Strategy() entity.Strategy {
	return r.strategy
}

// IsVisible applies style, size, viewport and occlusion checks using the
// configured strategy.
func (r *Resolver) IsVisible(ctx context.Context, root ports.SearchContext, selector string) bool {
	return r.Check(ctx, root, selector, r.strategy).Visible
}

// IsNotObstructed only checks that the topmost element at the target's
// center is the target or inside it.
func (r *Resolver) IsNotObstructed(ctx context.Context, root ports.SearchContext, selector string) bool {
	const op = "IsNotObstructed"
	logger := r.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, r.tracer, logger, op, attribute.String("selector", selector))

	verdict, err := r.obstruction(ctx, root, selector)
	step.SetAttributes(attribute.Bool("visible", verdict.Visible), attribute.String("reason", string(verdict.Reason)))
	step.End(err)

	logger.Debug("obstruction verdict", zap.Bool("visible", verdict.Visible), zap.String(logg.Reason, string(verdict.Reason)))

	return verdict.Visible
}

// Check returns the full verdict for selector under strategy.
func (r *Resolver) Check(ctx context.Context, root ports.SearchContext, selector string, strategy entity.Strategy) entity.Verdict {
	const op = "Check"
	logger := r.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.Selector, selector),
		zap.String(logg.Strategy, string(strategy)),
	)

	ctx, step := tracing.StartSpan(ctx, r.tracer, logger, op,
		attribute.String("selector", selector),
		attribute.String("strategy", string(strategy)))

	verdict, err := r.check(ctx, root, selector, strategy)
	step.SetAttributes(attribute.Bool("visible", verdict.Visible), attribute.String("reason", string(verdict.Reason)))
	step.End(err)

	logger.Debug("visibility verdict",
		zap.Bool("visible", verdict.Visible),
		zap.String(logg.Reason, string(verdict.Reason)),
		zap.String("blocker", verdict.Blocker))

	return verdict
}

func (r *Resolver) check(ctx context.Context, root ports.SearchContext, selector string, strategy entity.Strategy) (entity.Verdict, error) {
	if !strategy.Valid() {
		return entity.Verdict{Reason: entity.ReasonNotFound}, apperr.InvalidArgumentError("Check", "strategy", fmt.Errorf("unknown strategy %q", strategy))
	}

	el, err := r.find(ctx, root, selector)
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	snap, err := snapshot(ctx, el)
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	if c := geometry.Classify(snap.Rect, snap.Style, snap.Viewport); c.Hidden || c.Offscreen {
		return entity.Verdict{Reason: c.Reason}, nil
	}

	hit, err := hitTest(ctx, el, snap.Rect.Center())
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	return judge(strategy, snap.Style, hit), nil
}

func (r *Resolver) obstruction(ctx context.Context, root ports.SearchContext, selector string) (entity.Verdict, error) {
	el, err := r.find(ctx, root, selector)
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	snap, err := snapshot(ctx, el)
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	hit, err := hitTest(ctx, el, snap.Rect.Center())
	if err != nil {
		return entity.Verdict{Reason: entity.ReasonNotFound}, err
	}

	return judge(entity.StrategyContainment, snap.Style, hit), nil
}

func (r *Resolver) find(ctx context.Context, root ports.SearchContext, selector string) (ports.ElementRef, error) {
	if root == nil {
		return nil, apperr.InvalidArgumentError("find", "root", fmt.Errorf("nil search context"))
	}

	el, err := root.WaitForMatch(ctx, selector, entity.WaitOptions{
		Timeout: r.queryTimeout,
		State:   entity.MatchAttached,
	})
	if err != nil {
		return nil, err
	}

	if el == nil {
		return nil, fmt.Errorf("%q: %w", selector, apperr.ErrNoMatch)
	}

	return el, nil
}

func snapshot(ctx context.Context, el ports.ElementRef) (entity.ElementSnapshot, error) {
	var snap entity.ElementSnapshot

	raw, err := el.Evaluate(ctx, snapshotScript, nil)
	if err != nil {
		return snap, err
	}

	return snap, decode(raw, &snap)
}

func hitTest(ctx context.Context, el ports.ElementRef, center entity.Point) (entity.HitTest, error) {
	var hit entity.HitTest

	raw, err := el.Evaluate(ctx, hitTestScript, map[string]float64{"x": center.X, "y": center.Y})
	if err != nil {
		return hit, err
	}

	return hit, decode(raw, &hit)
}

// decode converts the loosely typed value returned by the page into out.
func decode(raw any, out any) error {
	if raw == nil {
		return fmt.Errorf("page returned no data: %w", apperr.ErrStaleElement)
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return fmt.Errorf("encode page result: %w", err)
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode page result: %w", err)
	}

	return nil
}
