package locator

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"ui-probe/internal/config"
	"ui-probe/internal/entity"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
	"ui-probe/pkg/tracing"
)

const (
	locatorName   = "TreeLocator"
	locatorTracer = "core.locator"
)

// Locator resolves selector paths across frame and shadow-root boundaries.
type Locator struct {
	logger         *zap.Logger
	tracer         trace.Tracer
	segmentTimeout time.Duration
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func New(params Params) *Locator {
	return &Locator{
		logger:         params.Logger.With(zap.String(logg.Layer, locatorName)),
		tracer:         otel.Tracer(locatorTracer),
		segmentTimeout: params.Config.ProbeConfig.SegmentTimeout,
	}
}

var _ ports.Locator = (*Locator)(nil)

// Locate resolves path inside root, starting from the anchor's document when
// opts.FrameAnchor is set. Either the whole path resolves or an error naming
// the deepest segment attempted is returned.
func (l *Locator) Locate(ctx context.Context, root ports.SearchContext, path entity.SelectorPath, opts entity.LocateOptions) (el ports.ElementRef, err error) {
	const op = "Locate"
	logger := l.logger.With(
		zap.String(logg.Operation, op),
		zap.String(logg.Path, path.String()),
		zap.String(logg.Frame, opts.FrameAnchor),
	)

	ctx, step := tracing.StartSpan(ctx, l.tracer, logger, op,
		attribute.String("path", path.String()),
		attribute.String("frame_anchor", opts.FrameAnchor))
	defer func() {
		step.End(err)
	}()

	if len(path) == 0 {
		return nil, apperr.InvalidArgumentError(op, "path", errors.New("empty selector path"))
	}

	if root == nil {
		return nil, apperr.InvalidArgumentError(op, "root", errors.New("nil search context"))
	}

	wait := entity.WaitOptions{
		Timeout: opts.SegmentTimeout,
		State:   entity.MatchAttached,
	}
	if wait.Timeout == 0 {
		wait.Timeout = l.segmentTimeout
	}

	scope := root

	if opts.FrameAnchor != "" {
		step.AddEvent("resolving frame anchor")

		scope, err = l.enterAnchor(ctx, root, opts.FrameAnchor, wait)
		if err != nil {
			return nil, err
		}
	}

	for i, segment := range path {
		soFar := path.Prefix(i).String()

		el, err = scope.WaitForMatch(ctx, segment, wait)
		if err != nil {
			if apperr.IsNoMatch(err) {
				return nil, apperr.NotFoundError(op, soFar, err)
			}

			return nil, err
		}

		if el == nil {
			return nil, apperr.NotFoundError(op, soFar, apperr.ErrNoMatch)
		}

		step.AddEvent("segment resolved", attribute.Int("index", i), attribute.String("selector", segment))

		if i == len(path)-1 {
			break
		}

		scope, err = innerScope(ctx, el)
		if err != nil {
			if apperr.IsNoMatch(err) {
				return nil, apperr.NotFoundError(op, soFar, err)
			}

			return nil, err
		}
	}

	logger.Debug("path resolved")

	return el, nil
}

// enterAnchor waits for the anchor and returns the context the first segment
// is resolved in: a frame's content document, otherwise the anchor's shadow
// root or the anchor itself.
func (l *Locator) enterAnchor(ctx context.Context, root ports.SearchContext, anchor string, wait entity.WaitOptions) (ports.SearchContext, error) {
	const op = "Locate"

	host, err := root.WaitForMatch(ctx, anchor, wait)
	if err != nil {
		if apperr.IsNoMatch(err) {
			return nil, apperr.NotFoundError(op, anchor, err)
		}

		return nil, err
	}

	if host == nil {
		return nil, apperr.NotFoundError(op, anchor, apperr.ErrNoMatch)
	}

	isFrame, err := host.IsFrame(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrStaleElement) {
			return nil, apperr.NotFoundError(op, anchor, err)
		}

		return nil, err
	}

	if !isFrame {
		return innerScope(ctx, host)
	}

	doc, err := host.ContentDocument(ctx)
	if err != nil {
		if errors.Is(err, apperr.ErrStaleElement) {
			return nil, apperr.NotFoundError(op, anchor, err)
		}

		return nil, err
	}

	if doc == nil {
		return nil, apperr.DetachedFrameError(op, anchor)
	}

	return doc, nil
}

// innerScope is the element's shadow root when it has one, else the element.
func innerScope(ctx context.Context, el ports.ElementRef) (ports.SearchContext, error) {
	shadow, err := el.ShadowRoot(ctx)
	if err != nil {
		return nil, err
	}

	if shadow != nil {
		return shadow, nil
	}

	return el, nil
}
