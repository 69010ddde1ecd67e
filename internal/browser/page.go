package browser

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"ui-probe/internal/entity"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
	"ui-probe/pkg/tracing"
)

const xpathPrefix = "xpath="

// Page is one browser tab. It satisfies ports.PageHandle so it can be passed
// to the probe service as a search root, and carries the page-level helpers
// built on top of it.
type Page struct {
	page    playwright.Page
	logger  *zap.Logger
	tracer  trace.Tracer
	timeout time.Duration

	mu       sync.Mutex
	dialogs  []dialogListener
	consoles []consoleListener
	wired    map[string]bool
}

var _ ports.PageHandle = (*Page)(nil)

func newPage(raw playwright.Page, logger *zap.Logger, tracer trace.Tracer, timeoutMs int) *Page {
	p := &Page{
		page:    raw,
		logger:  logger.With(zap.String(logg.Layer, "Page")),
		tracer:  tracer,
		timeout: time.Duration(timeoutMs) * time.Millisecond,
		wired:   make(map[string]bool),
	}

	raw.OnClose(func(playwright.Page) {
		p.closeSubscriptions()
	})

	return p
}

// Raw exposes the underlying playwright page.
func (p *Page) Raw() playwright.Page {
	return p.page
}

func (p *Page) URL() string {
	return p.page.URL()
}

func (p *Page) WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ports.ElementRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle, err := p.page.WaitForSelector(selector, playwright.PageWaitForSelectorOptions{
		State:   waitState(opts.State),
		Timeout: timeoutMillis(opts.Timeout),
	})

	return matchResult(handle, err, selector)
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := p.page.Evaluate(script, arg)
	if err != nil {
		return nil, translate(err, "evaluate")
	}

	return raw, nil
}

// SetContent replaces the document with html.
func (p *Page) SetContent(ctx context.Context, html string) error {
	const op = "SetContent"

	if err := ctx.Err(); err != nil {
		return err
	}

	if err := p.page.SetContent(html); err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "set_content_failed",
			apperr.MetaStage:  apperr.StageNavigation,
		})
	}

	return nil
}

// LoadPage navigates to url and waits for the first successful response.
func (p *Page) LoadPage(ctx context.Context, url string) (err error) {
	const op = "LoadPage"
	logger := p.logger.With(zap.String(logg.Operation, op), zap.String(logg.URL, url))

	ctx, step := tracing.StartSpan(ctx, p.tracer, logger, op, attribute.String("url", url))
	defer func() {
		step.End(err)
	}()

	if err := ctx.Err(); err != nil {
		return err
	}

	_, err = p.page.ExpectResponse(func(r playwright.Response) bool {
		return r.Ok()
	}, func() error {
		_, err := p.page.Goto(url, playwright.PageGotoOptions{
			WaitUntil: playwright.WaitUntilStateDomcontentloaded,
		})
		return err
	}, playwright.PageExpectResponseOptions{Timeout: timeoutMillis(p.timeout)})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason: "navigation_failed",
			apperr.MetaStage:  apperr.StageNavigation,
			apperr.MetaURL:    url,
		})
	}

	logger.Debug("page loaded")

	return nil
}

// ClickAndWaitForNavigation clicks selector and returns once the navigation
// it triggers has settled.
func (p *Page) ClickAndWaitForNavigation(ctx context.Context, selector string) (err error) {
	const op = "ClickAndWaitForNavigation"
	logger := p.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, p.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	el, err := p.find(ctx, op, selector, entity.MatchVisible)
	if err != nil {
		return err
	}

	_, err = p.page.ExpectNavigation(func() error {
		return el.handle.Click()
	}, playwright.PageExpectNavigationOptions{
		Timeout:   timeoutMillis(p.timeout),
		WaitUntil: playwright.WaitUntilStateNetworkidle,
	})
	if err != nil {
		return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
			apperr.MetaReason:   "navigation_failed",
			apperr.MetaStage:    apperr.StageNavigation,
			apperr.MetaSelector: selector,
		})
	}

	return nil
}

// WaitAndClick waits for selector to become visible and clicks it.
func (p *Page) WaitAndClick(ctx context.Context, selector string) (err error) {
	const op = "WaitAndClick"
	logger := p.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, p.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	el, err := p.find(ctx, op, selector, entity.MatchVisible)
	if err != nil {
		return err
	}

	if err := el.Click(ctx); err != nil {
		return interactionError(op, selector, "click_failed", err)
	}

	return nil
}

// TypeText waits for selector and types text into it.
func (p *Page) TypeText(ctx context.Context, selector, text string) (err error) {
	const op = "TypeText"
	logger := p.logger.With(zap.String(logg.Operation, op), zap.String(logg.Selector, selector))

	ctx, step := tracing.StartSpan(ctx, p.tracer, logger, op, attribute.String("selector", selector))
	defer func() {
		step.End(err)
	}()

	el, err := p.find(ctx, op, selector, entity.MatchVisible)
	if err != nil {
		return err
	}

	if err := el.Type(ctx, text); err != nil {
		return interactionError(op, selector, "type_failed", err)
	}

	return nil
}

func (p *Page) TextContent(ctx context.Context, selector string) (string, error) {
	const op = "TextContent"

	return evalString(ctx, p, op, selector, textContentScript, nil)
}

func (p *Page) InputValue(ctx context.Context, selector string) (string, error) {
	const op = "InputValue"

	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return "", err
	}

	value, err := el.handle.InputValue()
	if err != nil {
		return "", interactionError(op, selector, "input_value_failed", translate(err, selector))
	}

	return value, nil
}

// Attribute reports the attribute value and whether it is present at all.
func (p *Page) Attribute(ctx context.Context, selector, name string) (string, bool, error) {
	const op = "Attribute"

	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return "", false, err
	}

	raw, err := el.Evaluate(ctx, attributeScript, name)
	if err != nil {
		return "", false, evaluateError(op, selector, err)
	}

	value, ok := raw.(string)

	return value, ok, nil
}

func (p *Page) InlineStyle(ctx context.Context, selector, property string) (string, error) {
	const op = "InlineStyle"

	return evalString(ctx, p, op, selector, inlineStyleScript, property)
}

func (p *Page) ComputedStyle(ctx context.Context, selector string) (map[string]string, error) {
	const op = "ComputedStyle"

	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return nil, err
	}

	raw, err := el.Evaluate(ctx, computedStyleScript, nil)
	if err != nil {
		return nil, evaluateError(op, selector, err)
	}

	return stringMap(raw), nil
}

// CountElements counts current matches without waiting.
func (p *Page) CountElements(ctx context.Context, selector string) (int, error) {
	const op = "CountElements"

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	handles, err := p.page.QuerySelectorAll(selector)
	if err != nil {
		return 0, evaluateError(op, selector, translate(err, selector))
	}

	for _, h := range handles {
		_ = h.Dispose()
	}

	return len(handles), nil
}

func (p *Page) IsChecked(ctx context.Context, selector string) (bool, error) {
	const op = "IsChecked"

	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return false, err
	}

	checked, err := el.handle.IsChecked()
	if err != nil {
		return false, evaluateError(op, selector, translate(err, selector))
	}

	return checked, nil
}

// ElementByXPath waits up to timeout for the first node matching expr.
func (p *Page) ElementByXPath(ctx context.Context, expr string, timeout time.Duration) (ports.ElementRef, error) {
	const op = "ElementByXPath"

	el, err := p.WaitForMatch(ctx, xpathPrefix+expr, entity.WaitOptions{Timeout: timeout, State: entity.MatchAttached})
	if err != nil {
		if apperr.IsNoMatch(err) {
			return nil, apperr.NotFoundError(op, expr, err)
		}

		return nil, evaluateError(op, expr, err)
	}

	return el, nil
}

func (p *Page) ScrollIntoView(ctx context.Context, selector string) error {
	const op = "ScrollIntoView"

	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return err
	}

	if _, err := el.Evaluate(ctx, scrollIntoViewScript, nil); err != nil {
		return evaluateError(op, selector, err)
	}

	return nil
}

// ScrollToBottom scrolls until the document height stops growing or
// maxScrolls steps were taken, waiting settle after each step for lazy
// content. It returns the number of steps taken.
func (p *Page) ScrollToBottom(ctx context.Context, maxScrolls int, settle time.Duration) (scrolls int, err error) {
	const op = "ScrollToBottom"
	logger := p.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, p.tracer, logger, op, attribute.Int("max_scrolls", maxScrolls))
	defer func() {
		step.SetAttributes(attribute.Int("scrolls", scrolls))
		step.End(err)
	}()

	if maxScrolls <= 0 {
		return 0, apperr.InvalidArgumentError(op, "maxScrolls", fmt.Errorf("must be positive, got %d", maxScrolls))
	}

	for scrolls < maxScrolls {
		before, err := p.Evaluate(ctx, scrollStepScript, nil)
		if err != nil {
			return scrolls, evaluateError(op, "", err)
		}
		scrolls++

		if err := pause(ctx, settle); err != nil {
			return scrolls, err
		}

		after, err := p.Evaluate(ctx, scrollHeightScript, nil)
		if err != nil {
			return scrolls, evaluateError(op, "", err)
		}

		if toFloat(after) <= toFloat(before) {
			break
		}
	}

	logger.Debug("scrolled", zap.Int("scrolls", scrolls))

	return scrolls, nil
}

// Close releases subscriptions and closes the tab.
func (p *Page) Close(ctx context.Context) error {
	const op = "ClosePage"

	p.closeSubscriptions()

	if err := ctx.Err(); err != nil {
		return err
	}

	if p.page.IsClosed() {
		return nil
	}

	if err := p.page.Close(); err != nil {
		return apperr.WrapWithReason(op, apperr.CodeInternal, err, "page_close_failed")
	}

	return nil
}

// find waits for selector with the page's default timeout.
func (p *Page) find(ctx context.Context, op, selector string, state entity.MatchState) (*Element, error) {
	ref, err := p.WaitForMatch(ctx, selector, entity.WaitOptions{Timeout: p.timeout, State: state})
	if err != nil {
		if apperr.IsNoMatch(err) {
			return nil, apperr.NotFoundError(op, selector, err)
		}

		return nil, evaluateError(op, selector, err)
	}

	return ref.(*Element), nil
}

func evalString(ctx context.Context, p *Page, op, selector, script string, arg any) (string, error) {
	el, err := p.find(ctx, op, selector, entity.MatchAttached)
	if err != nil {
		return "", err
	}

	raw, err := el.Evaluate(ctx, script, arg)
	if err != nil {
		return "", evaluateError(op, selector, err)
	}

	value, _ := raw.(string)

	return value, nil
}

func interactionError(op, selector, reason string, err error) error {
	return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
		apperr.MetaReason:   reason,
		apperr.MetaStage:    apperr.StageInteraction,
		apperr.MetaSelector: selector,
	})
}

func evaluateError(op, selector string, err error) error {
	return apperr.Wrap(op, apperr.CodeActionFailed, err, map[string]any{
		apperr.MetaReason:   "evaluate_failed",
		apperr.MetaStage:    apperr.StageEvaluate,
		apperr.MetaSelector: selector,
	})
}

func pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
