package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/playwright-community/playwright-go"

	"ui-probe/internal/entity"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
)

// Element adapts a playwright element handle to ports.ElementRef. The same
// type covers shadow roots, which playwright also hands out as element
// handles.
type Element struct {
	handle playwright.ElementHandle
}

var _ ports.ElementRef = (*Element)(nil)

func newElement(handle playwright.ElementHandle) *Element {
	return &Element{handle: handle}
}

// Handle exposes the underlying playwright handle.
func (e *Element) Handle() playwright.ElementHandle {
	return e.handle
}

func (e *Element) WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ports.ElementRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle, err := e.handle.WaitForSelector(selector, playwright.ElementHandleWaitForSelectorOptions{
		State:   waitState(opts.State),
		Timeout: timeoutMillis(opts.Timeout),
	})

	return matchResult(handle, err, selector)
}

func (e *Element) IsFrame(ctx context.Context) (bool, error) {
	raw, err := e.Evaluate(ctx, isFrameScript, nil)
	if err != nil {
		return false, err
	}

	frame, _ := raw.(bool)

	return frame, nil
}

func (e *Element) ContentDocument(ctx context.Context) (ports.SearchContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	frame, err := e.handle.ContentFrame()
	if err != nil {
		return nil, translate(err, "content frame")
	}

	if frame == nil {
		return nil, nil
	}

	return &frameScope{frame: frame}, nil
}

func (e *Element) ShadowRoot(ctx context.Context) (ports.SearchContext, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	js, err := e.handle.EvaluateHandle(shadowRootScript)
	if err != nil {
		return nil, translate(err, "shadow root")
	}

	root := js.AsElement()
	if root == nil {
		_ = js.Dispose()
		return nil, nil
	}

	return newElement(root), nil
}

func (e *Element) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := e.handle.Evaluate(script, arg)
	if err != nil {
		return nil, translate(err, "evaluate")
	}

	return raw, nil
}

func (e *Element) Click(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return translate(e.handle.Click(), "click")
}

func (e *Element) Type(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return translate(e.handle.Type(text), "type")
}

func (e *Element) Focus(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return translate(e.handle.Focus(), "focus")
}

// frameScope searches inside an iframe's document.
type frameScope struct {
	frame playwright.Frame
}

func (f *frameScope) WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ports.ElementRef, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	handle, err := f.frame.WaitForSelector(selector, playwright.FrameWaitForSelectorOptions{
		State:   waitState(opts.State),
		Timeout: timeoutMillis(opts.Timeout),
	})

	return matchResult(handle, err, selector)
}

// matchResult turns a playwright wait outcome into the port contract: an
// untyped nil plus ErrNoMatch when nothing matched.
func matchResult(handle playwright.ElementHandle, err error, selector string) (ports.ElementRef, error) {
	if err != nil {
		return nil, translate(err, selector)
	}

	if handle == nil {
		return nil, fmt.Errorf("%q: %w", selector, apperr.ErrNoMatch)
	}

	return newElement(handle), nil
}

// staleMarkers name node-level invalidation only. A closed page, context or
// browser is an engine failure and passes through translate untouched.
var staleMarkers = []string{
	"not attached to the dom",
	"element is detached",
	"jshandle is disposed",
	"execution context was destroyed",
	"frame was detached",
}

func translate(err error, what string) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, playwright.ErrTimeout) {
		return fmt.Errorf("%s: %w: %w", what, apperr.ErrNoMatch, err)
	}

	if isStale(err) {
		return fmt.Errorf("%s: %w: %w", what, apperr.ErrStaleElement, err)
	}

	return err
}

func isStale(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, marker := range staleMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}

	return false
}

func waitState(state entity.MatchState) *playwright.WaitForSelectorState {
	if state == entity.MatchVisible {
		return playwright.WaitForSelectorStateVisible
	}

	return playwright.WaitForSelectorStateAttached
}

// timeoutMillis converts d for playwright, where zero means "wait forever".
// A zero d keeps the engine default; anything positive is at least 1ms.
func timeoutMillis(d time.Duration) *float64 {
	if d <= 0 {
		return nil
	}

	ms := float64(d) / float64(time.Millisecond)
	if ms < 1 {
		ms = 1
	}

	return playwright.Float(ms)
}
