// Package mocks provides an in-memory document tree implementing the ports
// interfaces, for tests that must not start a browser.
package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ui-probe/internal/entity"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
)

// Wait records one WaitForMatch call.
type Wait struct {
	Context  string
	Selector string
	Options  entity.WaitOptions
}

// Journal collects waits across every node of one fake tree.
type Journal struct {
	mu    sync.Mutex
	waits []Wait
	// BlockOnMiss makes a wait with no match block for its full timeout, the
	// way a real engine does.
	BlockOnMiss bool
}

func (j *Journal) blocks() bool {
	j.mu.Lock()
	defer j.mu.Unlock()

	return j.BlockOnMiss
}

func (j *Journal) record(w Wait) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.waits = append(j.waits, w)
}

func (j *Journal) Waits() []Wait {
	j.mu.Lock()
	defer j.mu.Unlock()

	return append([]Wait(nil), j.waits...)
}

// Scope is a searchable context: a document, a shadow root or an element's
// subtree. Children are keyed by selector.
type Scope struct {
	Name    string
	journal *Journal

	mu       sync.Mutex
	children map[string]*Element
	errs     map[string]error
	// appearAfter makes a child match only from the n-th wait on.
	appearAfter map[string]int
	seen        map[string]int
}

func newScope(name string, j *Journal) *Scope {
	return &Scope{
		Name:        name,
		journal:     j,
		children:    make(map[string]*Element),
		errs:        make(map[string]error),
		appearAfter: make(map[string]int),
		seen:        make(map[string]int),
	}
}

// Add places a new element under selector and returns it.
func (s *Scope) Add(selector string) *Element {
	el := &Element{Scope: newScope(s.Name+" "+selector, s.journal)}

	s.mu.Lock()
	s.children[selector] = el
	s.mu.Unlock()

	return el
}

// AddAfter places an element that only matches from the n-th wait on.
func (s *Scope) AddAfter(selector string, n int) *Element {
	el := s.Add(selector)

	s.mu.Lock()
	s.appearAfter[selector] = n
	s.mu.Unlock()

	return el
}

func (s *Scope) Remove(selector string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.children, selector)
}

// Fail makes waits for selector return err.
func (s *Scope) Fail(selector string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errs[selector] = err
}

func (s *Scope) WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ports.ElementRef, error) {
	s.journal.record(Wait{Context: s.Name, Selector: selector, Options: opts})

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.seen[selector]++
	failure, failing := s.errs[selector]
	el, ok := s.children[selector]
	present := ok && s.seen[selector] >= s.appearAfter[selector]
	s.mu.Unlock()

	if failing {
		return nil, failure
	}

	if !present {
		if s.journal.blocks() {
			block(ctx, opts.Timeout)
		}

		return nil, fmt.Errorf("waiting for %q in %s: %w", selector, s.Name, apperr.ErrNoMatch)
	}

	if el.stale() {
		return nil, fmt.Errorf("waiting for %q: %w", selector, apperr.ErrStaleElement)
	}

	return el, nil
}

func block(ctx context.Context, d time.Duration) {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// EvalFunc answers an Evaluate call.
type EvalFunc func(script string, arg any) (any, error)

// Element is a fake node. Document makes it a frame; Shadow gives it an open
// shadow root; Eval answers in-page scripts.
type Element struct {
	*Scope

	Frame    bool
	Document *Scope
	Shadow   *Scope
	Eval     EvalFunc

	mu      sync.Mutex
	isStale bool
	clicks  int
	typed   []string
	focused bool
}

var _ ports.ElementRef = (*Element)(nil)

// AsFrame turns the element into an iframe with an attached document.
func (e *Element) AsFrame() *Scope {
	e.Frame = true
	e.Document = newScope(e.Name+" #document", e.journal)

	return e.Document
}

// AttachShadow gives the element an open shadow root.
func (e *Element) AttachShadow() *Scope {
	e.Shadow = newScope(e.Name+" #shadow-root", e.journal)

	return e.Shadow
}

// Detach marks the element stale, as if its document navigated.
func (e *Element) Detach() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.isStale = true
}

func (e *Element) stale() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.isStale
}

func (e *Element) staleErr(op string) error {
	if e.stale() {
		return fmt.Errorf("%s on %s: %w", op, e.Name, apperr.ErrStaleElement)
	}

	return nil
}

func (e *Element) WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ports.ElementRef, error) {
	if err := e.staleErr("wait"); err != nil {
		return nil, err
	}

	return e.Scope.WaitForMatch(ctx, selector, opts)
}

func (e *Element) IsFrame(ctx context.Context) (bool, error) {
	if err := e.staleErr("is frame"); err != nil {
		return false, err
	}

	return e.Frame, nil
}

func (e *Element) ContentDocument(ctx context.Context) (ports.SearchContext, error) {
	if err := e.staleErr("content document"); err != nil {
		return nil, err
	}

	if e.Document == nil {
		return nil, nil
	}

	return e.Document, nil
}

func (e *Element) ShadowRoot(ctx context.Context) (ports.SearchContext, error) {
	if err := e.staleErr("shadow root"); err != nil {
		return nil, err
	}

	if e.Shadow == nil {
		return nil, nil
	}

	return e.Shadow, nil
}

func (e *Element) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if err := e.staleErr("evaluate"); err != nil {
		return nil, err
	}

	if e.Eval == nil {
		return nil, fmt.Errorf("no script handler on %s", e.Name)
	}

	return e.Eval(script, arg)
}

func (e *Element) Click(ctx context.Context) error {
	if err := e.staleErr("click"); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.clicks++

	return nil
}

func (e *Element) Type(ctx context.Context, text string) error {
	if err := e.staleErr("type"); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.typed = append(e.typed, text)

	return nil
}

func (e *Element) Focus(ctx context.Context) error {
	if err := e.staleErr("focus"); err != nil {
		return err
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.focused = true

	return nil
}

func (e *Element) Clicks() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.clicks
}

func (e *Element) Typed() []string {
	e.mu.Lock()
	defer e.mu.Unlock()

	return append([]string(nil), e.typed...)
}

func (e *Element) Focused() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.focused
}

// Page is a fake tab.
type Page struct {
	*Scope

	Journal *Journal
	Eval    EvalFunc
	Address string
}

var _ ports.PageHandle = (*Page)(nil)

func NewPage() *Page {
	j := &Journal{}

	return &Page{
		Scope:   newScope("#document", j),
		Journal: j,
		Address: "about:blank",
	}
}

func (p *Page) Evaluate(ctx context.Context, script string, arg any) (any, error) {
	if p.Eval == nil {
		return nil, fmt.Errorf("no page script handler")
	}

	return p.Eval(script, arg)
}

func (p *Page) URL() string {
	return p.Address
}
