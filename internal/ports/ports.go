package ports

//go:generate mockgen -destination=../mocks/ports_mock.go -package=mocks ui-probe/internal/ports BrowserSession,Locator,VisibilityResolver

import (
	"context"

	"ui-probe/internal/entity"
)

// SearchContext is a document, a frame's document, a shadow root or an
// element that selectors are resolved inside.
type SearchContext interface {
	// WaitForMatch blocks until selector matches inside the context or the
	// wait runs out. Running out is reported as an error wrapping
	// apperr.ErrNoMatch; engine failures are returned as is.
	WaitForMatch(ctx context.Context, selector string, opts entity.WaitOptions) (ElementRef, error)
}

// ElementRef is a borrowed reference to a located node. It goes stale when
// its document navigates or the node is removed; stale use wraps
// apperr.ErrStaleElement.
type ElementRef interface {
	SearchContext

	IsFrame(ctx context.Context) (bool, error)
	// ContentDocument returns nil when the frame has no document attached.
	ContentDocument(ctx context.Context) (SearchContext, error)
	// ShadowRoot returns nil when the element hosts no open shadow root.
	ShadowRoot(ctx context.Context) (SearchContext, error)
	// Evaluate runs script, a function of (element, arg), in the page and
	// returns its serializable result.
	Evaluate(ctx context.Context, script string, arg any) (any, error)

	Click(ctx context.Context) error
	Type(ctx context.Context, text string) error
	Focus(ctx context.Context) error
}

// PageHandle is a live tab owned by the browser session.
type PageHandle interface {
	SearchContext

	Evaluate(ctx context.Context, script string, arg any) (any, error)
	URL() string
}

type BrowserSession interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
	// OpenPage opens a tab owned by the session; closing the session closes it.
	OpenPage(ctx context.Context) (PageHandle, error)
}

type Locator interface {
	Locate(ctx context.Context, root SearchContext, path entity.SelectorPath, opts entity.LocateOptions) (ElementRef, error)
}

type VisibilityResolver interface {
	Check(ctx context.Context, root SearchContext, selector string, strategy entity.Strategy) entity.Verdict
	IsVisible(ctx context.Context, root SearchContext, selector string) bool
	IsNotObstructed(ctx context.Context, root SearchContext, selector string) bool
	Strategy() entity.Strategy
}
