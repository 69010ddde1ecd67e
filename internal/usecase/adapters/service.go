package adapters

import (
	"context"
	"time"

	"ui-probe/internal/entity"
	"ui-probe/internal/ports"
)

// ProbeService is the query surface scenario code uses against a live page.
type ProbeService interface {
	Locate(ctx context.Context, root ports.SearchContext, path entity.SelectorPath, opts entity.LocateOptions) (ports.ElementRef, error)
	IsVisible(ctx context.Context, root ports.SearchContext, selector string) bool
	IsVisibleWith(ctx context.Context, root ports.SearchContext, selector string, strategy entity.Strategy) bool
	Check(ctx context.Context, root ports.SearchContext, selector string) entity.Verdict
	IsNotObstructed(ctx context.Context, root ports.SearchContext, selector string) bool
	WaitForElement(ctx context.Context, root ports.SearchContext, selector string, timeout time.Duration) (ports.ElementRef, error)
	IsDisabled(ctx context.Context, root ports.SearchContext, selector string, timeout time.Duration) bool
}

// BrowserService owns the browser lifecycle and hands out pages to probe.
type BrowserService interface {
	Launch(ctx context.Context) error
	Close(ctx context.Context) error
	IsReady() bool
	OpenPage(ctx context.Context) (ports.PageHandle, error)
}
