package browser

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/playwright-community/playwright-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"ui-probe/internal/config"
	"ui-probe/internal/ports"
	"ui-probe/pkg/apperr"
	"ui-probe/pkg/logg"
	"ui-probe/pkg/tracing"
)

const (
	sessionName   = "BrowserSession"
	browserTracer = "browser.session"
)

// Session owns one playwright driver, browser and context. Pages it hands
// out are single-owner: callers must not drive one page from two goroutines.
type Session struct {
	id     uuid.UUID
	config *config.Config
	logger *zap.Logger
	tracer trace.Tracer

	mu             sync.Mutex
	playwright     *playwright.Playwright
	browser        playwright.Browser
	browserContext playwright.BrowserContext
	pages          []*Page
	ready          bool
}

type Params struct {
	fx.In

	Config *config.Config
	Logger *zap.Logger
}

func NewSession(params Params) *Session {
	id := uuid.New()

	return &Session{
		id:     id,
		config: params.Config,
		logger: params.Logger.With(zap.String(logg.Layer, sessionName), zap.String(logg.SessionID, id.String())),
		tracer: otel.Tracer(browserTracer),
	}
}

var _ ports.BrowserSession = (*Session)(nil)

func (s *Session) ID() uuid.UUID {
	return s.id
}

func (s *Session) Launch(ctx context.Context) (err error) {
	const op = "Launch"
	logger := s.logger.With(zap.String(logg.Operation, op))

	bc := s.config.BrowserConfig

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op,
		attribute.String("engine", bc.Engine),
		attribute.Bool("headless", bc.Headless))
	defer func() {
		step.End(err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.ready {
		return nil
	}

	if bc.Install {
		step.AddEvent("installing playwright")

		if err := playwright.Install(&playwright.RunOptions{Browsers: []string{bc.Engine}}); err != nil {
			return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
				apperr.MetaReason: "playwright_install_failed",
				apperr.MetaStage:  apperr.StageBrowser,
			})
		}
	}

	step.AddEvent("starting playwright")

	pw, err := playwright.Run()
	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "playwright_start_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}
	s.playwright = pw

	browser, err := s.browserType().Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(bc.Headless),
		SlowMo:   playwright.Float(float64(bc.SlowMo)),
	})
	if err != nil {
		return multierr.Append(apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "browser_launch_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		}), s.teardown())
	}
	s.browser = browser

	contextOptions := playwright.BrowserNewContextOptions{
		Viewport: &playwright.Size{
			Width:  bc.ViewportWidth,
			Height: bc.ViewportHeight,
		},
		IgnoreHttpsErrors: playwright.Bool(bc.IgnoreHTTPSErrors),
		JavaScriptEnabled: playwright.Bool(true),
	}
	if bc.UserAgent != "" {
		contextOptions.UserAgent = playwright.String(bc.UserAgent)
	}

	browserContext, err := browser.NewContext(contextOptions)
	if err != nil {
		return multierr.Append(apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "context_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		}), s.teardown())
	}

	browserContext.SetDefaultTimeout(float64(bc.Timeout))
	browserContext.SetDefaultNavigationTimeout(float64(bc.Timeout))
	s.browserContext = browserContext

	s.ready = true
	logger.Info("Browser launched")

	return nil
}

func (s *Session) browserType() playwright.BrowserType {
	switch s.config.BrowserConfig.Engine {
	case config.EngineFirefox:
		return s.playwright.Firefox
	case config.EngineWebkit:
		return s.playwright.WebKit
	default:
		return s.playwright.Chromium
	}
}

// NewPage opens a tab in the session's browser context.
func (s *Session) NewPage(ctx context.Context) (page *Page, err error) {
	const op = "NewPage"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.ready {
		return nil, apperr.WrapErrorWithReason(op, apperr.CodeBrowserNotReady, "browser_not_ready")
	}

	raw, err := s.browserContext.NewPage()
	if err != nil {
		return nil, apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "page_create_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	page = newPage(raw, s.logger, s.tracer, s.config.BrowserConfig.Timeout)
	s.pages = append(s.pages, page)

	return page, nil
}

// OpenPage is NewPage behind the ports.PageHandle contract. The handle is a
// *Page, so the page helpers stay reachable through a type assertion.
func (s *Session) OpenPage(ctx context.Context) (ports.PageHandle, error) {
	page, err := s.NewPage(ctx)
	if err != nil {
		return nil, err
	}

	return page, nil
}

func (s *Session) Close(ctx context.Context) (err error) {
	const op = "Close"
	logger := s.logger.With(zap.String(logg.Operation, op))

	ctx, step := tracing.StartSpan(ctx, s.tracer, logger, op)
	defer func() {
		step.End(err)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, page := range s.pages {
		err = multierr.Append(err, page.Close(ctx))
	}
	s.pages = nil

	err = multierr.Append(err, s.teardown())
	s.ready = false

	if err != nil {
		return apperr.Wrap(op, apperr.CodeInternal, err, map[string]any{
			apperr.MetaReason: "close_failed",
			apperr.MetaStage:  apperr.StageBrowser,
		})
	}

	logger.Info("Browser closed")

	return nil
}

// teardown releases whatever Launch managed to start. Callers hold s.mu.
func (s *Session) teardown() (err error) {
	if s.browserContext != nil {
		err = multierr.Append(err, s.browserContext.Close())
		s.browserContext = nil
	}

	if s.browser != nil {
		err = multierr.Append(err, s.browser.Close())
		s.browser = nil
	}

	if s.playwright != nil {
		err = multierr.Append(err, s.playwright.Stop())
		s.playwright = nil
	}

	return err
}

func (s *Session) IsReady() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.ready
}
