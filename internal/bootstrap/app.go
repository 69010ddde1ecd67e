package bootstrap

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/fx"

	"ui-probe/internal/browser"
	"ui-probe/internal/config"
	"ui-probe/internal/locator"
	"ui-probe/internal/metrics"
	"ui-probe/internal/ports"
	"ui-probe/internal/usecase"
	"ui-probe/internal/visibility"
)

// Module provides the configured probe stack without starting a browser.
var Module = fx.Options(
	fx.Provide(
		config.GetConfig,
		newLogger,
		newTraceProvider,
		fx.Annotate(
			prometheus.NewRegistry,
			fx.As(new(prometheus.Registerer)),
			fx.As(new(prometheus.Gatherer)),
		),
		metrics.New,

		browser.NewSession,
		sessionPort,
		fx.Annotate(locator.New, fx.As(new(ports.Locator))),
		fx.Annotate(visibility.New, fx.As(new(ports.VisibilityResolver))),

		usecase.NewUsecase,
	),
)

// NewApp builds an application that launches the browser session on start
// and closes it on stop. Callers add their own fx.Invoke to drive pages.
func NewApp(opts ...fx.Option) *fx.App {
	return fx.New(
		Module,

		fx.Invoke(
			manageSession,
		),

		fx.Options(opts...),

		fx.StartTimeout(time.Minute),
	)
}

func sessionPort(session *browser.Session) ports.BrowserSession {
	return session
}
