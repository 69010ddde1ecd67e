package usecase

import (
	"ui-probe/internal/config"
	"ui-probe/internal/metrics"
	"ui-probe/internal/ports"
	"ui-probe/internal/usecase/adapters"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Service struct {
	Probe   adapters.ProbeService
	Browser adapters.BrowserService
}

type Params struct {
	fx.In

	Logger   *zap.Logger
	Config   *config.Config
	Browser  ports.BrowserSession
	Locator  ports.Locator
	Resolver ports.VisibilityResolver
	Metrics  *metrics.Metrics `optional:"true"`
}

func NewUsecase(params Params) *Service {
	factory := newServiceFactory(params)

	return &Service{
		Probe:   factory.CreateProbeService(),
		Browser: factory.CreateBrowserService(),
	}
}
