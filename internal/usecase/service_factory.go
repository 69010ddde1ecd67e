package usecase

import (
	"ui-probe/internal/usecase/adapters"
)

type serviceFactory struct {
	deps Params
}

func newServiceFactory(deps Params) *serviceFactory {
	return &serviceFactory{
		deps: deps,
	}
}

func (f *serviceFactory) CreateProbeService() adapters.ProbeService {
	return NewProbeService(ProbeServiceParams{
		Config:   f.deps.Config,
		Logger:   f.deps.Logger,
		Locator:  f.deps.Locator,
		Resolver: f.deps.Resolver,
		Metrics:  f.deps.Metrics,
	})
}

func (f *serviceFactory) CreateBrowserService() adapters.BrowserService {
	return f.deps.Browser
}
