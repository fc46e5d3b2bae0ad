// Package api provides the HTTP API for the application
package api

import (
	"time"

	"weightwise/internal/core/pipeline"
	"weightwise/internal/core/version"
	"weightwise/internal/platform/config"
	"weightwise/internal/platform/logger"
	phttp "weightwise/internal/platform/net/http"

	"weightwise/internal/modkit"
	"weightwise/internal/modkit/httpkit"
	"weightwise/internal/modkit/swaggerkit"

	metahttp "weightwise/internal/services/api/meta/http"
	metamod "weightwise/internal/services/api/meta/module"
	predictdom "weightwise/internal/services/api/predict/domain"
	predictmod "weightwise/internal/services/api/predict/module"
)

// Options are the API options
type Options struct {
	Config config.Conf
	Logger *logger.Logger
	// Pipeline is the loaded model; nil leaves the API up but not ready
	Pipeline       *pipeline.Pipeline
	Started        time.Time
	EnableSwagger  bool
	EnableProfiler bool
}

// Mount mounts the API service onto the given router
// it must run before any other route is registered on r
func Mount(r phttp.Router, opt Options) error {
	log := opt.Logger
	if log == nil {
		log = logger.Named("api")
	}
	deps := modkit.Deps{
		Log:      log,
		Cfg:      opt.Config,
		Pipeline: opt.Pipeline,
		Started:  opt.Started,
	}

	predict, err := predictmod.New(deps)
	if err != nil {
		return err
	}
	ready := modkit.MustPortsOf[predictdom.ReadinessPort](predict)

	meta := metamod.New(deps, modkit.WithPorts(metamod.Ports{Checks: []metahttp.NamedCheck{
		{Name: "pipeline", Check: ready},
	}}))

	r.Use(httpkit.CommonStack(opt.Config)...)
	httpkit.Fallbacks(r)

	swaggerkit.Mount(r, opt.EnableSwagger, swaggerkit.Info{Title: "weightwise API", Version: version.Info().Version})
	phttp.MountProfiler(r, "/debug", opt.EnableProfiler)

	for _, m := range []modkit.Module{predict, meta} {
		m.MountRoutes(r)
		log.Debug().Str("module", m.Name()).Msg("module mounted")
	}
	return nil
}
