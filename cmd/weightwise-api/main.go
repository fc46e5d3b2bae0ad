// Command weightwise-api serves obesity classifications over HTTP
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/sync/errgroup"

	"weightwise/internal/adapters/artifact"
	"weightwise/internal/platform/config"
	"weightwise/internal/platform/logger"
	pnet "weightwise/internal/platform/net"
	phttp "weightwise/internal/platform/net/http"
	"weightwise/internal/platform/net/middleware"

	"weightwise/internal/services/api"
)

func main() {
	root := config.New()
	apiCfg := root.Prefix("CORE_API_")
	artCfg := root.Prefix("CORE_ARTIFACT_")

	l := logger.Get()
	started := time.Now()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// the artifact must load before we listen; a missing model is fatal
	src, err := artifact.FromConfig(artCfg)
	if err != nil {
		l.Fatal().Err(err).Msg("artifact source")
	}
	p, err := artifact.Load(ctx, src, artCfg.MayString("SHA256", ""))
	if rerr := artifact.Release(src); rerr != nil {
		l.Warn().Err(rerr).Msg("artifact source close")
	}
	if err != nil {
		l.Fatal().Err(err).Msg("pipeline load failed")
	}

	pnet.SetExposeTrace(apiCfg.MayBool("EXPOSE_TRACE", false))

	timeout := apiCfg.MayDuration("REQUEST_TIMEOUT", 30*time.Second)
	srv := phttp.NewServer(apiCfg, func(m *chi.Mux) {
		m.Use(middleware.Defaults(timeout)...)
	})

	if err := api.Mount(srv.Router(), api.Options{
		Config:         apiCfg,
		Logger:         l,
		Pipeline:       p,
		Started:        started,
		EnableSwagger:  apiCfg.MayBool("SWAGGER", false),
		EnableProfiler: apiCfg.MayBool("PROFILER", false),
	}); err != nil {
		l.Fatal().Err(err).Msg("api mount failed")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return srv.Run(gctx) })
	g.Go(func() error {
		<-gctx.Done()
		l.Info().Msg("shutdown requested")
		return nil
	})
	if err := g.Wait(); err != nil {
		l.Fatal().Err(err).Msg("http server stopped")
	}
	l.Info().Dur("uptime", time.Since(started)).Msg("shutdown complete")
}
