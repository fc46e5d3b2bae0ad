// Package module wires predictions into the API using modkit
package module

import (
	modkit "weightwise/internal/modkit"
	"weightwise/internal/modkit/httpkit"
	"weightwise/internal/modkit/swaggerkit"

	"weightwise/internal/services/api/predict/domain"
	phttp "weightwise/internal/services/api/predict/http"
	psvc "weightwise/internal/services/api/predict/service"
)

// Module implements the predict API module
type Module struct {
	b   modkit.Built
	svc psvc.Service
}

// Ports exposes readiness to other modules such as meta
type Ports struct {
	Ready domain.ReadinessPort
}

// New constructs the predict module; routes mount at the root unless a prefix is given
// it fails when the attached pipeline cannot explain its predictions
func New(deps modkit.Deps, opts ...modkit.Option) (modkit.Module, error) {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("predict"),
		modkit.WithPrefix(""),
	}, opts...)...)

	s, err := psvc.New(deps.Pipeline)
	if err != nil {
		return nil, err
	}
	swaggerkit.Register(b.Name, phttp.Document)
	if deps.Log != nil && deps.Pipeline != nil {
		deps.Log.Info().Str("module", b.Name).Str("pipeline_id", deps.Pipeline.ID()).Msg("predictions enabled")
	}
	return &Module{b: b, svc: s}, nil
}

// MountRoutes mounts the module routes on the given router
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { phttp.Register(rr, m.svc) })
}

// Name returns the module name
func (m *Module) Name() string { return m.b.Name }

// Ports returns the readiness port
func (m *Module) Ports() any { return Ports{Ready: m.svc} }
