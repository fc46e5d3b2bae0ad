// Package module wires meta endpoints into the API using a tiny module
package module

import (
	"time"

	"weightwise/internal/core/version"
	modkit "weightwise/internal/modkit"
	"weightwise/internal/modkit/httpkit"
	"weightwise/internal/modkit/swaggerkit"
	pstrings "weightwise/internal/platform/strings"

	metahttp "weightwise/internal/services/api/meta/http"
)

// Ports are the probes meta reports under /ready, keyed by check name
type Ports struct {
	Checks []metahttp.NamedCheck
}

// Module implements the modkit.Module interface
type Module struct {
	b    modkit.Built
	deps metahttp.Deps
}

// New constructs a meta module; readiness checks arrive through modkit.WithPorts(Ports{...})
func New(deps modkit.Deps, opts ...modkit.Option) modkit.Module {
	b := modkit.Build(append([]modkit.Option{
		modkit.WithName("meta"),
		modkit.WithPrefix("/meta"),
	}, opts...)...)

	var injected Ports
	if p, ok := b.Ports.(Ports); ok {
		injected = p
	}

	started := deps.Started
	if started.IsZero() {
		started = time.Now()
	}
	md := metahttp.Deps{
		ServiceName: deps.Cfg.MayString("SERVICE_NAME", version.Service),
		StartedAt:   started,
		Checks:      injected.Checks,
	}
	if deps.Pipeline != nil {
		md.Pipeline = deps.Pipeline
	}
	docPrefix := ""
	if b.Prefix != "" {
		docPrefix = pstrings.MustPrefix(b.Prefix)
	}
	swaggerkit.Register(b.Name, metahttp.Document(docPrefix))
	return &Module{b: b, deps: md}
}

// MountRoutes implements the modkit.Module interface
func (m *Module) MountRoutes(r httpkit.Router) {
	m.b.Mount(r, func(rr httpkit.Router) { metahttp.Register(rr, m.deps) })
}

// Name implements the modkit.Module interface
func (m *Module) Name() string { return m.b.Name }

// Ports implements the modkit.Module interface
func (m *Module) Ports() any { return nil }
