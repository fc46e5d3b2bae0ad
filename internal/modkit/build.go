package modkit

import (
	"net/http"

	"weightwise/internal/modkit/httpkit"
	pstrings "weightwise/internal/platform/strings"
)

// Built is the resolved option set a module keeps
type Built struct {
	Name     string
	Prefix   string
	Mw       []func(http.Handler) http.Handler
	Ports    any
	Register func(httpkit.Router)
}

// Build applies options over defaults
func Build(opts ...Option) Built {
	var c buildCfg
	for _, o := range opts {
		o(&c)
	}
	if c.register == nil {
		c.register = func(httpkit.Router) {}
	}
	return Built{
		Name:     c.name,
		Prefix:   c.prefix,
		Mw:       append([]func(http.Handler) http.Handler(nil), c.mw...),
		Ports:    c.ports,
		Register: c.register,
	}
}

// Mount runs own and then the Register hook on a router scoped to Prefix with Mw applied
// an empty prefix mounts inline so routes such as "/" stay at the root
func (b Built) Mount(r httpkit.Router, own func(httpkit.Router)) {
	mount := func(rr httpkit.Router) {
		if len(b.Mw) > 0 {
			rr.Use(b.Mw...)
		}
		own(rr)
		b.Register(rr)
	}
	if b.Prefix == "" {
		r.Group(mount)
		return
	}
	r.Route(pstrings.MustPrefix(b.Prefix), mount)
}
