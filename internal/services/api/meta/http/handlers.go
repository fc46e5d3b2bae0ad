// Package http provides meta endpoints
package http

import (
	"net/http"
	"time"

	"weightwise/internal/core/pipeline"
	"weightwise/internal/core/version"
	"weightwise/internal/modkit/httpkit"
	perr "weightwise/internal/platform/errors"
	ptime "weightwise/internal/platform/time"
)

// Readier is satisfied by ports that can tell whether they serve traffic
type Readier interface {
	Ready() error
}

// Describer is satisfied by a loaded pipeline
type Describer interface {
	Describe() pipeline.Description
}

// Deps are the handler dependencies
type Deps struct {
	ServiceName string
	StartedAt   time.Time
	// Checks are named readiness probes, reported in order
	Checks []NamedCheck
	// Pipeline may be nil when no artifact is attached
	Pipeline Describer
}

// NamedCheck pairs a readiness probe with the name it is reported under
type NamedCheck struct {
	Name  string
	Check Readier
}

type handlers struct {
	deps Deps
	now  func() time.Time
}

// Register mounts the meta routes
func Register(r httpkit.Router, d Deps) {
	h := &handlers{deps: d, now: time.Now}

	httpkit.Get(r, "/health", h.health)
	httpkit.Get(r, "/ready", h.ready)
	httpkit.Get(r, "/version", h.version)
	httpkit.Get(r, "/service", h.service)
	httpkit.Get(r, "/pipeline", h.pipeline)
}

// HealthResponse is the health payload
type HealthResponse struct {
	OK      bool   `json:"ok"      example:"true"`
	Service string `json:"service" example:"weightwise-api"`
	Started string `json:"started" example:"2025-11-04T13:00:00Z"`
	Now     string `json:"now"     example:"2025-11-04T13:05:00Z"`
}

// ReadyCheck describes a single dependency check
type ReadyCheck struct {
	Name   string `json:"name"            example:"pipeline"`
	Status string `json:"status"          example:"ok"` // ok fail skipped
	Error  string `json:"error,omitempty" example:"model pipeline not loaded"`
}

// ReadyResponse summarizes readiness
type ReadyResponse struct {
	Status string       `json:"status" example:"ok"` // ok fail
	Checks []ReadyCheck `json:"checks"`
	Now    string       `json:"now"    example:"2025-11-04T13:05:00Z"`
}

// ServiceResponse describes service info
type ServiceResponse struct {
	Name    string `json:"name"    example:"weightwise-api"`
	Started string `json:"started" example:"2025-11-04T13:00:00Z"`
	Uptime  int64  `json:"uptime"  example:"300"`
}

// GET /meta/health
func (h *handlers) health(_ *http.Request) (any, error) {
	return HealthResponse{
		OK:      true,
		Service: h.deps.ServiceName,
		Started: ptime.Stamp(h.deps.StartedAt),
		Now:     ptime.Stamp(h.now()),
	}, nil
}

// GET /meta/ready answers 503 while any check fails
func (h *handlers) ready(_ *http.Request) (any, error) {
	out := ReadyResponse{
		Status: "ok",
		Checks: make([]ReadyCheck, 0, len(h.deps.Checks)),
		Now:    ptime.Stamp(h.now()),
	}
	for _, c := range h.deps.Checks {
		rc := ReadyCheck{Name: c.Name, Status: "ok"}
		if c.Check == nil {
			rc.Status = "skipped"
		} else if err := c.Check.Ready(); err != nil {
			rc.Status, rc.Error = "fail", err.Error()
			out.Status = "fail"
		}
		out.Checks = append(out.Checks, rc)
	}
	if out.Status != "ok" {
		return httpkit.Response{Status: http.StatusServiceUnavailable, Body: out}, nil
	}
	return out, nil
}

// GET /meta/version
func (h *handlers) version(_ *http.Request) (any, error) {
	return version.Info(), nil
}

// GET /meta/service
func (h *handlers) service(_ *http.Request) (any, error) {
	return ServiceResponse{
		Name:    h.deps.ServiceName,
		Started: ptime.Stamp(h.deps.StartedAt),
		Uptime:  ptime.Seconds(h.deps.StartedAt, h.now()),
	}, nil
}

// GET /meta/pipeline reports the artifact identity, stage list and estimator
func (h *handlers) pipeline(_ *http.Request) (any, error) {
	if h.deps.Pipeline == nil {
		return nil, perr.Unavailablef("no pipeline loaded")
	}
	return h.deps.Pipeline.Describe(), nil
}
